package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vending-api/internal/application/dto"
	"github.com/jhoicas/Vending-api/internal/application/usecase"
	"github.com/jhoicas/Vending-api/internal/domain"
)

// FleetHandler maneja el CRUD de operarios de ruta y máquinas (protegido).
type FleetHandler struct {
	uc *usecase.FleetUseCase
}

// NewFleetHandler construye el handler.
func NewFleetHandler(uc *usecase.FleetUseCase) *FleetHandler {
	return &FleetHandler{uc: uc}
}

// CreateOperator godoc
// @Summary      Crear operario de ruta
// @Tags         fleet
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOperatorRequest  true  "name"
// @Success      201   {object}  dto.OperatorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/operators [post]
func (h *FleetHandler) CreateOperator(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateOperatorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
	}
	out, err := h.uc.CreateOperator(orgID, in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetOperator godoc
// @Summary      Obtener operario por ID
// @Tags         fleet
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del operario"
// @Success      200  {object}  dto.OperatorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operators/{id} [get]
func (h *FleetHandler) GetOperator(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.GetOperator(orgID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "operario no encontrado"})
	}
	return c.JSON(out)
}

// UpdateOperator godoc
// @Summary      Actualizar operario
// @Tags         fleet
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del operario"
// @Param        body  body  dto.UpdateOperatorRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.OperatorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/operators/{id} [put]
func (h *FleetHandler) UpdateOperator(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateOperatorRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateOperator(orgID, c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "operario no encontrado"})
	}
	return c.JSON(out)
}

// ListOperators godoc
// @Summary      Listar operarios
// @Tags         fleet
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.OperatorListResponse
// @Router       /api/operators [get]
func (h *FleetHandler) ListOperators(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pageParams(c)
	out, err := h.uc.ListOperators(orgID, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// ListOperatorMachines godoc
// @Summary      Listar las máquinas asignadas a un operario
// @Tags         fleet
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del operario"
// @Success      200  {array}   dto.MachineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operators/{id}/machines [get]
func (h *FleetHandler) ListOperatorMachines(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.ListMachinesByOperator(orgID, c.Params("id"))
	if err != nil {
		if err == domain.ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "operario no encontrado"})
		}
		return domainError(c, err)
	}
	return c.JSON(out)
}

// CreateMachine godoc
// @Summary      Crear máquina expendedora
// @Tags         fleet
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMachineRequest  true  "serial, name"
// @Success      201   {object}  dto.MachineResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/machines [post]
func (h *FleetHandler) CreateMachine(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateMachineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Serial == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "serial y name son requeridos"})
	}
	out, err := h.uc.CreateMachine(orgID, in)
	if err != nil {
		if err == domain.ErrDuplicate {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "la serie ya existe en esta organización"})
		}
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetMachine godoc
// @Summary      Obtener máquina por ID
// @Tags         fleet
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la máquina"
// @Success      200  {object}  dto.MachineResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/machines/{id} [get]
func (h *FleetHandler) GetMachine(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.GetMachine(orgID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "máquina no encontrada"})
	}
	return c.JSON(out)
}

// UpdateMachine godoc
// @Summary      Actualizar máquina (incluida la reasignación de operario)
// @Tags         fleet
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la máquina"
// @Param        body  body  dto.UpdateMachineRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.MachineResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/machines/{id} [put]
func (h *FleetHandler) UpdateMachine(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.UpdateMachineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateMachine(orgID, c.Params("id"), in)
	if err != nil {
		return domainError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "máquina no encontrada"})
	}
	return c.JSON(out)
}

// ListMachines godoc
// @Summary      Listar máquinas
// @Tags         fleet
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.MachineListResponse
// @Router       /api/machines [get]
func (h *FleetHandler) ListMachines(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pageParams(c)
	out, err := h.uc.ListMachines(orgID, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(out)
}

// pageParams lee limit/offset con los topes de la casa.
func pageParams(c *fiber.Ctx) (int, int) {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
