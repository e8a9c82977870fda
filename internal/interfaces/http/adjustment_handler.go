package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vending-api/internal/application/dto"
	appinv "github.com/jhoicas/Vending-api/internal/application/inventory"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
)

// AdjustmentHandler maneja el flujo de ajustes de conteo físico (protegido).
// Aprobar, rechazar y aplicar requieren rol admin (se impone en el router).
type AdjustmentHandler struct {
	uc *appinv.AdjustmentUseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *appinv.AdjustmentUseCase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

// Request godoc
// @Summary      Solicitar un ajuste de saldo por conteo físico
// @Description  Captura el saldo vivo como cantidad anterior. Con
//
//	requires_approval=false el ajuste se aplica en la misma transacción.
//
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RequestAdjustmentRequest  true  "nomenclature_id, level, new_quantity, reason"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *AdjustmentHandler) Request(c *fiber.Ctx) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RequestAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es requerido"})
	}
	adj, err := h.uc.Request(c.Context(), appinv.RequestAdjustmentInput{
		OrgID:            orgID,
		NomenclatureID:   in.NomenclatureID,
		Level:            entity.Level(in.Level),
		LevelRefID:       in.LevelRefID,
		NewQuantity:      in.NewQuantity,
		Reason:           in.Reason,
		RequiresApproval: in.RequiresApproval,
		ActorID:          userID,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAdjustmentResponse(adj))
}

// Approve godoc
// @Summary      Aprobar un ajuste pendiente
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/approve [post]
func (h *AdjustmentHandler) Approve(c *fiber.Ctx) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	adj, err := h.uc.Approve(c.Context(), orgID, c.Params("id"), userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toAdjustmentResponse(adj))
}

// Reject godoc
// @Summary      Rechazar un ajuste pendiente
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ajuste"
// @Param        body  body  dto.RejectAdjustmentRequest  true  "reason"
// @Success      200   {object}  dto.AdjustmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/reject [post]
func (h *AdjustmentHandler) Reject(c *fiber.Ctx) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RejectAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es requerido"})
	}
	adj, err := h.uc.Reject(c.Context(), orgID, c.Params("id"), userID, in.Reason)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toAdjustmentResponse(adj))
}

// Cancel godoc
// @Summary      Cancelar un ajuste pendiente (lo puede hacer el solicitante)
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/cancel [post]
func (h *AdjustmentHandler) Cancel(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	adj, err := h.uc.Cancel(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toAdjustmentResponse(adj))
}

// Apply godoc
// @Summary      Aplicar un ajuste aprobado
// @Description  Ejecuta el movimiento ADJUSTMENT con el delta firmado. Si el
//
//	saldo vivo cambió desde la solicitud responde 409.
//
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id}/apply [post]
func (h *AdjustmentHandler) Apply(c *fiber.Ctx) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	adj, err := h.uc.Apply(c.Context(), orgID, c.Params("id"), userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toAdjustmentResponse(adj))
}

// GetByID godoc
// @Summary      Obtener un ajuste por ID
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AdjustmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/adjustments/{id} [get]
func (h *AdjustmentHandler) GetByID(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	adj, err := h.uc.GetByID(orgID, c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toAdjustmentResponse(adj))
}

// List godoc
// @Summary      Listar ajustes por estado
// @Tags         adjustments
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING, APPROVED, REJECTED, APPLIED, CANCELLED"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.AdjustmentResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/adjustments [get]
func (h *AdjustmentHandler) List(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	status := c.Query("status")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	adjustments, err := h.uc.ListByStatus(orgID, status, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.AdjustmentResponse, 0, len(adjustments))
	for _, a := range adjustments {
		out = append(out, toAdjustmentResponse(a))
	}
	return c.JSON(out)
}
