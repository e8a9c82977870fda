package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vending-api/internal/application/dto"
	appinv "github.com/jhoicas/Vending-api/internal/application/inventory"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
)

// ReservationHandler maneja las reservas de stock disponible (protegido).
type ReservationHandler struct {
	uc *appinv.ReservationUseCase
}

// NewReservationHandler construye el handler.
func NewReservationHandler(uc *appinv.ReservationUseCase) *ReservationHandler {
	return &ReservationHandler{uc: uc}
}

// Reserve godoc
// @Summary      Apartar stock disponible a nombre de una tarea
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveRequest  true  "task_id, level, nomenclature_id, quantity"
// @Success      201   {object}  dto.ReservationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/reservations [post]
func (h *ReservationHandler) Reserve(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReserveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.uc.Reserve(c.Context(), appinv.ReserveInput{
		OrgID:          orgID,
		TaskID:         in.TaskID,
		Level:          entity.Level(in.Level),
		LevelRefID:     in.LevelRefID,
		NomenclatureID: in.NomenclatureID,
		Quantity:       in.Quantity,
		TTL:            time.Duration(in.TTLMinutes) * time.Minute,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toReservationResponse(res))
}

// Consume godoc
// @Summary      Consumir una reserva ejecutando el traslado subyacente
// @Tags         reservations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la reserva"
// @Param        body  body  dto.ConsumeReservationRequest  true  "type y destino según el tipo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/consume [post]
func (h *ReservationHandler) Consume(c *fiber.Ctx) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	var in dto.ConsumeReservationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.Consume(c.Context(), appinv.ConsumeInput{
		ReservationID:  id,
		OrgID:          orgID,
		ActorID:        userID,
		Type:           entity.MovementType(in.Type),
		ToRefID:        in.ToRefID,
		TransactionRef: in.TransactionRef,
		Reason:         in.Reason,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Release godoc
// @Summary      Liberar una reserva (idempotente)
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la reserva"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/reservations/{id}/release [post]
func (h *ReservationHandler) Release(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Release(c.Context(), orgID, c.Params("id")); err != nil {
		return domainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "reserva liberada"})
}

// ListByTask godoc
// @Summary      Listar reservas de una tarea
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        task_id  query  string  true  "ID de la tarea"
// @Success      200  {array}   dto.ReservationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reservations [get]
func (h *ReservationHandler) ListByTask(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	taskID := c.Query("task_id")
	if taskID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "task_id es requerido"})
	}
	reservations, err := h.uc.ListByTask(orgID, taskID)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.ReservationResponse, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, toReservationResponse(r))
	}
	return c.JSON(out)
}

// Available godoc
// @Summary      Consultar el disponible de una tupla
// @Description  disponible = saldo físico - reservas activas no expiradas.
// @Tags         reservations
// @Security     Bearer
// @Produce      json
// @Param        level            query  string  true   "Nivel"
// @Param        level_ref_id     query  string  false  "Referencia del nivel"
// @Param        nomenclature_id  query  string  true   "Nomenclatura"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/available [get]
func (h *ReservationHandler) Available(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	level := entity.Level(c.Query("level"))
	refID := c.Query("level_ref_id")
	nomID := c.Query("nomenclature_id")
	if !level.Valid() || nomID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "level y nomenclature_id son requeridos"})
	}
	if level == entity.LevelWarehouse {
		refID = orgID
	}
	if refID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "level_ref_id es requerido para este nivel"})
	}
	t := entity.Tuple{Level: level, LevelRefID: refID, NomenclatureID: nomID}
	available, err := h.uc.Available(orgID, t)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{
		Level:          string(level),
		LevelRefID:     refID,
		NomenclatureID: nomID,
		Available:      available,
	})
}
