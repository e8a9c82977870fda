package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vending-api/internal/application/dto"
	"github.com/jhoicas/Vending-api/internal/domain"
)

// domainError traduce los errores del dominio a respuestas HTTP. El motor de
// inventario comparte taxonomía entre handlers, así que el mapeo vive en un
// solo sitio.
func domainError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "estado incompatible con la operación"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente en el origen"})
	case errors.Is(err, domain.ErrInsufficientAvailableStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_AVAILABLE", Message: "disponible insuficiente (reservas activas)"})
	case errors.Is(err, domain.ErrInsufficientBatchStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_BATCH_STOCK", Message: "lotes insuficientes para la salida"})
	case errors.Is(err, domain.ErrBatchReleaseExceeds):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BATCH_RELEASE_EXCEEDS", Message: "la devolución supera la cantidad original del lote"})
	case errors.Is(err, domain.ErrStaleAdjustment):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STALE_ADJUSTMENT", Message: "el saldo cambió desde que se solicitó el ajuste"})
	case errors.Is(err, domain.ErrReservationNotActive):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "RESERVATION_NOT_ACTIVE", Message: "la reserva no está activa"})
	case errors.Is(err, domain.ErrContention):
		c.Set(fiber.HeaderRetryAfter, "1")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "CONTENTION", Message: "contención sobre el inventario, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
