package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del motor de inventario.
var (
	// ErrInsufficientStock el saldo físico quedaría negativo. Fatal para la
	// operación; nunca se reintenta automáticamente.
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrInsufficientAvailableStock la reserva excede el disponible
	// (físico - reservas activas). El caller puede reintentar o reducir.
	ErrInsufficientAvailableStock = errors.New("stock disponible insuficiente")
	// ErrInsufficientBatchStock los lotes FIFO no alcanzan para cubrir la
	// cantidad solicitada. Fatal; el caller decide sustituto o parcial manual.
	ErrInsufficientBatchStock = errors.New("stock de lotes insuficiente")
	// ErrReservationNotActive transición inválida sobre una reserva que no
	// está ACTIVE. Error de orden de llamadas del caller.
	ErrReservationNotActive = errors.New("la reserva no está activa")
	// ErrStaleAdjustment el saldo vivo cambió desde que se calculó el ajuste.
	// El caller debe recargar y reintentar.
	ErrStaleAdjustment = errors.New("ajuste obsoleto: el saldo cambió")
	// ErrContention timeout de espera de bloqueo de fila. Transitorio;
	// seguro de reintentar con backoff.
	ErrContention = errors.New("contención de bloqueo, reintente")
	// ErrBatchReleaseExceeds una liberación dejaría RemainingQuantity > Quantity.
	ErrBatchReleaseExceeds = errors.New("liberación excede la cantidad original del lote")
)
