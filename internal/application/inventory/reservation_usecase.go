package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

// ReservationUseCase gestiona reservas de stock a nombre de una tarea:
// apartan disponible sin mover el físico, con TTL, y se consumen o liberan.
// La creación comparte el dominio de bloqueo del saldo que reservan para que
// dos reservas concurrentes no puedan repartirse el mismo disponible.
type ReservationUseCase struct {
	txRunner        TxRunner
	transfer        *TransferUseCase
	reservationRepo repository.ReservationRepository
	balanceRepo     repository.BalanceRepository
	defaultTTL      time.Duration
	now             func() time.Time
}

// NewReservationUseCase construye el caso de uso.
func NewReservationUseCase(
	txRunner TxRunner,
	transfer *TransferUseCase,
	reservationRepo repository.ReservationRepository,
	balanceRepo repository.BalanceRepository,
	defaultTTL time.Duration,
) *ReservationUseCase {
	if defaultTTL <= 0 {
		defaultTTL = 30 * time.Minute
	}
	return &ReservationUseCase{
		txRunner:        txRunner,
		transfer:        transfer,
		reservationRepo: reservationRepo,
		balanceRepo:     balanceRepo,
		defaultTTL:      defaultTTL,
		now:             time.Now,
	}
}

// ReserveInput entrada para crear una reserva.
type ReserveInput struct {
	OrgID          string
	TaskID         string
	Level          entity.Level
	LevelRefID     string
	NomenclatureID string
	Quantity       decimal.Decimal
	// TTL opcional; cero usa el TTL por defecto de configuración.
	TTL time.Duration
}

// Reserve crea una reserva ACTIVE si hay disponible suficiente. El chequeo de
// disponible y el alta son atómicos: se toma el bloqueo de la fila de saldo
// antes de calcular el headroom.
func (uc *ReservationUseCase) Reserve(ctx context.Context, input ReserveInput) (*entity.Reservation, error) {
	if input.OrgID == "" || input.TaskID == "" || input.NomenclatureID == "" || !input.Level.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.Level == entity.LevelWarehouse {
		input.LevelRefID = input.OrgID
	}
	if input.LevelRefID == "" {
		return nil, domain.ErrInvalidInput
	}
	ttl := input.TTL
	if ttl <= 0 {
		ttl = uc.defaultTTL
	}

	tuple := entity.Tuple{Level: input.Level, LevelRefID: input.LevelRefID, NomenclatureID: input.NomenclatureID}
	now := uc.now()
	reservation := &entity.Reservation{
		ID:             uuid.New().String(),
		OrgID:          input.OrgID,
		TaskID:         input.TaskID,
		Level:          input.Level,
		LevelRefID:     input.LevelRefID,
		NomenclatureID: input.NomenclatureID,
		Quantity:       input.Quantity,
		State:          entity.ReservationActive,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
	}

	err := uc.txRunner.Run(ctx, func(r *Repos) error {
		// Mismo dominio de bloqueo que applyDelta sobre esa tupla.
		balance, err := r.Balances.GetForUpdate(input.OrgID, tuple)
		if err != nil {
			return err
		}
		reserved, err := r.Reservations.SumActive(input.OrgID, tuple, now)
		if err != nil {
			return err
		}
		available := balance.Quantity.Sub(reserved)
		if input.Quantity.GreaterThan(available) {
			return domain.ErrInsufficientAvailableStock
		}
		if err := r.Reservations.Create(reservation); err != nil {
			return err
		}
		if input.Level == entity.LevelWarehouse {
			return uc.appendMarker(r, reservation, entity.MovementWarehouseReservation, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// ConsumeInput entrada para consumir una reserva: el traslado real que ejecuta
// el compromiso. El origen del traslado es la tupla reservada y la cantidad la
// de la reserva.
type ConsumeInput struct {
	ReservationID string
	OrgID         string
	ActorID       string
	Type          entity.MovementType
	// ToRefID destino del traslado cuando el tipo lo requiere.
	ToRefID        string
	TransactionRef *string
	Reason         string
}

// Consume ejecuta el traslado subyacente y marca la reserva CONSUMED, todo en
// la misma transacción. Solo es válido sobre reservas ACTIVE no expiradas.
func (uc *ReservationUseCase) Consume(ctx context.Context, input ConsumeInput) (*entity.Movement, error) {
	var mov *entity.Movement
	var incident *IncidentEvent
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(r *Repos) error {
		res, err := r.Reservations.GetForUpdate(input.ReservationID)
		if err != nil {
			return err
		}
		if res == nil || res.OrgID != input.OrgID {
			return domain.ErrNotFound
		}
		if !res.ActiveAt(now) {
			return domain.ErrReservationNotActive
		}

		taskID := res.TaskID
		transferInput := TransferInput{
			OrgID:          input.OrgID,
			ActorID:        input.ActorID,
			Type:           input.Type,
			NomenclatureID: res.NomenclatureID,
			Quantity:       res.Quantity,
			From:           &entity.LevelRef{Level: res.Level, RefID: res.LevelRefID},
			TaskID:         &taskID,
			TransactionRef: input.TransactionRef,
			Reason:         input.Reason,
		}
		if input.ToRefID != "" {
			transferInput.To = &entity.LevelRef{RefID: input.ToRefID}
		}
		mov, incident, err = uc.transfer.TransferInTx(r, transferInput)
		if err != nil {
			return err
		}
		// El traslado debe salir exactamente de la tupla reservada.
		if mov.FromLevel == nil || *mov.FromLevel != res.Level || *mov.FromRefID != res.LevelRefID {
			return domain.ErrInvalidInput
		}
		return r.Reservations.UpdateState(res.ID, entity.ReservationConsumed, now)
	})
	if err != nil {
		return nil, err
	}
	if incident != nil && uc.transfer.incidents != nil {
		uc.transfer.incidents.NotifyDiscrepancy(ctx, *incident)
	}
	return mov, nil
}

// Release libera una reserva ACTIVE. Idempotente: liberar una reserva ya
// RELEASED es un no-op, no un error. Liberar una CONSUMED sí es error de orden.
func (uc *ReservationUseCase) Release(ctx context.Context, orgID, reservationID string) error {
	now := uc.now()
	return uc.txRunner.Run(ctx, func(r *Repos) error {
		res, err := r.Reservations.GetForUpdate(reservationID)
		if err != nil {
			return err
		}
		if res == nil || res.OrgID != orgID {
			return domain.ErrNotFound
		}
		switch res.State {
		case entity.ReservationReleased:
			return nil
		case entity.ReservationConsumed:
			return domain.ErrReservationNotActive
		}
		if err := r.Reservations.UpdateState(res.ID, entity.ReservationReleased, now); err != nil {
			return err
		}
		if res.Level == entity.LevelWarehouse {
			return uc.appendMarker(r, res, entity.MovementWarehouseReservationRelease, now)
		}
		return nil
	})
}

// SweepExpired barrido periódico: marca RELEASED las reservas ACTIVE ya
// expiradas. El disponible ya las excluye por fecha; esto es limpieza
// write-behind, no corrección. Las de bodega dejan el mismo marcador de
// liberación en el libro que una liberación explícita, para que todo
// WAREHOUSE_RESERVATION tenga su pareja.
func (uc *ReservationUseCase) SweepExpired(ctx context.Context) (int64, error) {
	now := uc.now()
	var swept int64
	err := uc.txRunner.Run(ctx, func(r *Repos) error {
		swept = 0
		expired, err := r.Reservations.ListExpiredForUpdate(now)
		if err != nil {
			return err
		}
		for _, res := range expired {
			if err := r.Reservations.UpdateState(res.ID, entity.ReservationReleased, now); err != nil {
				return err
			}
			if res.Level == entity.LevelWarehouse {
				if err := uc.appendMarker(r, res, entity.MovementWarehouseReservationRelease, now); err != nil {
					return err
				}
			}
			swept++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return swept, nil
}

// ListByTask lista las reservas de una tarea.
func (uc *ReservationUseCase) ListByTask(orgID, taskID string) ([]*entity.Reservation, error) {
	return uc.reservationRepo.ListByTask(orgID, taskID)
}

// Available devuelve el disponible de una tupla: físico menos reservas ACTIVE
// no expiradas. Lectura sin bloqueo.
func (uc *ReservationUseCase) Available(orgID string, t entity.Tuple) (decimal.Decimal, error) {
	balance, err := uc.balanceRepo.Get(orgID, t)
	if err != nil {
		return decimal.Zero, err
	}
	reserved, err := uc.reservationRepo.SumActive(orgID, t, uc.now())
	if err != nil {
		return decimal.Zero, err
	}
	return balance.Quantity.Sub(reserved), nil
}

// appendMarker registra en el libro el marcador de reserva de bodega (delta
// físico cero, excluido de la reconciliación).
func (uc *ReservationUseCase) appendMarker(r *Repos, res *entity.Reservation, movType entity.MovementType, now time.Time) error {
	taskID := res.TaskID
	level := res.Level
	refID := res.LevelRefID
	return r.Movements.Create(&entity.Movement{
		ID:             uuid.New().String(),
		OrgID:          res.OrgID,
		Type:           movType,
		NomenclatureID: res.NomenclatureID,
		Quantity:       res.Quantity,
		FromLevel:      &level,
		FromRefID:      &refID,
		ActorID:        "",
		TaskID:         &taskID,
		OperationDate:  now,
		CreatedAt:      now,
	})
}
