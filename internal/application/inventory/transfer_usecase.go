package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Vending-api/internal/domain/inventory"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

// Policy parámetros inyectables del motor de traslados.
type Policy struct {
	// SaleTolerancePct tolerancia global de discrepancia en ventas (0..100).
	// Una nomenclatura puede sobreescribirla con su propio porcentaje.
	SaleTolerancePct decimal.Decimal
	// ContentionRetries reintentos automáticos ante ErrContention (la única
	// clase que se reintenta automáticamente).
	ContentionRetries int
	// ContentionBackoff espera base entre reintentos (lineal por intento).
	ContentionBackoff time.Duration
}

// TransferUseCase es el motor de traslados: punto de entrada único para todo
// movimiento de inventario. Valida contra saldos, consulta el asignador FIFO
// para nomenclatura con lotes, registra el movimiento en el libro y confirma
// los nuevos saldos, todo dentro de una sola transacción.
type TransferUseCase struct {
	txRunner         TxRunner
	nomenclatureRepo repository.NomenclatureRepository
	operatorRepo     repository.OperatorRepository
	machineRepo      repository.MachineRepository
	incidents        IncidentNotifier
	policy           Policy
	now              func() time.Time
}

// NewTransferUseCase construye el motor.
func NewTransferUseCase(
	txRunner TxRunner,
	nomenclatureRepo repository.NomenclatureRepository,
	operatorRepo repository.OperatorRepository,
	machineRepo repository.MachineRepository,
	incidents IncidentNotifier,
	policy Policy,
) *TransferUseCase {
	if policy.ContentionRetries <= 0 {
		policy.ContentionRetries = 2
	}
	if policy.ContentionBackoff <= 0 {
		policy.ContentionBackoff = 25 * time.Millisecond
	}
	return &TransferUseCase{
		txRunner:         txRunner,
		nomenclatureRepo: nomenclatureRepo,
		operatorRepo:     operatorRepo,
		machineRepo:      machineRepo,
		incidents:        incidents,
		policy:           policy,
		now:              time.Now,
	}
}

// TransferInput entrada para ejecutar un traslado.
// From/To se derivan del tipo cuando el tipo los determina (p. ej.
// WAREHOUSE_TO_OPERATOR exige from=WAREHOUSE, to=OPERATOR); para
// ADJUSTMENT/WRITE_OFF el caller indica el nivel con From o To.
// Quantity es magnitud positiva salvo ADJUSTMENT, donde el signo decide la
// dirección (positivo suma, negativo resta).
type TransferInput struct {
	OrgID          string
	ActorID        string
	Type           entity.MovementType
	NomenclatureID string
	Quantity       decimal.Decimal
	From           *entity.LevelRef
	To             *entity.LevelRef
	TaskID         *string
	TransactionRef *string
	// ExpectedQuantity consumo esperado en MACHINE_SALE; si la diferencia
	// excede la tolerancia se emite un evento de discrepancia (no fatal).
	ExpectedQuantity *decimal.Decimal
	Reason           string
	OperationDate    *time.Time
	// BatchNumber/ExpiryDate alta de lote en WAREHOUSE_IN de nomenclatura
	// con seguimiento por lote.
	BatchNumber string
	ExpiryDate  *time.Time
}

// Transfer ejecuta el traslado de forma transaccional. Solo ErrContention se
// reintenta automáticamente (con backoff); el resto propaga al caller.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*entity.Movement, error) {
	nom, err := uc.resolve(&input)
	if err != nil {
		return nil, err
	}

	var mov *entity.Movement
	var incident *IncidentEvent
	attempts := uc.policy.ContentionRetries + 1
	for attempt := 1; ; attempt++ {
		err = uc.txRunner.Run(ctx, func(r *Repos) error {
			var txErr error
			mov, incident, txErr = uc.execute(r, nom, input)
			return txErr
		})
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrContention) || attempt >= attempts {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(uc.policy.ContentionBackoff * time.Duration(attempt)):
		}
	}

	if incident != nil && uc.incidents != nil {
		uc.incidents.NotifyDiscrepancy(ctx, *incident)
	}
	return mov, nil
}

// resolve valida tipo, cantidad y extremos, completa los niveles que el tipo
// determina y verifica que operarios/máquinas existan y sean de la organización.
func (uc *TransferUseCase) resolve(input *TransferInput) (*entity.Nomenclature, error) {
	if !input.Type.Valid() || input.Type.ReservationMarker() {
		return nil, domain.ErrInvalidInput
	}
	if input.OrgID == "" || input.NomenclatureID == "" {
		return nil, domain.ErrInvalidInput
	}

	// ADJUSTMENT admite signo; el resto exige magnitud positiva.
	if input.Type == entity.MovementAdjustment {
		if input.Quantity.IsZero() {
			return nil, domain.ErrInvalidInput
		}
	} else if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	warehouse := &entity.LevelRef{Level: entity.LevelWarehouse, RefID: input.OrgID}
	switch input.Type {
	case entity.MovementWarehouseIn:
		input.From, input.To = nil, warehouse
	case entity.MovementWarehouseOut:
		input.From, input.To = warehouse, nil
	case entity.MovementWarehouseToOperator:
		if input.To == nil || input.To.RefID == "" {
			return nil, domain.ErrInvalidInput
		}
		input.From = warehouse
		input.To.Level = entity.LevelOperator
	case entity.MovementOperatorToWarehouse:
		if input.From == nil || input.From.RefID == "" {
			return nil, domain.ErrInvalidInput
		}
		input.From.Level = entity.LevelOperator
		input.To = warehouse
	case entity.MovementOperatorToMachine:
		if input.From == nil || input.From.RefID == "" || input.To == nil || input.To.RefID == "" {
			return nil, domain.ErrInvalidInput
		}
		input.From.Level = entity.LevelOperator
		input.To.Level = entity.LevelMachine
	case entity.MovementMachineToOperator:
		if input.From == nil || input.From.RefID == "" || input.To == nil || input.To.RefID == "" {
			return nil, domain.ErrInvalidInput
		}
		input.From.Level = entity.LevelMachine
		input.To.Level = entity.LevelOperator
	case entity.MovementMachineSale:
		if input.From == nil || input.From.RefID == "" {
			return nil, domain.ErrInvalidInput
		}
		input.From.Level = entity.LevelMachine
		input.To = nil
	case entity.MovementAdjustment:
		// El signo decide la dirección; el caller indica la tupla en From.
		ref := input.From
		if ref == nil {
			ref = input.To
		}
		if ref == nil || !ref.Level.Valid() {
			return nil, domain.ErrInvalidInput
		}
		if ref.Level == entity.LevelWarehouse {
			ref.RefID = input.OrgID
		}
		if ref.RefID == "" {
			return nil, domain.ErrInvalidInput
		}
		if input.Quantity.GreaterThan(decimal.Zero) {
			input.From, input.To = nil, ref
		} else {
			input.Quantity = input.Quantity.Neg()
			input.From, input.To = ref, nil
		}
	case entity.MovementWriteOff:
		if input.From == nil || !input.From.Level.Valid() {
			return nil, domain.ErrInvalidInput
		}
		if input.From.Level == entity.LevelWarehouse {
			input.From.RefID = input.OrgID
		}
		if input.From.RefID == "" {
			return nil, domain.ErrInvalidInput
		}
		input.To = nil
	}

	nom, err := uc.nomenclatureRepo.GetByID(input.NomenclatureID)
	if err != nil {
		return nil, err
	}
	if nom == nil || nom.OrgID != input.OrgID {
		return nil, domain.ErrNotFound
	}

	// Entrada de nomenclatura con lote exige número de lote: sin alta del
	// lote, el saldo subiría sin remanente FIFO que lo respalde.
	if nom.BatchTracked && input.Type == entity.MovementWarehouseIn && input.BatchNumber == "" {
		return nil, domain.ErrInvalidInput
	}

	for _, ref := range []*entity.LevelRef{input.From, input.To} {
		if ref == nil {
			continue
		}
		switch ref.Level {
		case entity.LevelOperator:
			op, err := uc.operatorRepo.GetByID(ref.RefID)
			if err != nil {
				return nil, err
			}
			if op == nil || op.OrgID != input.OrgID {
				return nil, domain.ErrNotFound
			}
		case entity.LevelMachine:
			m, err := uc.machineRepo.GetByID(ref.RefID)
			if err != nil {
				return nil, err
			}
			if m == nil || m.OrgID != input.OrgID {
				return nil, domain.ErrNotFound
			}
		}
	}
	return nom, nil
}

// execute aplica el traslado con los repositorios de la transacción: bloquea
// las tuplas en orden determinista, verifica suficiencia, consume lotes si
// aplica, actualiza saldos y registra el movimiento. Si algo falla a mitad, la
// transacción completa se revierte y no queda movimiento ni saldo parcial.
func (uc *TransferUseCase) execute(r *Repos, nom *entity.Nomenclature, input TransferInput) (*entity.Movement, *IncidentEvent, error) {
	now := uc.now()

	// Bloqueo de todas las tuplas tocadas, siempre en orden de clave para no
	// generar deadlocks con traslados concurrentes que las toquen al revés.
	tuples := make([]entity.Tuple, 0, 2)
	if input.From != nil {
		tuples = append(tuples, entity.Tuple{Level: input.From.Level, LevelRefID: input.From.RefID, NomenclatureID: input.NomenclatureID})
	}
	if input.To != nil {
		tuples = append(tuples, entity.Tuple{Level: input.To.Level, LevelRefID: input.To.RefID, NomenclatureID: input.NomenclatureID})
	}
	sort.Slice(tuples, func(i, j int) bool { return tuples[i].Key() < tuples[j].Key() })

	balances := make(map[string]*entity.Balance, len(tuples))
	for _, t := range tuples {
		b, err := r.Balances.GetForUpdate(input.OrgID, t)
		if err != nil {
			return nil, nil, err
		}
		balances[t.Key()] = b
	}

	mov := &entity.Movement{
		ID:             uuid.New().String(),
		OrgID:          input.OrgID,
		Type:           input.Type,
		NomenclatureID: input.NomenclatureID,
		Quantity:       input.Quantity,
		ActorID:        input.ActorID,
		TaskID:         input.TaskID,
		TransactionRef: input.TransactionRef,
		Reason:         input.Reason,
		OperationDate:  now,
		CreatedAt:      now,
	}
	if input.OperationDate != nil {
		mov.OperationDate = *input.OperationDate
	}

	if input.From != nil {
		from := entity.Tuple{Level: input.From.Level, LevelRefID: input.From.RefID, NomenclatureID: input.NomenclatureID}
		src := balances[from.Key()]
		if src.Quantity.LessThan(input.Quantity) {
			return nil, nil, domain.ErrInsufficientStock
		}
		src.Quantity = src.Quantity.Sub(input.Quantity)
		src.UpdatedAt = now
		mov.FromLevel, mov.FromRefID = &input.From.Level, &input.From.RefID
	}
	if input.To != nil {
		to := entity.Tuple{Level: input.To.Level, LevelRefID: input.To.RefID, NomenclatureID: input.NomenclatureID}
		dst := balances[to.Key()]
		dst.Quantity = dst.Quantity.Add(input.Quantity)
		dst.UpdatedAt = now
		mov.ToLevel, mov.ToRefID = &input.To.Level, &input.To.RefID
	}

	// Consumo FIFO: solo salidas del sistema de nomenclatura con lote. Un fallo
	// del asignador aborta el traslado completo (sin consumo parcial).
	if nom.BatchTracked && input.Type.SystemExit() {
		candidates, err := r.Batches.ListAllocatableForUpdate(input.OrgID, input.NomenclatureID)
		if err != nil {
			return nil, nil, err
		}
		plan, err := domaininv.PlanFIFO(candidates, input.Quantity, now)
		if err != nil {
			return nil, nil, err
		}
		for _, a := range plan {
			remaining := a.Batch.RemainingQuantity.Sub(a.Take)
			status := a.Batch.Status
			if remaining.IsZero() {
				status = entity.BatchDepleted
			}
			if err := r.Batches.UpdateRemaining(a.Batch.ID, remaining, status); err != nil {
				return nil, nil, err
			}
		}
		mov.Batches = domaininv.Uses(plan)
	}

	// Alta de lote en entradas de bodega con número de lote.
	if nom.BatchTracked && input.Type == entity.MovementWarehouseIn && input.BatchNumber != "" {
		batch := &entity.Batch{
			ID:                uuid.New().String(),
			OrgID:             input.OrgID,
			NomenclatureID:    input.NomenclatureID,
			BatchNumber:       input.BatchNumber,
			Quantity:          input.Quantity,
			RemainingQuantity: input.Quantity,
			ReceivedDate:      mov.OperationDate,
			ExpiryDate:        input.ExpiryDate,
			Status:            entity.BatchInStock,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := r.Batches.Create(batch); err != nil {
			return nil, nil, err
		}
	}

	for _, t := range tuples {
		if err := r.Balances.Upsert(balances[t.Key()]); err != nil {
			return nil, nil, err
		}
	}
	if err := r.Movements.Create(mov); err != nil {
		return nil, nil, err
	}

	// Discrepancia de venta contra el consumo esperado: advertencia no fatal,
	// la incidencia externa decide si escala.
	var incident *IncidentEvent
	if input.Type == entity.MovementMachineSale && input.ExpectedQuantity != nil {
		expected := *input.ExpectedQuantity
		diff := expected.Sub(input.Quantity).Abs()
		tolerance := uc.saleTolerance(nom)
		threshold := expected.Mul(tolerance).Div(decimal.NewFromInt(100))
		if diff.GreaterThan(threshold) {
			incident = &IncidentEvent{
				Type:           IncidentSaleDiscrepancy,
				NomenclatureID: input.NomenclatureID,
				Level:          entity.LevelMachine,
				LevelRefID:     input.From.RefID,
				Expected:       expected,
				Actual:         input.Quantity,
			}
		}
	}
	return mov, incident, nil
}

// TransferInTx ejecuta el traslado con los repositorios proporcionados (misma
// transacción del caller). Lo usan el consumo de reservas y la aplicación de
// ajustes para que su transición de estado y el movimiento sean atómicos.
// El caller es responsable de haber validado y resuelto la entrada.
func (uc *TransferUseCase) TransferInTx(r *Repos, input TransferInput) (*entity.Movement, *IncidentEvent, error) {
	nom, err := uc.resolve(&input)
	if err != nil {
		return nil, nil, err
	}
	return uc.execute(r, nom, input)
}

// saleTolerance resuelve la tolerancia: la propia de la nomenclatura primero,
// la global de configuración si no tiene.
func (uc *TransferUseCase) saleTolerance(nom *entity.Nomenclature) decimal.Decimal {
	if nom.SaleTolerancePct != nil {
		return *nom.SaleTolerancePct
	}
	return uc.policy.SaleTolerancePct
}
