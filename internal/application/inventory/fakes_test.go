package inventory_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/application/inventory"
	"github.com/jhoicas/Vending-api/internal/domain"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con semántica transaccional real para los tests: Run clona
// el estado, ejecuta el caso de uso sobre el clon y solo publica el clon si no
// hubo error. Así los tests de atomicidad verifican rollback de verdad.
// ──────────────────────────────────────────────────────────────────────────────

type storeData struct {
	balances      map[string]*entity.Balance // clave: orgID|tuple.Key()
	movements     []*entity.Movement
	batches       map[string]*entity.Batch
	reservations  map[string]*entity.Reservation
	adjustments   map[string]*entity.Adjustment
	nomenclatures map[string]*entity.Nomenclature
	operators     map[string]*entity.Operator
	machines      map[string]*entity.Machine
}

func newStoreData() *storeData {
	return &storeData{
		balances:      map[string]*entity.Balance{},
		batches:       map[string]*entity.Batch{},
		reservations:  map[string]*entity.Reservation{},
		adjustments:   map[string]*entity.Adjustment{},
		nomenclatures: map[string]*entity.Nomenclature{},
		operators:     map[string]*entity.Operator{},
		machines:      map[string]*entity.Machine{},
	}
}

func (d *storeData) clone() *storeData {
	c := newStoreData()
	for k, v := range d.balances {
		cp := *v
		c.balances[k] = &cp
	}
	c.movements = make([]*entity.Movement, len(d.movements))
	copy(c.movements, d.movements)
	for k, v := range d.batches {
		cp := *v
		c.batches[k] = &cp
	}
	for k, v := range d.reservations {
		cp := *v
		c.reservations[k] = &cp
	}
	for k, v := range d.adjustments {
		cp := *v
		c.adjustments[k] = &cp
	}
	for k, v := range d.nomenclatures {
		c.nomenclatures[k] = v
	}
	for k, v := range d.operators {
		c.operators[k] = v
	}
	for k, v := range d.machines {
		c.machines[k] = v
	}
	return c
}

type fakeStore struct {
	mu   sync.Mutex
	data *storeData

	// Ganchos de fallo para tests de atomicidad y contención.
	failMovementCreate error
	contentionLeft     int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: newStoreData()}
}

// Run implementa inventory.TxRunner con commit/rollback sobre el clon.
func (s *fakeStore) Run(ctx context.Context, fn func(r *inventory.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contentionLeft > 0 {
		s.contentionLeft--
		return domain.ErrContention
	}
	tx := s.data.clone()
	repos := &inventory.Repos{
		Balances:     &fakeBalanceRepo{d: tx},
		Movements:    &fakeMovementRepo{d: tx, failCreate: s.failMovementCreate},
		Batches:      &fakeBatchRepo{d: tx},
		Reservations: &fakeReservationRepo{d: tx},
		Adjustments:  &fakeAdjustmentRepo{d: tx},
	}
	if err := fn(repos); err != nil {
		return err
	}
	s.data = tx
	return nil
}

func balanceKey(orgID string, t entity.Tuple) string { return orgID + "|" + t.Key() }

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios fake atados al clon de la transacción
// ──────────────────────────────────────────────────────────────────────────────

// Los repos llevan d (clon de la transacción) o s (estado confirmado, para
// usos fuera de transacción). data resuelve la fuente en cada llamada porque
// el commit reemplaza el puntero de estado del store.
type fakeBalanceRepo struct {
	d *storeData
	s *fakeStore
}

var _ repository.BalanceRepository = (*fakeBalanceRepo)(nil)

func (r *fakeBalanceRepo) data() *storeData {
	if r.d != nil {
		return r.d
	}
	return r.s.data
}

func (r *fakeBalanceRepo) Get(orgID string, t entity.Tuple) (*entity.Balance, error) {
	if b, ok := r.data().balances[balanceKey(orgID, t)]; ok {
		cp := *b
		return &cp, nil
	}
	return &entity.Balance{
		OrgID: orgID, Level: t.Level, LevelRefID: t.LevelRefID,
		NomenclatureID: t.NomenclatureID, Quantity: decimal.Zero,
	}, nil
}

func (r *fakeBalanceRepo) GetForUpdate(orgID string, t entity.Tuple) (*entity.Balance, error) {
	return r.Get(orgID, t)
}

func (r *fakeBalanceRepo) Upsert(b *entity.Balance) error {
	cp := *b
	r.data().balances[balanceKey(b.OrgID, b.Tuple())] = &cp
	return nil
}

func (r *fakeBalanceRepo) ListByLevel(orgID string, level entity.Level, levelRefID string, limit, offset int) ([]*entity.Balance, error) {
	var out []*entity.Balance
	for _, b := range r.data().balances {
		if b.OrgID == orgID && b.Level == level && b.LevelRefID == levelRefID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) ListBelowMin(orgID string) ([]*entity.Balance, error) {
	var out []*entity.Balance
	for _, b := range r.data().balances {
		if b.OrgID == orgID && b.MinThreshold != nil && b.Quantity.LessThan(*b.MinThreshold) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) ListAll(orgID string) ([]*entity.Balance, error) {
	var out []*entity.Balance
	for _, b := range r.data().balances {
		if b.OrgID == orgID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeMovementRepo struct {
	d          *storeData
	s          *fakeStore
	failCreate error
}

var _ repository.MovementRepository = (*fakeMovementRepo)(nil)

func (r *fakeMovementRepo) data() *storeData {
	if r.d != nil {
		return r.d
	}
	return r.s.data
}

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	if !m.Type.Valid() || m.Quantity.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	cp := *m
	r.data().movements = append(r.data().movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.Movement, error) {
	for _, m := range r.data().movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByFilter(orgID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.data().movements {
		if m.OrgID != orgID {
			continue
		}
		if f.Type != nil && m.Type != *f.Type {
			continue
		}
		if f.NomenclatureID != nil && m.NomenclatureID != *f.NomenclatureID {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeMovementRepo) SumByTuple(orgID string, t entity.Tuple) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.data().movements {
		if m.OrgID == orgID {
			sum = sum.Add(m.SignedEffect(t))
		}
	}
	return sum, nil
}

type fakeBatchRepo struct {
	d *storeData
	s *fakeStore
}

var _ repository.BatchRepository = (*fakeBatchRepo)(nil)

func (r *fakeBatchRepo) data() *storeData {
	if r.d != nil {
		return r.d
	}
	return r.s.data
}

func (r *fakeBatchRepo) Create(b *entity.Batch) error {
	cp := *b
	r.data().batches[b.ID] = &cp
	return nil
}

func (r *fakeBatchRepo) GetByID(id string) (*entity.Batch, error) {
	if b, ok := r.data().batches[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeBatchRepo) GetForUpdate(id string) (*entity.Batch, error) { return r.GetByID(id) }

func (r *fakeBatchRepo) ListAllocatableForUpdate(orgID, nomenclatureID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.data().batches {
		if b.OrgID == orgID && b.NomenclatureID == nomenclatureID &&
			b.Status == entity.BatchInStock && b.RemainingQuantity.GreaterThan(decimal.Zero) {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) UpdateRemaining(id string, remaining decimal.Decimal, status string) error {
	b, ok := r.data().batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.RemainingQuantity = remaining
	b.Status = status
	return nil
}

func (r *fakeBatchRepo) ListByNomenclature(orgID, nomenclatureID string, limit, offset int) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.data().batches {
		if b.OrgID == orgID && b.NomenclatureID == nomenclatureID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) MarkExpired(orgID string, now time.Time) (int64, error) {
	var n int64
	for _, b := range r.data().batches {
		if (orgID == "" || b.OrgID == orgID) && b.Status == entity.BatchInStock && b.Expired(now) {
			b.Status = entity.BatchExpired
			n++
		}
	}
	return n, nil
}

type fakeReservationRepo struct {
	d *storeData
	s *fakeStore
}

var _ repository.ReservationRepository = (*fakeReservationRepo)(nil)

func (r *fakeReservationRepo) data() *storeData {
	if r.d != nil {
		return r.d
	}
	return r.s.data
}

func (r *fakeReservationRepo) Create(res *entity.Reservation) error {
	cp := *res
	r.data().reservations[res.ID] = &cp
	return nil
}

func (r *fakeReservationRepo) GetByID(id string) (*entity.Reservation, error) {
	if res, ok := r.data().reservations[id]; ok {
		cp := *res
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeReservationRepo) GetForUpdate(id string) (*entity.Reservation, error) {
	return r.GetByID(id)
}

func (r *fakeReservationRepo) SumActive(orgID string, t entity.Tuple, now time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, res := range r.data().reservations {
		if res.OrgID == orgID && res.Tuple() == t && res.ActiveAt(now) {
			sum = sum.Add(res.Quantity)
		}
	}
	return sum, nil
}

func (r *fakeReservationRepo) UpdateState(id, state string, at time.Time) error {
	res, ok := r.data().reservations[id]
	if !ok {
		return domain.ErrNotFound
	}
	res.State = state
	switch state {
	case entity.ReservationReleased:
		res.ReleasedAt = &at
	case entity.ReservationConsumed:
		res.ConsumedAt = &at
	}
	return nil
}

func (r *fakeReservationRepo) ListByTask(orgID, taskID string) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range r.data().reservations {
		if res.OrgID == orgID && res.TaskID == taskID {
			cp := *res
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeReservationRepo) ListExpiredForUpdate(now time.Time) ([]*entity.Reservation, error) {
	var out []*entity.Reservation
	for _, res := range r.data().reservations {
		if res.State == entity.ReservationActive && !res.ExpiresAt.After(now) {
			cp := *res
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeAdjustmentRepo struct {
	d *storeData
	s *fakeStore
}

var _ repository.AdjustmentRepository = (*fakeAdjustmentRepo)(nil)

func (r *fakeAdjustmentRepo) data() *storeData {
	if r.d != nil {
		return r.d
	}
	return r.s.data
}

func (r *fakeAdjustmentRepo) Create(a *entity.Adjustment) error {
	cp := *a
	r.data().adjustments[a.ID] = &cp
	return nil
}

func (r *fakeAdjustmentRepo) GetByID(id string) (*entity.Adjustment, error) {
	if a, ok := r.data().adjustments[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeAdjustmentRepo) GetForUpdate(id string) (*entity.Adjustment, error) {
	return r.GetByID(id)
}

func (r *fakeAdjustmentRepo) Update(a *entity.Adjustment) error {
	cp := *a
	r.data().adjustments[a.ID] = &cp
	return nil
}

func (r *fakeAdjustmentRepo) ListByStatus(orgID, status string, limit, offset int) ([]*entity.Adjustment, error) {
	var out []*entity.Adjustment
	for _, a := range r.data().adjustments {
		if a.OrgID == orgID && a.Status == status {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios fake de referencia (fuera de transacción)
// ──────────────────────────────────────────────────────────────────────────────

type fakeNomenclatureRepo struct{ s *fakeStore }

var _ repository.NomenclatureRepository = (*fakeNomenclatureRepo)(nil)

func (r *fakeNomenclatureRepo) Create(n *entity.Nomenclature) error {
	r.s.data.nomenclatures[n.ID] = n
	return nil
}

func (r *fakeNomenclatureRepo) GetByID(id string) (*entity.Nomenclature, error) {
	return r.s.data.nomenclatures[id], nil
}

func (r *fakeNomenclatureRepo) GetBySKU(orgID, sku string) (*entity.Nomenclature, error) {
	for _, n := range r.s.data.nomenclatures {
		if n.OrgID == orgID && n.SKU == sku {
			return n, nil
		}
	}
	return nil, nil
}

func (r *fakeNomenclatureRepo) Update(n *entity.Nomenclature) error {
	r.s.data.nomenclatures[n.ID] = n
	return nil
}

func (r *fakeNomenclatureRepo) ListByOrg(orgID string, limit, offset int) ([]*entity.Nomenclature, error) {
	var out []*entity.Nomenclature
	for _, n := range r.s.data.nomenclatures {
		if n.OrgID == orgID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeOperatorRepo struct{ s *fakeStore }

var _ repository.OperatorRepository = (*fakeOperatorRepo)(nil)

func (r *fakeOperatorRepo) Create(o *entity.Operator) error {
	r.s.data.operators[o.ID] = o
	return nil
}

func (r *fakeOperatorRepo) GetByID(id string) (*entity.Operator, error) {
	return r.s.data.operators[id], nil
}

func (r *fakeOperatorRepo) Update(o *entity.Operator) error {
	r.s.data.operators[o.ID] = o
	return nil
}

func (r *fakeOperatorRepo) ListByOrg(orgID string, limit, offset int) ([]*entity.Operator, error) {
	var out []*entity.Operator
	for _, o := range r.s.data.operators {
		if o.OrgID == orgID {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeMachineRepo struct{ s *fakeStore }

var _ repository.MachineRepository = (*fakeMachineRepo)(nil)

func (r *fakeMachineRepo) Create(m *entity.Machine) error {
	r.s.data.machines[m.ID] = m
	return nil
}

func (r *fakeMachineRepo) GetByID(id string) (*entity.Machine, error) {
	return r.s.data.machines[id], nil
}

func (r *fakeMachineRepo) GetBySerial(orgID, serial string) (*entity.Machine, error) {
	for _, m := range r.s.data.machines {
		if m.OrgID == orgID && m.Serial == serial {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMachineRepo) Update(m *entity.Machine) error {
	r.s.data.machines[m.ID] = m
	return nil
}

func (r *fakeMachineRepo) ListByOrg(orgID string, limit, offset int) ([]*entity.Machine, error) {
	var out []*entity.Machine
	for _, m := range r.s.data.machines {
		if m.OrgID == orgID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMachineRepo) ListByOperator(operatorID string) ([]*entity.Machine, error) {
	var out []*entity.Machine
	for _, m := range r.s.data.machines {
		if m.OperatorID != nil && *m.OperatorID == operatorID {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeNotifier acumula los eventos de discrepancia emitidos.
type fakeNotifier struct {
	mu     sync.Mutex
	events []inventory.IncidentEvent
}

var _ inventory.IncidentNotifier = (*fakeNotifier)(nil)

func (n *fakeNotifier) NotifyDiscrepancy(ctx context.Context, ev inventory.IncidentEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *fakeNotifier) Events() []inventory.IncidentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]inventory.IncidentEvent, len(n.events))
	copy(out, n.events)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado común para los tests de casos de uso
// ──────────────────────────────────────────────────────────────────────────────

const (
	testOrg      = "org-1"
	testActor    = "user-1"
	testOperator = "op-1"
	testMachine  = "maq-1"
	nomCafe      = "nom-cafe"  // por saldo simple
	nomLeche     = "nom-leche" // con seguimiento por lote
)

type rig struct {
	store        *fakeStore
	notifier     *fakeNotifier
	transfer     *inventory.TransferUseCase
	reservations *inventory.ReservationUseCase
	adjustments  *inventory.AdjustmentUseCase
	batches      *inventory.BatchUseCase
	reconcile    *inventory.ReconcileUseCase
}

func newRig() *rig {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	opID := testOperator
	store.data.nomenclatures[nomCafe] = &entity.Nomenclature{
		ID: nomCafe, OrgID: testOrg, SKU: "CAFE-01", Name: "Café molido", Unit: "kg", IsActive: true,
	}
	store.data.nomenclatures[nomLeche] = &entity.Nomenclature{
		ID: nomLeche, OrgID: testOrg, SKU: "LECHE-01", Name: "Leche en polvo", Unit: "kg",
		BatchTracked: true, IsActive: true,
	}
	store.data.operators[testOperator] = &entity.Operator{
		ID: testOperator, OrgID: testOrg, Name: "Ruta Norte", IsActive: true,
	}
	store.data.machines[testMachine] = &entity.Machine{
		ID: testMachine, OrgID: testOrg, Serial: "VM-001", Name: "Expendedora Centro",
		OperatorID: &opID, IsActive: true,
	}

	transfer := inventory.NewTransferUseCase(
		store,
		&fakeNomenclatureRepo{s: store},
		&fakeOperatorRepo{s: store},
		&fakeMachineRepo{s: store},
		notifier,
		inventory.Policy{
			SaleTolerancePct:  decimal.NewFromInt(5),
			ContentionRetries: 2,
			ContentionBackoff: time.Millisecond,
		},
	)
	reservations := inventory.NewReservationUseCase(
		store, transfer,
		&fakeReservationRepo{s: store},
		&fakeBalanceRepo{s: store},
		30*time.Minute,
	)
	adjustments := inventory.NewAdjustmentUseCase(
		store, transfer,
		&fakeAdjustmentRepo{s: store},
		notifier,
		decimal.NewFromInt(10),
	)
	batches := inventory.NewBatchUseCase(store, &fakeBatchRepo{s: store})
	reconcile := inventory.NewReconcileUseCase(&fakeBalanceRepo{s: store}, &fakeMovementRepo{s: store})

	return &rig{
		store:        store,
		notifier:     notifier,
		transfer:     transfer,
		reservations: reservations,
		adjustments:  adjustments,
		batches:      batches,
		reconcile:    reconcile,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (rg *rig) seedBalance(level entity.Level, refID, nomID string, qty decimal.Decimal) {
	b := &entity.Balance{
		OrgID: testOrg, Level: level, LevelRefID: refID,
		NomenclatureID: nomID, Quantity: qty, UpdatedAt: time.Now(),
	}
	rg.store.data.balances[balanceKey(testOrg, b.Tuple())] = b
	// Movimiento semilla equivalente para que la reconciliación cuadre.
	level2 := level
	refID2 := refID
	rg.store.data.movements = append(rg.store.data.movements, &entity.Movement{
		ID: uuid.New().String(), OrgID: testOrg, Type: entity.MovementAdjustment,
		NomenclatureID: nomID, Quantity: qty,
		ToLevel: &level2, ToRefID: &refID2,
		ActorID: testActor, OperationDate: time.Now(), CreatedAt: time.Now(),
	})
}

func (rg *rig) seedBatch(id, nomID string, qty, remaining decimal.Decimal, received time.Time, expiry *time.Time) {
	rg.store.data.batches[id] = &entity.Batch{
		ID: id, OrgID: testOrg, NomenclatureID: nomID, BatchNumber: "L-" + id,
		Quantity: qty, RemainingQuantity: remaining,
		ReceivedDate: received, ExpiryDate: expiry, Status: entity.BatchInStock,
		CreatedAt: received, UpdatedAt: received,
	}
}

func (rg *rig) balance(level entity.Level, refID, nomID string) decimal.Decimal {
	t := entity.Tuple{Level: level, LevelRefID: refID, NomenclatureID: nomID}
	if b, ok := rg.store.data.balances[balanceKey(testOrg, t)]; ok {
		return b.Quantity
	}
	return decimal.Zero
}

func (rg *rig) movementsOfType(mt entity.MovementType) []*entity.Movement {
	var out []*entity.Movement
	for _, m := range rg.store.data.movements {
		if m.Type == mt {
			out = append(out, m)
		}
	}
	return out
}
