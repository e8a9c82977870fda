package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vending-api/internal/application/dto"
	appinv "github.com/jhoicas/Vending-api/internal/application/inventory"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
	"github.com/jhoicas/Vending-api/internal/domain/repository"
)

// InventoryHandler maneja traslados, ventas, saldos y el libro de movimientos (protegido).
type InventoryHandler struct {
	transfer  *appinv.TransferUseCase
	query     *appinv.QueryUseCase
	reconcile *appinv.ReconcileUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(transfer *appinv.TransferUseCase, query *appinv.QueryUseCase, reconcile *appinv.ReconcileUseCase) *InventoryHandler {
	return &InventoryHandler{transfer: transfer, query: query, reconcile: reconcile}
}

// Transfer godoc
// @Summary      Registrar un traslado de inventario
// @Description  Ejecuta un movimiento del conjunto cerrado de tipos (entradas,
//
//	traslados entre niveles, salidas, ventas, bajas) de forma atómica.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "type, nomenclature_id, quantity y referencias según el tipo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := appinv.TransferInput{
		OrgID:            orgID,
		ActorID:          userID,
		Type:             entity.MovementType(in.Type),
		NomenclatureID:   in.NomenclatureID,
		Quantity:         in.Quantity,
		TaskID:           in.TaskID,
		TransactionRef:   in.TransactionRef,
		ExpectedQuantity: in.ExpectedQuantity,
		Reason:           in.Reason,
		OperationDate:    in.OperationDate,
		BatchNumber:      in.BatchNumber,
		ExpiryDate:       in.ExpiryDate,
	}
	if in.FromRefID != "" {
		input.From = &entity.LevelRef{Level: entity.Level(in.FromLevel), RefID: in.FromRefID}
	}
	if in.ToRefID != "" {
		input.To = &entity.LevelRef{Level: entity.Level(in.ToLevel), RefID: in.ToRefID}
	}
	mov, err := h.transfer.Transfer(c.Context(), input)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// Sale godoc
// @Summary      Registrar una venta de máquina
// @Description  Atajo de MACHINE_SALE que reportan las propias máquinas, con
//
//	referencia de transacción externa para cruce contable.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "machine_id, nomenclature_id, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/sales [post]
func (h *InventoryHandler) Sale(c *fiber.Ctx) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.MachineID == "" || in.NomenclatureID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "machine_id y nomenclature_id son requeridos"})
	}
	mov, err := h.transfer.Transfer(c.Context(), appinv.TransferInput{
		OrgID:            orgID,
		ActorID:          userID,
		Type:             entity.MovementMachineSale,
		NomenclatureID:   in.NomenclatureID,
		Quantity:         in.Quantity,
		From:             &entity.LevelRef{Level: entity.LevelMachine, RefID: in.MachineID},
		ExpectedQuantity: in.ExpectedQuantity,
		TransactionRef:   in.TransactionRef,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Listar el libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type             query  string  false  "Tipo de movimiento"
// @Param        nomenclature_id  query  string  false  "Nomenclatura (UUID)"
// @Param        level            query  string  false  "Nivel (WAREHOUSE, OPERATOR, MACHINE)"
// @Param        level_ref_id     query  string  false  "Referencia del nivel"
// @Param        from             query  string  false  "Desde (RFC3339)"
// @Param        to               query  string  false  "Hasta (RFC3339)"
// @Param        limit            query  int     false  "Límite"  default(50)
// @Param        offset           query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.MovementResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ListMovementsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos"})
	}
	in.DefaultPage()
	f := repository.MovementFilter{From: in.From, To: in.To, Limit: in.Limit, Offset: in.Offset}
	if in.Type != "" {
		t := entity.MovementType(in.Type)
		f.Type = &t
	}
	if in.NomenclatureID != "" {
		f.NomenclatureID = &in.NomenclatureID
	}
	if in.Level != "" {
		l := entity.Level(in.Level)
		f.Level = &l
	}
	if in.LevelRefID != "" {
		f.LevelRefID = &in.LevelRefID
	}
	movements, err := h.query.Movements(orgID, f)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// GetMovement godoc
// @Summary      Obtener un asiento del libro por ID
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id} [get]
func (h *InventoryHandler) GetMovement(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	mov, err := h.query.GetMovement(orgID, id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(toMovementResponse(mov))
}

// ListBalances godoc
// @Summary      Listar saldos por nivel
// @Description  Devuelve el saldo físico y el disponible (descontadas las
//
//	reservas activas) de cada nomenclatura en la referencia dada.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        level         query  string  true   "Nivel (WAREHOUSE, OPERATOR, MACHINE)"
// @Param        level_ref_id  query  string  false  "Referencia del nivel (no aplica a WAREHOUSE)"
// @Param        limit         query  int     false  "Límite"  default(50)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances [get]
func (h *InventoryHandler) ListBalances(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	level := entity.Level(c.Query("level"))
	refID := c.Query("level_ref_id")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	views, err := h.query.Balances(orgID, level, refID, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toBalanceResponse(v))
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Listar saldos por debajo del umbral mínimo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.BalanceResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	views, err := h.query.LowStock(orgID)
	if err != nil {
		return domainError(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toBalanceResponse(v))
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Reconciliar saldos contra el libro de movimientos
// @Description  Recalcula cada saldo desde la suma con signo del libro y
//
//	reporta las desviaciones por tupla.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconciliation [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	report, err := h.reconcile.Reconcile(c.Context(), orgID)
	if err != nil {
		return domainError(c, err)
	}
	out := dto.ReconciliationResponse{Checked: report.Checked, Clean: report.Clean()}
	for _, d := range report.Drifts {
		out.Drifts = append(out.Drifts, dto.TupleDriftDTO{
			Level:          string(d.Tuple.Level),
			LevelRefID:     d.Tuple.LevelRefID,
			NomenclatureID: d.Tuple.NomenclatureID,
			Stored:         d.Stored,
			Expected:       d.Expected,
			Drift:          d.Drift,
		})
	}
	return c.JSON(out)
}
