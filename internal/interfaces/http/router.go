package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Vending-api/internal/application/auth"
	appinv "github.com/jhoicas/Vending-api/internal/application/inventory"
	"github.com/jhoicas/Vending-api/internal/application/usecase"
	"github.com/jhoicas/Vending-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	TransferUC     *appinv.TransferUseCase
	QueryUC        *appinv.QueryUseCase
	ReconcileUC    *appinv.ReconcileUseCase
	ReservationUC  *appinv.ReservationUseCase
	AdjustmentUC   *appinv.AdjustmentUseCase
	BatchUC        *appinv.BatchUseCase
	NomenclatureUC *usecase.NomenclatureUseCase
	FleetUC        *usecase.FleetUseCase
	OrganizationUC *usecase.OrganizationUseCase
	UserUC         *usecase.UserUseCase
	AuthUC         *auth.AuthUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Organizations (alta pública para el onboarding; el resto protegido)
	organizations := api.Group("/organizations")
	organizationHandler := NewOrganizationHandler(deps.OrganizationUC)
	organizations.Post("/", organizationHandler.Create)
	organizations.Get("/", organizationHandler.List)
	organizations.Get("/:id", organizationHandler.GetByID)
	organizations.Put("/:id", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin), organizationHandler.Update)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Nomenclatura y lotes
	nomenclatures := protected.Group("/nomenclatures")
	nomenclatureHandler := NewNomenclatureHandler(deps.NomenclatureUC, deps.BatchUC)
	nomenclatures.Post("/", adminOnly, nomenclatureHandler.Create)
	nomenclatures.Get("/", nomenclatureHandler.List)
	nomenclatures.Get("/:id", nomenclatureHandler.GetByID)
	nomenclatures.Put("/:id", adminOnly, nomenclatureHandler.Update)
	nomenclatures.Get("/:id/batches", nomenclatureHandler.ListBatches)
	protected.Post("/batches/:id/release", adminOnly, nomenclatureHandler.ReleaseBatch)

	// Flota: operarios y máquinas
	fleetHandler := NewFleetHandler(deps.FleetUC)
	operators := protected.Group("/operators")
	operators.Post("/", adminOnly, fleetHandler.CreateOperator)
	operators.Get("/", fleetHandler.ListOperators)
	operators.Get("/:id", fleetHandler.GetOperator)
	operators.Put("/:id", adminOnly, fleetHandler.UpdateOperator)
	operators.Get("/:id/machines", fleetHandler.ListOperatorMachines)

	machines := protected.Group("/machines")
	machines.Post("/", adminOnly, fleetHandler.CreateMachine)
	machines.Get("/", fleetHandler.ListMachines)
	machines.Get("/:id", fleetHandler.GetMachine)
	machines.Put("/:id", adminOnly, fleetHandler.UpdateMachine)

	// Motor de inventario: traslados, ventas, saldos y libro
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.TransferUC, deps.QueryUC, deps.ReconcileUC)
	reservationHandler := NewReservationHandler(deps.ReservationUC)
	invGroup.Post("/transfers", inventoryHandler.Transfer)
	invGroup.Post("/sales", inventoryHandler.Sale)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/movements/:id", inventoryHandler.GetMovement)
	invGroup.Get("/balances", inventoryHandler.ListBalances)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/available", reservationHandler.Available)
	invGroup.Get("/reconciliation", adminOnly, inventoryHandler.Reconcile)

	// Reservas
	reservations := protected.Group("/reservations")
	reservations.Post("/", reservationHandler.Reserve)
	reservations.Get("/", reservationHandler.ListByTask)
	reservations.Post("/:id/consume", reservationHandler.Consume)
	reservations.Post("/:id/release", reservationHandler.Release)

	// Ajustes de conteo físico; aprobar/rechazar/aplicar solo admin
	adjustments := protected.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC)
	adjustments.Post("/", adjustmentHandler.Request)
	adjustments.Get("/", adjustmentHandler.List)
	adjustments.Get("/:id", adjustmentHandler.GetByID)
	adjustments.Post("/:id/approve", adminOnly, adjustmentHandler.Approve)
	adjustments.Post("/:id/reject", adminOnly, adjustmentHandler.Reject)
	adjustments.Post("/:id/cancel", adjustmentHandler.Cancel)
	adjustments.Post("/:id/apply", adminOnly, adjustmentHandler.Apply)

	// Usuarios (solo admin)
	users := protected.Group("/users", adminOnly)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)
}
