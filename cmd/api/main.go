package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Vending-api/internal/application/auth"
	appinv "github.com/jhoicas/Vending-api/internal/application/inventory"
	"github.com/jhoicas/Vending-api/internal/application/usecase"
	"github.com/jhoicas/Vending-api/internal/infrastructure/incident"
	"github.com/jhoicas/Vending-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Vending-api/internal/interfaces/http"
	"github.com/jhoicas/Vending-api/pkg/config"
	"github.com/jhoicas/Vending-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios fuera de transacción (lecturas y referencia)
	organizationRepo := postgres.NewOrganizationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	nomenclatureRepo := postgres.NewNomenclatureRepository(pool)
	operatorRepo := postgres.NewOperatorRepository(pool)
	machineRepo := postgres.NewMachineRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)

	txRunner := postgres.NewTxRunner(pool, cfg.Inventory.LockTimeoutMS)
	incidents := incident.NewLogNotifier(log)

	// Motor de inventario
	transferUC := appinv.NewTransferUseCase(
		txRunner, nomenclatureRepo, operatorRepo, machineRepo, incidents,
		appinv.Policy{
			SaleTolerancePct:  decimal.NewFromFloat(cfg.Inventory.SaleTolerancePct),
			ContentionRetries: cfg.Inventory.ContentionRetries,
		},
	)
	reservationUC := appinv.NewReservationUseCase(
		txRunner, transferUC, reservationRepo, balanceRepo,
		time.Duration(cfg.Inventory.ReservationTTLMinutes)*time.Minute,
	)
	adjustmentUC := appinv.NewAdjustmentUseCase(
		txRunner, transferUC, postgres.NewAdjustmentRepository(pool), incidents,
		decimal.NewFromFloat(cfg.Inventory.AdjustmentRejectTolerancePct),
	)
	batchUC := appinv.NewBatchUseCase(txRunner, batchRepo)
	queryUC := appinv.NewQueryUseCase(balanceRepo, movementRepo, reservationRepo)
	reconcileUC := appinv.NewReconcileUseCase(balanceRepo, movementRepo)

	// Referencia de flota y auth
	nomenclatureUC := usecase.NewNomenclatureUseCase(nomenclatureRepo)
	fleetUC := usecase.NewFleetUseCase(operatorRepo, machineRepo)
	organizationUC := usecase.NewOrganizationUseCase(organizationRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	authUC := auth.NewAuthUseCase(userRepo, organizationRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Barridos periódicos: reservas expiradas y lotes vencidos
	sweepCtx, stopSweeps := context.WithCancel(ctx)
	defer stopSweeps()
	go sweepLoop(sweepCtx, time.Duration(cfg.Inventory.ReservationSweepMinutes)*time.Minute, func() {
		n, err := reservationUC.SweepExpired(sweepCtx)
		if err != nil {
			log.Error().Err(err).Msg("barrido de reservas expiradas")
			return
		}
		if n > 0 {
			log.Info().Int64("released", n).Msg("reservas expiradas liberadas")
		}
	})
	go sweepLoop(sweepCtx, time.Duration(cfg.Inventory.BatchSweepMinutes)*time.Minute, func() {
		n, err := batchUC.SweepExpired(sweepCtx, "")
		if err != nil {
			log.Error().Err(err).Msg("barrido de lotes vencidos")
			return
		}
		if n > 0 {
			log.Info().Int64("expired", n).Msg("lotes marcados como vencidos")
		}
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Vending API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		TransferUC:     transferUC,
		QueryUC:        queryUC,
		ReconcileUC:    reconcileUC,
		ReservationUC:  reservationUC,
		AdjustmentUC:   adjustmentUC,
		BatchUC:        batchUC,
		NomenclatureUC: nomenclatureUC,
		FleetUC:        fleetUC,
		OrganizationUC: organizationUC,
		UserUC:         userUC,
		AuthUC:         authUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopSweeps()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// sweepLoop ejecuta fn cada period hasta que el contexto se cancele.
// Un period no positivo desactiva el barrido.
func sweepLoop(ctx context.Context, period time.Duration, fn func()) {
	if period <= 0 {
		return
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
