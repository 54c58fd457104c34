package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rayen-omar/travel-pro-version1/internal/application/auth"
	"github.com/rayen-omar/travel-pro-version1/internal/application/billing"
	"github.com/rayen-omar/travel-pro-version1/internal/application/cashregister"
	"github.com/rayen-omar/travel-pro-version1/internal/application/catalog"
	"github.com/rayen-omar/travel-pro-version1/internal/application/credit"
	"github.com/rayen-omar/travel-pro-version1/internal/application/member"
	"github.com/rayen-omar/travel-pro-version1/internal/application/reservation"
	infrapdf "github.com/rayen-omar/travel-pro-version1/internal/infrastructure/pdf"
	"github.com/rayen-omar/travel-pro-version1/internal/infrastructure/postgres"
	httpRouter "github.com/rayen-omar/travel-pro-version1/internal/interfaces/http"
	"github.com/rayen-omar/travel-pro-version1/pkg/config"
	"github.com/rayen-omar/travel-pro-version1/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("chargement de la configuration: " + err.Error())
	}

	log := logger.New(cfg.App.Env)
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("démarrage de l'application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connexion à PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	creditRepo := postgres.NewCreditRepository(pool)
	destinationRepo := postgres.NewDestinationRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	reservationRepo := postgres.NewReservationRepository(pool)
	flightRepo := postgres.NewFlightRepository(pool)
	passengerRepo := postgres.NewPassengerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	withholdingRepo := postgres.NewWithholdingRepository(pool)
	registerRepo := postgres.NewCashRegisterRepository(pool)
	operationRepo := postgres.NewCashOperationRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	memberUC := member.NewService(memberRepo, companyRepo, creditRepo, log)
	creditUC := credit.NewService(memberRepo, creditRepo)
	catalogUC := catalog.NewService(destinationRepo, serviceRepo, supplierRepo)
	reservationUC := reservation.NewService(txRunner, reservationRepo, memberRepo, serviceRepo, flightRepo, passengerRepo, creditUC)
	invoiceUC := billing.NewInvoiceUseCase(
		txRunner,
		invoiceRepo,
		companyRepo,
		memberRepo,
		serviceRepo,
		reservationRepo,
		infrapdf.NewMarotoPDFGenerator(),
		billing.SellerInfo{
			Name:     cfg.Agency.Name,
			Address:  cfg.Agency.Address,
			Phone:    cfg.Agency.Phone,
			Mobile:   cfg.Agency.Mobile,
			Email:    cfg.Agency.Email,
			VAT:      cfg.Agency.VAT,
			BankName: cfg.Agency.BankName,
			BankIBAN: cfg.Agency.BankIBAN,
		},
	)
	purchaseUC := billing.NewPurchaseUseCase(purchaseRepo, supplierRepo)
	withholdingUC := billing.NewWithholdingUseCase(withholdingRepo, supplierRepo)
	cashUC := cashregister.NewService(registerRepo, operationRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		MemberUC:      memberUC,
		CreditUC:      creditUC,
		CatalogUC:     catalogUC,
		ReservationUC: reservationUC,
		InvoiceUC:     invoiceUC,
		PurchaseUC:    purchaseUC,
		WithholdingUC: withholdingUC,
		CashUC:        cashUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	var sweeper *cashregister.Sweeper
	if cfg.Sweep.Enabled {
		sweeper = cashregister.NewSweeper(cashUC, log, time.Duration(cfg.Sweep.Interval)*time.Minute)
		sweeper.Start()
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("serveur HTTP arrêté")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("signal d'arrêt reçu, fermeture du serveur...")

	if sweeper != nil {
		sweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arrêt du serveur")
	}

	log.Info().Msg("application arrêtée")
}
