package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shulepay/shulepay/internal/api"
	v1 "github.com/shulepay/shulepay/internal/api/v1"
	"github.com/shulepay/shulepay/internal/config"
	"github.com/shulepay/shulepay/internal/domain/ledger"
	"github.com/shulepay/shulepay/internal/domain/payment"
	"github.com/shulepay/shulepay/internal/domain/pricing"
	"github.com/shulepay/shulepay/internal/domain/subscription"
	"github.com/shulepay/shulepay/internal/email"
	"github.com/shulepay/shulepay/internal/httpclient"
	"github.com/shulepay/shulepay/internal/integration/paystack"
	"github.com/shulepay/shulepay/internal/logger"
	backendrepo "github.com/shulepay/shulepay/internal/repository/api"
	"github.com/shulepay/shulepay/internal/repository/profile"
	"github.com/shulepay/shulepay/internal/service"
	"github.com/shulepay/shulepay/internal/types"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// HTTP Client
			httpclient.NewDefaultClient,

			// Gateway and email
			paystack.NewClient,
			email.NewClient,
			email.NewSender,

			// Repositories
			backendrepo.NewPriceBook,
			backendrepo.NewSubscriptionRepository,
			backendrepo.NewLedgerRepository,
			profile.NewPendingPaymentStore,

			// Services
			provideServiceParams,
			service.NewPricingService,
			service.NewPaymentService,
			service.NewVerificationService,
			service.NewSubscriptionService,
			service.NewAssistedUpgradeService,
			service.NewLedgerService,

			// Handlers and router
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	client httpclient.Client,
	gateway paystack.Client,
	emailSender email.Sender,
	priceBook pricing.PriceBook,
	subscriptionRepo subscription.Repository,
	ledgerRepo ledger.Repository,
	pendingPaymentRepo payment.PendingPaymentRepository,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:             log,
		Config:             cfg,
		Client:             client,
		Gateway:            gateway,
		EmailSender:        emailSender,
		PriceBook:          priceBook,
		SubscriptionRepo:   subscriptionRepo,
		LedgerRepo:         ledgerRepo,
		PendingPaymentRepo: pendingPaymentRepo,
	}
}

func provideHandlers(
	subscriptionService service.SubscriptionService,
	pricingService service.PricingService,
	paymentService service.PaymentService,
	verificationService service.VerificationService,
	assistedService service.AssistedUpgradeService,
	ledgerService service.LedgerService,
	log *logger.Logger,
) api.Handlers {
	return api.Handlers{
		Billing:  v1.NewBillingHandler(subscriptionService, pricingService, log),
		Payment:  v1.NewPaymentHandler(paymentService, verificationService, log),
		Ledger:   v1.NewLedgerHandler(ledgerService, log),
		Assisted: v1.NewAssistedUpgradeHandler(assistedService, log),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(handlers, log)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
