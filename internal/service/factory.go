package service

import (
	"github.com/shulepay/shulepay/internal/config"
	"github.com/shulepay/shulepay/internal/domain/ledger"
	"github.com/shulepay/shulepay/internal/domain/payment"
	"github.com/shulepay/shulepay/internal/domain/pricing"
	"github.com/shulepay/shulepay/internal/domain/subscription"
	"github.com/shulepay/shulepay/internal/email"
	"github.com/shulepay/shulepay/internal/httpclient"
	"github.com/shulepay/shulepay/internal/integration/paystack"
	"github.com/shulepay/shulepay/internal/logger"
)

// ServiceParams holds common dependencies for all services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// external clients
	Client      httpclient.Client
	Gateway     paystack.Client
	EmailSender email.Sender

	// repositories
	PriceBook          pricing.PriceBook
	SubscriptionRepo   subscription.Repository
	LedgerRepo         ledger.Repository
	PendingPaymentRepo payment.PendingPaymentRepository
}
