package testutil

import (
	"context"
	"time"

	"github.com/shulepay/shulepay/internal/config"
	"github.com/shulepay/shulepay/internal/domain/ledger"
	"github.com/shulepay/shulepay/internal/domain/payment"
	"github.com/shulepay/shulepay/internal/domain/pricing"
	"github.com/shulepay/shulepay/internal/domain/subscription"
	"github.com/shulepay/shulepay/internal/logger"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	PriceBook          pricing.PriceBook
	SubscriptionRepo   subscription.Repository
	LedgerRepo         ledger.Repository
	PendingPaymentRepo payment.PendingPaymentRepository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	stores      Stores
	gateway     *FakeGateway
	emailSender *CaptureEmailSender
	logger      *logger.Logger
	config      *config.Configuration
	now         time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	cfg := config.GetDefaultConfig()
	// Short intervals keep polling tests fast
	cfg.Billing.PollInterval = 10 * time.Millisecond
	cfg.Billing.MaxPollAttempts = 5

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.ClearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		PriceBook:          NewInMemoryPriceBook(),
		SubscriptionRepo:   NewInMemorySubscriptionStore(),
		LedgerRepo:         NewInMemoryLedgerStore(),
		PendingPaymentRepo: NewInMemoryPendingPaymentStore(),
	}
	s.gateway = NewFakeGateway()
	s.emailSender = NewCaptureEmailSender()
}

// ClearStores resets all in-memory state
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.PriceBook.(*InMemoryPriceBook).Reset()
	s.stores.SubscriptionRepo.(*InMemorySubscriptionStore).Reset()
	s.stores.LedgerRepo.(*InMemoryLedgerStore).Reset()
	s.stores.PendingPaymentRepo.(*InMemoryPendingPaymentStore).Reset()
	s.gateway.Reset()
	s.emailSender.Reset()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetGateway() *FakeGateway {
	return s.gateway
}

func (s *BaseServiceTestSuite) GetEmailSender() *CaptureEmailSender {
	return s.emailSender
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}
