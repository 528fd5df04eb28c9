package testutil

import (
	"context"
	"sync"

	"github.com/shulepay/shulepay/internal/domain/payment"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/integration/paystack"
	"github.com/shulepay/shulepay/internal/types"
)

// FakeGateway implements paystack.Client with scriptable outcomes and
// call recording
type FakeGateway struct {
	mu sync.Mutex

	FailInline   bool
	FailRedirect bool

	// results per reference; references without an entry verify as pending
	verifyResults map[string]*payment.VerificationResult
	verifyErr     error

	InlineCalls   []*paystack.InitializeRequest
	RedirectCalls []*paystack.InitializeRequest
	VerifyCalls   []string
}

// NewFakeGateway creates a gateway double where both transports succeed
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		verifyResults: make(map[string]*payment.VerificationResult),
	}
}

// Reset drops scripted outcomes and recorded calls
func (g *FakeGateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.FailInline = false
	g.FailRedirect = false
	g.verifyResults = make(map[string]*payment.VerificationResult)
	g.verifyErr = nil
	g.InlineCalls = nil
	g.RedirectCalls = nil
	g.VerifyCalls = nil
}

// SetVerifyResult scripts the verification outcome for a reference
func (g *FakeGateway) SetVerifyResult(reference string, result *payment.VerificationResult) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifyResults[reference] = result
}

// SetVerifyError makes every verification call fail
func (g *FakeGateway) SetVerifyError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifyErr = err
}

func (g *FakeGateway) CreateInlineSession(ctx context.Context, req *paystack.InitializeRequest) (*paystack.InlineSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.InlineCalls = append(g.InlineCalls, req)
	if g.FailInline {
		return nil, ierr.NewError("inline initialization failed").
			WithHint("Embedded payment flow could not be started").
			Mark(ierr.ErrGateway)
	}

	return &paystack.InlineSession{
		Reference:  req.Reference,
		AccessCode: "access_" + req.Reference,
		PublicKey:  "pk_test_fake",
	}, nil
}

func (g *FakeGateway) InitializeRedirect(ctx context.Context, req *paystack.InitializeRequest) (*paystack.RedirectSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.RedirectCalls = append(g.RedirectCalls, req)
	if g.FailRedirect {
		return nil, ierr.NewError("redirect initialization failed").
			WithHint("Hosted checkout could not be started").
			Mark(ierr.ErrGateway)
	}

	return &paystack.RedirectSession{
		Reference:        req.Reference,
		AccessCode:       "access_" + req.Reference,
		AuthorizationURL: "https://checkout.test/" + req.Reference,
	}, nil
}

func (g *FakeGateway) VerifyTransaction(ctx context.Context, reference string) (*payment.VerificationResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.VerifyCalls = append(g.VerifyCalls, reference)
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}

	if result, ok := g.verifyResults[reference]; ok {
		return result, nil
	}

	return &payment.VerificationResult{
		Status:    types.PaymentStatusPending,
		Reference: reference,
	}, nil
}
