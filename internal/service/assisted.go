package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shulepay/shulepay/internal/api/dto"
	"github.com/shulepay/shulepay/internal/domain/subscription"
	"github.com/shulepay/shulepay/internal/email"
	ierr "github.com/shulepay/shulepay/internal/errors"
	"github.com/shulepay/shulepay/internal/types"
	"github.com/sourcegraph/conc"
)

// AssistedUpgradeService handles plan changes that are fulfilled by a
// human instead of the self-serve gateway flow. Premium is sold this way.
type AssistedUpgradeService interface {
	Request(ctx context.Context, req *dto.AssistedUpgradeRequest) (*dto.AssistedUpgradeResponse, error)
}

type assistedUpgradeService struct {
	ServiceParams
	pricingService PricingService
}

// NewAssistedUpgradeService creates a new assisted upgrade service
func NewAssistedUpgradeService(params ServiceParams) AssistedUpgradeService {
	return &assistedUpgradeService{
		ServiceParams:  params,
		pricingService: NewPricingService(params),
	}
}

func (s *assistedUpgradeService) Request(ctx context.Context, req *dto.AssistedUpgradeRequest) (*dto.AssistedUpgradeResponse, error) {
	if err := types.ValidateTenantContext(ctx); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Tenant context is required").
			Mark(ierr.ErrValidation)
	}

	if req.TargetTier != types.PlanTierPremium {
		return nil, ierr.NewError("plan is available for self-serve payment").
			WithHintf("The %s plan can be paid for directly", req.TargetTier).
			Mark(ierr.ErrInvalidOperation)
	}

	requesterEmail := types.GetUserEmail(ctx)
	if requesterEmail == "" {
		return nil, ierr.NewError("missing requester email").
			WithHint("An email address is required for an assisted upgrade").
			Mark(ierr.ErrValidation)
	}

	sub, err := s.SubscriptionRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	requestID := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ASSISTED_REQUEST)

	// The fulfillment team applies the change by hand, so the message
	// carries the same expiry the self-serve flow would compute
	action := types.BillingActionFor(sub.Tier, req.TargetTier)
	projected := subscription.ProjectExpiry(sub.CurrentExpiry, time.Now().UTC(), req.DurationMonths, action)

	body := fmt.Sprintf(
		"Assisted upgrade request %s\n\n"+
			"Tenant: %s\n"+
			"Requested by: %s (%s)\n"+
			"Current plan: %s\n"+
			"Requested plan: %s for %d month(s)\n"+
			"Currency: %s\n"+
			"Projected expiry: %s\n",
		requestID,
		types.GetTenantID(ctx),
		types.GetUserID(ctx), requesterEmail,
		sub.Tier,
		req.TargetTier, req.DurationMonths,
		sub.Currency,
		projected.Format("02 Jan 2006"),
	)

	// The price list is advisory for the fulfillment team; a missing
	// premium price does not block the request
	if prices, err := s.pricingService.GetPrices(ctx, sub.Currency); err == nil {
		if monthly, ok := prices[types.PlanTierPremium]; ok {
			body += fmt.Sprintf("Reference monthly price: %s %s\n", sub.Currency, monthly.StringFixed(2))
		}
	}

	subject := fmt.Sprintf("Upgrade request %s: %s", requestID, req.TargetTier)

	// Dispatch to the fulfillment team and copy the requester. Only the
	// fulfillment leg is load bearing.
	var fulfillmentErr, copyErr error
	var wg conc.WaitGroup
	wg.Go(func() {
		fulfillmentErr = s.EmailSender.Send(ctx, email.SendRequest{
			To:      []string{s.Config.Billing.FulfillmentEmail},
			Subject: subject,
			Text:    body,
		})
	})
	wg.Go(func() {
		copyErr = s.EmailSender.Send(ctx, email.SendRequest{
			To:      []string{requesterEmail},
			Subject: "We received your upgrade request",
			Text: fmt.Sprintf(
				"Your request to upgrade to the %s plan for %d month(s) was received.\n"+
					"Our team will contact you at %s to complete it.\n\n"+
					"Request ID: %s\n",
				req.TargetTier, req.DurationMonths, requesterEmail, requestID,
			),
		})
	})
	wg.Wait()

	if fulfillmentErr != nil {
		return nil, ierr.WithError(fulfillmentErr).
			WithHint("The upgrade request could not be sent, please try again").
			WithReportableDetails(map[string]any{
				"request_id": requestID,
			}).
			Mark(ierr.ErrSystem)
	}
	if copyErr != nil {
		s.Logger.Warnw("failed to send upgrade request copy to requester",
			"error", copyErr,
			"request_id", requestID,
			"to", requesterEmail,
		)
	}

	s.Logger.Infow("assisted upgrade request dispatched",
		"request_id", requestID,
		"tenant_id", types.GetTenantID(ctx),
		"target_tier", req.TargetTier,
	)

	return &dto.AssistedUpgradeResponse{
		RequestID:  requestID,
		Dispatched: true,
		Message:    "Your upgrade request was sent. Our team will contact you shortly.",
	}, nil
}
