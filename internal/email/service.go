package email

import (
	"context"

	"github.com/shulepay/shulepay/internal/logger"
)

// Sender dispatches notifications. Delivery is best effort; callers in
// the billing core never treat a dispatch failure as fatal to the
// surrounding operation.
type Sender interface {
	Send(ctx context.Context, req SendRequest) error
}

type sender struct {
	client *Client
	logger *logger.Logger
}

// NewSender creates a notification sender over the email client
func NewSender(client *Client, log *logger.Logger) Sender {
	return &sender{
		client: client,
		logger: log,
	}
}

func (s *sender) Send(ctx context.Context, req SendRequest) error {
	if !s.client.IsEnabled() {
		s.logger.Warnw("email client is disabled, skipping send",
			"to", req.To,
			"subject", req.Subject,
		)
		return nil
	}

	messageID, err := s.client.SendEmail(ctx, s.client.GetFromAddress(), req.To, req.Subject, req.HTML, req.Text)
	if err != nil {
		s.logger.Errorw("failed to send email",
			"error", err,
			"to", req.To,
			"subject", req.Subject,
		)
		return err
	}

	s.logger.Infow("email sent",
		"message_id", messageID,
		"to", req.To,
		"subject", req.Subject,
	)
	return nil
}
