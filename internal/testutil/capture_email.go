package testutil

import (
	"context"
	"sync"

	"github.com/shulepay/shulepay/internal/email"
)

// CaptureEmailSender implements email.Sender and records every dispatch
type CaptureEmailSender struct {
	mu   sync.Mutex
	sent []email.SendRequest
	err  error
}

// NewCaptureEmailSender creates a new capturing email sender
func NewCaptureEmailSender() *CaptureEmailSender {
	return &CaptureEmailSender{}
}

// Reset drops captured dispatches and the scripted error
func (s *CaptureEmailSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
	s.err = nil
}

// SetError makes every dispatch fail
func (s *CaptureEmailSender) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Sent returns a copy of the captured dispatches
func (s *CaptureEmailSender) Sent() []email.SendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.SendRequest(nil), s.sent...)
}

func (s *CaptureEmailSender) Send(ctx context.Context, req email.SendRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, req)
	return nil
}
