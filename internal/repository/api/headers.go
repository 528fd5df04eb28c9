package api

import (
	"context"

	"github.com/shulepay/shulepay/internal/config"
	"github.com/shulepay/shulepay/internal/types"
)

// backendHeaders builds the service-to-service headers for school backend
// calls, propagating the request identity
func backendHeaders(ctx context.Context, cfg config.BackendConfig) map[string]string {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if cfg.ServiceToken != "" {
		headers["X-Service-Token"] = cfg.ServiceToken
	}
	if requestID := types.GetRequestID(ctx); requestID != "" {
		headers[types.HeaderRequestID] = requestID
	}
	if userID := types.GetUserID(ctx); userID != "" {
		headers[types.HeaderUserID] = userID
	}
	return headers
}
