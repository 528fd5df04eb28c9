package subscription

import "context"

// Repository defines the interface for the subscription record of record,
// owned by the school backend. Get and Update are scoped to the tenant in
// the context.
type Repository interface {
	Get(ctx context.Context) (*Subscription, error)
	Update(ctx context.Context, sub *Subscription) error
}
