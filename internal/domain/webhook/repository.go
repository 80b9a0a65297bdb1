package webhook

import "context"

// Repository defines the persistence interface for the delivery log.
// Record upserts by body hash: a later attempt for the same body (e.g. a
// rejected delivery resent with a fixed signature) overwrites the logged
// outcome instead of failing the unique constraint.
type Repository interface {
	Record(ctx context.Context, d *Delivery) error
	GetByBodySHA256(ctx context.Context, bodySHA256 string) (*Delivery, error)
}
