package faults

import "context"

// Repository defines persistence for analysis faults
type Repository interface {
	Save(ctx context.Context, f *Fault) error
	Recent(ctx context.Context, limit int) ([]*Fault, error)
}
