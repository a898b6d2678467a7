// Package repository records past deployments.
package repository

import (
	"context"

	"github.com/carlfriend1995-alt/OptionScope/internal/domain/model"
)

// MaxLimit bounds List.
const MaxLimit = 500

// Store persists deployment records.
type Store interface {
	// Record inserts d, or replaces the row with the same ID.
	Record(ctx context.Context, d model.Deployment) error

	// List returns up to limit deployments, newest first.
	// Returns ErrInvalidLimit unless 1 <= limit <= MaxLimit.
	List(ctx context.Context, limit int) ([]model.Deployment, error)

	// Get returns the deployment with id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (model.Deployment, error)

	Close() error
}

func validLimit(limit int) bool { return limit >= 1 && limit <= MaxLimit }
