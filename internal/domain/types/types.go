// Package types contains the JSON views printed by the CLI.
package types

import (
	"time"

	"github.com/carlfriend1995-alt/OptionScope/internal/domain/model"
)

// HistoryEntry is the JSON form of a recorded deployment.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Platform   string    `json:"platform"`
	Status     string    `json:"status"`
	URL        string    `json:"url,omitempty"`
	Message    string    `json:"message,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMS int64     `json:"duration_ms"`
}

// FromDeployment converts a deployment record to its JSON view.
func FromDeployment(d model.Deployment) HistoryEntry {
	return HistoryEntry{
		ID:         d.ID,
		Platform:   d.Platform,
		Status:     string(d.Status),
		URL:        d.URL,
		Message:    d.Message,
		StartedAt:  d.StartedAt,
		FinishedAt: d.FinishedAt,
		DurationMS: d.Duration().Milliseconds(),
	}
}

// PriceEntry is one provisioned Stripe price, keyed by the env var it belongs in.
type PriceEntry struct {
	EnvName string `json:"env_name"`
	PriceID string `json:"price_id"`
}
