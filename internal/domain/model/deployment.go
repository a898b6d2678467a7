// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the final state of a deployment run.
type Status string

// Deployment statuses.
const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	// StatusManual means the driver prepared everything but the operator must finish in a dashboard.
	StatusManual Status = "manual"
)

// App paths advertised after a successful deployment.
const (
	PricingPath       = "/pricing"
	DashboardPath     = "/dashboard"
	AdminPath         = "/auth/profile"
	StripeWebhookPath = "/auth/webhook/stripe"
)

// Result is what a platform driver reports back.
type Result struct {
	// URL is the live app URL when the platform reveals it.
	URL string
	// Note is shown instead of links when there is no URL.
	Note string
	// WebhookURL is where Stripe should send events, when known.
	WebhookURL string
	Status     Status
}

// HasURL reports whether the result carries a real app URL.
func (r Result) HasURL() bool {
	return strings.HasPrefix(r.URL, "https://") || strings.HasPrefix(r.URL, "http://")
}

// Link joins path onto the live URL.
func (r Result) Link(path string) string {
	return strings.TrimRight(r.URL, "/") + path
}

// Deployment is one recorded run of the tool.
type Deployment struct {
	ID         string
	Platform   string
	Status     Status
	URL        string
	Message    string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewDeployment starts a deployment record for platform.
func NewDeployment(platform string, now time.Time) Deployment {
	return Deployment{
		ID:        uuid.NewString(),
		Platform:  platform,
		StartedAt: now.UTC(),
	}
}

// Finish stamps the outcome onto d.
func (d *Deployment) Finish(status Status, url, message string, now time.Time) {
	d.Status = status
	d.URL = url
	d.Message = message
	d.FinishedAt = now.UTC()
}

// Duration is the wall time of the run.
func (d Deployment) Duration() time.Duration {
	if d.FinishedAt.IsZero() {
		return 0
	}
	return d.FinishedAt.Sub(d.StartedAt)
}
