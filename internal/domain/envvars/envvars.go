// Package envvars builds the production environment pushed to a hosting platform.
package envvars

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Variable names understood by the OptionScope app.
const (
	FlaskEnv             = "FLASK_ENV"
	SecretKey            = "SECRET_KEY"
	StripePublishableKey = "STRIPE_PUBLISHABLE_KEY"
	StripeSecretKey      = "STRIPE_SECRET_KEY"
	StripeWebhookSecret  = "STRIPE_WEBHOOK_SECRET"
	AlphaVantageAPIKey   = "ALPHA_VANTAGE_API_KEY"
	IEXAPIKey            = "IEX_API_KEY"

	// ProductionFlaskEnv is the FLASK_ENV value for every deployment.
	ProductionFlaskEnv = "production"
)

const secretKeyBytes = 32

// Var is a single key/value pair.
type Var struct {
	Key   string
	Value string
}

// Set is an insertion-ordered collection of variables.
// Setting an existing key replaces its value without moving it.
type Set struct {
	vars  []Var
	index map[string]int
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// Set stores value under key.
func (s *Set) Set(key, value string) {
	if i, ok := s.index[key]; ok {
		s.vars[i].Value = value
		return
	}
	s.index[key] = len(s.vars)
	s.vars = append(s.vars, Var{Key: key, Value: value})
}

// Get returns the value stored under key.
func (s *Set) Get(key string) (string, bool) {
	i, ok := s.index[key]
	if !ok {
		return "", false
	}
	return s.vars[i].Value, true
}

// Len returns the number of keys, exportable or not.
func (s *Set) Len() int { return len(s.vars) }

// All returns every variable in insertion order.
func (s *Set) All() []Var {
	out := make([]Var, len(s.vars))
	copy(out, s.vars)
	return out
}

// Exportable returns the variables worth pushing to a platform: non-empty
// values that are not the template placeholder.
func (s *Set) Exportable(placeholder string) []Var {
	out := make([]Var, 0, len(s.vars))
	for _, v := range s.vars {
		if v.Value == "" || (placeholder != "" && v.Value == placeholder) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// GenerateSecretKey returns 32 random bytes encoded as unpadded URL-safe base64.
func GenerateSecretKey() (string, error) {
	b := make([]byte, secretKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
