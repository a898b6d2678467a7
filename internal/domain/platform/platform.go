// Package platform names the hosting targets the deploy tool knows how to drive.
package platform

import (
	"fmt"
	"strings"
)

// Name identifies a hosting platform.
type Name string

// Supported platforms, in menu order.
const (
	Vercel  Name = "vercel"
	Heroku  Name = "heroku"
	Railway Name = "railway"
	Render  Name = "render"
)

// Default is used when the operator picks nothing recognizable from the menu.
const Default = Vercel

var all = []Name{Vercel, Heroku, Railway, Render}

var labels = map[Name]string{
	Vercel:  "Vercel (Recommended - Free tier)",
	Heroku:  "Heroku (Full-stack)",
	Railway: "Railway (Modern)",
	Render:  "Render (Simple)",
}

// All returns the supported platforms in menu order.
func All() []Name {
	out := make([]Name, len(all))
	copy(out, all)
	return out
}

// SupportedList renders the supported names as "vercel, heroku, railway, render".
func SupportedList() string {
	names := make([]string, len(all))
	for i, n := range all {
		names[i] = string(n)
	}
	return strings.Join(names, ", ")
}

// Parse resolves a platform name, ignoring case and surrounding whitespace.
func Parse(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := labels[n]; !ok {
		return "", fmt.Errorf("%w: %q (supported platforms: %s)", ErrUnsupported, s, SupportedList())
	}
	return n, nil
}

// FromMenuChoice maps a 1-based menu answer to a platform. Anything else selects Default.
func FromMenuChoice(choice string) Name {
	switch strings.TrimSpace(choice) {
	case "1":
		return Vercel
	case "2":
		return Heroku
	case "3":
		return Railway
	case "4":
		return Render
	default:
		return Default
	}
}

// Describe returns the menu label for n.
func Describe(n Name) string {
	if l, ok := labels[n]; ok {
		return l
	}
	return string(n)
}

// Title returns the display form of n, e.g. "Vercel".
func (n Name) Title() string {
	if n == "" {
		return ""
	}
	return strings.ToUpper(string(n[:1])) + string(n[1:])
}

func (n Name) String() string { return string(n) }

// PushesEnv reports whether deploying to n pushes environment variables.
// Render generates its own secrets from the blueprint.
func (n Name) PushesEnv() bool { return n != Render }
