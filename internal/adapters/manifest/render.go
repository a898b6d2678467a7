// Package manifest renders and writes the Render blueprint (render.yaml).
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

const (
	filePermission = 0o644
	dirPermission  = 0o750
)

// Blueprint is the top-level render.yaml document.
type Blueprint struct {
	Services []Service `yaml:"services"`
}

// Service is one Render service.
type Service struct {
	Type         string   `yaml:"type"`
	Name         string   `yaml:"name"`
	Env          string   `yaml:"env"`
	BuildCommand string   `yaml:"buildCommand"`
	StartCommand string   `yaml:"startCommand"`
	EnvVars      []EnvVar `yaml:"envVars"`
}

// EnvVar is a service variable; GenerateValue asks Render to mint a random value.
type EnvVar struct {
	Key           string `yaml:"key"`
	Value         string `yaml:"value,omitempty"`
	GenerateValue bool   `yaml:"generateValue,omitempty"`
}

// WebBlueprint returns the blueprint for the OptionScope web service named name.
func WebBlueprint(name string) Blueprint {
	return Blueprint{
		Services: []Service{{
			Type:         "web",
			Name:         name,
			Env:          "python",
			BuildCommand: "pip install -r requirements.txt",
			StartCommand: "gunicorn app:server",
			EnvVars: []EnvVar{
				{Key: "FLASK_ENV", Value: "production"},
				{Key: "SECRET_KEY", GenerateValue: true},
			},
		}},
	}
}

// Marshal encodes b as YAML with two-space indentation.
func Marshal(b Blueprint) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return nil, fmt.Errorf("encode blueprint: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode blueprint: %w", err)
	}
	return buf.Bytes(), nil
}

// Write atomically replaces path with the encoded blueprint.
func Write(path string, b Blueprint) error {
	data, err := Marshal(b)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermission); err != nil {
			return fmt.Errorf("create blueprint dir: %w", err)
		}
	}
	if err := renameio.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// CopyFile atomically copies src over dst, e.g. requirements-vercel.txt -> requirements.txt.
func CopyFile(src, dst string) error {
	data, err := os.ReadFile(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if err := renameio.WriteFile(dst, data, filePermission); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}
