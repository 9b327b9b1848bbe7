// Package scoring adapts the pre-trained approval model to the decision
// engine. The model is served remotely and described by a YAML manifest
// loaded once at startup; its internal format is never read here.
package scoring

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"loanassist/internal/application"
)

// Manifest describes the deployed model.
type Manifest struct {
	Name     string        `yaml:"name"`
	Version  string        `yaml:"version"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	Features []string      `yaml:"features"`
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read model manifest: %w", err)
	}
	return ParseManifest(data)
}

// ParseManifest decodes and validates a YAML manifest.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse model manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validate checks the manifest is usable. The feature list must match the
// encoder's column order exactly, since the model scores by position.
func (m Manifest) Validate() error {
	var problems []string
	if strings.TrimSpace(m.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(m.Version) == "" {
		problems = append(problems, "version is required")
	}
	if u, err := url.Parse(m.Endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("endpoint %q must be an absolute http(s) URL", m.Endpoint))
	}
	if m.Timeout < 0 {
		problems = append(problems, "timeout must not be negative")
	}
	if want := application.FeatureNames(); !slices.Equal(m.Features, want) {
		problems = append(problems, fmt.Sprintf("features must be exactly %v in that order", want))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid model manifest: %s", strings.Join(problems, "; "))
	}
	return nil
}
