package enrichment

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Label is one admissible classification for a complaint. Hints are keyword
// fallbacks for model answers that wrap the label in prose.
type Label struct {
	Name  string   `yaml:"name" json:"name"`
	Hints []string `yaml:"hints" json:"hints"`
}

type LabelsConfig struct {
	Labels []Label `yaml:"labels" json:"labels"`
}

func LoadLabels(path string) (LabelsConfig, error) {
	if path == "" {
		return DefaultLabels(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultLabels(), err
	}

	var cfg LabelsConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return DefaultLabels(), err
	}

	if len(cfg.Labels) == 0 {
		return DefaultLabels(), errors.New("no category labels configured")
	}

	for i := range cfg.Labels {
		cfg.Labels[i].Name = strings.ToLower(strings.TrimSpace(cfg.Labels[i].Name))
	}

	return cfg, nil
}

func DefaultLabels() LabelsConfig {
	return LabelsConfig{Labels: []Label{
		{Name: "technical", Hints: []string{"sms", "login", "app", "crash", "error", "bug"}},
		{Name: "billing", Hints: []string{"payment", "charge", "invoice", "tariff", "refund", "subscription"}},
		{Name: "other", Hints: nil},
	}}
}

// Names returns the label names in configured order.
func (c LabelsConfig) Names() []string {
	names := make([]string, 0, len(c.Labels))
	for _, l := range c.Labels {
		names = append(names, l.Name)
	}
	return names
}
