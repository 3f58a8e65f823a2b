package services

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed providers.yaml
var providersYAML []byte

type CatalogModel struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

type CatalogProvider struct {
	ID     string         `yaml:"id" json:"id"`
	Label  string         `yaml:"label" json:"label"`
	Models []CatalogModel `yaml:"models" json:"models"`
}

// ModelCatalog is the static provider/model listing served to the model
// picker. It ships compiled into the binary.
type ModelCatalog struct {
	Providers []CatalogProvider `yaml:"providers" json:"providers"`
}

func LoadModelCatalog() (*ModelCatalog, error) {
	var catalog ModelCatalog
	if err := yaml.Unmarshal(providersYAML, &catalog); err != nil {
		return nil, fmt.Errorf("parse model catalog: %w", err)
	}
	if len(catalog.Providers) == 0 {
		return nil, fmt.Errorf("model catalog is empty")
	}
	return &catalog, nil
}

// Valid reports whether the provider/model pair exists in the catalog.
func (c *ModelCatalog) Valid(provider, model string) bool {
	for _, p := range c.Providers {
		if p.ID != provider {
			continue
		}
		for _, m := range p.Models {
			if m.ID == model {
				return true
			}
		}
	}
	return false
}
