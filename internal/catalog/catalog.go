// Package catalog serves the static legal categories and lawyer
// specializations shown by the chatbot and the lawyer directory.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var raw []byte

type Category struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Examples    []string `yaml:"examples" json:"examples"`
}

type Specialization struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

type Catalog struct {
	Categories      []Category       `yaml:"categories"`
	Specializations []Specialization `yaml:"specializations"`
}

var (
	once    sync.Once
	loaded  *Catalog
	loadErr error
)

// Load parses the embedded catalog once and returns the shared copy.
func Load() (*Catalog, error) {
	once.Do(func() {
		loaded, loadErr = Parse(raw)
	})
	return loaded, loadErr
}

// MustLoad is Load for program start-up.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Categories) == 0 || len(c.Specializations) == 0 {
		return nil, fmt.Errorf("parse catalog: categories and specializations are required")
	}
	return &c, nil
}
