package domain

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed vessels.yaml
var defaultVessels []byte

// VesselType groups the fleet's vessels of one kind.
type VesselType struct {
	Name    string   `yaml:"name"`
	Vessels []string `yaml:"vessels"`
}

// VesselCatalog is the ordered list of vessel types offered on the form.
type VesselCatalog struct {
	Types []VesselType `yaml:"types"`
}

// DefaultVesselCatalog returns the built-in fleet list.
func DefaultVesselCatalog() *VesselCatalog {
	c, err := ParseVesselCatalog(defaultVessels)
	if err != nil {
		panic(fmt.Sprintf("embedded vessel catalog: %v", err))
	}
	return c
}

// LoadVesselCatalog reads a catalog from a YAML file. An empty path yields
// the built-in catalog.
func LoadVesselCatalog(path string) (*VesselCatalog, error) {
	if path == "" {
		return DefaultVesselCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vessel catalog: %w", err)
	}
	return ParseVesselCatalog(data)
}

// ParseVesselCatalog decodes catalog YAML.
func ParseVesselCatalog(data []byte) (*VesselCatalog, error) {
	var c VesselCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing vessel catalog: %w", err)
	}
	if len(c.Types) == 0 {
		return nil, fmt.Errorf("parsing vessel catalog: no vessel types")
	}
	for _, t := range c.Types {
		if t.Name == "" {
			return nil, fmt.Errorf("parsing vessel catalog: vessel type without a name")
		}
	}
	return &c, nil
}

// TypeNames returns the vessel type names in catalog order.
func (c *VesselCatalog) TypeNames() []string {
	names := make([]string, len(c.Types))
	for i, t := range c.Types {
		names[i] = t.Name
	}
	return names
}

// Vessels returns the vessels of the named type, or nil.
func (c *VesselCatalog) Vessels(typeName string) []string {
	for _, t := range c.Types {
		if t.Name == typeName {
			return t.Vessels
		}
	}
	return nil
}
