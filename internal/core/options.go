package core

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed options.yaml
var defaultCatalogYAML []byte

// OptionList is the set of selectable values for one form field.
// Creatable lists accept values the user types in; fixed lists reject
// anything not listed.
type OptionList struct {
	Field     string   `yaml:"field" json:"field"`
	Label     string   `yaml:"label" json:"label"`
	Values    []string `yaml:"values" json:"values"`
	Creatable bool     `yaml:"creatable" json:"creatable"`
}

// Contains reports whether v is one of the listed values.
func (l OptionList) Contains(v string) bool {
	for _, x := range l.Values {
		if x == v {
			return true
		}
	}
	return false
}

// Catalog holds the option lists offered by the job form.
type Catalog struct {
	Lists []OptionList `yaml:"lists" json:"lists"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("core: embedded option catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from path. An empty path returns the built-in
// catalog. Lists absent from the file keep their built-in values.
func LoadCatalog(path string) (*Catalog, error) {
	base := DefaultCatalog()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read option catalog: %w", err)
	}
	override, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("option catalog %s: %w", path, err)
	}

	for _, l := range override.Lists {
		base.set(l)
	}
	return base, nil
}

// ParseCatalog decodes and checks a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse option catalog: %w", err)
	}

	seen := make(map[string]bool, len(c.Lists))
	for i, l := range c.Lists {
		if l.Field == "" {
			return nil, fmt.Errorf("option list %d has no field", i)
		}
		if _, ok := ColumnFor(l.Field); !ok {
			return nil, fmt.Errorf("option list %q names an unknown field", l.Field)
		}
		if seen[l.Field] {
			return nil, fmt.Errorf("option list %q is defined twice", l.Field)
		}
		seen[l.Field] = true
		for _, v := range l.Values {
			if strings.TrimSpace(v) == "" {
				return nil, fmt.Errorf("option list %q has a blank value", l.Field)
			}
		}
	}
	return &c, nil
}

// Get returns the list for field.
func (c *Catalog) Get(field string) (OptionList, bool) {
	if c == nil {
		return OptionList{}, false
	}
	for _, l := range c.Lists {
		if l.Field == field {
			return l, true
		}
	}
	return OptionList{}, false
}

// Values returns the values for field, or nil.
func (c *Catalog) Values(field string) []string {
	l, _ := c.Get(field)
	return l.Values
}

// Allows reports whether v is acceptable for field. Fields without a list
// and creatable lists accept anything.
func (c *Catalog) Allows(field, v string) bool {
	l, ok := c.Get(field)
	if !ok || l.Creatable {
		return true
	}
	return l.Contains(v)
}

func (c *Catalog) set(l OptionList) {
	for i := range c.Lists {
		if c.Lists[i].Field == l.Field {
			c.Lists[i] = l
			return
		}
	}
	c.Lists = append(c.Lists, l)
}
