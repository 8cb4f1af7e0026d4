// Package questions turns résumé signals into interview question sets.
package questions

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Family groups templates that share a placeholder and intent.
type Family string

const (
	SpecificTechnology Family = "specificTechnology"
	ProjectSpecific    Family = "projectSpecific"
	FrameworkSpecific  Family = "frameworkSpecific"
	DatabaseExperience Family = "databaseExperience"
	CloudExperience    Family = "cloudExperience"
	RoleSpecific       Family = "roleSpecific"
	ProblemSolving     Family = "problemSolving"
	SystemDesign       Family = "systemDesign"
)

// placeholders is the fixed placeholder name per family. Generic families
// carry none.
var placeholders = map[Family]string{
	SpecificTechnology: "tech",
	ProjectSpecific:    "project",
	FrameworkSpecific:  "framework",
	DatabaseExperience: "database",
	CloudExperience:    "cloud",
	RoleSpecific:       "role",
	ProblemSolving:     "",
	SystemDesign:       "",
}

//go:embed templates.yaml
var defaultTemplates []byte

// FamilyTemplates is one family entry of the catalog file.
type FamilyTemplates struct {
	Placeholder string   `yaml:"placeholder"`
	Templates   []string `yaml:"templates"`
}

// Catalog holds the template variants of every family.
type Catalog struct {
	Families map[Family]FamilyTemplates `yaml:"families"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(defaultTemplates)
		if err != nil {
			panic(fmt.Sprintf("built-in question templates: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates file %q: %w", path, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("templates file %q: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that every family exists, uses its own placeholder only,
// and that the generic pools can fill a whole set on their own.
func (c *Catalog) Validate() error {
	generic := make(map[string]struct{})

	for family, placeholder := range placeholders {
		ft, ok := c.Families[family]
		if !ok || len(ft.Templates) == 0 {
			return fmt.Errorf("family %s has no templates", family)
		}
		if ft.Placeholder != placeholder {
			return fmt.Errorf("family %s must use placeholder %q, got %q", family, placeholder, ft.Placeholder)
		}
		for _, tpl := range ft.Templates {
			if strings.TrimSpace(tpl) == "" {
				return fmt.Errorf("family %s has an empty template", family)
			}
			if placeholder == "" {
				if strings.ContainsAny(tpl, "{}") {
					return fmt.Errorf("family %s template must not carry a placeholder: %q", family, tpl)
				}
				generic[tpl] = struct{}{}
				continue
			}
			if !strings.Contains(tpl, token(placeholder)) {
				return fmt.Errorf("family %s template misses %s: %q", family, token(placeholder), tpl)
			}
		}
	}

	if len(generic) < Count {
		return fmt.Errorf("generic families need at least %d distinct templates, got %d", Count, len(generic))
	}
	return nil
}

// Templates returns the variants of a family.
func (c *Catalog) Templates(f Family) []string {
	return c.Families[f].Templates
}

func token(name string) string {
	return "{" + name + "}"
}
