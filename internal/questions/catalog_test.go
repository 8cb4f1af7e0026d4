package questions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := DefaultCatalog()
	if err := c.Validate(); err != nil {
		t.Fatalf("default catalog invalid: %v", err)
	}
	if got := len(c.Templates(ProjectSpecific)); got != 4 {
		t.Fatalf("expected 4 project templates, got %d", got)
	}
}

func TestParseCatalogErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr string
	}{
		{
			name:    "wrong placeholder",
			mutate:  func(s string) string { return strings.Replace(s, "placeholder: cloud", "placeholder: sky", 1) },
			wantErr: "must use placeholder",
		},
		{
			name: "missing family",
			mutate: func(s string) string {
				idx := strings.Index(s, "  systemDesign:")
				return s[:idx]
			},
			wantErr: "systemDesign has no templates",
		},
		{
			name:    "broken yaml",
			mutate:  func(string) string { return "families: [" },
			wantErr: "decode catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseCatalog([]byte(tt.mutate(string(defaultTemplates))))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	if err := os.WriteFile(path, defaultTemplates, 0o600); err != nil {
		t.Fatalf("write templates: %v", err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Templates(SpecificTechnology)) != 5 {
		t.Fatalf("unexpected technology templates: %v", c.Templates(SpecificTechnology))
	}

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
