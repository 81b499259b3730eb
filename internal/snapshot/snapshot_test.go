package snapshot

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

const sampleList = `
packages:
  - name: pkga
    version: "1.0"
    provides:
      - "virt-dep 1.0"
    updated_at: 2024-03-01T10:00:00Z
  - name: pkgb
    version: "1.0"
    depend:
      - ["virt-dep = 1.0"]
    updated_at: 2024-03-02T10:00:00Z
`

func TestParse(t *testing.T) {
	parser := NewParser(strings.NewReader(sampleList))
	packages, err := parser.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if len(packages) != 2 {
		t.Fatalf("got %d packages, want 2", len(packages))
	}
	if packages[0].Name != "pkga" || packages[1].Name != "pkgb" {
		t.Errorf("names = %s, %s", packages[0].Name, packages[1].Name)
	}
	if len(packages[0].Provides) != 1 || packages[0].Provides[0].Name != "virt-dep" {
		t.Errorf("pkga provides = %v", packages[0].Provides)
	}
	if len(packages[1].Depend) != 1 {
		t.Errorf("pkgb depend = %v", packages[1].Depend)
	}
	want := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	if !packages[0].UpdatedAt.Equal(want) {
		t.Errorf("pkga updated_at = %v, want %v", packages[0].UpdatedAt, want)
	}
}

func TestParseEmpty(t *testing.T) {
	parser := NewParser(strings.NewReader(""))
	packages, err := parser.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(packages) != 0 {
		t.Errorf("got %d packages, want 0", len(packages))
	}
}

func TestEmitRoundTrip(t *testing.T) {
	parser := NewParser(strings.NewReader(sampleList))
	packages, err := parser.Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := NewEmitter(&buf).Emit(packages); err != nil {
		t.Fatalf("Emit error: %v", err)
	}

	again, err := NewParser(&buf).Parse()
	if err != nil {
		t.Fatalf("re-Parse error: %v", err)
	}
	if len(again) != len(packages) {
		t.Fatalf("round trip count = %d, want %d", len(again), len(packages))
	}
	for i := range again {
		if again[i].Name != packages[i].Name {
			t.Errorf("package %d name = %q, want %q", i, again[i].Name, packages[i].Name)
		}
		if !again[i].UpdatedAt.Equal(packages[i].UpdatedAt) {
			t.Errorf("package %d updated_at = %v, want %v", i, again[i].UpdatedAt, packages[i].UpdatedAt)
		}
	}
}

func TestEmitSortsByName(t *testing.T) {
	in := `
packages:
  - name: zeta
    version: "1.0"
  - name: alpha
    version: "1.0"
`
	packages, err := NewParser(strings.NewReader(in)).Parse()
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := NewEmitter(&buf).Emit(packages); err != nil {
		t.Fatalf("Emit error: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "alpha") > strings.Index(out, "zeta") {
		t.Errorf("emit not sorted:\n%s", out)
	}
}
