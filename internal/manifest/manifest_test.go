package manifest

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/vpm-dev/vpm/internal/version"
)

func TestParseDependency(t *testing.T) {
	tests := []struct {
		in       string
		name     string
		rangeStr string
	}{
		{"pkga", "pkga", "*"},
		{"pkga *", "pkga", "*"},
		{"pkga = 1.0", "pkga", "= 1.0"},
		{"pkga >= 1.0, < 2.0", "pkga", "< 2.0, >= 1.0"},
		{"pkga 1.0", "pkga", "= 1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := ParseDependency(tt.in)
			if err != nil {
				t.Fatalf("ParseDependency(%q) error: %v", tt.in, err)
			}
			if d.Name != tt.name {
				t.Errorf("Name = %q, want %q", d.Name, tt.name)
			}
			if got := d.Range.String(); got != tt.rangeStr {
				t.Errorf("Range = %q, want %q", got, tt.rangeStr)
			}
		})
	}

	invalid := []string{"", "  ", "pkga ~> 1.0", "pkga >= 2.0, < 1.0"}
	for _, in := range invalid {
		t.Run("invalid_"+in, func(t *testing.T) {
			if _, err := ParseDependency(in); err == nil {
				t.Errorf("ParseDependency(%q) succeeded, want error", in)
			}
		})
	}
}

func TestParseVirtual(t *testing.T) {
	v, err := ParseVirtual("virt-dep 1.0")
	if err != nil {
		t.Fatalf("ParseVirtual error: %v", err)
	}
	if v.Name != "virt-dep" || v.Version.String() != "1.0" {
		t.Errorf("ParseVirtual = %+v", v)
	}

	for _, in := range []string{"", "virt-dep", "virt-dep 1.0 extra", "virt-dep abc"} {
		if _, err := ParseVirtual(in); err == nil {
			t.Errorf("ParseVirtual(%q) succeeded, want error", in)
		}
	}
}

func TestPackageYAMLRoundTrip(t *testing.T) {
	in := `
name: pkgb
version: "1.2.3"
depend:
  - ["pkga >= 1.0, < 2.0", "pkga-compat"]
  - ["pkgc = 2.0"]
conflicts:
  - "pkgd < 1.0"
provides:
  - "virt-dep 1.0"
commands:
  - git
  - make
`
	var pkg Package
	if err := yaml.Unmarshal([]byte(in), &pkg); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if pkg.Name != "pkgb" || pkg.Version.Compare(version.MustParse("1.2.3")) != 0 {
		t.Errorf("identity = %s %s", pkg.Name, pkg.Version)
	}
	if len(pkg.Depend) != 2 || len(pkg.Depend[0]) != 2 || len(pkg.Depend[1]) != 1 {
		t.Fatalf("Depend shape = %v", pkg.Depend)
	}
	if pkg.Depend[0][1].Range.String() != "*" {
		t.Errorf("bare dependency range = %q, want *", pkg.Depend[0][1].Range.String())
	}
	if len(pkg.Conflicts) != 1 || pkg.Conflicts[0].Name != "pkgd" {
		t.Errorf("Conflicts = %v", pkg.Conflicts)
	}
	if len(pkg.Provides) != 1 || pkg.Provides[0].Name != "virt-dep" {
		t.Errorf("Provides = %v", pkg.Provides)
	}
	if len(pkg.Commands) != 2 {
		t.Errorf("Commands = %v", pkg.Commands)
	}

	out, err := yaml.Marshal(pkg)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var again Package
	if err := yaml.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-Unmarshal error: %v", err)
	}
	if again.Name != pkg.Name || len(again.Depend) != len(pkg.Depend) {
		t.Errorf("round trip mismatch: %+v", again)
	}
	if again.Depend[0][0].Range.String() != pkg.Depend[0][0].Range.String() {
		t.Errorf("round trip range = %q, want %q",
			again.Depend[0][0].Range.String(), pkg.Depend[0][0].Range.String())
	}
}

func TestPackageYAMLBadRange(t *testing.T) {
	in := `
name: pkgb
version: "1.0"
depend:
  - ["pkga >= 2.0, < 1.0"]
`
	var pkg Package
	if err := yaml.Unmarshal([]byte(in), &pkg); err == nil {
		t.Fatal("Unmarshal succeeded, want conflicting range error")
	}
}
