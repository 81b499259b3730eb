// Package manifest defines the package relation model: identity,
// dependencies, conflicts, virtual provisions and required commands.
// These shapes are produced by the snapshot layer and consumed by the
// dependency graph.
package manifest

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vpm-dev/vpm/internal/version"
)

// Dependency names a package together with the version range an
// installed copy must match. It also doubles as a conflict entry.
type Dependency struct {
	Name  string
	Range *version.Range
}

// ParseDependency parses the textual form "name" or "name <range>".
// A missing range means any version.
func ParseDependency(text string) (Dependency, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Dependency{}, fmt.Errorf("empty dependency")
	}

	name := trimmed
	rangeText := "*"
	if i := strings.IndexAny(trimmed, " \t"); i != -1 {
		name = trimmed[:i]
		rangeText = strings.TrimSpace(trimmed[i+1:])
	}

	r, err := version.ParseRange(rangeText)
	if err != nil {
		return Dependency{}, fmt.Errorf("dependency %q: %w", trimmed, err)
	}
	return Dependency{Name: name, Range: r}, nil
}

func (d Dependency) String() string {
	r := d.Range.String()
	if r == "*" {
		return d.Name
	}
	return d.Name + " " + r
}

// Virtual is a capability a package offers under an alias name, which
// other packages may depend on as if it were a real package.
type Virtual struct {
	Name    string
	Version version.Version
}

// ParseVirtual parses the textual form "name version".
func ParseVirtual(text string) (Virtual, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Virtual{}, fmt.Errorf("virtual provision %q: want \"name version\"", text)
	}
	v, err := version.Parse(fields[1])
	if err != nil {
		return Virtual{}, fmt.Errorf("virtual provision %q: %w", text, err)
	}
	return Virtual{Name: fields[0], Version: v}, nil
}

func (v Virtual) String() string {
	return v.Name + " " + v.Version.String()
}

// Package is the relation data of one package. Depend is a sequence
// of alternative groups: every group must have at least one satisfied
// member (AND over groups, OR within a group).
type Package struct {
	Name      string
	Version   version.Version
	Depend    [][]Dependency
	Conflicts []Dependency
	Provides  []Virtual
	Commands  []string
}

// Installed is one entry of a persisted package-list snapshot.
type Installed struct {
	Package
	UpdatedAt time.Time
}

type packageYAML struct {
	Name      string     `yaml:"name"`
	Version   string     `yaml:"version"`
	Depend    [][]string `yaml:"depend,omitempty"`
	Conflicts []string   `yaml:"conflicts,omitempty"`
	Provides  []string   `yaml:"provides,omitempty"`
	Commands  []string   `yaml:"commands,omitempty"`
	UpdatedAt time.Time  `yaml:"updated_at,omitempty"`
}

func (p *Package) UnmarshalYAML(node *yaml.Node) error {
	var raw packageYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	pkg, err := raw.toPackage()
	if err != nil {
		return err
	}
	*p = pkg
	return nil
}

func (p Package) MarshalYAML() (interface{}, error) {
	return p.toYAML(time.Time{}), nil
}

func (i *Installed) UnmarshalYAML(node *yaml.Node) error {
	var raw packageYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	pkg, err := raw.toPackage()
	if err != nil {
		return err
	}
	i.Package = pkg
	i.UpdatedAt = raw.UpdatedAt
	return nil
}

func (i Installed) MarshalYAML() (interface{}, error) {
	return i.Package.toYAML(i.UpdatedAt), nil
}

func (raw packageYAML) toPackage() (Package, error) {
	v, err := version.Parse(raw.Version)
	if err != nil {
		return Package{}, fmt.Errorf("package %q: %w", raw.Name, err)
	}

	pkg := Package{
		Name:     raw.Name,
		Version:  v,
		Commands: raw.Commands,
	}

	for _, group := range raw.Depend {
		deps := make([]Dependency, 0, len(group))
		for _, s := range group {
			d, err := ParseDependency(s)
			if err != nil {
				return Package{}, fmt.Errorf("package %q: %w", raw.Name, err)
			}
			deps = append(deps, d)
		}
		pkg.Depend = append(pkg.Depend, deps)
	}

	for _, s := range raw.Conflicts {
		d, err := ParseDependency(s)
		if err != nil {
			return Package{}, fmt.Errorf("package %q: %w", raw.Name, err)
		}
		pkg.Conflicts = append(pkg.Conflicts, d)
	}

	for _, s := range raw.Provides {
		virt, err := ParseVirtual(s)
		if err != nil {
			return Package{}, fmt.Errorf("package %q: %w", raw.Name, err)
		}
		pkg.Provides = append(pkg.Provides, virt)
	}

	return pkg, nil
}

func (p Package) toYAML(updatedAt time.Time) packageYAML {
	raw := packageYAML{
		Name:      p.Name,
		Version:   p.Version.String(),
		Commands:  p.Commands,
		UpdatedAt: updatedAt,
	}
	for _, group := range p.Depend {
		strs := make([]string, len(group))
		for i, d := range group {
			strs[i] = d.String()
		}
		raw.Depend = append(raw.Depend, strs)
	}
	for _, d := range p.Conflicts {
		raw.Conflicts = append(raw.Conflicts, d.String())
	}
	for _, v := range p.Provides {
		raw.Provides = append(raw.Provides, v.String())
	}
	return raw
}
