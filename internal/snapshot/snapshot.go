// Package snapshot reads and writes the persisted installed-package
// list. The dependency graph itself never touches storage; callers
// load a snapshot here and hand it over.
package snapshot

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vpm-dev/vpm/internal/manifest"
)

type document struct {
	Packages []manifest.Installed `yaml:"packages"`
}

// Parser reads installed-package lists in YAML format.
type Parser struct {
	r io.Reader
}

// NewParser creates a new snapshot parser.
func NewParser(r io.Reader) *Parser {
	return &Parser{r: r}
}

// Parse decodes the full package list.
func (p *Parser) Parse() ([]manifest.Installed, error) {
	data, err := io.ReadAll(p.r)
	if err != nil {
		return nil, fmt.Errorf("reading package list: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing package list: %w", err)
	}
	return doc.Packages, nil
}

// Emitter writes installed-package lists in YAML format.
type Emitter struct {
	w io.Writer
}

// NewEmitter creates a new snapshot emitter.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Emit writes the package list, sorted by package name for stable
// output.
func (e *Emitter) Emit(packages []manifest.Installed) error {
	sorted := make([]manifest.Installed, len(packages))
	copy(sorted, packages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	data, err := yaml.Marshal(document{Packages: sorted})
	if err != nil {
		return fmt.Errorf("encoding package list: %w", err)
	}
	if _, err := e.w.Write(data); err != nil {
		return fmt.Errorf("writing package list: %w", err)
	}
	return nil
}
