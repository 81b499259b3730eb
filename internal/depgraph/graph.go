// Package depgraph answers install- and remove-safety queries over a
// snapshot of installed packages. A graph is never mutated: every
// what-if scenario derives a fresh graph from the retained snapshot.
package depgraph

import (
	"time"

	"github.com/vpm-dev/vpm/internal/manifest"
	"github.com/vpm-dev/vpm/internal/version"
)

// CommandChecker reports whether an external command is available.
// The graph calls it but does not implement it; a nil checker treats
// every command as available.
type CommandChecker func(name string) bool

// Graph indexes an installed-package snapshot two ways: real holds
// packages under their own names, available additionally holds every
// virtual provision. The available set is always a superset of the
// real set.
type Graph struct {
	packages  []manifest.Installed
	real      map[string][]version.Version
	available map[string][]version.Version
	commands  CommandChecker
}

// New builds a graph from an installed-package snapshot.
func New(installed []manifest.Installed, commands CommandChecker) *Graph {
	g := &Graph{
		real:      make(map[string][]version.Version),
		available: make(map[string][]version.Version),
		commands:  commands,
	}
	for _, entry := range installed {
		g.register(entry)
	}
	return g
}

func (g *Graph) register(entry manifest.Installed) {
	g.packages = append(g.packages, entry)
	g.real[entry.Name] = append(g.real[entry.Name], entry.Version)
	g.available[entry.Name] = append(g.available[entry.Name], entry.Version)
	for _, virt := range entry.Provides {
		g.available[virt.Name] = append(g.available[virt.Name], virt.Version)
	}
}

// WithAdditional derives a graph extended by packages about to be
// installed, so candidates participate in each other's dependency and
// virtual resolution. The receiver is left untouched.
func (g *Graph) WithAdditional(candidates []manifest.Package) *Graph {
	extended := New(g.packages, g.commands)
	now := time.Now()
	for _, c := range candidates {
		extended.register(manifest.Installed{Package: c, UpdatedAt: now})
	}
	return extended
}

// Without derives a graph excluding the named packages. It rebuilds
// from the retained snapshot so that virtuals provided only by an
// excluded package disappear from the available set.
func (g *Graph) Without(names []string) *Graph {
	excluded := make(map[string]bool, len(names))
	for _, name := range names {
		excluded[name] = true
	}

	var kept []manifest.Installed
	for _, entry := range g.packages {
		if !excluded[entry.Name] {
			kept = append(kept, entry)
		}
	}
	return New(kept, g.commands)
}

// DependencySatisfied reports whether any available version of the
// named package matches the dependency's range.
func (g *Graph) DependencySatisfied(dep manifest.Dependency) bool {
	for _, v := range g.available[dep.Name] {
		if dep.Range.Matches(v) {
			return true
		}
	}
	return false
}

// DependenciesSatisfied reports whether every alternative group of the
// package has at least one satisfied member.
func (g *Graph) DependenciesSatisfied(pkg manifest.Package) bool {
	return len(g.MissingDependencies(pkg)) == 0
}

// MissingDependencies returns the alternative groups with no satisfied
// member, preserving group order and contents.
func (g *Graph) MissingDependencies(pkg manifest.Package) [][]manifest.Dependency {
	var missing [][]manifest.Dependency
	for _, group := range pkg.Depend {
		satisfied := false
		for _, dep := range group {
			if g.DependencySatisfied(dep) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, group)
		}
	}
	return missing
}

// Conflicts returns the package's conflict entries matched by an
// installed version. Only real packages are checked; a virtual
// provision cannot conflict.
func (g *Graph) Conflicts(pkg manifest.Package) []manifest.Dependency {
	var matched []manifest.Dependency
	for _, conflict := range pkg.Conflicts {
		for _, v := range g.real[conflict.Name] {
			if conflict.Range.Matches(v) {
				matched = append(matched, conflict)
				break
			}
		}
	}
	return matched
}

// conflictsWith reports whether either package declares a conflict
// matching the other's actual name and version. Declarations are
// symmetric in effect even though each package only lists its own.
func conflictsWith(a, b manifest.Package) bool {
	for _, conflict := range a.Conflicts {
		if conflict.Name == b.Name && conflict.Range.Matches(b.Version) {
			return true
		}
	}
	for _, conflict := range b.Conflicts {
		if conflict.Name == a.Name && conflict.Range.Matches(a.Version) {
			return true
		}
	}
	return false
}

// IsInstallable checks whether the candidate batch can be installed on
// top of the current snapshot. Checks run in candidate order and stop
// at the first violation: required commands first across the whole
// batch, then per candidate missing dependencies, conflicts with
// installed packages, and conflicts between batch members. An empty
// batch always succeeds.
func (g *Graph) IsInstallable(candidates []manifest.Package) error {
	extended := g.WithAdditional(candidates)

	for _, c := range candidates {
		var missing []string
		for _, cmd := range c.Commands {
			if !g.commandAvailable(cmd) {
				missing = append(missing, cmd)
			}
		}
		if len(missing) > 0 {
			return &MissingCommandsError{Package: c.Name, Commands: missing}
		}
	}

	for i, c := range candidates {
		// Dependencies resolve against the extended graph so that
		// batch members can satisfy each other.
		if missing := extended.MissingDependencies(c); len(missing) > 0 {
			return &MissingDependenciesError{Package: c.Name, Groups: missing}
		}

		// Conflicts with installed packages are checked against the
		// base graph: a candidate must not conflict with what is
		// already on the system.
		if matched := g.Conflicts(c); len(matched) > 0 {
			return &InstalledConflictError{Package: c.Name, Conflicts: matched}
		}

		for j, other := range candidates {
			if i == j {
				continue
			}
			if conflictsWith(c, other) {
				return &CandidateConflictError{Package: c.Name, Other: other.Name}
			}
		}
	}

	return nil
}

// IsRemovable checks whether the named packages can be removed without
// breaking the dependencies of any surviving installed package. A
// batch may be mutually dependent as long as nothing outside it
// depends on a member.
func (g *Graph) IsRemovable(names []string) error {
	reduced := g.Without(names)

	removing := make(map[string]bool, len(names))
	for _, name := range names {
		removing[name] = true
	}

	for _, entry := range g.packages {
		if removing[entry.Name] {
			continue
		}
		if !reduced.DependenciesSatisfied(entry.Package) {
			return &RemoveDependencyError{Batch: names, Dependent: entry.Name}
		}
	}
	return nil
}

func (g *Graph) commandAvailable(name string) bool {
	if g.commands == nil {
		return true
	}
	return g.commands(name)
}
