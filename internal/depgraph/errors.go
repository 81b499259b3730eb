package depgraph

import (
	"fmt"
	"strings"

	"github.com/vpm-dev/vpm/internal/manifest"
)

// MissingDependenciesError reports a candidate whose dependency groups
// cannot all be satisfied. Groups holds the unsatisfied alternative
// groups in their original order.
type MissingDependenciesError struct {
	Package string
	Groups  [][]manifest.Dependency
}

func (e *MissingDependenciesError) Error() string {
	groups := make([]string, len(e.Groups))
	for i, group := range e.Groups {
		alts := make([]string, len(group))
		for j, dep := range group {
			alts[j] = dep.String()
		}
		groups[i] = strings.Join(alts, " | ")
	}
	return fmt.Sprintf("package %q has unsatisfied dependencies: %s",
		e.Package, strings.Join(groups, "; "))
}

// InstalledConflictError reports a candidate that conflicts with
// packages already installed.
type InstalledConflictError struct {
	Package   string
	Conflicts []manifest.Dependency
}

func (e *InstalledConflictError) Error() string {
	matched := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		matched[i] = c.String()
	}
	return fmt.Sprintf("package %q conflicts with installed packages: %s",
		e.Package, strings.Join(matched, ", "))
}

// CandidateConflictError reports two members of the same install batch
// that conflict with each other.
type CandidateConflictError struct {
	Package string
	Other   string
}

func (e *CandidateConflictError) Error() string {
	return fmt.Sprintf("package %q conflicts with candidate %q", e.Package, e.Other)
}

// MissingCommandsError reports a candidate requiring external commands
// that are not available on the system.
type MissingCommandsError struct {
	Package  string
	Commands []string
}

func (e *MissingCommandsError) Error() string {
	return fmt.Sprintf("package %q requires unavailable commands: %s",
		e.Package, strings.Join(e.Commands, ", "))
}

// RemoveDependencyError reports a removal batch that would break the
// dependencies of a surviving installed package. Dependent names the
// first such package found.
type RemoveDependencyError struct {
	Batch     []string
	Dependent string
}

func (e *RemoveDependencyError) Error() string {
	return fmt.Sprintf("cannot remove %s: package %q depends on the batch",
		strings.Join(e.Batch, ", "), e.Dependent)
}
