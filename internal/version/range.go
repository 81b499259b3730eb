package version

import (
	"fmt"
	"strings"
)

// A Range is a conjunction of comparison bounds against a single
// version. At most one bound of each kind is active; a range with no
// bounds at all ("*") matches every version.
type Range struct {
	text string

	lt *Version // strictly earlier
	le *Version // earlier or equal
	eq *Version // exactly equal
	ge *Version // later or equal
	gt *Version // strictly later
}

// ConflictError reports a range whose clauses describe an empty
// interval. It carries the full original range text, not just the
// clause that triggered the contradiction.
type ConflictError struct {
	Text string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting version range %q", e.Text)
}

// ParseRange parses a comma-separated list of comparison clauses into
// a normalized Range. Each clause is either a bare version (exact
// match) or a comparator followed by a version. Clauses are folded
// left to right; a clause that would leave no satisfiable version
// fails the whole parse.
func ParseRange(text string) (*Range, error) {
	r := &Range{text: text}

	trimmed := strings.TrimSpace(text)
	if trimmed == "*" {
		return r, nil
	}

	for _, clause := range strings.Split(trimmed, ",") {
		op, verText, err := splitClause(strings.TrimSpace(clause), text)
		if err != nil {
			return nil, err
		}
		v, err := Parse(verText)
		if err != nil {
			return nil, fmt.Errorf("invalid version range %q: %w", text, err)
		}
		if !r.insert(op, v) {
			return nil, &ConflictError{Text: text}
		}
	}

	return r, nil
}

// comparator symbols accepted in clauses, longest first so that the
// prefix match on single-token clauses sees ">=" before ">".
var comparators = []string{">>", ">=", "==", "<=", "<<", ">", "=", "<"}

func splitClause(clause, full string) (op, verText string, err error) {
	fields := strings.Fields(clause)
	switch len(fields) {
	case 1:
		tok := fields[0]
		for _, sym := range comparators {
			if strings.HasPrefix(tok, sym) {
				return sym, tok[len(sym):], nil
			}
		}
		return "=", tok, nil
	case 2:
		for _, sym := range comparators {
			if fields[0] == sym {
				return sym, fields[1], nil
			}
		}
		return "", "", fmt.Errorf("invalid version range %q: unknown comparator %q", full, fields[0])
	default:
		return "", "", fmt.Errorf("invalid version range %q: malformed clause %q", full, clause)
	}
}

// insert folds one clause into the working interval. It reports false
// when the clause contradicts the bounds accepted so far. Precedence
// is asymmetric: an existing earlier-or-equal bound absorbs incoming
// strictly-earlier clauses, and an existing later-or-equal bound
// absorbs incoming strictly-later clauses.
func (r *Range) insert(op string, v Version) bool {
	switch op {
	case "<", "<<":
		return r.insertEarlier(v)
	case "<=":
		return r.insertEarlierOrEqual(v)
	case "=", "==":
		return r.insertEqual(v)
	case ">=":
		return r.insertLaterOrEqual(v)
	default: // ">", ">>"
		return r.insertLater(v)
	}
}

func (r *Range) insertEarlier(v Version) bool {
	if r.eq != nil && v.Compare(*r.eq) <= 0 {
		return false
	}
	if r.ge != nil && v.Compare(*r.ge) <= 0 {
		return false
	}
	if r.gt != nil && v.Compare(*r.gt) <= 0 {
		return false
	}
	if r.le != nil {
		// earlier-or-equal already caps the interval; the strict
		// clause is absorbed rather than stored.
		return true
	}
	if r.lt == nil || v.Compare(*r.lt) < 0 {
		r.lt = &v
	}
	return true
}

func (r *Range) insertEarlierOrEqual(v Version) bool {
	if r.eq != nil && r.eq.Compare(v) > 0 {
		return false
	}
	if r.gt != nil && r.gt.Compare(v) > 0 {
		return false
	}
	if r.le == nil || v.Compare(*r.le) < 0 {
		r.le = &v
	}
	r.collapseEqualBounds()
	return true
}

func (r *Range) insertEqual(v Version) bool {
	if r.eq != nil && r.eq.Compare(v) != 0 {
		return false
	}
	if r.lt != nil && v.Compare(*r.lt) >= 0 {
		return false
	}
	if r.le != nil && v.Compare(*r.le) > 0 {
		return false
	}
	if r.ge != nil && v.Compare(*r.ge) < 0 {
		return false
	}
	if r.gt != nil && v.Compare(*r.gt) <= 0 {
		return false
	}
	r.eq = &v
	r.lt, r.le, r.ge, r.gt = nil, nil, nil, nil
	return true
}

func (r *Range) insertLaterOrEqual(v Version) bool {
	if r.eq != nil && r.eq.Compare(v) < 0 {
		return false
	}
	if r.lt != nil && r.lt.Compare(v) < 0 {
		return false
	}
	if r.ge == nil || v.Compare(*r.ge) > 0 {
		r.ge = &v
	}
	r.collapseEqualBounds()
	return true
}

func (r *Range) insertLater(v Version) bool {
	if r.eq != nil && v.Compare(*r.eq) >= 0 {
		return false
	}
	if r.le != nil && v.Compare(*r.le) >= 0 {
		return false
	}
	if r.lt != nil && v.Compare(*r.lt) >= 0 {
		return false
	}
	if r.ge != nil {
		// later-or-equal already floors the interval; absorb.
		return true
	}
	if r.gt == nil || v.Compare(*r.gt) > 0 {
		r.gt = &v
	}
	return true
}

// collapseEqualBounds turns a ">= v, <= v" pair into a single "= v".
func (r *Range) collapseEqualBounds() {
	if r.ge != nil && r.le != nil && r.ge.Compare(*r.le) == 0 {
		r.eq = r.ge
		r.ge, r.le = nil, nil
	}
}

// Matches reports whether v satisfies every bound of the range. An
// unbounded range matches everything.
func (r *Range) Matches(v Version) bool {
	if r.lt != nil && v.Compare(*r.lt) >= 0 {
		return false
	}
	if r.le != nil && v.Compare(*r.le) > 0 {
		return false
	}
	if r.eq != nil && v.Compare(*r.eq) != 0 {
		return false
	}
	if r.ge != nil && v.Compare(*r.ge) < 0 {
		return false
	}
	if r.gt != nil && v.Compare(*r.gt) <= 0 {
		return false
	}
	return true
}

// String renders the normalized bounds, earlier side first. A range
// without bounds renders as "*".
func (r *Range) String() string {
	var parts []string
	if r.lt != nil {
		parts = append(parts, "< "+r.lt.String())
	}
	if r.le != nil {
		parts = append(parts, "<= "+r.le.String())
	}
	if r.eq != nil {
		parts = append(parts, "= "+r.eq.String())
	}
	if r.ge != nil {
		parts = append(parts, ">= "+r.ge.String())
	}
	if r.gt != nil {
		parts = append(parts, "> "+r.gt.String())
	}
	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, ", ")
}
