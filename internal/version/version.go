// Package version implements the version scheme used throughout vpm:
// a version string is any text containing at least one run of digits,
// and ordering is decided by the digit runs alone.
package version

import (
	"fmt"
	"strconv"
)

// Version is an immutable parsed version string. The original text is
// kept for display; comparison only looks at the numeric runs.
type Version struct {
	text string
	runs []uint64
	seps []string
}

// Parse tokenizes a version string into alternating digit runs and
// separator runs. It fails when the input contains no digits at all.
func Parse(text string) (Version, error) {
	var (
		runs []uint64
		seps []string
	)

	i := 0
	for i < len(text) {
		start := i
		if isDigit(text[i]) {
			for i < len(text) && isDigit(text[i]) {
				i++
			}
			n, err := strconv.ParseUint(text[start:i], 10, 64)
			if err != nil {
				return Version{}, fmt.Errorf("parsing version %q: %w", text, err)
			}
			runs = append(runs, n)
		} else {
			for i < len(text) && !isDigit(text[i]) {
				i++
			}
			seps = append(seps, text[start:i])
		}
	}

	if len(runs) == 0 {
		return Version{}, fmt.Errorf("version %q has no numeric component", text)
	}

	return Version{text: text, runs: runs, seps: seps}, nil
}

// MustParse is like Parse but panics on error. Intended for literals.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or 1 ordering v against other by numeric runs.
// When one run sequence is a strict prefix of the other, the longer
// sequence is greater, so "1.2" < "1.2.0".
func (v Version) Compare(other Version) int {
	n := len(v.runs)
	if len(other.runs) < n {
		n = len(other.runs)
	}
	for i := 0; i < n; i++ {
		if v.runs[i] != other.runs[i] {
			if v.runs[i] < other.runs[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(v.runs) < len(other.runs):
		return -1
	case len(v.runs) > len(other.runs):
		return 1
	}
	return 0
}

// String returns the original input text verbatim.
func (v Version) String() string {
	return v.text
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
