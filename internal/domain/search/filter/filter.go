package filter

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MaxConditionsPerGroup is the maximum number of conditions per filter group.
const MaxConditionsPerGroup = 32

var folder = cases.Fold()

// Record exposes string fields to condition evaluation.
type Record interface {
	Field(name string) string
}

// Expression is a structured filter with must/should/must_not boolean semantics.
type Expression struct {
	must    []Condition
	should  []Condition
	mustNot []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(must, should, mustNot []Condition) (Expression, error) {
	if len(must) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(should) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many should conditions (max %d)", MaxConditionsPerGroup)
	}
	if len(mustNot) > MaxConditionsPerGroup {
		return Expression{}, fmt.Errorf("too many must_not conditions (max %d)", MaxConditionsPerGroup)
	}
	return Expression{must: must, should: should, mustNot: mustNot}, nil
}

// Must returns the must conditions.
func (e Expression) Must() []Condition { return e.must }

// Should returns the should conditions.
func (e Expression) Should() []Condition { return e.should }

// MustNot returns the must-not conditions.
func (e Expression) MustNot() []Condition { return e.mustNot }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.should) == 0 && len(e.mustNot) == 0
}

// MustMatch returns the exact-match value required for key by a must
// condition, if any.
func (e Expression) MustMatch(key string) (string, bool) {
	for _, c := range e.must {
		if c.IsMatch() && c.key == key {
			return c.match, true
		}
	}
	return "", false
}

// CoveredBy reports whether every condition is a must exact match on one of
// keys, so checking those keys alone decides the whole expression.
func (e Expression) CoveredBy(keys ...string) bool {
	if len(e.should) > 0 || len(e.mustNot) > 0 {
		return false
	}
	for _, c := range e.must {
		if !c.IsMatch() || !slices.Contains(keys, c.key) {
			return false
		}
	}
	return true
}

// Matches evaluates the expression: every must holds, at least one should
// holds (when any are given), and no must_not holds.
func (e Expression) Matches(r Record) bool {
	for _, c := range e.must {
		if !c.Matches(r) {
			return false
		}
	}
	if len(e.should) > 0 {
		matched := false
		for _, c := range e.should {
			if c.Matches(r) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, c := range e.mustNot {
		if c.Matches(r) {
			return false
		}
	}
	return true
}

// Condition is a single filter clause: either an exact match or a
// case-insensitive substring containment.
type Condition struct {
	key      string
	match    string
	contains string
	folded   string
}

// NewMatch creates an exact match condition.
func NewMatch(key, match string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if match == "" {
		return Condition{}, fmt.Errorf("match value is required for key %q", key)
	}
	return Condition{key: key, match: match}, nil
}

// NewContains creates a substring condition. Matching ignores case and
// Unicode compatibility differences.
func NewContains(key, text string) (Condition, error) {
	if key == "" {
		return Condition{}, fmt.Errorf("filter key is required")
	}
	if strings.TrimSpace(text) == "" {
		return Condition{}, fmt.Errorf("contains value is required for key %q", key)
	}
	return Condition{key: key, contains: text, folded: Fold(text)}, nil
}

// Key returns the field name.
func (c Condition) Key() string { return c.key }

// Match returns the exact match value.
func (c Condition) Match() string { return c.match }

// Contains returns the substring value as given.
func (c Condition) Contains() string { return c.contains }

// IsMatch reports whether this is a match condition.
func (c Condition) IsMatch() bool { return c.match != "" }

// IsContains reports whether this is a substring condition.
func (c Condition) IsContains() bool { return c.contains != "" }

// Matches evaluates the condition against r.
func (c Condition) Matches(r Record) bool {
	v := r.Field(c.key)
	switch {
	case c.IsMatch():
		return v == c.match
	case c.IsContains():
		return strings.Contains(Fold(v), c.folded)
	default:
		return false
	}
}

// Fold normalizes s for case-insensitive comparison (NFKC, then Unicode case folding).
func Fold(s string) string {
	return folder.String(norm.NFKC.String(s))
}
