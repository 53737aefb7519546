// Package filter builds record-store predicates from typed terms so caller
// supplied values never reach a query language as raw text.
package filter

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	// ErrInvalidField is returned when a field name is not a plain identifier.
	ErrInvalidField = errors.New("filter: invalid field name")
	// ErrInvalidDate is returned when a date bound is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("filter: invalid date")

	fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Expr is a predicate over the fields of a single record.
type Expr interface {
	isExpr()
}

type eqExpr struct {
	field string
	value string
	trim  bool
}

type logicalExpr struct {
	op    string
	terms []Expr
}

type dateBetweenExpr struct {
	field string
	from  string
	to    string
}

type rangeContainsExpr struct {
	field string
	n     int
}

func (eqExpr) isExpr()            {}
func (logicalExpr) isExpr()       {}
func (dateBetweenExpr) isExpr()   {}
func (rangeContainsExpr) isExpr() {}

// Eq matches records whose field equals value exactly.
func Eq(field, value string) Expr {
	return eqExpr{field: field, value: value}
}

// TrimEq matches records whose field, with surrounding whitespace removed, equals value.
func TrimEq(field, value string) Expr {
	return eqExpr{field: field, value: value, trim: true}
}

// And matches records satisfying every term. An empty And matches everything.
func And(terms ...Expr) Expr {
	return logicalExpr{op: "AND", terms: compact(terms)}
}

// Or matches records satisfying at least one term. An empty Or matches nothing.
func Or(terms ...Expr) Expr {
	return logicalExpr{op: "OR", terms: compact(terms)}
}

// DateBetween matches ISO dates in the inclusive range [from, to].
func DateBetween(field, from, to string) Expr {
	return dateBetweenExpr{field: field, from: from, to: to}
}

// RangeContains matches records whose field holds a "low-high" range with low <= n <= high.
// The stored value is split on its first "-".
func RangeContains(field string, n int) Expr {
	return rangeContainsExpr{field: field, n: n}
}

// ValidDate reports whether value has the YYYY-MM-DD shape.
func ValidDate(value string) bool {
	return datePattern.MatchString(value)
}

// ValidField reports whether name can be used as a field or table identifier.
func ValidField(name string) bool {
	return fieldPattern.MatchString(name)
}

func compact(terms []Expr) []Expr {
	out := make([]Expr, 0, len(terms))
	for _, t := range terms {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

func checkField(name string) error {
	if !ValidField(name) {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}
	return nil
}

func checkDates(from, to string) error {
	if !ValidDate(from) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, from)
	}
	if !ValidDate(to) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, to)
	}
	return nil
}
