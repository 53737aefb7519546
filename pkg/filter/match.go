package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Match evaluates expr against an in-memory field set with the same
// semantics the rendered predicates have in a store. A nil expr matches.
func Match(expr Expr, fields map[string]interface{}) (bool, error) {
	if expr == nil {
		return true, nil
	}
	switch e := expr.(type) {
	case eqExpr:
		if err := checkField(e.field); err != nil {
			return false, err
		}
		v := text(fields[e.field])
		if e.trim {
			v = strings.TrimSpace(v)
		}
		return v == e.value, nil
	case logicalExpr:
		for _, t := range e.terms {
			ok, err := Match(t, fields)
			if err != nil {
				return false, err
			}
			if e.op == "AND" && !ok {
				return false, nil
			}
			if e.op == "OR" && ok {
				return true, nil
			}
		}
		return e.op == "AND", nil
	case dateBetweenExpr:
		if err := checkField(e.field); err != nil {
			return false, err
		}
		if err := checkDates(e.from, e.to); err != nil {
			return false, err
		}
		v := text(fields[e.field])
		return v >= e.from && v <= e.to, nil
	case rangeContainsExpr:
		if err := checkField(e.field); err != nil {
			return false, err
		}
		low, high, ok := splitRange(text(fields[e.field]))
		return ok && low <= e.n && e.n <= high, nil
	default:
		return false, fmt.Errorf("filter: unsupported expression %T", expr)
	}
}

func splitRange(v string) (int, int, bool) {
	idx := strings.Index(v, "-")
	if idx < 0 {
		return 0, 0, false
	}
	low, err := strconv.Atoi(strings.TrimSpace(v[:idx]))
	if err != nil {
		return 0, 0, false
	}
	high, err := strconv.Atoi(strings.TrimSpace(v[idx+1:]))
	if err != nil {
		return 0, 0, false
	}
	return low, high, true
}

func text(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
