package filter

import (
	"fmt"
	"strings"
)

// SQL renders expr as a PostgreSQL predicate using positional placeholders
// starting at $firstArg. A nil expr renders as TRUE.
func SQL(expr Expr, firstArg int) (string, []interface{}, error) {
	if firstArg < 1 {
		firstArg = 1
	}
	w := &sqlWriter{next: firstArg}
	if expr == nil {
		return "TRUE", nil, nil
	}
	if err := w.write(expr); err != nil {
		return "", nil, err
	}
	return w.b.String(), w.args, nil
}

// Ident quotes a validated identifier for use as a table or column name.
func Ident(name string) (string, error) {
	if err := checkField(name); err != nil {
		return "", err
	}
	return `"` + name + `"`, nil
}

type sqlWriter struct {
	b    strings.Builder
	args []interface{}
	next int
}

func (w *sqlWriter) bind(v interface{}) string {
	w.args = append(w.args, v)
	ph := fmt.Sprintf("$%d", w.next)
	w.next++
	return ph
}

func (w *sqlWriter) write(expr Expr) error {
	switch e := expr.(type) {
	case eqExpr:
		col, err := Ident(e.field)
		if err != nil {
			return err
		}
		if e.trim {
			col = "TRIM(" + col + ")"
		}
		w.b.WriteString(col + " = " + w.bind(e.value))
	case logicalExpr:
		switch len(e.terms) {
		case 0:
			if e.op == "AND" {
				w.b.WriteString("TRUE")
			} else {
				w.b.WriteString("FALSE")
			}
			return nil
		case 1:
			return w.write(e.terms[0])
		}
		w.b.WriteString("(")
		for i, t := range e.terms {
			if i > 0 {
				w.b.WriteString(" " + e.op + " ")
			}
			if err := w.write(t); err != nil {
				return err
			}
		}
		w.b.WriteString(")")
	case dateBetweenExpr:
		col, err := Ident(e.field)
		if err != nil {
			return err
		}
		if err := checkDates(e.from, e.to); err != nil {
			return err
		}
		fmt.Fprintf(&w.b, "(%s >= %s AND %s <= %s)", col, w.bind(e.from), col, w.bind(e.to))
	case rangeContainsExpr:
		col, err := Ident(e.field)
		if err != nil {
			return err
		}
		ph := w.bind(e.n)
		fmt.Fprintf(&w.b,
			`(CASE WHEN %[1]s ~ '^\s*[0-9]+\s*-\s*[0-9]+\s*$' THEN CAST(TRIM(split_part(%[1]s, '-', 1)) AS INTEGER) <= %[2]s AND CAST(TRIM(substr(%[1]s, strpos(%[1]s, '-') + 1)) AS INTEGER) >= %[2]s ELSE FALSE END)`,
			col, ph)
	default:
		return fmt.Errorf("filter: unsupported expression %T", expr)
	}
	return nil
}
