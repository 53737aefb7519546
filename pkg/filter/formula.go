package filter

import (
	"fmt"
	"strconv"
	"strings"
)

var formulaEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// Formula renders expr as an Airtable filterByFormula expression. A nil expr
// renders as the empty string, meaning no filter.
func Formula(expr Expr) (string, error) {
	if expr == nil {
		return "", nil
	}
	var b strings.Builder
	if err := writeFormula(&b, expr); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Quote returns value as a single-quoted formula string literal.
func Quote(value string) string {
	return "'" + formulaEscaper.Replace(value) + "'"
}

func fieldRef(name string) string {
	return "{" + name + "}"
}

func writeFormula(b *strings.Builder, expr Expr) error {
	switch e := expr.(type) {
	case eqExpr:
		if err := checkField(e.field); err != nil {
			return err
		}
		ref := fieldRef(e.field)
		if e.trim {
			ref = "TRIM(" + ref + ")"
		}
		b.WriteString(ref + " = " + Quote(e.value))
	case logicalExpr:
		switch len(e.terms) {
		case 0:
			if e.op == "AND" {
				b.WriteString("TRUE()")
			} else {
				b.WriteString("FALSE()")
			}
			return nil
		case 1:
			return writeFormula(b, e.terms[0])
		}
		b.WriteString(e.op + "(")
		for i, t := range e.terms {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := writeFormula(b, t); err != nil {
				return err
			}
		}
		b.WriteString(")")
	case dateBetweenExpr:
		if err := checkField(e.field); err != nil {
			return err
		}
		if err := checkDates(e.from, e.to); err != nil {
			return err
		}
		ref := fieldRef(e.field)
		fmt.Fprintf(b, "AND(%s >= %s, %s <= %s)", ref, Quote(e.from), ref, Quote(e.to))
	case rangeContainsExpr:
		if err := checkField(e.field); err != nil {
			return err
		}
		ref := fieldRef(e.field)
		n := strconv.Itoa(e.n)
		fmt.Fprintf(b,
			`AND(VALUE(LEFT(%[1]s, FIND("-", %[1]s) - 1)) <= %[2]s, VALUE(RIGHT(%[1]s, LEN(%[1]s) - FIND("-", %[1]s))) >= %[2]s)`,
			ref, n)
	default:
		return fmt.Errorf("filter: unsupported expression %T", expr)
	}
	return nil
}
