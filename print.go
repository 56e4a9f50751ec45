package basic

import (
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

//
// PRINT builds the whole line before writing it.  Items after the
// first start on the next zoneWidth boundary; a label and its value
// are separated by one space.  A trailing comma pads to the next
// zone, a trailing semicolon to the next semiWidth column, and either
// one suppresses the newline
//

func (in *Interpreter) executePrint(stmt *PrintStmt) {

	var out string

	for _, item := range stmt.Items {
		if out != "" {
			out += padTo(out, zoneWidth)
		}

		out += item.Label

		if item.Value != nil {
			if item.Label != "" {
				out += " "
			}

			out += formatValue(in.eval(item.Value))
		}
	}

	switch stmt.Terminator {
	case TermComma:
		out += padTo(out, zoneWidth)

	case TermSemi:
		out += padTo(out, semiWidth)

	default:
		out += "\n"
	}

	in.basicPrint(out)
}

//
// Spaces needed to move from the end of str to the next multiple of
// width.  Already on a boundary means a whole width of spaces
//

func padTo(str string, width int) string {

	return strings.Repeat(" ", width-(utf8.RuneCountInString(str)%width))
}

func (in *Interpreter) basicPrint(msg string) {

	w := in.opts.Output
	if w == nil {
		w = io.Discard
	}

	_, err := io.WriteString(w, msg)

	in.runtimeCheck(err == nil, ErrOutput, "%v", err)
}

//
// formatValue renders a value the way PRINT shows it.  Integers print
// plainly, reals always show a fraction or exponent, and containers
// print their elements with strings quoted
//

func formatValue(x Value) string {

	switch x := x.(type) {
	default:
		fatalError("unexpected value %T", x)

	case int64:
		return strconv.FormatInt(x, 10)

	case float64:
		return formatFloat(x)

	case string:
		return x

	case []Value:
		items := make([]string, 0, len(x))
		for _, v := range x {
			items = append(items, reprValue(v))
		}
		return "[" + strings.Join(items, ", ") + "]"

	case *Dict:
		items := make([]string, 0, x.Len())
		for _, k := range x.keys {
			items = append(items, quoteString(k)+": "+reprValue(x.vals[k]))
		}
		return "{" + strings.Join(items, ", ") + "}"
	}

	panic(nil) // avoid compiler complaint
}

func reprValue(x Value) string {

	if s, ok := x.(string); ok {
		return quoteString(s)
	}

	return formatValue(x)
}

func quoteString(s string) string {

	return "'" + strings.ReplaceAll(s, "'", "\\'") + "'"
}

//
// Reals between 1e-4 and 1e16 print positionally with at least one
// digit after the point, anything else in exponent form
//

func formatFloat(f float64) string {

	switch {
	case math.IsNaN(f):
		return "nan"

	case math.IsInf(f, 1):
		return "inf"

	case math.IsInf(f, -1):
		return "-inf"
	}

	if a := math.Abs(f); a == 0 || (a >= 1e-4 && a < 1e16) {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	return strconv.FormatFloat(f, 'e', -1, 64)
}
