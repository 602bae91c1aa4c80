package overlay

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"scubaoverlay/pkg/divelog"
)

// exprRef matches {field} and {field:format}.
var exprRef = regexp.MustCompile(`\{([^}:]+)(?::([^}]+))?\}`)

// Expression is a compiled compute template such as "EAN{fractionO2:02%}".
type Expression struct {
	src string
}

// CompileExpression prepares src for evaluation.
func CompileExpression(src string) *Expression {
	return &Expression{src: src}
}

// Fields lists the field names referenced by e in order of appearance.
func (e *Expression) Fields() []string {
	var out []string
	for _, m := range exprRef.FindAllStringSubmatch(e.src, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// Eval substitutes every reference with the sample's value. The result is
// false when any referenced field has no value.
func (e *Expression) Eval(s divelog.DiveSample) (string, bool) {
	missing := false
	out := exprRef.ReplaceAllStringFunc(e.src, func(token string) string {
		if missing {
			return token
		}
		m := exprRef.FindStringSubmatch(token)
		v := RawValue(m[1], s)
		if !v.Valid() {
			missing = true
			return token
		}
		return formatRef(v, m[2])
	})
	if missing {
		return "", false
	}
	return out, true
}

// formatRef applies one format spec:
//
//	NN%  value*100 rounded half to even, zero padded to NN digits (default 2)
//	Nf   fixed point with N decimals; ".Nf" and "W.Nf" also accepted
//	""   the plain value
func formatRef(v Value, spec string) string {
	spec = strings.TrimSpace(spec)
	n, numeric := v.Number()
	switch {
	case spec == "" || !numeric:
		return v.String()
	case strings.HasSuffix(spec, "%"):
		width := 2
		if digits := spec[:len(spec)-1]; digits != "" {
			if w, err := strconv.Atoi(digits); err == nil {
				width = w
			}
		}
		return fmt.Sprintf("%0*d", width, int(math.RoundToEven(n*100)))
	case strings.HasSuffix(spec, "f"):
		decimals := spec[:len(spec)-1]
		if dot := strings.IndexByte(decimals, '.'); dot >= 0 {
			decimals = decimals[dot+1:]
		}
		p, err := strconv.Atoi(decimals)
		if err != nil {
			p = 6
		}
		return strconv.FormatFloat(n, 'f', p, 64)
	}
	return v.String()
}
