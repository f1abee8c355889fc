package template

import (
	"strings"

	"github.com/ajmazurie/spate/internal/spateerr"
)

// Simple implements the classic shell-style "$NAME" / "${NAME}" engine.
// List-valued variables (INPUTS/OUTPUTS) render as their elements joined by
// a single space, since this engine has no iteration construct.
type Simple struct{}

func NewSimple() *Simple { return &Simple{} }

func (Simple) Name() string { return "simple" }

func (Simple) Render(body string, vars Vars) (string, error) {
	var out strings.Builder
	out.Grow(len(body))

	i := 0
	for i < len(body) {
		ch := body[i]
		if ch != '$' {
			out.WriteByte(ch)
			i++
			continue
		}

		// "$$" is not special-cased by spec; a lone trailing '$' or a '$'
		// not followed by a name/brace is passed through literally.
		if i+1 >= len(body) {
			out.WriteByte(ch)
			i++
			continue
		}

		if body[i+1] == '{' {
			end := strings.IndexByte(body[i+2:], '}')
			if end < 0 {
				return "", spateerr.Newf(spateerr.TemplateError, "unterminated ${...} at offset %d", i)
			}
			name := body[i+2 : i+2+end]
			val, err := lookupScalar(vars, name)
			if err != nil {
				return "", err
			}
			out.WriteString(val)
			i = i + 2 + end + 1
			continue
		}

		name, next := readIdent(body, i+1)
		if name == "" {
			out.WriteByte(ch)
			i++
			continue
		}
		val, err := lookupScalar(vars, name)
		if err != nil {
			return "", err
		}
		out.WriteString(val)
		i = next
	}
	return out.String(), nil
}

func lookupScalar(vars Vars, name string) (string, error) {
	v, ok := vars[name]
	if !ok {
		return "", spateerr.Newf(spateerr.TemplateError, "undefined template variable %q", name)
	}
	if v.IsList {
		return strings.Join(v.List, " "), nil
	}
	return v.Scalar, nil
}
