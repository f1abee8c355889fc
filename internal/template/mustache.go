package template

import (
	"strings"

	"github.com/ajmazurie/spate/internal/spateerr"
)

// Mustache implements the {{NAME}}, {{#LIST}}...{{.}}...{{/LIST}}, and
// {{^LIST}}...{{/LIST}} engine described in spec §4.3.
type Mustache struct{}

func NewMustache() *Mustache { return &Mustache{} }

func (Mustache) Name() string { return "mustache" }

// node is one parsed template fragment.
type node struct {
	text     string // literal text, when kind == nodeText
	kind     nodeKind
	name     string // variable or section name
	invert   bool   // "^" section
	children []node
}

type nodeKind int

const (
	nodeText nodeKind = iota
	nodeVar
	nodeSection
)

func (m Mustache) Render(body string, vars Vars) (string, error) {
	nodes, _, err := parseMustache(body, 0, "")
	if err != nil {
		return "", err
	}
	var out strings.Builder
	if err := renderNodes(&out, nodes, vars, ""); err != nil {
		return "", err
	}
	return out.String(), nil
}

// parseMustache parses nodes until EOF or, when closingName != "", until a
// matching {{/closingName}} is consumed. It returns the parsed nodes and the
// position right after the consumed closing tag (or len(body) at EOF).
func parseMustache(body string, pos int, closingName string) ([]node, int, error) {
	var nodes []node
	for pos < len(body) {
		text, tagStart, found := findTag(body, pos)
		if text != "" {
			nodes = append(nodes, node{kind: nodeText, text: text})
		}
		if !found {
			if closingName != "" {
				return nil, 0, spateerr.Newf(spateerr.TemplateError, "unterminated section %q", closingName)
			}
			return nodes, len(body), nil
		}

		inner, afterTag, err := readTagBody(body, tagStart)
		if err != nil {
			return nil, 0, err
		}
		pos = afterTag

		switch {
		case strings.HasPrefix(inner, "/"):
			name := strings.TrimSpace(inner[1:])
			if name != closingName {
				return nil, 0, spateerr.Newf(spateerr.TemplateError, "mismatched closing tag {{/%s}}, expected {{/%s}}", name, closingName)
			}
			return nodes, pos, nil

		case strings.HasPrefix(inner, "#"):
			name := strings.TrimSpace(inner[1:])
			children, next, err := parseMustache(body, pos, name)
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, node{kind: nodeSection, name: name, children: children})
			pos = next

		case strings.HasPrefix(inner, "^"):
			name := strings.TrimSpace(inner[1:])
			children, next, err := parseMustache(body, pos, name)
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, node{kind: nodeSection, name: name, invert: true, children: children})
			pos = next

		default:
			name := strings.TrimSpace(inner)
			if name == "" {
				return nil, 0, spateerr.Newf(spateerr.TemplateError, "empty template tag")
			}
			nodes = append(nodes, node{kind: nodeVar, name: name})
		}
	}
	if closingName != "" {
		return nil, 0, spateerr.Newf(spateerr.TemplateError, "unterminated section %q", closingName)
	}
	return nodes, pos, nil
}

// findTag returns the literal text before the next "{{" at or after pos,
// the index right after those two braces, and whether a tag was found.
func findTag(body string, pos int) (text string, next int, found bool) {
	idx := strings.Index(body[pos:], "{{")
	if idx < 0 {
		return body[pos:], len(body), false
	}
	idx += pos
	return body[pos:idx], idx + 2, true
}

// readTagBody returns the raw content between the already-consumed "{{"
// (start points just past it) and the matching "}}", plus the index right
// after the closing braces.
func readTagBody(body string, start int) (string, int, error) {
	idx := strings.Index(body[start:], "}}")
	if idx < 0 {
		return "", 0, spateerr.Newf(spateerr.TemplateError, "unterminated {{ at offset %d", start)
	}
	return body[start : start+idx], start + idx + 2, nil
}

func renderNodes(out *strings.Builder, nodes []node, vars Vars, dot string) error {
	for _, n := range nodes {
		switch n.kind {
		case nodeText:
			out.WriteString(n.text)

		case nodeVar:
			if n.name == "." {
				out.WriteString(dot)
				continue
			}
			val, err := lookupScalar(vars, n.name)
			if err != nil {
				return err
			}
			out.WriteString(val)

		case nodeSection:
			v, ok := vars[n.name]
			if !ok {
				return spateerr.Newf(spateerr.TemplateError, "undefined template variable %q", n.name)
			}
			if !v.IsList {
				return spateerr.Newf(spateerr.TemplateError, "section %q requires a list variable", n.name)
			}
			if n.invert {
				if len(v.List) == 0 {
					if err := renderNodes(out, n.children, vars, dot); err != nil {
						return err
					}
				}
				continue
			}
			for _, item := range v.List {
				if err := renderNodes(out, n.children, vars, item); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
