package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// SetStyle sets one inline style property, keeping the others in order.
// An empty value removes the property.
func (d *Document) SetStyle(n *html.Node, prop, value string) {
	decls := parseStyle(n)
	found := false
	out := decls[:0]
	for _, dcl := range decls {
		if dcl[0] == prop {
			found = true
			if value == "" {
				continue
			}
			dcl[1] = value
		}
		out = append(out, dcl)
	}
	if !found && value != "" {
		out = append(out, [2]string{prop, value})
	}
	if len(out) == 0 {
		d.RemoveAttr(n, "style")
		return
	}
	parts := make([]string, len(out))
	for i, dcl := range out {
		parts[i] = dcl[0] + ": " + dcl[1]
	}
	d.SetAttr(n, "style", strings.Join(parts, "; "))
}

// Style returns one inline style property, or "".
func Style(n *html.Node, prop string) string {
	for _, dcl := range parseStyle(n) {
		if dcl[0] == prop {
			return dcl[1]
		}
	}
	return ""
}

func parseStyle(n *html.Node) [][2]string {
	raw, _ := Attr(n, "style")
	var out [][2]string
	for _, part := range strings.Split(raw, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" {
			out = append(out, [2]string{k, v})
		}
	}
	return out
}
