package dom

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// compound is one selector step: an optional tag, id and class list.
type compound struct {
	tag     string
	id      string
	classes []string
}

func parseCompound(s string) (compound, error) {
	var c compound
	rest := s
	if i := strings.IndexAny(rest, "#."); i != 0 {
		if i < 0 {
			i = len(rest)
		}
		c.tag = strings.ToLower(rest[:i])
		rest = rest[i:]
	}
	for rest != "" {
		marker := rest[0]
		rest = rest[1:]
		end := strings.IndexAny(rest, "#.")
		if end < 0 {
			end = len(rest)
		}
		name := rest[:end]
		rest = rest[end:]
		if name == "" {
			return compound{}, fmt.Errorf("invalid selector %q", s)
		}
		switch marker {
		case '#':
			if c.id != "" {
				return compound{}, fmt.Errorf("invalid selector %q: more than one id", s)
			}
			c.id = name
		case '.':
			c.classes = append(c.classes, name)
		}
	}
	return c, nil
}

func (c compound) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if c.tag != "" && c.tag != "*" && n.Data != c.tag {
		return false
	}
	if c.id != "" && attr(n, "id") != c.id {
		return false
	}
	if len(c.classes) > 0 {
		have := strings.Fields(attr(n, "class"))
		for _, want := range c.classes {
			if !slices.Contains(have, want) {
				return false
			}
		}
	}
	return true
}

// Query returns the first element in document order matching selector.
// Supported selectors are compounds of tag, #id and .class, optionally
// chained with whitespace as descendant combinators ("table td span").
func (d *Document) Query(selector string) (*HTMLElement, error) {
	parts := strings.Fields(selector)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty selector")
	}
	chain := make([]compound, 0, len(parts))
	for _, p := range parts {
		c, err := parseCompound(p)
		if err != nil {
			return nil, err
		}
		chain = append(chain, c)
	}

	found := findFirst(d.root, func(n *html.Node) bool {
		return matchChain(n, chain)
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	return Wrap(found), nil
}

// matchChain matches the last compound against n and the rest, right to
// left, against n's ancestors.
func matchChain(n *html.Node, chain []compound) bool {
	last := len(chain) - 1
	if !chain[last].matches(n) {
		return false
	}
	i := last - 1
	for p := n.Parent; p != nil && i >= 0; p = p.Parent {
		if chain[i].matches(p) {
			i--
		}
	}
	return i < 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
