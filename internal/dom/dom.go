// Package dom models an instrumented page: a parsed HTML document whose
// elements are read-only views into the node tree, plus a serialized event
// dispatch loop that delivers interaction events to root-level listeners.
package dom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrNotFound is returned when a selector matches no element.
var ErrNotFound = errors.New("element not found")

// Element is a read-only reference into a page tree.
type Element interface {
	// Tag returns the upper-case tag name, as the DOM reports tagName.
	Tag() string
	// OuterHTML returns the markup of the element and its descendants.
	OuterHTML() string
	// Parent returns the parent element, or nil at the top of the chain.
	Parent() Element
	// IsBody reports whether the element is the document body.
	IsBody() bool
}

// HTMLElement is an Element backed by a golang.org/x/net/html node.
type HTMLElement struct {
	n *html.Node
}

// Wrap returns an Element for an element node, or nil for any other node.
func Wrap(n *html.Node) *HTMLElement {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	return &HTMLElement{n: n}
}

// Node returns the underlying node.
func (e *HTMLElement) Node() *html.Node { return e.n }

func (e *HTMLElement) Tag() string { return strings.ToUpper(e.n.Data) }

func (e *HTMLElement) IsBody() bool { return e.n.Data == "body" }

func (e *HTMLElement) Parent() Element {
	p := Wrap(e.n.Parent)
	if p == nil {
		return nil
	}
	return p
}

// OuterHTML renders the element subtree. Rendering only fails for trees the
// parser never produces; whatever was written before the failure is returned.
func (e *HTMLElement) OuterHTML() string {
	var b strings.Builder
	_ = html.Render(&b, e.n)
	return b.String()
}

// Attr returns the value of the named attribute.
func (e *HTMLElement) Attr(key string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Same reports whether a and b refer to the same element.
func Same(a, b Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ha, okA := a.(*HTMLElement)
	hb, okB := b.(*HTMLElement)
	if okA && okB {
		return ha.n == hb.n
	}
	return a == b
}

// Contains reports whether el is ancestor or equal to target.
func Contains(el, target Element) bool {
	for cur := target; cur != nil; cur = cur.Parent() {
		if Same(cur, el) {
			return true
		}
	}
	return false
}

// Document is a parsed page together with its event listeners.
type Document struct {
	root *html.Node
	body *HTMLElement
	dispatcher
}

// Parse reads a full HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return newDocument(root)
}

// ParseString parses a page held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func newDocument(root *html.Node) (*Document, error) {
	body := findFirst(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "body"
	})
	if body == nil {
		return nil, errors.New("parse page: document has no body")
	}
	return &Document{root: root, body: Wrap(body)}, nil
}

// Body returns the document body.
func (d *Document) Body() *HTMLElement { return d.body }

// Root returns the top element of the document (normally HTML).
func (d *Document) Root() *HTMLElement {
	return Wrap(findFirst(d.root, func(n *html.Node) bool { return n.Type == html.ElementNode }))
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}
