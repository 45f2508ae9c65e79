package tvrage

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

const documentName = "#document"

// Node is an element or text node of a parsed feed document.
// Text nodes have an empty Name.
type Node struct {
	Name     string
	Attrs    map[string]string
	Children []*Node
	Text     string
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n.Name == ""
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// Find returns the first element, in document order, for which match
// returns true. n itself is considered first.
func (n *Node) Find(match func(name string) bool) *Node {
	if n == nil || n.IsText() {
		return nil
	}
	if n.Name != documentName && match(n.Name) {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindDescendant returns the first element below n with the given name.
func (n *Node) FindDescendant(name string) *Node {
	for _, child := range n.Children {
		if found := child.Find(func(tag string) bool { return tag == name }); found != nil {
			return found
		}
	}
	return nil
}

// ChildrenNamed returns the direct child elements with the given name.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, child := range n.Children {
		if !child.IsText() && child.Name == name {
			out = append(out, child)
		}
	}
	return out
}

// FirstChild returns the first direct child element with the given name.
func (n *Node) FirstChild(name string) *Node {
	for _, child := range n.Children {
		if !child.IsText() && child.Name == name {
			return child
		}
	}
	return nil
}

// SingleText returns the text of n when its only child is a non-empty
// text node. Empty elements and elements with nested markup report false.
func (n *Node) SingleText() (string, bool) {
	if len(n.Children) != 1 || !n.Children[0].IsText() || n.Children[0].Text == "" {
		return "", false
	}
	return n.Children[0].Text, true
}

// FirstText returns the text of the first child when it is a text node.
func (n *Node) FirstText() string {
	if len(n.Children) == 0 || !n.Children[0].IsText() {
		return ""
	}
	return n.Children[0].Text
}

// Parse reads an XML document from r and hands the resulting tree to done.
// done is called exactly once, even when the document is malformed; in that
// case it receives the part of the tree read before the error, and the
// error is returned.
func Parse(r io.Reader, done func(doc *Node)) error {
	doc := &Node{Name: documentName}
	err := build(r, doc)
	done(doc)
	return err
}

func build(r io.Reader, doc *Node) error {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	stack := []*Node{doc}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		parent := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				node.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					node.Attrs[a.Name.Local] = a.Value
				}
			}
			parent.Children = append(parent.Children, node)
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			text := string(t)
			if strings.TrimSpace(text) == "" {
				continue
			}
			// CDATA sections arrive as separate tokens
			if last := len(parent.Children) - 1; last >= 0 && parent.Children[last].IsText() {
				parent.Children[last].Text += text
				continue
			}
			parent.Children = append(parent.Children, &Node{Text: text})
		}
	}
}
