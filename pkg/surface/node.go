package surface

import (
	"image/color"
	"slices"
)

// Kind is the kind of a surface node.
type Kind int

const (
	KindBlock   Kind = iota // vertical container
	KindRow                 // horizontal container, children share the width
	KindHeading             // text in the heading font
	KindText                // text in the body font
	KindImage               // remote image
	KindSwatch              // filled color rectangle
	KindSpacer              // empty vertical space
)

var kindNames = [...]string{"block", "row", "heading", "text", "image", "swatch", "spacer"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Align is horizontal text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Style holds the presentational attributes of a node. Lengths are CSS
// pixels; zero means unset.
type Style struct {
	FontFamily   string
	FontSize     float64
	FontWeight   int
	Color        color.Color
	Background   color.Color
	Align        Align
	MarginTop    float64
	MarginBottom float64
	Padding      float64
	Width        float64
	Height       float64
	Gap          float64
}

// Node is an element of a surface tree.
type Node struct {
	ID    string
	Kind  Kind
	Text  string
	Src   string
	Style Style

	children []*Node
}

// NewNode returns a node with the given children.
func NewNode(kind Kind, style Style, children ...*Node) *Node {
	return &Node{Kind: kind, Style: style, children: children}
}

// Append adds children at the end.
func (n *Node) Append(children ...*Node) {
	n.children = append(n.children, children...)
}

// InsertFirst makes c the first child.
func (n *Node) InsertFirst(c *Node) {
	n.children = slices.Insert(n.children, 0, c)
}

// RemoveChild detaches c. It reports whether c was a child of n.
func (n *Node) RemoveChild(c *Node) bool {
	i := slices.Index(n.children, c)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	return true
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Families returns the distinct font families used in the tree, in
// first-use order.
func (n *Node) Families() []string {
	var out []string
	n.Walk(func(c *Node) bool {
		if f := c.Style.FontFamily; f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
		return true
	})
	return out
}

// Sources returns the image sources in the tree, in document order.
func (n *Node) Sources() []string {
	var out []string
	n.Walk(func(c *Node) bool {
		if c.Kind == KindImage && c.Src != "" {
			out = append(out, c.Src)
		}
		return true
	})
	return out
}
