// MIT License
//
// Copyright (c) 2023 Lack
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package mindmap

import (
	"reflect"
	"time"

	"github.com/beevik/etree"

	"github.com/vine-io/mindmap/api"
)

// Extension is an optional typed attachment of a Node, contributed by a
// feature module.
type Extension interface {
	ExtensionKind() string
}

// Container is implemented by the objects that may own a child created by
// the tree builder.
type Container interface {
	AttachChild(child any) error
}

// Referrer is implemented by extensions that point at other nodes.
type Referrer interface {
	ReferenceIDs() []string
}

// TextReceiver is implemented by objects that collect the character data
// of their element.
type TextReceiver interface {
	AppendText(text string)
}

// MarkupReceiver is implemented by objects that keep the child elements of
// their element no handler claims, such as the html body of a note.
type MarkupReceiver interface {
	AppendMarkup(el *etree.Element)
}

var _ Container = (*Node)(nil)

// Node is the element of the map tree.
type Node struct {
	ID       string
	Text     string
	Folded   bool
	Created  time.Time
	Modified time.Time

	parent     *Node
	children   []*Node
	extensions map[reflect.Type]Extension
	// child elements nobody registered a handler for, kept for round-trip.
	unknown []*etree.Element
}

// NewNode creates a detached node.
func NewNode(id, text string) *Node {
	return &Node{ID: id, Text: text}
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) IsRoot() bool {
	return n.parent == nil
}

func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

func (n *Node) ChildCount() int {
	return len(n.children)
}

// Children returns a copy of the ordered child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) ChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	return n.children[index]
}

func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// AttachChild appends child to the children of n. Only nodes are accepted.
func (n *Node) AttachChild(child any) error {
	c, ok := child.(*Node)
	if !ok {
		return api.Structural("node %q cannot contain %s", n.ID, getKind(child)).WithNode(n.ID)
	}
	return n.InsertChild(len(n.children), c)
}

// InsertChild inserts child at index. The child must be detached and must not
// be an ancestor of n.
func (n *Node) InsertChild(index int, child *Node) error {
	if child == nil {
		return api.Structural("attach nil node").WithNode(n.ID)
	}
	if child.parent != nil {
		return api.Structural("node %q already has parent %q", child.ID, child.parent.ID).WithNode(child.ID)
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return api.Structural("attaching node %q would create a cycle", child.ID).WithNode(child.ID)
		}
	}
	if index < 0 || index > len(n.children) {
		index = len(n.children)
	}

	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.parent = n
	return nil
}

// Detach removes n from its parent. It is a no-op for a root.
func (n *Node) Detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	if i := p.IndexOf(n); i >= 0 {
		p.children = append(p.children[:i], p.children[i+1:]...)
	}
	n.parent = nil
}

// PutExtension stores ext, replacing an extension of the same type.
func (n *Node) PutExtension(ext Extension) {
	if ext == nil {
		return
	}
	if n.extensions == nil {
		n.extensions = map[reflect.Type]Extension{}
	}
	n.extensions[reflect.TypeOf(ext)] = ext
}

// Extension returns the extension with the same runtime type as proto.
func (n *Node) Extension(proto Extension) (Extension, bool) {
	ext, ok := n.extensions[reflect.TypeOf(proto)]
	return ext, ok
}

func (n *Node) RemoveExtension(proto Extension) {
	delete(n.extensions, reflect.TypeOf(proto))
}

// Extensions returns all extensions, in no particular order.
func (n *Node) Extensions() []Extension {
	out := make([]Extension, 0, len(n.extensions))
	for _, ext := range n.extensions {
		out = append(out, ext)
	}
	return out
}

// ExtensionOf returns the extension of type T stored on n.
func ExtensionOf[T Extension](n *Node) (T, bool) {
	var zero T
	ext, ok := n.extensions[reflect.TypeOf(zero)]
	if !ok {
		return zero, false
	}
	v, ok := ext.(T)
	return v, ok
}

// OutgoingReferences collects the node ids n points at through its extensions.
func (n *Node) OutgoingReferences() []string {
	ids := make([]string, 0)
	for _, ext := range n.extensions {
		if r, ok := ext.(Referrer); ok {
			ids = append(ids, r.ReferenceIDs()...)
		}
	}
	return ids
}

// Unknown returns the preserved elements that no handler was registered for.
func (n *Node) Unknown() []*etree.Element {
	return n.unknown
}

func (n *Node) keepUnknown(el *etree.Element) {
	n.unknown = append(n.unknown, el)
}

// Walk visits n and its descendants in pre-order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, child := range n.children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Depth returns the number of ancestors of n.
func (n *Node) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}
