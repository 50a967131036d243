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

package script

import (
	"time"

	log "github.com/vine-io/vine/lib/logger"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/api"
	"github.com/vine-io/mindmap/features/icon"
	"github.com/vine-io/mindmap/features/link"
	"github.com/vine-io/mindmap/features/note"
)

// NodeProxy is the view of a live node handed to scripts. Every change goes
// through the document, so ids stay unique and the tree stays a tree.
type NodeProxy struct {
	doc   *mindmap.Document
	// space holds the ids of the other open maps, may be nil.
	space mindmap.IDSpace
	node  *mindmap.Node
}

func newNodeProxy(doc *mindmap.Document, n *mindmap.Node) *NodeProxy {
	if n == nil {
		return nil
	}
	return &NodeProxy{doc: doc, node: n}
}

func (p *NodeProxy) proxy(n *mindmap.Node) *NodeProxy {
	np := newNodeProxy(p.doc, n)
	if np != nil {
		np.space = p.space
	}
	return np
}

// Node returns the proxied node.
func (p *NodeProxy) Node() *mindmap.Node {
	return p.node
}

func (p *NodeProxy) ID() string {
	return p.node.ID
}

func (p *NodeProxy) Text() string {
	return p.node.Text
}

func (p *NodeProxy) SetText(text string) error {
	if err := p.check(); err != nil {
		return err
	}
	p.node.Text = text
	p.touch()
	return nil
}

func (p *NodeProxy) Folded() bool {
	return p.node.Folded
}

func (p *NodeProxy) SetFolded(folded bool) error {
	if err := p.check(); err != nil {
		return err
	}
	mindmap.SetFolded(p.node, folded)
	return nil
}

func (p *NodeProxy) IsRoot() bool {
	return p.node.IsRoot()
}

// Parent returns nil for the root.
func (p *NodeProxy) Parent() *NodeProxy {
	return p.proxy(p.node.Parent())
}

func (p *NodeProxy) Children() []*NodeProxy {
	children := p.node.Children()
	out := make([]*NodeProxy, 0, len(children))
	for _, child := range children {
		out = append(out, p.proxy(child))
	}
	return out
}

// CreateChild appends a new node with text and an id unused by the map and
// the id space of the proxy.
func (p *NodeProxy) CreateChild(text string) (*NodeProxy, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	id, err := p.doc.NewIDAvoiding(p.space)
	if err != nil {
		return nil, err
	}

	child := mindmap.NewNode(id, text)
	child.Created = time.Now()
	child.Modified = child.Created
	if err = p.node.AttachChild(child); err != nil {
		return nil, err
	}
	if err = p.doc.Register(child); err != nil {
		child.Detach()
		return nil, err
	}
	return p.proxy(child), nil
}

// Remove detaches the node and its subtree from the map and deletes the
// arrows of the map pointing into the subtree. The root cannot be removed.
func (p *NodeProxy) Remove() error {
	if err := p.check(); err != nil {
		return err
	}
	if p.node.IsRoot() {
		return api.Structural("cannot remove the root node").WithNode(p.node.ID)
	}
	p.doc.Unregister(p.node)
	p.node.Detach()
	if n := link.Unlink(p.doc.Root(), p.node); n > 0 {
		log.Debugf("removed %d arrows pointing into node %s", n, p.node.ID)
	}
	return nil
}

// AddLink draws an arrow to target, both nodes must belong to the same map.
func (p *NodeProxy) AddLink(target *NodeProxy) error {
	if err := p.check(); err != nil {
		return err
	}
	if target == nil || target.doc != p.doc {
		return api.Structural("link target must belong to the same map").WithNode(p.node.ID)
	}
	if err := target.check(); err != nil {
		return err
	}
	_, err := link.Add(p.node, target.node, nil)
	return err
}

// Links returns the resolved targets of the arrows leaving the node.
func (p *NodeProxy) Links() []*NodeProxy {
	out := make([]*NodeProxy, 0)
	for _, l := range link.Links(p.node) {
		if l.Target != nil {
			out = append(out, p.proxy(l.Target))
		}
	}
	return out
}

func (p *NodeProxy) Note() string {
	if n, ok := mindmap.ExtensionOf[*note.Note](p.node); ok {
		return n.Text
	}
	return ""
}

// SetNote replaces the note, an empty text removes it.
func (p *NodeProxy) SetNote(text string) error {
	if err := p.check(); err != nil {
		return err
	}
	if text == "" {
		p.node.RemoveExtension(&note.Note{})
	} else {
		p.node.PutExtension(note.New(text))
	}
	p.touch()
	return nil
}

func (p *NodeProxy) Icons() []string {
	s, ok := mindmap.ExtensionOf[*icon.IconSet](p.node)
	if !ok {
		return []string{}
	}
	out := make([]string, len(s.Icons))
	copy(out, s.Icons)
	return out
}

func (p *NodeProxy) AddIcon(name string) error {
	if err := p.check(); err != nil {
		return err
	}
	if name == "" {
		return api.Format("empty icon name").WithNode(p.node.ID)
	}
	icon.Of(p.node).Add(name)
	return nil
}

// check fails when the node has left the map.
func (p *NodeProxy) check() error {
	if p.doc == nil || p.doc.Discarded() {
		return api.Structural("map is discarded")
	}
	if n, ok := p.doc.Lookup(p.node.ID); !ok || n != p.node {
		return api.Structural("node %q is not part of the map", p.node.ID).WithNode(p.node.ID)
	}
	return nil
}

func (p *NodeProxy) touch() {
	p.node.Modified = time.Now()
}

// MapProxy is the view of a whole map.
type MapProxy struct {
	doc   *mindmap.Document
	space mindmap.IDSpace
}

// NewMapProxy wraps doc, WithIDSpace keeps created ids unique across the
// open maps.
func NewMapProxy(doc *mindmap.Document, opts ...Option) *MapProxy {
	options := newOptions(opts...)
	return &MapProxy{doc: doc, space: options.Space}
}

func (m *MapProxy) proxy(n *mindmap.Node) *NodeProxy {
	p := newNodeProxy(m.doc, n)
	if p != nil {
		p.space = m.space
	}
	return p
}

func (m *MapProxy) Root() *NodeProxy {
	return m.proxy(m.doc.Root())
}

// Node finds a node by id.
func (m *MapProxy) Node(id string) (*NodeProxy, bool) {
	n, ok := m.doc.Lookup(id)
	if !ok {
		return nil, false
	}
	return m.proxy(n), true
}

// Find returns the nodes matching cond in pre-order.
func (m *MapProxy) Find(cond func(*NodeProxy) bool) []*NodeProxy {
	out := make([]*NodeProxy, 0)
	root := m.doc.Root()
	if root == nil || cond == nil {
		return out
	}
	found := mindmap.FindAll(root, func(n *mindmap.Node) bool {
		return cond(m.proxy(n))
	})
	for _, n := range found {
		out = append(out, m.proxy(n))
	}
	return out
}
