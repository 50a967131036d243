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
	"github.com/google/uuid"
	"github.com/tidwall/btree"

	"github.com/vine-io/mindmap/api"
)

// IDSpace is a set of node identifiers that already belong to loaded
// documents.
type IDSpace interface {
	Lookup(id string) (*Node, bool)
}

// spaces chains several id spaces, the first match wins.
type spaces []IDSpace

func (s spaces) Lookup(id string) (*Node, bool) {
	for _, space := range s {
		if space == nil {
			continue
		}
		if n, ok := space.Lookup(id); ok {
			return n, true
		}
	}
	return nil, false
}

type DocumentState int32

const (
	DocumentLoading DocumentState = iota + 1
	DocumentReady
	DocumentDiscarded
)

func (s DocumentState) String() string {
	switch s {
	case DocumentLoading:
		return "loading"
	case DocumentReady:
		return "ready"
	case DocumentDiscarded:
		return "discarded"
	}
	return "unknown"
}

var (
	_ Container = (*Document)(nil)
	_ IDSpace   = (*Document)(nil)
)

// Document owns one root node and the id index of the tree.
type Document struct {
	uid     string
	Version string

	root  *Node
	index *btree.Map[string, *Node]
	state DocumentState
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		uid:   uuid.New().String(),
		index: &btree.Map[string, *Node]{},
		state: DocumentReady,
	}
}

// UID identifies the document instance, it is not persisted.
func (d *Document) UID() string {
	return d.uid
}

func (d *Document) Root() *Node {
	return d.root
}

func (d *Document) State() DocumentState {
	return d.state
}

// Discarded reports whether a failed load left the document unusable.
func (d *Document) Discarded() bool {
	return d.state == DocumentDiscarded
}

func (d *Document) discard() {
	d.state = DocumentDiscarded
}

// AttachChild sets the root node. A document accepts exactly one root.
func (d *Document) AttachChild(child any) error {
	n, ok := child.(*Node)
	if !ok {
		return api.Structural("map cannot contain %s", getKind(child))
	}
	if d.root != nil {
		return api.Structural("map already has root node %q", d.root.ID).WithNode(n.ID)
	}
	if n.parent != nil {
		return api.Structural("root node %q has a parent", n.ID).WithNode(n.ID)
	}
	d.root = n
	return nil
}

// SetRoot replaces the tree of an empty document and indexes it.
func (d *Document) SetRoot(n *Node) error {
	if err := d.AttachChild(n); err != nil {
		return err
	}
	return d.Register(n)
}

func (d *Document) Lookup(id string) (*Node, bool) {
	return d.index.Get(id)
}

func (d *Document) Contains(id string) bool {
	_, ok := d.index.Get(id)
	return ok
}

// Len returns the number of indexed nodes.
func (d *Document) Len() int {
	return d.index.Len()
}

// NewID allocates an identifier unused by the document.
func (d *Document) NewID() (string, error) {
	return allocateID(func(id string) bool { return d.Contains(id) })
}

// NewIDAvoiding allocates an id unused by d and by space. space may be nil.
func (d *Document) NewIDAvoiding(space IDSpace) (string, error) {
	return allocateID(func(id string) bool {
		if d.Contains(id) {
			return true
		}
		if space == nil {
			return false
		}
		_, ok := space.Lookup(id)
		return ok
	})
}

// Register indexes n and its descendants. Nodes without an identifier get a
// fresh one. An identifier owned by another node is a DuplicateIdError.
func (d *Document) Register(n *Node) error {
	var err error
	n.Walk(func(node *Node) bool {
		if node.ID == "" {
			if node.ID, err = d.NewID(); err != nil {
				return false
			}
		}
		if other, ok := d.index.Get(node.ID); ok && other != node {
			err = api.DuplicateID("id %q is already used", node.ID).WithNode(node.ID)
			return false
		}
		d.index.Set(node.ID, node)
		return true
	})
	return err
}

// Unregister removes n and its descendants from the index.
func (d *Document) Unregister(n *Node) {
	n.Walk(func(node *Node) bool {
		if other, ok := d.index.Get(node.ID); ok && other == node {
			d.index.Delete(node.ID)
		}
		return true
	})
}

// Nodes returns the indexed nodes ordered by id.
func (d *Document) Nodes() []*Node {
	out := make([]*Node, 0, d.index.Len())
	d.index.Scan(func(key string, n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}
