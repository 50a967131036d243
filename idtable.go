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
	"github.com/tidwall/btree"
	log "github.com/vine-io/vine/lib/logger"

	"github.com/vine-io/mindmap/api"
)

// Reference is a cross-link between two nodes recorded during a load.
type Reference struct {
	Kind     string
	SourceID string
	TargetID string
	Source   *Node
	// Target is set by IDTable.ResolveAll.
	Target *Node
	// Owner is the object that encodes the reference, usually an extension.
	Owner any
}

// ReferenceResolver is implemented by reference owners that want to learn
// the resolved target.
type ReferenceResolver interface {
	ResolveReference(ref *Reference)
}

// ReferenceDropper is implemented by reference owners able to forget a
// dangling reference.
type ReferenceDropper interface {
	DropReference(ref *Reference)
}

// IDTable records the node identifiers and references of a single load and
// resolves them once the tree is complete.
type IDTable struct {
	space IDSpace
	// scope is searched for reference targets missing from the load.
	scope IDSpace

	nodes *btree.Map[string, *Node]
	// old id -> new id, for ids colliding with the space.
	remap map[string]string
	// ids produced by remapping, a later node using one is remapped as well.
	allocated map[string]struct{}
	refs      []*Reference
	resolved  bool
}

// NewIDTable creates a table. space holds the ids of previously loaded
// documents and may be nil. Ids found in space are remapped, references are
// only resolved within the load unless a scope is set.
func NewIDTable(space IDSpace) *IDTable {
	return &IDTable{
		space:     space,
		nodes:     &btree.Map[string, *Node]{},
		remap:     map[string]string{},
		allocated: map[string]struct{}{},
		refs:      make([]*Reference, 0),
	}
}

// SetReferenceScope lets references bind to the nodes of scope when their
// target is not part of the load. Used when a fragment is merged into a map.
func (t *IDTable) SetReferenceScope(scope IDSpace) {
	t.scope = scope
}

func (t *IDTable) inSpace(id string, n *Node) bool {
	if t.space == nil {
		return false
	}
	other, ok := t.space.Lookup(id)
	return ok && other != n
}

func (t *IDTable) used(id string) bool {
	if _, ok := t.nodes.Get(id); ok {
		return true
	}
	if _, ok := t.remap[id]; ok {
		return true
	}
	if t.space != nil {
		if _, ok := t.space.Lookup(id); ok {
			return true
		}
	}
	return false
}

// RecordNodeID binds id to n. Reusing an id inside the load is a
// DuplicateIdError. An id already owned by the space is replaced by a fresh
// one and n.ID is rewritten.
func (t *IDTable) RecordNodeID(n *Node, id string) error {
	if id == "" {
		return nil
	}

	if _, ok := t.remap[id]; ok {
		return api.DuplicateID("id %q is used by more than one node", id).WithNode(id)
	}
	if other, ok := t.nodes.Get(id); ok {
		if other == n {
			return nil
		}
		if _, generated := t.allocated[id]; !generated {
			return api.DuplicateID("id %q is used by more than one node", id).WithNode(id)
		}
		return t.reassign(n, id)
	}
	if t.inSpace(id, n) {
		return t.reassign(n, id)
	}

	n.ID = id
	t.nodes.Set(id, n)
	return nil
}

func (t *IDTable) reassign(n *Node, id string) error {
	newID, err := allocateID(t.used)
	if err != nil {
		return api.FromErr(err).WithKind(api.KindStructural).WithNode(id)
	}

	log.Debugf("remap node id %s to %s", id, newID)
	t.remap[id] = newID
	t.allocated[newID] = struct{}{}
	n.ID = newID
	t.nodes.Set(newID, n)
	return nil
}

// RecordReference records a reference of the given kind from source to
// targetID. Remaps are applied when the reference is resolved.
func (t *IDTable) RecordReference(source *Node, targetID, kind string, owner any) *Reference {
	ref := &Reference{
		Kind:     kind,
		TargetID: targetID,
		Source:   source,
		Owner:    owner,
	}
	if source != nil {
		ref.SourceID = source.ID
	}
	t.refs = append(t.refs, ref)
	return ref
}

func (t *IDTable) mapID(id string) string {
	if newID, ok := t.remap[id]; ok {
		return newID
	}
	return id
}

// Lookup finds a node recorded by this load, following remaps.
func (t *IDTable) Lookup(id string) (*Node, bool) {
	return t.nodes.Get(t.mapID(id))
}

// ResolveAll binds every recorded reference to its target node and returns
// the references whose target never appeared. Targets are searched in this
// load first, then in the reference scope. It must be called once, after the
// tree is complete.
func (t *IDTable) ResolveAll() []*Reference {
	unresolved := make([]*Reference, 0)
	if t.resolved {
		return unresolved
	}
	t.resolved = true

	for _, ref := range t.refs {
		if ref.Source != nil {
			ref.SourceID = ref.Source.ID
		}
		ref.TargetID = t.mapID(ref.TargetID)

		target, ok := t.nodes.Get(ref.TargetID)
		if !ok && t.scope != nil {
			target, ok = t.scope.Lookup(ref.TargetID)
		}
		if !ok {
			unresolved = append(unresolved, ref)
			continue
		}

		ref.Target = target
		if r, ok := ref.Owner.(ReferenceResolver); ok {
			r.ResolveReference(ref)
		}
	}

	return unresolved
}

// Remaps returns the identifiers replaced during the load, old id -> new id.
func (t *IDTable) Remaps() map[string]string {
	out := make(map[string]string, len(t.remap))
	for k, v := range t.remap {
		out[k] = v
	}
	return out
}

// References returns the recorded references.
func (t *IDTable) References() []*Reference {
	out := make([]*Reference, len(t.refs))
	copy(out, t.refs)
	return out
}

// Nodes returns the recorded nodes ordered by id.
func (t *IDTable) Nodes() []*Node {
	out := make([]*Node, 0, t.nodes.Len())
	t.nodes.Scan(func(key string, n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

func (t *IDTable) Len() int {
	return t.nodes.Len()
}
