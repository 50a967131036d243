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
	"io"
	"os"
	"strings"

	log "github.com/vine-io/vine/lib/logger"
	"go.uber.org/atomic"

	"github.com/vine-io/mindmap/api"
)

// ReferencePolicy decides what a load does with references whose target
// never appeared.
type ReferencePolicy int32

const (
	// ReportReferences keeps dangling references and reports them.
	ReportReferences ReferencePolicy = iota + 1
	// DropReferences removes dangling references from their owners.
	DropReferences
	// FailOnReferences aborts the load with an UnresolvedReferenceError.
	FailOnReferences
)

func (p ReferencePolicy) String() string {
	switch p {
	case ReportReferences:
		return "report"
	case DropReferences:
		return "drop"
	case FailOnReferences:
		return "fail"
	}
	return "unknown"
}

// ParseReferencePolicy parses the names returned by ReferencePolicy.String.
func ParseReferencePolicy(text string) (ReferencePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "report":
		return ReportReferences, nil
	case "drop":
		return DropReferences, nil
	case "fail":
		return FailOnReferences, nil
	}
	return 0, api.Configuration("unknown reference policy %q", text)
}

type ReaderOptions struct {
	Space  IDSpace
	Policy ReferencePolicy
}

type ReaderOption func(*ReaderOptions)

func NewReaderOptions(opts ...ReaderOption) ReaderOptions {
	options := ReaderOptions{Policy: ReportReferences}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// WithIDSpace sets the ids of previously loaded documents. Colliding ids of
// the new document are remapped.
func WithIDSpace(space IDSpace) ReaderOption {
	return func(o *ReaderOptions) {
		o.Space = space
	}
}

func WithReferencePolicy(policy ReferencePolicy) ReaderOption {
	return func(o *ReaderOptions) {
		o.Policy = policy
	}
}

// LoadResult is the outcome of a load.
type LoadResult struct {
	Document *Document
	// Node is the merged subtree of LoadInto.
	Node       *Node
	Unresolved []*Reference
	Remaps     map[string]string
}

// Reader loads documents with the handlers of a frozen registry.
type Reader struct {
	reg     *Registry
	options ReaderOptions
	loading atomic.Int32
}

// NewReader creates a reader. The registry must be frozen.
func NewReader(reg *Registry, opts ...ReaderOption) (*Reader, error) {
	if reg == nil || !reg.Frozen() {
		return nil, api.Configuration("reader requires a frozen registry")
	}
	return &Reader{reg: reg, options: NewReaderOptions(opts...)}, nil
}

// Loading reports whether a load is in progress.
func (r *Reader) Loading() bool {
	return r.loading.Load() > 0
}

func (r *Reader) merge(opts []ReaderOption) ReaderOptions {
	options := r.options
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// Load reads a whole document from in, in is not closed. When the load
// fails after the document was created, the result carries the document in
// the discarded state.
func (r *Reader) Load(in io.Reader, opts ...ReaderOption) (*LoadResult, error) {
	r.loading.Inc()
	defer r.loading.Dec()

	options := r.merge(opts)
	doc := NewDocument()
	doc.state = DocumentLoading
	result := &LoadResult{Document: doc}

	table := NewIDTable(options.Space)
	b := NewTreeBuilder(r.reg, doc, table)
	if err := b.Build(in); err != nil {
		doc.discard()
		return result, err
	}
	if doc.root == nil {
		doc.discard()
		return result, api.Structural("map has no root node").WithTag(MapTag)
	}

	if err := assignMissingIDs(table, doc.root); err != nil {
		doc.discard()
		return result, err
	}
	result.Unresolved = table.ResolveAll()
	result.Remaps = table.Remaps()
	if err := applyPolicy(options.Policy, result.Unresolved); err != nil {
		doc.discard()
		return result, err
	}
	if err := doc.Register(doc.root); err != nil {
		doc.discard()
		return result, err
	}

	doc.state = DocumentReady
	log.Debugf("loaded map %s: %d nodes, %d references, %d remapped",
		doc.uid, doc.Len(), len(table.References()), len(result.Remaps))
	return result, nil
}

// LoadFile opens name and loads it.
func (r *Reader) LoadFile(name string, opts ...ReaderOption) (*LoadResult, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return r.Load(f, opts...)
}

// fragment collects the top node of a LoadInto.
type fragment struct {
	nodes []*Node
}

func (f *fragment) AttachChild(child any) error {
	n, ok := child.(*Node)
	if !ok {
		return api.Structural("fragment cannot contain %s", getKind(child))
	}
	f.nodes = append(f.nodes, n)
	return nil
}

// LoadInto reads a <node> subtree from in and attaches it as the last child
// of parent. Ids colliding with doc or with the configured id space are
// remapped. References may target nodes of doc. doc is left untouched when
// the load fails.
func (r *Reader) LoadInto(doc *Document, parent *Node, in io.Reader, opts ...ReaderOption) (*LoadResult, error) {
	r.loading.Inc()
	defer r.loading.Dec()

	if doc == nil || doc.Discarded() {
		return nil, api.Structural("cannot merge into a discarded map")
	}
	if parent == nil {
		return nil, api.Structural("merge requires a parent node")
	}
	if owner, ok := doc.Lookup(parent.ID); !ok || owner != parent {
		return nil, api.Structural("node %q does not belong to the map", parent.ID).WithNode(parent.ID)
	}

	options := r.merge(opts)
	var space IDSpace = doc
	if options.Space != nil {
		space = spaces{doc, options.Space}
	}

	holder := &fragment{}
	table := NewIDTable(space)
	table.SetReferenceScope(doc)
	b := newFragmentBuilder(r.reg, doc, table, holder)
	if err := b.Build(in); err != nil {
		return nil, err
	}
	if len(holder.nodes) != 1 {
		return nil, api.Structural("fragment must contain exactly one node, found %d", len(holder.nodes))
	}
	top := holder.nodes[0]

	if err := assignMissingIDs(table, top); err != nil {
		return nil, err
	}
	result := &LoadResult{Document: doc, Node: top}
	result.Unresolved = table.ResolveAll()
	result.Remaps = table.Remaps()
	if err := applyPolicy(options.Policy, result.Unresolved); err != nil {
		return nil, err
	}

	if err := parent.AttachChild(top); err != nil {
		return nil, err
	}
	if err := doc.Register(top); err != nil {
		top.Detach()
		return nil, err
	}

	log.Debugf("merged %d nodes below %s, %d remapped", len(table.Nodes()), parent.ID, len(result.Remaps))
	return result, nil
}

func assignMissingIDs(table *IDTable, root *Node) error {
	var err error
	root.Walk(func(n *Node) bool {
		if n.ID != "" {
			return true
		}
		var id string
		if id, err = allocateID(table.used); err != nil {
			return false
		}
		err = table.RecordNodeID(n, id)
		return err == nil
	})
	return err
}

func applyPolicy(policy ReferencePolicy, unresolved []*Reference) error {
	if len(unresolved) == 0 {
		return nil
	}

	switch policy {
	case FailOnReferences:
		first := unresolved[0]
		return api.UnresolvedReference("%d unresolved references, first %s -> %q",
			len(unresolved), first.Kind, first.TargetID).WithNode(first.SourceID)
	case DropReferences:
		for _, ref := range unresolved {
			if d, ok := ref.Owner.(ReferenceDropper); ok {
				d.DropReference(ref)
			}
			log.Infof("drop %s reference %s -> %s", ref.Kind, ref.SourceID, ref.TargetID)
		}
	default:
		for _, ref := range unresolved {
			log.Warnf("unresolved %s reference %s -> %s", ref.Kind, ref.SourceID, ref.TargetID)
		}
	}

	return nil
}
