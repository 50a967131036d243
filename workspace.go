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
	"bytes"
	"io"
	"sync"

	log "github.com/vine-io/vine/lib/logger"

	"github.com/vine-io/mindmap/api"
)

var _ IDSpace = (*Workspace)(nil)

// Workspace is the set of open documents. Documents opened through it get
// identifiers unique across the workspace.
type Workspace struct {
	reader *Reader
	writer *Writer

	mu   sync.RWMutex
	docs []*Document
}

func NewWorkspace(reader *Reader, writer *Writer) *Workspace {
	return &Workspace{
		reader: reader,
		writer: writer,
		docs:   make([]*Document, 0),
	}
}

// Lookup searches id in every open document.
func (w *Workspace) Lookup(id string) (*Node, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, doc := range w.docs {
		if n, ok := doc.Lookup(id); ok {
			return n, true
		}
	}
	return nil, false
}

// Open loads a document, remapping ids already used by open documents.
func (w *Workspace) Open(in io.Reader, opts ...ReaderOption) (*LoadResult, error) {
	opts = append([]ReaderOption{WithIDSpace(w)}, opts...)
	result, err := w.reader.Load(in, opts...)
	if err != nil {
		return result, err
	}

	w.mu.Lock()
	w.docs = append(w.docs, result.Document)
	w.mu.Unlock()

	if len(result.Remaps) > 0 {
		log.Infof("map %s opened with %d remapped ids", result.Document.UID(), len(result.Remaps))
	}
	return result, nil
}

// Add puts an already loaded document into the workspace.
func (w *Workspace) Add(doc *Document) error {
	if doc == nil || doc.Discarded() {
		return api.Structural("cannot add a discarded map")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for _, d := range w.docs {
		if d == doc {
			return nil
		}
	}
	w.docs = append(w.docs, doc)
	return nil
}

// Close removes doc from the workspace.
func (w *Workspace) Close(doc *Document) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, d := range w.docs {
		if d == doc {
			w.docs = append(w.docs[:i], w.docs[i+1:]...)
			return true
		}
	}
	return false
}

func (w *Workspace) Documents() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Document, len(w.docs))
	copy(out, w.docs)
	return out
}

// Merge copies the tree of src below parent, a node of dst. Ids of the copy
// that collide with dst or any open document are remapped and references
// follow them.
func (w *Workspace) Merge(dst *Document, parent *Node, src *Document) (*LoadResult, error) {
	if src == nil || src.Discarded() || src.Root() == nil {
		return nil, api.Structural("cannot merge an empty map")
	}

	var buf bytes.Buffer
	if err := w.writer.WriteNode(src.Root(), &buf); err != nil {
		return nil, err
	}

	return w.reader.LoadInto(dst, parent, &buf, WithIDSpace(w))
}
