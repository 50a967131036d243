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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/beevik/etree"

	"github.com/vine-io/mindmap/api"
)

const DefaultIndent = 2

type WriterOptions struct {
	Indent int
}

type WriterOption func(*WriterOptions)

func NewWriterOptions(opts ...WriterOption) WriterOptions {
	options := WriterOptions{Indent: DefaultIndent}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// WithIndent sets the indent width, zero writes everything on one line.
func WithIndent(n int) WriterOption {
	return func(o *WriterOptions) {
		o.Indent = n
	}
}

// Writer serializes documents with the writers of a frozen registry.
type Writer struct {
	reg     *Registry
	options WriterOptions
}

// NewWriter creates a writer. The registry must be frozen.
func NewWriter(reg *Registry, opts ...WriterOption) (*Writer, error) {
	if reg == nil || !reg.Frozen() {
		return nil, api.Configuration("writer requires a frozen registry")
	}
	return &Writer{reg: reg, options: NewWriterOptions(opts...)}, nil
}

// Write serializes doc into sink. Nothing reaches sink unless the whole tree
// was serialized; sink is not closed.
func (w *Writer) Write(doc *Document, sink io.Writer) error {
	if doc == nil || doc.Discarded() {
		return api.Serialization("cannot write a discarded map")
	}
	if doc.root == nil {
		return api.Serialization("map has no root node")
	}

	out := etree.NewDocument()
	root := out.CreateElement(MapTag)
	if doc.Version != "" {
		root.CreateAttr(attrVersion, doc.Version)
	}
	if err := w.writeNode(doc.root, root, w.reg.WriterOrder()); err != nil {
		return err
	}

	return w.flush(out, sink)
}

// WriteNode serializes the subtree of n as a bare <node> element.
func (w *Writer) WriteNode(n *Node, sink io.Writer) error {
	if n == nil {
		return api.Serialization("cannot write a nil node")
	}

	out := etree.NewDocument()
	if err := w.writeNode(n, &out.Element, w.reg.WriterOrder()); err != nil {
		return err
	}

	return w.flush(out, sink)
}

// WriteFile writes doc next to name and renames it over name.
func (w *Writer) WriteFile(doc *Document, name string) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err = w.Write(doc, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}

func (w *Writer) writeNode(n *Node, parent *etree.Element, order []reflect.Type) error {
	el := parent.CreateElement(NodeTag)
	if n.ID != "" {
		el.CreateAttr(attrID, n.ID)
	}
	if n.Folded {
		el.CreateAttr(attrFolded, FormatBool(true))
	}
	el.CreateAttr(attrText, n.Text)
	if !n.Created.IsZero() {
		el.CreateAttr(attrCreated, FormatMillis(n.Created))
	}
	if !n.Modified.IsZero() {
		el.CreateAttr(attrModified, FormatMillis(n.Modified))
	}

	for _, typ := range order {
		ext, ok := n.extensions[typ]
		if !ok {
			continue
		}
		writer, ok := w.reg.LookupWriter(ext)
		if !ok {
			continue
		}
		if err := writeExtension(writer, n, ext, el); err != nil {
			return api.Serialization("write extension %s", ext.ExtensionKind()).
				WithNode(n.ID).
				WithExtension(ext.ExtensionKind()).
				WithCause(err)
		}
	}

	for _, u := range n.unknown {
		el.AddChild(u.Copy())
	}

	for _, child := range n.children {
		if err := w.writeNode(child, el, order); err != nil {
			return err
		}
	}

	return nil
}

func writeExtension(writer ExtensionWriter, n *Node, ext Extension, el *etree.Element) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("writer panic: %v", p)
		}
	}()
	return writer.WriteExtension(n, ext, el)
}

func (w *Writer) flush(out *etree.Document, sink io.Writer) error {
	if w.options.Indent > 0 {
		out.Indent(w.options.Indent)
	}
	if _, err := out.WriteTo(sink); err != nil {
		return api.Serialization("write output").WithCause(err)
	}
	return nil
}
