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
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	log "github.com/vine-io/vine/lib/logger"
	"golang.org/x/net/html/charset"

	"github.com/vine-io/mindmap/api"
)

type BuilderState int32

const (
	StateAwaitingRoot BuilderState = iota + 1
	StateInElement
	StateDone
	StateFailed
)

func (s BuilderState) String() string {
	switch s {
	case StateAwaitingRoot:
		return "AwaitingRoot"
	case StateInElement:
		return "InElement"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	}
	return "Unknown"
}

// ReadContext is handed to element handlers during a load.
type ReadContext struct {
	doc   *Document
	table *IDTable
	dec   *xml.Decoder
}

// Document returns the document being loaded.
func (c *ReadContext) Document() *Document {
	return c.doc
}

// Table returns the id table of the load.
func (c *ReadContext) Table() *IDTable {
	return c.table
}

// RecordReference records a reference from source to targetID, resolved
// after the tree is complete.
func (c *ReadContext) RecordReference(source *Node, targetID, kind string, owner any) *Reference {
	return c.table.RecordReference(source, targetID, kind, owner)
}

// Position returns the current line and column of the input.
func (c *ReadContext) Position() (int, int) {
	if c.dec == nil {
		return 0, 0
	}
	return c.dec.InputPos()
}

type frame struct {
	tag     string
	obj     any
	handler ElementHandler

	ignored bool
	// copy of an ignored subtree, kept below a node or a MarkupReceiver.
	capture *etree.Element
	keep    func(el *etree.Element)
}

// TreeBuilder turns the XML event stream into a node tree. One builder
// serves exactly one load.
type TreeBuilder struct {
	reg *Registry
	ctx *ReadContext

	// parent of the root element, nil for a whole document.
	base    any
	rootTag string

	state BuilderState
	stack []*frame
	err   error
}

// NewTreeBuilder creates a builder loading a whole document into doc.
func NewTreeBuilder(reg *Registry, doc *Document, table *IDTable) *TreeBuilder {
	return &TreeBuilder{
		reg:     reg,
		ctx:     &ReadContext{doc: doc, table: table},
		rootTag: MapTag,
		state:   StateAwaitingRoot,
		stack:   make([]*frame, 0),
	}
}

// newFragmentBuilder creates a builder for a single <node> subtree attached
// to holder.
func newFragmentBuilder(reg *Registry, doc *Document, table *IDTable, holder Container) *TreeBuilder {
	b := NewTreeBuilder(reg, doc, table)
	b.base = holder
	b.rootTag = NodeTag
	return b
}

func (b *TreeBuilder) State() BuilderState {
	return b.state
}

// Err returns the error that moved the builder to Failed.
func (b *TreeBuilder) Err() error {
	return b.err
}

// Build consumes r until the root element is closed. r is not closed.
func (b *TreeBuilder) Build(r io.Reader) (err error) {
	if b.state != StateAwaitingRoot {
		return api.Structural("tree builder is %s, it serves a single load", b.state)
	}

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	b.ctx.dec = dec

	defer func() {
		if p := recover(); p != nil {
			err = b.fail(b.locate(api.Structural("element handler panic: %v", p)))
		}
	}()

	for {
		tok, e := dec.Token()
		if e == io.EOF {
			break
		}
		if e != nil {
			return b.fail(b.syntaxError(e))
		}

		switch t := tok.(type) {
		case xml.StartElement:
			e = b.startElement(t)
		case xml.EndElement:
			e = b.endElement(t)
		case xml.CharData:
			b.charData(t)
		}
		if e != nil {
			return b.fail(e)
		}
	}

	if b.state == StateAwaitingRoot {
		return b.fail(b.locate(api.Structural("missing root element <%s>", b.rootTag)))
	}
	if len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		return b.fail(b.locate(api.Structural("unexpected end of input inside <%s>", top.tag).WithTag(top.tag)))
	}

	return nil
}

func (b *TreeBuilder) fail(err error) error {
	b.state = StateFailed
	b.err = err
	return err
}

func (b *TreeBuilder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *TreeBuilder) parent() any {
	if top := b.top(); top != nil {
		return top.obj
	}
	return b.base
}

func (b *TreeBuilder) startElement(t xml.StartElement) error {
	tag := t.Name.Local
	if b.state == StateDone {
		return b.locate(api.Structural("element <%s> after the root element", tag).WithTag(tag))
	}

	if top := b.top(); top != nil && top.ignored {
		f := &frame{tag: tag, ignored: true}
		if top.capture != nil {
			f.capture = top.capture.CreateElement(tag)
			copyAttrs(f.capture, t.Attr)
		}
		b.stack = append(b.stack, f)
		return nil
	}

	if b.state == StateAwaitingRoot {
		if tag != b.rootTag {
			return b.locate(api.Structural("expected root element <%s>, found <%s>", b.rootTag, tag).WithTag(tag))
		}
		b.state = StateInElement
	}

	parent := b.parent()
	handler, ok := b.reg.LookupElement(tag)
	if !ok {
		b.pushIgnored(t, parent)
		return nil
	}

	obj, err := handler.CreateElement(b.ctx, parent, tag, t.Attr)
	if err != nil {
		return b.wrap(err, api.KindStructural, tag)
	}
	if obj == nil {
		b.pushIgnored(t, parent)
		return nil
	}

	for _, attr := range t.Attr {
		setter, ok := b.reg.LookupAttributeHandler(tag, attr.Name.Local)
		if !ok {
			continue
		}
		if err = setter(obj, attr.Value); err != nil {
			return b.wrap(err, api.KindFormat, tag).WithAttribute(attr.Name.Local, attr.Value)
		}
	}

	if n, ok := obj.(*Node); ok && n.ID != "" {
		if err = b.ctx.table.RecordNodeID(n, n.ID); err != nil {
			return b.wrap(err, api.KindStructural, tag)
		}
	}

	b.stack = append(b.stack, &frame{tag: tag, obj: obj, handler: handler})
	return nil
}

func (b *TreeBuilder) pushIgnored(t xml.StartElement, parent any) {
	tag := t.Name.Local
	f := &frame{tag: tag, ignored: true}
	switch p := parent.(type) {
	case *Node:
		f.keep = p.keepUnknown
	case MarkupReceiver:
		f.keep = p.AppendMarkup
	}
	if f.keep != nil {
		f.capture = etree.NewElement(tag)
		copyAttrs(f.capture, t.Attr)
	}
	log.Debugf("skip unknown element <%s>", tag)
	b.stack = append(b.stack, f)
}

func (b *TreeBuilder) endElement(t xml.EndElement) error {
	tag := t.Name.Local
	top := b.top()
	if top == nil || top.tag != tag {
		return b.locate(api.Structural("unexpected closing tag </%s>", tag).WithTag(tag))
	}
	b.stack = b.stack[:len(b.stack)-1]
	defer func() {
		if len(b.stack) == 0 && b.state != StateFailed {
			b.state = StateDone
		}
	}()

	if top.ignored {
		if top.keep != nil && top.capture != nil {
			top.keep(top.capture)
		}
		return nil
	}

	parent := b.parent()
	if hook, ok := top.handler.(ElementEndHandler); ok {
		if err := hook.EndElement(b.ctx, parent, tag, top.obj); err != nil {
			return b.wrap(err, api.KindStructural, tag)
		}
		return nil
	}

	switch obj := top.obj.(type) {
	case *Node:
		c, ok := parent.(Container)
		if !ok {
			return b.locate(api.Structural("<%s> cannot be placed inside %s", tag, getKind(parent)).WithTag(tag).WithNode(obj.ID))
		}
		if err := c.AttachChild(obj); err != nil {
			return b.wrap(err, api.KindStructural, tag)
		}
	case Extension:
		n, ok := parent.(*Node)
		if !ok {
			return b.locate(api.Structural("extension %s must be placed inside a node", obj.ExtensionKind()).WithTag(tag))
		}
		n.PutExtension(obj)
	case *Document:
		if parent != nil {
			return b.locate(api.Structural("<%s> must be the root element", tag).WithTag(tag))
		}
	default:
		return b.locate(api.Structural("no rule attaches %s to %s", getKind(obj), getKind(parent)).WithTag(tag))
	}

	return nil
}

func (b *TreeBuilder) charData(t xml.CharData) {
	top := b.top()
	if top == nil {
		return
	}
	if top.ignored {
		if top.capture != nil && strings.TrimSpace(string(t)) != "" {
			top.capture.CreateCharData(string(t))
		}
		return
	}
	if tr, ok := top.obj.(TextReceiver); ok {
		tr.AppendText(string(t))
	}
}

// wrap converts err to an *api.Error of the given kind unless it already is
// one, and fills the tag and the input position.
func (b *TreeBuilder) wrap(err error, kind api.Kind, tag string) *api.Error {
	var e *api.Error
	if !errors.As(err, &e) {
		e = api.New(err.Error(), kind).WithCause(err)
	}
	if e.Tag == "" {
		e.WithTag(tag)
	}
	return b.locate(e)
}

func (b *TreeBuilder) locate(e *api.Error) *api.Error {
	if e.Line == 0 && b.ctx.dec != nil {
		line, column := b.ctx.dec.InputPos()
		e.WithPosition(line, column, b.ctx.dec.InputOffset())
	}
	return e
}

func (b *TreeBuilder) syntaxError(err error) *api.Error {
	e := api.Structural("malformed xml").WithCause(err)
	var se *xml.SyntaxError
	if errors.As(err, &se) {
		e.Detail = fmt.Sprintf("malformed xml: %s", se.Msg)
		e.WithPosition(se.Line, 0, b.ctx.dec.InputOffset())
		e.WithCause(nil)
		return e
	}
	return b.locate(e)
}

func copyAttrs(el *etree.Element, attrs []xml.Attr) {
	for _, attr := range attrs {
		key := attr.Name.Local
		if attr.Name.Space == "xmlns" {
			key = "xmlns:" + key
		}
		el.CreateAttr(key, attr.Value)
	}
}
