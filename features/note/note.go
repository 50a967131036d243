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

// Package note attaches a free text note to a node.
package note

import (
	"encoding/xml"
	"strings"

	"github.com/beevik/etree"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/api"
)

const (
	Tag  = "richcontent"
	Kind = "note"

	// TypeNote is the TYPE of the richcontent element holding a note. Other
	// richcontent types are kept untouched on the node.
	TypeNote = "NOTE"

	attrType = "TYPE"
)

type Note struct {
	Text string           `json:"text"`
	// Body is the markup of a rich note, usually a single <html> element.
	Body []*etree.Element `json:"-"`
}

var (
	_ mindmap.Extension      = (*Note)(nil)
	_ mindmap.TextReceiver   = (*Note)(nil)
	_ mindmap.MarkupReceiver = (*Note)(nil)
)

func New(text string) *Note {
	return &Note{Text: text}
}

func (n *Note) ExtensionKind() string {
	return Kind
}

func (n *Note) AppendText(text string) {
	n.Text += text
}

func (n *Note) AppendMarkup(el *etree.Element) {
	n.Body = append(n.Body, el)
}

// Markup renders the body of a rich note, empty for a plain text note.
func (n *Note) Markup() string {
	if len(n.Body) == 0 {
		return ""
	}
	doc := etree.NewDocument()
	for _, el := range n.Body {
		doc.AddChild(el.Copy())
	}
	out, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return out
}

type handler struct{}

func (handler) CreateElement(ctx *mindmap.ReadContext, parent any, tag string, attrs []xml.Attr) (any, error) {
	if v, _ := mindmap.GetAttr(attrs, attrType); v != TypeNote {
		return nil, nil
	}
	if _, ok := parent.(*mindmap.Node); !ok {
		return nil, api.Structural("note must be placed inside a node")
	}
	return &Note{}, nil
}

func (handler) EndElement(ctx *mindmap.ReadContext, parent any, tag string, obj any) error {
	n := obj.(*Note)
	n.Text = strings.TrimSpace(n.Text)
	parent.(*mindmap.Node).PutExtension(n)
	return nil
}

func (handler) WriteExtension(node *mindmap.Node, ext mindmap.Extension, el *etree.Element) error {
	n, ok := ext.(*Note)
	if !ok {
		return api.Serialization("note writer got %T", ext)
	}
	rc := el.CreateElement(Tag)
	rc.CreateAttr(attrType, TypeNote)
	if n.Text != "" {
		rc.SetText(n.Text)
	}
	for _, el := range n.Body {
		rc.AddChild(el.Copy())
	}
	return nil
}

// RegisterBy installs the note element and writer.
func RegisterBy(r *mindmap.Registry) error {
	h := handler{}
	if err := r.RegisterElement(Tag, h); err != nil {
		return err
	}
	return r.RegisterWriter(&Note{}, h)
}
