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

// Package icon keeps the builtin icons shown in front of a node text.
package icon

import (
	"encoding/xml"

	"github.com/beevik/etree"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/api"
)

const (
	Tag  = "icon"
	Kind = "icons"

	attrBuiltin = "BUILTIN"
)

// IconSet is the ordered list of icons of a node. One <icon> element is
// read and written per entry.
type IconSet struct {
	Icons []string `json:"icons"`
}

var _ mindmap.Extension = (*IconSet)(nil)

func (s *IconSet) ExtensionKind() string {
	return Kind
}

func (s *IconSet) Add(name string) {
	s.Icons = append(s.Icons, name)
}

// Remove drops the first icon with the given name.
func (s *IconSet) Remove(name string) bool {
	for i, v := range s.Icons {
		if v == name {
			s.Icons = append(s.Icons[:i], s.Icons[i+1:]...)
			return true
		}
	}
	return false
}

func (s *IconSet) Len() int {
	return len(s.Icons)
}

// Of returns the icon set of n, creating it when absent.
func Of(n *mindmap.Node) *IconSet {
	if s, ok := mindmap.ExtensionOf[*IconSet](n); ok {
		return s
	}
	s := &IconSet{}
	n.PutExtension(s)
	return s
}

// entry is the object of a single <icon> element.
type entry struct {
	name string
}

type handler struct{}

func (handler) CreateElement(ctx *mindmap.ReadContext, parent any, tag string, attrs []xml.Attr) (any, error) {
	if _, ok := parent.(*mindmap.Node); !ok {
		return nil, api.Structural("<%s> must be placed inside a node", Tag)
	}
	return &entry{}, nil
}

func (handler) EndElement(ctx *mindmap.ReadContext, parent any, tag string, obj any) error {
	e := obj.(*entry)
	if e.name == "" {
		return api.Format("<%s> without %s", Tag, attrBuiltin).WithAttribute(attrBuiltin, "")
	}
	Of(parent.(*mindmap.Node)).Add(e.name)
	return nil
}

func (handler) WriteExtension(node *mindmap.Node, ext mindmap.Extension, el *etree.Element) error {
	s, ok := ext.(*IconSet)
	if !ok {
		return api.Serialization("icon writer got %T", ext)
	}
	for _, name := range s.Icons {
		if name == "" {
			return api.Serialization("empty icon name").WithAttribute(attrBuiltin, "")
		}
		el.CreateElement(Tag).CreateAttr(attrBuiltin, name)
	}
	return nil
}

// RegisterBy installs the icon element and the icon set writer.
func RegisterBy(r *mindmap.Registry) error {
	h := handler{}
	if err := r.RegisterElement(Tag, h); err != nil {
		return err
	}
	err := r.RegisterAttributeHandler(Tag, attrBuiltin, func(obj any, value string) error {
		obj.(*entry).name = value
		return nil
	})
	if err != nil {
		return err
	}
	return r.RegisterWriter(&IconSet{}, h)
}
