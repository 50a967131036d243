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

	"github.com/vine-io/mindmap/api"
)

const (
	// MapTag is the root element of a document.
	MapTag = "map"
	// NodeTag is the element of a Node.
	NodeTag = "node"

	attrVersion  = "version"
	attrID       = "ID"
	attrText     = "TEXT"
	attrFolded   = "FOLDED"
	attrCreated  = "CREATED"
	attrModified = "MODIFIED"
)

// nodeBuilder creates the document and its nodes.
type nodeBuilder struct{}

func newNodeBuilder() *nodeBuilder {
	return &nodeBuilder{}
}

func (b *nodeBuilder) CreateElement(ctx *ReadContext, parent any, tag string, attrs []xml.Attr) (any, error) {
	switch tag {
	case MapTag:
		if parent != nil {
			return nil, api.Structural("%s must be the root element", MapTag).WithTag(tag)
		}
		return ctx.Document(), nil
	case NodeTag:
		return &Node{}, nil
	}
	return nil, nil
}

func (b *nodeBuilder) registerBy(r *Registry) error {
	if err := r.RegisterElement(MapTag, b); err != nil {
		return err
	}
	if err := r.RegisterElement(NodeTag, b); err != nil {
		return err
	}

	handlers := []struct {
		tag    string
		name   string
		setter AttributeHandler
	}{
		{MapTag, attrVersion, func(obj any, value string) error {
			obj.(*Document).Version = value
			return nil
		}},
		{NodeTag, attrID, func(obj any, value string) error {
			obj.(*Node).ID = value
			return nil
		}},
		{NodeTag, attrText, func(obj any, value string) error {
			obj.(*Node).Text = value
			return nil
		}},
		{NodeTag, attrFolded, func(obj any, value string) error {
			v, err := ParseBool(value)
			if err != nil {
				return err
			}
			obj.(*Node).Folded = v
			return nil
		}},
		{NodeTag, attrCreated, func(obj any, value string) error {
			v, err := ParseMillis(value)
			if err != nil {
				return err
			}
			obj.(*Node).Created = v
			return nil
		}},
		{NodeTag, attrModified, func(obj any, value string) error {
			v, err := ParseMillis(value)
			if err != nil {
				return err
			}
			obj.(*Node).Modified = v
			return nil
		}},
	}
	for _, h := range handlers {
		if err := r.RegisterAttributeHandler(h.tag, h.name, h.setter); err != nil {
			return err
		}
	}

	return nil
}
