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

// Package style binds a node to a named style of the map.
package style

import (
	"github.com/beevik/etree"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/api"
)

const (
	Kind = "style"

	attrStyleRef = "STYLE_REF"
)

// Ref names the style of a node.
type Ref struct {
	Name string `json:"name"`
}

var _ mindmap.Extension = (*Ref)(nil)

func (r *Ref) ExtensionKind() string {
	return Kind
}

// Set puts the style name on n, an empty name removes it.
func Set(n *mindmap.Node, name string) {
	if name == "" {
		n.RemoveExtension(&Ref{})
		return
	}
	n.PutExtension(&Ref{Name: name})
}

// Get returns the style name of n.
func Get(n *mindmap.Node) string {
	if ref, ok := mindmap.ExtensionOf[*Ref](n); ok {
		return ref.Name
	}
	return ""
}

func writeRef(node *mindmap.Node, ext mindmap.Extension, el *etree.Element) error {
	ref, ok := ext.(*Ref)
	if !ok {
		return api.Serialization("style writer got %T", ext)
	}
	if ref.Name == "" {
		return api.Serialization("empty style reference").WithAttribute(attrStyleRef, "")
	}
	el.CreateAttr(attrStyleRef, ref.Name)
	return nil
}

// RegisterBy installs the STYLE_REF attribute of nodes and its writer.
func RegisterBy(r *mindmap.Registry) error {
	err := r.RegisterAttributeHandler(mindmap.NodeTag, attrStyleRef, func(obj any, value string) error {
		n, ok := obj.(*mindmap.Node)
		if !ok {
			return api.Structural("%s on %T", attrStyleRef, obj)
		}
		Set(n, value)
		return nil
	})
	if err != nil {
		return err
	}
	return r.RegisterWriter(&Ref{}, mindmap.ExtensionWriterFunc(writeRef))
}
