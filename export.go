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
	json "github.com/json-iterator/go"

	"github.com/vine-io/mindmap/api"
)

type nodeView struct {
	ID         string               `json:"id"`
	Text       string               `json:"text"`
	Folded     bool                 `json:"folded,omitempty"`
	Created    int64                `json:"created,omitempty"`
	Modified   int64                `json:"modified,omitempty"`
	Extensions map[string]Extension `json:"extensions,omitempty"`
	References []string             `json:"references,omitempty"`
	Children   []*nodeView          `json:"children,omitempty"`
}

type mapView struct {
	Version string    `json:"version,omitempty"`
	Root    *nodeView `json:"root"`
}

func newNodeView(n *Node) *nodeView {
	v := &nodeView{
		ID:     n.ID,
		Text:   n.Text,
		Folded: n.Folded,
	}
	if !n.Created.IsZero() {
		v.Created = n.Created.UnixMilli()
	}
	if !n.Modified.IsZero() {
		v.Modified = n.Modified.UnixMilli()
	}
	if len(n.extensions) > 0 {
		v.Extensions = make(map[string]Extension, len(n.extensions))
		for _, ext := range n.extensions {
			v.Extensions[ext.ExtensionKind()] = ext
		}
	}
	if refs := n.OutgoingReferences(); len(refs) > 0 {
		v.References = refs
	}
	for _, child := range n.children {
		v.Children = append(v.Children, newNodeView(child))
	}
	return v
}

// ExportJSON renders the tree of doc as JSON.
func ExportJSON(doc *Document, indent bool) ([]byte, error) {
	if doc == nil || doc.Discarded() || doc.root == nil {
		return nil, api.Serialization("cannot export an empty map")
	}

	view := &mapView{Version: doc.Version, Root: newNodeView(doc.root)}
	codec := json.ConfigCompatibleWithStandardLibrary
	if indent {
		return codec.MarshalIndent(view, "", "  ")
	}
	return codec.Marshal(view)
}
