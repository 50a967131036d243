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

// Package link draws arrows between nodes. Arrows point at their target by
// node id and are resolved once the whole map is read.
package link

import (
	"encoding/xml"
	"image/color"

	"github.com/beevik/etree"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/api"
)

const (
	Tag  = "arrowlink"
	Kind = "arrowlink"

	attrDestination = "DESTINATION"
	attrColor       = "COLOR"
)

// Link is a single arrow from the node owning its Set.
type Link struct {
	Destination string      `json:"destination"`
	Color       *color.RGBA `json:"color,omitempty"`

	// Target is the bound target node, nil until resolved.
	Target *mindmap.Node `json:"-"`
	set    *Set
}

var (
	_ mindmap.ReferenceResolver = (*Link)(nil)
	_ mindmap.ReferenceDropper  = (*Link)(nil)
)

// TargetID is the id written for the link.
func (l *Link) TargetID() string {
	if l.Target != nil && l.Target.ID != "" {
		return l.Target.ID
	}
	return l.Destination
}

func (l *Link) ResolveReference(ref *mindmap.Reference) {
	l.Target = ref.Target
	l.Destination = ref.TargetID
}

func (l *Link) DropReference(ref *mindmap.Reference) {
	s := l.set
	if s == nil || !s.remove(l) {
		return
	}
	if s.Len() == 0 && ref.Source != nil {
		ref.Source.RemoveExtension(&Set{})
	}
}

// Set holds the outgoing arrows of a node.
type Set struct {
	Links []*Link `json:"links"`
}

var (
	_ mindmap.Extension = (*Set)(nil)
	_ mindmap.Referrer  = (*Set)(nil)
)

func (s *Set) ExtensionKind() string {
	return Kind
}

func (s *Set) ReferenceIDs() []string {
	ids := make([]string, 0, len(s.Links))
	for _, l := range s.Links {
		ids = append(ids, l.TargetID())
	}
	return ids
}

func (s *Set) Len() int {
	return len(s.Links)
}

func (s *Set) add(l *Link) {
	l.set = s
	s.Links = append(s.Links, l)
}

func (s *Set) remove(l *Link) bool {
	for i, v := range s.Links {
		if v == l {
			s.Links = append(s.Links[:i], s.Links[i+1:]...)
			l.set = nil
			return true
		}
	}
	return false
}

// Of returns the link set of n, creating it when absent.
func Of(n *mindmap.Node) *Set {
	if s, ok := mindmap.ExtensionOf[*Set](n); ok {
		return s
	}
	s := &Set{}
	n.PutExtension(s)
	return s
}

// Links returns the arrows leaving n.
func Links(n *mindmap.Node) []*Link {
	s, ok := mindmap.ExtensionOf[*Set](n)
	if !ok {
		return nil
	}
	out := make([]*Link, len(s.Links))
	copy(out, s.Links)
	return out
}

// Add draws an arrow from source to target.
func Add(source, target *mindmap.Node, c *color.RGBA) (*Link, error) {
	if source == nil || target == nil {
		return nil, api.Structural("link requires a source and a target")
	}
	if target.ID == "" {
		return nil, api.Structural("link target has no id")
	}
	l := &Link{Destination: target.ID, Target: target}
	if c != nil {
		cp := *c
		l.Color = &cp
	}
	Of(source).add(l)
	return l, nil
}

// Remove deletes l from source.
func Remove(source *mindmap.Node, l *Link) bool {
	s, ok := mindmap.ExtensionOf[*Set](source)
	if !ok || !s.remove(l) {
		return false
	}
	if s.Len() == 0 {
		source.RemoveExtension(&Set{})
	}
	return true
}

// Unlink deletes the arrows of the tree below root that point into the
// subtree of gone and returns how many were deleted.
func Unlink(root, gone *mindmap.Node) int {
	if root == nil || gone == nil {
		return 0
	}
	targets := map[*mindmap.Node]struct{}{}
	ids := map[string]struct{}{}
	gone.Walk(func(n *mindmap.Node) bool {
		targets[n] = struct{}{}
		ids[n.ID] = struct{}{}
		return true
	})

	count := 0
	root.Walk(func(n *mindmap.Node) bool {
		for _, l := range Links(n) {
			_, bound := targets[l.Target]
			_, named := ids[l.Destination]
			if bound || (l.Target == nil && named) {
				if Remove(n, l) {
					count++
				}
			}
		}
		return true
	})
	return count
}

type handler struct{}

func (handler) CreateElement(ctx *mindmap.ReadContext, parent any, tag string, attrs []xml.Attr) (any, error) {
	if _, ok := parent.(*mindmap.Node); !ok {
		return nil, api.Structural("<%s> must be placed inside a node", Tag)
	}
	return &Link{}, nil
}

func (handler) EndElement(ctx *mindmap.ReadContext, parent any, tag string, obj any) error {
	l := obj.(*Link)
	if l.Destination == "" {
		return api.Format("<%s> without %s", Tag, attrDestination).WithAttribute(attrDestination, "")
	}
	source := parent.(*mindmap.Node)
	Of(source).add(l)
	ctx.RecordReference(source, l.Destination, Kind, l)
	return nil
}

func (handler) WriteExtension(node *mindmap.Node, ext mindmap.Extension, el *etree.Element) error {
	s, ok := ext.(*Set)
	if !ok {
		return api.Serialization("link writer got %T", ext)
	}
	for _, l := range s.Links {
		id := l.TargetID()
		if id == "" {
			return api.Serialization("link without destination").WithAttribute(attrDestination, "")
		}
		lel := el.CreateElement(Tag)
		lel.CreateAttr(attrDestination, id)
		if l.Color != nil {
			lel.CreateAttr(attrColor, mindmap.FormatColor(*l.Color))
		}
	}
	return nil
}

// RegisterBy installs the arrowlink element, its attributes and the link set
// writer.
func RegisterBy(r *mindmap.Registry) error {
	h := handler{}
	if err := r.RegisterElement(Tag, h); err != nil {
		return err
	}
	err := r.RegisterAttributeHandler(Tag, attrDestination, func(obj any, value string) error {
		obj.(*Link).Destination = value
		return nil
	})
	if err != nil {
		return err
	}
	err = r.RegisterAttributeHandler(Tag, attrColor, func(obj any, value string) error {
		v, err := mindmap.ParseColor(value)
		if err != nil {
			return err
		}
		obj.(*Link).Color = &v
		return nil
	})
	if err != nil {
		return err
	}
	return r.RegisterWriter(&Set{}, h)
}
