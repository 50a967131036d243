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

// Package cloud draws a cloud around a node and its subtree.
package cloud

import (
	"encoding/xml"
	"image/color"

	"github.com/beevik/etree"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/api"
)

const (
	Tag  = "cloud"
	Kind = "cloud"

	// DefaultWidth is the width of a cloud without WIDTH attribute.
	DefaultWidth = 3

	attrStyle = "STYLE"
	attrColor = "COLOR"
	attrWidth = "WIDTH"
)

// Shapes known to the desktop editor. Other values are kept as they are.
const (
	StyleArc       = "ARC"
	StyleStar      = "STAR"
	StyleRect      = "RECT"
	StyleRoundRect = "ROUND_RECT"
	StyleRound     = "ROUND"
)

type Cloud struct {
	Style string      `json:"style,omitempty"`
	Color *color.RGBA `json:"color,omitempty"`
	Width int         `json:"width"`
}

var _ mindmap.Extension = (*Cloud)(nil)

func New() *Cloud {
	return &Cloud{Width: DefaultWidth}
}

func (c *Cloud) ExtensionKind() string {
	return Kind
}

// SetColor sets the color of the cloud, a nil color falls back to the
// editor default.
func (c *Cloud) SetColor(v *color.RGBA) {
	if v == nil {
		c.Color = nil
		return
	}
	cp := *v
	c.Color = &cp
}

type handler struct{}

func (handler) CreateElement(ctx *mindmap.ReadContext, parent any, tag string, attrs []xml.Attr) (any, error) {
	if _, ok := parent.(*mindmap.Node); !ok {
		return nil, api.Structural("<%s> must be placed inside a node", Tag)
	}
	return New(), nil
}

func (handler) WriteExtension(node *mindmap.Node, ext mindmap.Extension, el *etree.Element) error {
	c, ok := ext.(*Cloud)
	if !ok {
		return api.Serialization("cloud writer got %T", ext)
	}
	cel := el.CreateElement(Tag)
	if c.Style != "" {
		cel.CreateAttr(attrStyle, c.Style)
	}
	if c.Color != nil {
		cel.CreateAttr(attrColor, mindmap.FormatColor(*c.Color))
	}
	if c.Width != DefaultWidth {
		cel.CreateAttr(attrWidth, mindmap.FormatInt(c.Width))
	}
	return nil
}

// RegisterBy installs the cloud element, its attributes and its writer.
func RegisterBy(r *mindmap.Registry) error {
	h := handler{}
	if err := r.RegisterElement(Tag, h); err != nil {
		return err
	}

	setters := map[string]mindmap.AttributeHandler{
		attrStyle: func(obj any, value string) error {
			obj.(*Cloud).Style = value
			return nil
		},
		attrColor: func(obj any, value string) error {
			v, err := mindmap.ParseColor(value)
			if err != nil {
				return err
			}
			obj.(*Cloud).Color = &v
			return nil
		},
		attrWidth: func(obj any, value string) error {
			v, err := mindmap.ParseInt(value)
			if err != nil {
				return err
			}
			obj.(*Cloud).Width = v
			return nil
		},
	}
	for _, name := range []string{attrStyle, attrColor, attrWidth} {
		if err := r.RegisterAttributeHandler(Tag, name, setters[name]); err != nil {
			return err
		}
	}

	return r.RegisterWriter(&Cloud{}, h)
}
