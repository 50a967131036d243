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

package features

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/api"
)

func TestNames(t *testing.T) {
	assert.Equal(t, Names(), []string{"arrowlink", "cloud", "icons", "note", "style"}, "they should be equal")
	assert.True(t, Known("cloud"))
	assert.False(t, Known("attribute"))
}

func TestRegisterAll(t *testing.T) {
	r := mindmap.NewRegistry()
	if !assert.NoError(t, RegisterAll(r)) {
		return
	}
	assert.Equal(t, r.Tags(), []string{"arrowlink", "cloud", "icon", "map", "node", "richcontent"}, "they should be equal")
	assert.Len(t, r.WriterOrder(), 5)

	r = mindmap.NewRegistry()
	assert.NoError(t, RegisterAll(r, "note", "cloud"))
	order := r.WriterOrder()
	if assert.Len(t, order, 2) {
		assert.Equal(t, order[0].String(), "*note.Note", "writers follow the given order")
	}

	err := RegisterAll(mindmap.NewRegistry(), "cloud", "attribute")
	assert.True(t, api.IsKind(err, api.KindConfiguration))
}

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry("style")
	if assert.NoError(t, err) {
		assert.True(t, r.Frozen())
		_, ok := r.LookupAttributeHandler(mindmap.NodeTag, "STYLE_REF")
		assert.True(t, ok)
		_, ok = r.LookupElement("cloud")
		assert.False(t, ok)
	}
}
