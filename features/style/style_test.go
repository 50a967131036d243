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

package style

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vine-io/mindmap"
)

func TestStyleRef(t *testing.T) {
	r := mindmap.NewRegistry()
	assert.NoError(t, RegisterBy(r))
	r.Freeze()
	reader, _ := mindmap.NewReader(r)
	writer, _ := mindmap.NewWriter(r, mindmap.WithIndent(0))

	text := `<map><node ID="ID_1" TEXT="a" STYLE_REF="topic"><node ID="ID_2" TEXT="b"/></node></map>`
	result, err := reader.Load(strings.NewReader(text))
	if !assert.NoError(t, err) {
		return
	}
	root := result.Document.Root()
	assert.Equal(t, Get(root), "topic", "they should be equal")
	assert.Equal(t, Get(root.ChildAt(0)), "", "they should be equal")

	var buf bytes.Buffer
	assert.NoError(t, writer.Write(result.Document, &buf))
	assert.Equal(t, buf.String(), text, "they should be equal")

	Set(root, "")
	_, ok := mindmap.ExtensionOf[*Ref](root)
	assert.False(t, ok)
}
