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

package mindmap_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/features"
	"github.com/vine-io/mindmap/features/link"
)

func newPipeline(t *testing.T, opts ...mindmap.ReaderOption) (*mindmap.Reader, *mindmap.Writer) {
	reg, err := features.NewRegistry()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	reader, err := mindmap.NewReader(reg, opts...)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	writer, err := mindmap.NewWriter(reg)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return reader, writer
}

func load(t *testing.T, reader *mindmap.Reader, text string) *mindmap.LoadResult {
	result, err := reader.Load(strings.NewReader(text))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return result
}

func write(t *testing.T, writer *mindmap.Writer, doc *mindmap.Document) string {
	var buf bytes.Buffer
	if !assert.NoError(t, writer.Write(doc, &buf)) {
		t.FailNow()
	}
	return buf.String()
}

// snapshot is the comparable content of a tree.
type snapshot struct {
	ID         string
	Text       string
	Folded     bool
	Created    int64
	Modified   int64
	Extensions map[string]mindmap.Extension
	References []string
	Unknown    []string
	Children   []snapshot
}

func snapshotOf(n *mindmap.Node) snapshot {
	s := snapshot{
		ID:         n.ID,
		Text:       n.Text,
		Folded:     n.Folded,
		Extensions: map[string]mindmap.Extension{},
		References: n.OutgoingReferences(),
	}
	if !n.Created.IsZero() {
		s.Created = n.Created.UnixMilli()
	}
	if !n.Modified.IsZero() {
		s.Modified = n.Modified.UnixMilli()
	}
	for _, ext := range n.Extensions() {
		// links hold node pointers, they are compared through References
		if ext.ExtensionKind() == link.Kind {
			continue
		}
		s.Extensions[ext.ExtensionKind()] = ext
	}
	for _, u := range n.Unknown() {
		s.Unknown = append(s.Unknown, u.Tag)
	}
	for _, child := range n.Children() {
		s.Children = append(s.Children, snapshotOf(child))
	}
	return s
}
