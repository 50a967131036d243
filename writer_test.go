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
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/api"
	"github.com/vine-io/mindmap/features/cloud"
	"github.com/vine-io/mindmap/features/style"
	"github.com/vine-io/mindmap/mock"
)

func parseOutput(t *testing.T, text string) *etree.Element {
	out := etree.NewDocument()
	if !assert.NoError(t, out.ReadFromString(text)) {
		t.FailNow()
	}
	return out.Root()
}

func attrKeys(el *etree.Element) []string {
	keys := make([]string, 0, len(el.Attr))
	for _, a := range el.Attr {
		keys = append(keys, a.Key)
	}
	return keys
}

func childTags(el *etree.Element) []string {
	tags := make([]string, 0)
	for _, c := range el.ChildElements() {
		tags = append(tags, c.Tag)
	}
	return tags
}

func newDocument(t *testing.T, root *mindmap.Node) *mindmap.Document {
	doc := mindmap.NewDocument()
	if !assert.NoError(t, doc.SetRoot(root)) {
		t.FailNow()
	}
	return doc
}

func TestWriteOrder(t *testing.T) {
	_, writer := newPipeline(t)

	root := mindmap.NewNode("ID_1", "root")
	child := mindmap.NewNode("ID_2", "child")
	child.Created = time.UnixMilli(1700000000000)
	child.Modified = time.UnixMilli(1700000100000)
	assert.NoError(t, root.AttachChild(child))
	assert.NoError(t, root.AttachChild(mindmap.NewNode("ID_3", "other")))
	assert.NoError(t, child.AttachChild(mindmap.NewNode("ID_4", "leaf")))
	child.Folded = true
	style.Set(child, "topic")
	child.PutExtension(cloud.New())

	doc := newDocument(t, root)
	doc.Version = "1.0.1"
	out := parseOutput(t, write(t, writer, doc))

	assert.Equal(t, out.Tag, mindmap.MapTag, "they should be equal")
	assert.Equal(t, out.SelectAttrValue("version", ""), "1.0.1", "they should be equal")

	rootEl := out.SelectElement(mindmap.NodeTag)
	assert.Equal(t, attrKeys(rootEl), []string{"ID", "TEXT"}, "unfolded nodes omit FOLDED")
	assert.Equal(t, childTags(rootEl), []string{"node", "node"}, "they should be equal")

	childEl := rootEl.ChildElements()[0]
	assert.Equal(t, attrKeys(childEl), []string{"ID", "FOLDED", "TEXT", "CREATED", "MODIFIED", "STYLE_REF"}, "they should be equal")
	assert.Equal(t, childEl.SelectAttrValue("CREATED", ""), "1700000000000", "they should be equal")
	assert.Equal(t, childTags(childEl), []string{"cloud", "node"}, "extensions come before children")
	assert.Equal(t, rootEl.ChildElements()[1].SelectAttrValue("ID", ""), "ID_3", "children keep their order")
}

func TestWriteCloud(t *testing.T) {
	reader, writer := newPipeline(t)

	root := mindmap.NewNode("ID_1", "root")
	wide := mindmap.NewNode("ID_2", "wide")
	plain := mindmap.NewNode("ID_3", "plain")
	assert.NoError(t, root.AttachChild(wide))
	assert.NoError(t, root.AttachChild(plain))

	red := color.RGBA{R: 0xff, A: 0xff}
	c := &cloud.Cloud{Style: cloud.StyleRound, Width: 6}
	c.SetColor(&red)
	wide.PutExtension(c)
	plain.PutExtension(cloud.New())

	text := write(t, writer, newDocument(t, root))
	out := parseOutput(t, text)

	wideEl := out.FindElement("//node[@ID='ID_2']/cloud")
	if assert.NotNil(t, wideEl) {
		assert.Equal(t, wideEl.SelectAttrValue("STYLE", ""), "ROUND", "they should be equal")
		assert.Equal(t, wideEl.SelectAttrValue("COLOR", ""), "#FF0000", "they should be equal")
		assert.Equal(t, wideEl.SelectAttrValue("WIDTH", ""), "6", "they should be equal")
	}
	plainEl := out.FindElement("//node[@ID='ID_3']/cloud")
	if assert.NotNil(t, plainEl) {
		assert.Nil(t, plainEl.SelectAttr("WIDTH"), "default width is omitted")
	}

	result := load(t, reader, text)
	n, _ := result.Document.Lookup("ID_2")
	got, ok := mindmap.ExtensionOf[*cloud.Cloud](n)
	if assert.True(t, ok) {
		assert.Equal(t, got, c, "they should be equal")
	}
	n, _ = result.Document.Lookup("ID_3")
	got, ok = mindmap.ExtensionOf[*cloud.Cloud](n)
	if assert.True(t, ok) {
		assert.Equal(t, got.Width, cloud.DefaultWidth, "they should be equal")
	}
}

type marker struct{}

func (m *marker) ExtensionKind() string { return "marker" }

func TestWriteSerializationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	w := mock.NewMockExtensionWriter(ctrl)
	w.EXPECT().WriteExtension(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)
	w.EXPECT().WriteExtension(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full")).Times(1)

	reg := mindmap.NewRegistry()
	assert.NoError(t, reg.RegisterWriter(&marker{}, w))
	reg.Freeze()
	writer, err := mindmap.NewWriter(reg)
	if !assert.NoError(t, err) {
		return
	}

	root := mindmap.NewNode("ID_1", "root")
	child := mindmap.NewNode("ID_2", "child")
	assert.NoError(t, root.AttachChild(child))
	root.PutExtension(&marker{})
	child.PutExtension(&marker{})

	var buf bytes.Buffer
	err = writer.Write(newDocument(t, root), &buf)
	e := api.FromErr(err)
	if assert.NotNil(t, e) {
		assert.Equal(t, e.Kind, api.KindSerialization, "they should be equal")
		assert.Equal(t, e.NodeID, "ID_2", "they should be equal")
		assert.Equal(t, e.Extension, "marker", "they should be equal")
		assert.Contains(t, e.Error(), "disk full")
	}
	assert.Equal(t, buf.Len(), 0, "nothing reaches the sink on failure")
}

func TestWriteWriterPanic(t *testing.T) {
	reg := mindmap.NewRegistry()
	assert.NoError(t, reg.RegisterWriter(&marker{}, mindmap.ExtensionWriterFunc(
		func(node *mindmap.Node, ext mindmap.Extension, el *etree.Element) error {
			panic("nil map")
		})))
	reg.Freeze()
	writer, _ := mindmap.NewWriter(reg)

	root := mindmap.NewNode("ID_1", "root")
	root.PutExtension(&marker{})
	err := writer.Write(newDocument(t, root), &bytes.Buffer{})
	assert.True(t, api.IsKind(err, api.KindSerialization))
}

func TestWriteUnregisteredExtension(t *testing.T) {
	reg := mindmap.NewRegistry()
	reg.Freeze()
	writer, _ := mindmap.NewWriter(reg, mindmap.WithIndent(0))

	root := mindmap.NewNode("ID_1", "root")
	root.PutExtension(&marker{})
	assert.Equal(t, write(t, writer, newDocument(t, root)), `<map><node ID="ID_1" TEXT="root"/></map>`, "they should be equal")
}

func TestWriteNode(t *testing.T) {
	_, writer := newPipeline(t)

	root := mindmap.NewNode("ID_1", "root")
	assert.NoError(t, root.AttachChild(mindmap.NewNode("ID_2", "child")))

	var buf bytes.Buffer
	if assert.NoError(t, writer.WriteNode(root, &buf)) {
		out := parseOutput(t, buf.String())
		assert.Equal(t, out.Tag, mindmap.NodeTag, "they should be equal")
		assert.Equal(t, childTags(out), []string{"node"}, "they should be equal")
	}
}

func TestWriteFile(t *testing.T) {
	reader, writer := newPipeline(t)

	src, err := reader.LoadFile("testdata/sample.mm")
	if !assert.NoError(t, err) {
		return
	}

	name := filepath.Join(t.TempDir(), "out.mm")
	assert.NoError(t, os.WriteFile(name, []byte("old"), 0o644))
	if !assert.NoError(t, writer.WriteFile(src.Document, name)) {
		return
	}

	result, err := reader.LoadFile(name)
	if assert.NoError(t, err) {
		assert.Equal(t, result.Document.Len(), src.Document.Len(), "they should be equal")
	}

	entries, _ := os.ReadDir(filepath.Dir(name))
	assert.Len(t, entries, 1, "temporary file should be gone")
}
