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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vine-io/mindmap/api"
)

// tree builds root(a(a1, a2), b) and indexes it in a document.
func tree(t *testing.T) (*Document, map[string]*Node) {
	nodes := map[string]*Node{}
	for _, id := range []string{"root", "a", "a1", "a2", "b"} {
		nodes[id] = NewNode(id, "node "+id)
	}
	assert.NoError(t, nodes["root"].AttachChild(nodes["a"]))
	assert.NoError(t, nodes["root"].AttachChild(nodes["b"]))
	assert.NoError(t, nodes["a"].AttachChild(nodes["a1"]))
	assert.NoError(t, nodes["a"].AttachChild(nodes["a2"]))

	doc := NewDocument()
	assert.NoError(t, doc.SetRoot(nodes["root"]))
	return doc, nodes
}

func TestNodeAttach(t *testing.T) {
	_, nodes := tree(t)
	root, a, a1 := nodes["root"], nodes["a"], nodes["a1"]

	assert.True(t, root.IsRoot())
	assert.False(t, a.IsLeaf())
	assert.Equal(t, a1.Depth(), 2, "they should be equal")
	assert.Equal(t, root.IndexOf(nodes["b"]), 1, "they should be equal")

	err := root.AttachChild(a1)
	assert.True(t, api.IsKind(err, api.KindStructural), "a node has one parent")

	err = a1.AttachChild(&testBadge{})
	assert.True(t, api.IsKind(err, api.KindStructural), "extensions are not children")

	a.Detach()
	assert.Nil(t, a.Parent())
	assert.Equal(t, root.ChildCount(), 1, "they should be equal")
	err = a1.InsertChild(0, a)
	assert.True(t, api.IsKind(err, api.KindStructural), "cycles are rejected")

	assert.NoError(t, root.InsertChild(0, a))
	assert.Same(t, root.ChildAt(0), a)
	assert.Nil(t, root.ChildAt(5))
}

func TestNodeExtensions(t *testing.T) {
	n := NewNode("ID_1", "n")

	n.PutExtension(&testBadge{Label: "old"})
	n.PutExtension(&testBadge{Label: "new"})
	n.PutExtension(&testFlag{})
	assert.Len(t, n.Extensions(), 2, "one extension per type")

	b, ok := ExtensionOf[*testBadge](n)
	if assert.True(t, ok) {
		assert.Equal(t, b.Label, "new", "they should be equal")
	}
	ext, ok := n.Extension(&testFlag{})
	assert.True(t, ok)
	assert.Equal(t, ext.ExtensionKind(), "flag", "they should be equal")

	n.RemoveExtension(&testBadge{})
	_, ok = ExtensionOf[*testBadge](n)
	assert.False(t, ok)
	assert.Empty(t, n.OutgoingReferences())
}

func TestDocumentRegister(t *testing.T) {
	doc, nodes := tree(t)
	assert.Equal(t, doc.Len(), 5, "they should be equal")

	err := doc.SetRoot(NewNode("other", ""))
	assert.True(t, api.IsKind(err, api.KindStructural), "one root per map")

	fresh := NewNode("", "fresh")
	assert.NoError(t, nodes["b"].AttachChild(fresh))
	assert.NoError(t, doc.Register(fresh))
	assert.NotEmpty(t, fresh.ID)
	assert.True(t, doc.Contains(fresh.ID))

	clash := NewNode("a1", "clash")
	assert.NoError(t, nodes["b"].AttachChild(clash))
	assert.True(t, api.IsKind(doc.Register(clash), api.KindDuplicateID))

	doc.Unregister(nodes["a"])
	assert.False(t, doc.Contains("a1"))
	assert.False(t, doc.Contains("a2"))
	assert.Equal(t, doc.Len(), 3, "they should be equal")
	assert.NoError(t, doc.Register(clash), "released ids can be reused")
}

func TestDocumentNewID(t *testing.T) {
	doc, _ := tree(t)

	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		id, err := doc.NewID()
		if !assert.NoError(t, err) {
			return
		}
		assert.Regexp(t, `^ID_[0-9]+$`, id)
		assert.False(t, doc.Contains(id))
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 90)
	assert.NotEmpty(t, doc.UID())
}

func TestToggleFolded(t *testing.T) {
	_, nodes := tree(t)
	root, a, b := nodes["root"], nodes["a"], nodes["b"]

	assert.True(t, ToggleFolded([]*Node{root, a, b}), "unfolded nodes get folded")
	assert.True(t, root.Folded)
	assert.True(t, a.Folded)
	assert.False(t, b.Folded, "leaves stay unfolded")

	assert.False(t, ToggleFolded([]*Node{root, a}), "folded nodes get unfolded")
	assert.False(t, root.Folded)

	a.Folded = true
	assert.True(t, FoldingState([]*Node{root, a}), "mixed states fold")
	assert.True(t, FoldingState([]*Node{b}), "only leaves fold")

	Reveal(nodes["a1"])
	assert.False(t, a.Folded)
}

func TestFindNext(t *testing.T) {
	_, nodes := tree(t)
	all := func(n *Node) bool { return true }

	assert.Same(t, FindNext(nodes["root"], Forward, all), nodes["a"])
	assert.Same(t, FindNext(nodes["a2"], Forward, all), nodes["b"])
	assert.Same(t, FindNext(nodes["b"], Forward, all), nodes["root"], "search wraps around")
	assert.Same(t, FindNext(nodes["root"], Backward, all), nodes["b"], "search wraps around")
	assert.Same(t, FindNext(nodes["b"], Backward, all), nodes["a2"])

	nodes["a1"].Text = "Release Notes"
	cond := TextContains("release")
	assert.Same(t, FindNext(nodes["b"], Forward, cond), nodes["a1"])
	assert.Same(t, FindNext(nodes["a1"], Forward, cond), nodes["a1"], "start is checked last")
	assert.Nil(t, FindNext(nodes["a1"], Forward, TextContains("missing")))

	found := FindAll(nodes["root"], TextContains("NODE"))
	assert.Len(t, found, 4)
	assert.Same(t, found[0], nodes["root"])
}
