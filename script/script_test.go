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

package script

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/api"
	"github.com/vine-io/mindmap/features"
	"github.com/vine-io/mindmap/features/link"
)

func loadMap(t *testing.T) *mindmap.Document {
	reg, err := features.NewRegistry()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	reader, _ := mindmap.NewReader(reg)
	result, err := reader.Load(strings.NewReader(`<map>
  <node ID="ID_1" TEXT="root">
    <node ID="ID_2" TEXT="todo: write tests"/>
    <node ID="ID_3" TEXT="done"><node ID="ID_4" TEXT="todo: review"/></node>
  </node>
</map>`))
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return result.Document
}

func TestExecute(t *testing.T) {
	doc := loadMap(t)
	var out bytes.Buffer

	result, err := Execute(doc, doc.Root(), func(node *NodeProxy, c *Controller) (any, error) {
		todo := c.Map().Find(func(p *NodeProxy) bool {
			return strings.HasPrefix(p.Text(), "todo:")
		})
		summary, err := node.CreateChild("summary")
		if err != nil {
			return nil, err
		}
		for _, p := range todo {
			if err = summary.AddLink(p); err != nil {
				return nil, err
			}
		}
		if err = summary.SetNote("generated"); err != nil {
			return nil, err
		}
		c.Printf("%d open items\n", len(todo))
		return summary.ID(), nil
	}, WithOutput(&out))
	if !assert.NoError(t, err) {
		return
	}

	id, _ := result.(string)
	summary, ok := doc.Lookup(id)
	if !assert.True(t, ok, "created nodes are indexed") {
		return
	}
	assert.Same(t, summary.Parent(), doc.Root())
	assert.False(t, summary.Created.IsZero())
	assert.Equal(t, summary.OutgoingReferences(), []string{"ID_2", "ID_4"}, "they should be equal")
	assert.Equal(t, out.String(), "2 open items\n", "they should be equal")

	p := newNodeProxy(doc, summary)
	assert.Equal(t, p.Note(), "generated", "they should be equal")
	assert.Len(t, p.Links(), 2)
	assert.Equal(t, p.Parent().ID(), "ID_1", "they should be equal")
}

func TestExecuteErrors(t *testing.T) {
	doc := loadMap(t)

	_, err := Execute(doc, doc.Root(), func(node *NodeProxy, c *Controller) (any, error) {
		return nil, errors.New("bad input")
	})
	var ee *ExecuteError
	if assert.ErrorAs(t, err, &ee) {
		assert.Equal(t, ee.NodeID, "ID_1", "they should be equal")
		assert.EqualError(t, ee.Cause, "bad input")
	}

	_, err = Execute(doc, doc.Root(), func(node *NodeProxy, c *Controller) (any, error) {
		var m map[string]int
		m["x"] = 1
		return nil, nil
	})
	assert.ErrorAs(t, err, &ee, "panics become execute errors")

	_, err = Execute(doc, mindmap.NewNode("ID_1", "stranger"), func(node *NodeProxy, c *Controller) (any, error) {
		return nil, nil
	})
	assert.True(t, api.IsKind(err, api.KindStructural))
}

func TestNodeProxyRemove(t *testing.T) {
	doc := loadMap(t)
	m := NewMapProxy(doc)

	done, ok := m.Node("ID_3")
	if !assert.True(t, ok) {
		return
	}
	assert.Len(t, done.Children(), 1)
	assert.NoError(t, done.Remove())
	assert.False(t, doc.Contains("ID_3"))
	assert.False(t, doc.Contains("ID_4"), "subtree leaves the map")
	assert.Equal(t, doc.Root().ChildCount(), 1, "they should be equal")

	assert.True(t, api.IsKind(done.SetText("again"), api.KindStructural), "removed nodes are read-only")
	assert.True(t, api.IsKind(m.Root().Remove(), api.KindStructural), "root stays")
}

func TestNodeProxyEdit(t *testing.T) {
	doc := loadMap(t)
	m := NewMapProxy(doc)
	root := m.Root()

	assert.NoError(t, root.SetFolded(true))
	assert.True(t, root.Folded())
	leaf, _ := m.Node("ID_2")
	assert.NoError(t, leaf.SetFolded(true))
	assert.False(t, leaf.Folded(), "leaves stay unfolded")

	assert.NoError(t, leaf.SetText("todo: write more tests"))
	assert.Equal(t, leaf.Node().Text, "todo: write more tests", "they should be equal")
	assert.False(t, leaf.Node().Modified.IsZero())

	assert.NoError(t, leaf.AddIcon("flag"))
	assert.Equal(t, leaf.Icons(), []string{"flag"}, "they should be equal")
	assert.Error(t, leaf.AddIcon(""))

	other := loadMap(t)
	assert.Error(t, leaf.AddLink(NewMapProxy(other).Root()), "links stay inside a map")
	assert.Empty(t, leaf.Links())
}

func TestNodeProxyRemoveUnlinks(t *testing.T) {
	doc := loadMap(t)
	m := NewMapProxy(doc)

	root := m.Root()
	review, _ := m.Node("ID_4")
	todo, _ := m.Node("ID_2")
	assert.NoError(t, root.AddLink(review))
	assert.NoError(t, root.AddLink(todo))

	done, _ := m.Node("ID_3")
	assert.NoError(t, done.Remove())

	links := link.Links(doc.Root())
	if assert.Len(t, links, 1, "arrows into the removed subtree are deleted") {
		assert.Equal(t, links[0].TargetID(), "ID_2", "they should be equal")
	}
}

type recordingSpace struct {
	asked []string
}

func (s *recordingSpace) Lookup(id string) (*mindmap.Node, bool) {
	s.asked = append(s.asked, id)
	return nil, false
}

func TestCreateChildAvoidsSpace(t *testing.T) {
	doc := loadMap(t)
	space := &recordingSpace{}

	var created []string
	_, err := Execute(doc, doc.Root(), func(node *NodeProxy, c *Controller) (any, error) {
		child, err := node.CreateChild("fresh")
		if err != nil {
			return nil, err
		}
		grandchild, err := child.CreateChild("deeper")
		if err != nil {
			return nil, err
		}
		created = append(created, child.ID(), grandchild.ID())
		return nil, nil
	}, WithIDSpace(space), WithOutput(&bytes.Buffer{}))
	if !assert.NoError(t, err) {
		return
	}

	for _, id := range created {
		assert.True(t, doc.Contains(id))
		assert.Contains(t, space.asked, id, "ids are checked against the other maps")
	}
}
