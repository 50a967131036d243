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

import "strings"

type Direction int32

const (
	Forward Direction = iota + 1
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return "unknown"
}

// Condition selects nodes.
type Condition func(n *Node) bool

// TextContains matches nodes whose text contains s, ignoring case.
func TextContains(s string) Condition {
	needle := strings.ToLower(s)
	return func(n *Node) bool {
		return strings.Contains(strings.ToLower(n.Text), needle)
	}
}

// FindNext returns the first node after start in pre-order, walking in the
// given direction and wrapping around the tree, that matches cond. start
// itself is checked last. It returns nil when nothing matches.
func FindNext(start *Node, direction Direction, cond Condition) *Node {
	if start == nil || cond == nil {
		return nil
	}
	root := start
	for root.Parent() != nil {
		root = root.Parent()
	}

	nodes := make([]*Node, 0)
	root.Walk(func(n *Node) bool {
		nodes = append(nodes, n)
		return true
	})

	from := 0
	for i, n := range nodes {
		if n == start {
			from = i
			break
		}
	}

	step := 1
	if direction == Backward {
		step = -1
	}
	size := len(nodes)
	for i := 1; i <= size; i++ {
		n := nodes[((from+step*i)%size+size)%size]
		if cond(n) {
			return n
		}
	}
	return nil
}

// FindAll returns the nodes below root, root included, matching cond in pre-order.
func FindAll(root *Node, cond Condition) []*Node {
	out := make([]*Node, 0)
	if root == nil || cond == nil {
		return out
	}
	root.Walk(func(n *Node) bool {
		if cond(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}
