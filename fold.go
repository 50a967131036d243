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

// FoldingState returns the fold flag a toggle over nodes applies. Leaves do
// not count. When all other nodes agree the result is the opposite of their
// state, otherwise nodes are folded.
func FoldingState(nodes []*Node) bool {
	var (
		seen  bool
		state bool
	)
	for _, n := range nodes {
		if n.IsLeaf() {
			continue
		}
		if !seen {
			seen = true
			state = n.Folded
			continue
		}
		if n.Folded != state {
			return true
		}
	}
	if !seen {
		return true
	}
	return !state
}

// SetFolded changes the fold flag of n. Leaves stay unfolded.
func SetFolded(n *Node, folded bool) {
	if n.IsLeaf() {
		n.Folded = false
		return
	}
	n.Folded = folded
}

// ToggleFolded applies FoldingState to every node and returns it.
func ToggleFolded(nodes []*Node) bool {
	fold := FoldingState(nodes)
	for _, n := range nodes {
		SetFolded(n, fold)
	}
	return fold
}

// Reveal unfolds every ancestor of n.
func Reveal(n *Node) {
	for p := n.Parent(); p != nil; p = p.Parent() {
		p.Folded = false
	}
}
