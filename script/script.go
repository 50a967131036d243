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

// Package script runs user code against a live map through proxies.
package script

import (
	"fmt"
	"io"

	log "github.com/vine-io/vine/lib/logger"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/api"
)

// Controller is bound as "c": the map of the node and the script output.
type Controller struct {
	m   *MapProxy
	out io.Writer
}

func (c *Controller) Map() *MapProxy {
	return c.m
}

func (c *Controller) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

// Script is user code. node is the node the script runs on.
type Script func(node *NodeProxy, c *Controller) (any, error)

// ExecuteError is returned when a script fails or panics.
type ExecuteError struct {
	NodeID string
	Cause  error
}

func (e *ExecuteError) Error() string {
	return fmt.Sprintf("execute script on node %s: %v", e.NodeID, e.Cause)
}

func (e *ExecuteError) Unwrap() error {
	return e.Cause
}

type Options struct {
	Out   io.Writer
	// Space holds the ids of the other open maps.
	Space mindmap.IDSpace
}

type Option func(*Options)

func newOptions(opts ...Option) Options {
	options := newOptions(opts...)
	return options
}

// WithOutput redirects Controller.Printf, stdout by default.
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Out = w
	}
}

// WithIDSpace makes nodes created by the script avoid the ids of space,
// usually the workspace of the map.
func WithIDSpace(space mindmap.IDSpace) Option {
	return func(o *Options) {
		o.Space = space
	}
}

// Execute runs s on node of doc.
func Execute(doc *mindmap.Document, node *mindmap.Node, s Script, opts ...Option) (result any, err error) {
	options := newOptions(opts...)

	if doc == nil || node == nil || s == nil {
		return nil, api.Structural("script requires a map, a node and a script")
	}
	if n, ok := doc.Lookup(node.ID); !ok || n != node {
		return nil, api.Structural("node %q is not part of the map", node.ID).WithNode(node.ID)
	}

	defer func() {
		if p := recover(); p != nil {
			log.Errorf("script on node %s panic: %v", node.ID, p)
			result, err = nil, &ExecuteError{NodeID: node.ID, Cause: fmt.Errorf("panic: %v", p)}
		}
	}()

	c := &Controller{m: NewMapProxy(doc, opts...), out: options.Out}
	result, err = s(c.m.proxy(node), c)
	if err != nil {
		return nil, &ExecuteError{NodeID: node.ID, Cause: err}
	}
	return result, nil
}
