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
	"encoding/xml"
	"reflect"
	"sort"
	"sync"

	"github.com/beevik/etree"
	log "github.com/vine-io/vine/lib/logger"
	"go.uber.org/atomic"

	"github.com/vine-io/mindmap/api"
)

// ElementHandler creates the in-memory object of an element. Returning a nil
// object skips the element and its subtree.
type ElementHandler interface {
	CreateElement(ctx *ReadContext, parent any, tag string, attrs []xml.Attr) (any, error)
}

// ElementEndHandler is the optional end-hook of an ElementHandler, called when
// the closing tag is reached. It replaces the default attach behaviour.
type ElementEndHandler interface {
	EndElement(ctx *ReadContext, parent any, tag string, obj any) error
}

// AttributeHandler receives the object created for the element and the raw
// attribute value.
type AttributeHandler func(obj any, value string) error

//go:generate mockgen -destination=mock/extension_writer.go -package=mock github.com/vine-io/mindmap ExtensionWriter

// ExtensionWriter serializes one extension of node into el, the element of
// the node. Writers must not modify node.
type ExtensionWriter interface {
	WriteExtension(node *Node, ext Extension, el *etree.Element) error
}

// ElementHandlerFunc adapts a function to ElementHandler.
type ElementHandlerFunc func(ctx *ReadContext, parent any, tag string, attrs []xml.Attr) (any, error)

func (fn ElementHandlerFunc) CreateElement(ctx *ReadContext, parent any, tag string, attrs []xml.Attr) (any, error) {
	return fn(ctx, parent, tag, attrs)
}

// ExtensionWriterFunc adapts a function to ExtensionWriter.
type ExtensionWriterFunc func(node *Node, ext Extension, el *etree.Element) error

func (fn ExtensionWriterFunc) WriteExtension(node *Node, ext Extension, el *etree.Element) error {
	return fn(node, ext, el)
}

type attributeKey struct {
	tag  string
	name string
}

// Registry holds the element, attribute and writer tables shared by all
// loads and saves. Feature modules register into it before Freeze, after
// that it is read-only and safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	frozen atomic.Bool

	elements   map[string]ElementHandler
	attributes map[attributeKey]AttributeHandler
	writers    map[reflect.Type]ExtensionWriter
	// writer types in registration order, the order extensions are written in.
	order []reflect.Type
}

// NewRegistry returns a registry with the map and node handlers installed.
func NewRegistry() *Registry {
	r := &Registry{
		elements:   map[string]ElementHandler{},
		attributes: map[attributeKey]AttributeHandler{},
		writers:    map[reflect.Type]ExtensionWriter{},
		order:      make([]reflect.Type, 0),
	}
	if err := newNodeBuilder().registerBy(r); err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) checkMutable(what string) *api.Error {
	if r.frozen.Load() {
		return api.Configuration("registry is frozen, cannot register %s", what)
	}
	return nil
}

// RegisterElement binds tag to handler. Registering the same handler twice is
// a no-op, binding a different handler is a ConfigurationError.
func (r *Registry) RegisterElement(tag string, handler ElementHandler) error {
	if tag == "" || handler == nil {
		return api.Configuration("element handler requires a tag and a handler").WithTag(tag)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkMutable("element " + tag); err != nil {
		return err.WithTag(tag)
	}
	if exists, ok := r.elements[tag]; ok {
		if sameHandler(exists, handler) {
			return nil
		}
		return api.Configuration("tag %s is already bound to %T", tag, exists).WithTag(tag)
	}
	r.elements[tag] = handler
	return nil
}

// RegisterAttributeHandler binds the attribute name of tag to setter.
func (r *Registry) RegisterAttributeHandler(tag, name string, setter AttributeHandler) error {
	if tag == "" || name == "" || setter == nil {
		return api.Configuration("attribute handler requires tag, name and setter").WithTag(tag).WithAttribute(name, "")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkMutable("attribute " + tag + "/" + name); err != nil {
		return err.WithTag(tag)
	}
	key := attributeKey{tag: tag, name: name}
	if _, ok := r.attributes[key]; ok {
		return api.Configuration("attribute %s of %s is already handled", name, tag).WithTag(tag).WithAttribute(name, "")
	}
	r.attributes[key] = setter
	return nil
}

// RegisterWriter binds the writer of the runtime type of proto. A second
// writer for the same type must go through OverrideWriter.
func (r *Registry) RegisterWriter(proto Extension, writer ExtensionWriter) error {
	return r.putWriter(proto, writer, false)
}

// OverrideWriter replaces the writer of the runtime type of proto. The type
// keeps its position in the write order.
func (r *Registry) OverrideWriter(proto Extension, writer ExtensionWriter) error {
	return r.putWriter(proto, writer, true)
}

func (r *Registry) putWriter(proto Extension, writer ExtensionWriter, override bool) error {
	if proto == nil || writer == nil {
		return api.Configuration("writer requires an extension type and a writer")
	}
	typ := reflect.TypeOf(proto)
	kind := proto.ExtensionKind()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkMutable("writer " + kind); err != nil {
		return err.WithExtension(kind)
	}
	if _, ok := r.writers[typ]; ok {
		if !override {
			return api.Configuration("writer of %s is already registered, use override", typ).WithExtension(kind)
		}
		log.Infof("override writer of extension %s with %T", kind, writer)
		r.writers[typ] = writer
		return nil
	}
	if override {
		log.Debugf("override of unregistered writer %s, registering it", kind)
	}
	r.writers[typ] = writer
	r.order = append(r.order, typ)
	return nil
}

// Freeze ends the registration phase.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.CAS(false, true) {
		log.Debugf("registry frozen with %d elements, %d attributes, %d writers",
			len(r.elements), len(r.attributes), len(r.writers))
	}
}

func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}

func (r *Registry) LookupElement(tag string) (ElementHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.elements[tag]
	return h, ok
}

func (r *Registry) LookupAttributeHandler(tag, name string) (AttributeHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.attributes[attributeKey{tag: tag, name: name}]
	return h, ok
}

// LookupWriter returns the writer of the runtime type of ext. Absence means
// the extension is not serialized.
func (r *Registry) LookupWriter(ext Extension) (ExtensionWriter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.writers[reflect.TypeOf(ext)]
	return w, ok
}

// WriterOrder returns the extension types with a writer, in registration order.
func (r *Registry) WriterOrder() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]reflect.Type, len(r.order))
	copy(out, r.order)
	return out
}

// Tags returns the registered element names, sorted.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.elements))
	for tag := range r.elements {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func sameHandler(a, b ElementHandler) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
