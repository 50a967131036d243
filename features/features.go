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

// Package features wires the bundled feature modules into a registry.
package features

import (
	"sort"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/api"
	"github.com/vine-io/mindmap/features/cloud"
	"github.com/vine-io/mindmap/features/icon"
	"github.com/vine-io/mindmap/features/link"
	"github.com/vine-io/mindmap/features/note"
	"github.com/vine-io/mindmap/features/style"
)

var installers = map[string]func(r *mindmap.Registry) error{
	cloud.Kind: cloud.RegisterBy,
	icon.Kind:  icon.RegisterBy,
	link.Kind:  link.RegisterBy,
	note.Kind:  note.RegisterBy,
	style.Kind: style.RegisterBy,
}

// Names returns the names of the bundled features, sorted.
func Names() []string {
	names := make([]string, 0, len(installers))
	for name := range installers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether name is a bundled feature.
func Known(name string) bool {
	_, ok := installers[name]
	return ok
}

// RegisterAll installs the named features into r, every bundled feature when
// names is empty. Writers are registered in the order of names.
func RegisterAll(r *mindmap.Registry, names ...string) error {
	if len(names) == 0 {
		names = Names()
	}
	for _, name := range names {
		install, ok := installers[name]
		if !ok {
			return api.Configuration("unknown feature %q", name)
		}
		if err := install(r); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a frozen registry with the named features.
func NewRegistry(names ...string) (*mindmap.Registry, error) {
	r := mindmap.NewRegistry()
	if err := RegisterAll(r, names...); err != nil {
		return nil, err
	}
	r.Freeze()
	return r, nil
}
