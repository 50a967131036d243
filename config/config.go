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

// Package config loads the settings of the mindmap tool.
package config

import (
	"fmt"
	"os"
	"runtime"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/api"
	"github.com/vine-io/mindmap/features"
)

// DefaultPath is read when no path is given. A missing default file is not
// an error.
const DefaultPath = "~/.mindmap.yaml"

const maxIndent = 8

type Config struct {
	// Indent is the number of spaces per level of written maps, 0 writes
	// everything on one line.
	Indent int `yaml:"indent" json:"indent"`
	// ReferencePolicy is one of report, drop or fail.
	ReferencePolicy string `yaml:"reference_policy" json:"reference_policy"`
	// Features lists the feature modules to install, all when empty.
	Features []string `yaml:"features" json:"features"`
	// Workers bounds the files loaded at once by batch commands.
	Workers int `yaml:"workers" json:"workers"`
}

func Default() *Config {
	return &Config{
		Indent:          mindmap.DefaultIndent,
		ReferencePolicy: mindmap.ReportReferences.String(),
		Features:        []string{},
		Workers:         runtime.NumCPU(),
	}
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Indent, validation.Min(0), validation.Max(maxIndent)),
		validation.Field(&c.ReferencePolicy, validation.Required,
			validation.In(mindmap.ReportReferences.String(), mindmap.DropReferences.String(), mindmap.FailOnReferences.String())),
		validation.Field(&c.Features, validation.Each(validation.By(knownFeature))),
		validation.Field(&c.Workers, validation.Min(0)),
	)
}

func knownFeature(value interface{}) error {
	name, _ := value.(string)
	if !features.Known(name) {
		return fmt.Errorf("unknown feature %q", name)
	}
	return nil
}

// Policy returns the parsed reference policy.
func (c *Config) Policy() mindmap.ReferencePolicy {
	p, err := mindmap.ParseReferencePolicy(c.ReferencePolicy)
	if err != nil {
		return mindmap.ReportReferences
	}
	return p
}

// Load reads the YAML file at path over the defaults. "~" is expanded. An
// empty path reads DefaultPath when it exists.
func Load(path string) (*Config, error) {
	c := Default()

	optional := false
	if path == "" {
		path, optional = DefaultPath, true
	}
	name, err := homedir.Expand(path)
	if err != nil {
		return nil, api.Configuration("expand %s: %v", path, err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return c, nil
		}
		return nil, api.Configuration("read config: %v", err).WithCause(err)
	}
	if err = Parse(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse decodes data into c and validates the result.
func Parse(data []byte, c *Config) error {
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return api.Configuration("decode config: %v", err).WithCause(err)
	}
	if err := c.Validate(); err != nil {
		return api.Configuration("invalid config: %v", err).WithCause(err)
	}
	return nil
}

// Setup builds a frozen registry with the configured features, and the
// reader and writer over it.
func (c *Config) Setup() (*mindmap.Registry, *mindmap.Reader, *mindmap.Writer, error) {
	reg, err := features.NewRegistry(c.Features...)
	if err != nil {
		return nil, nil, nil, err
	}
	reader, err := mindmap.NewReader(reg, mindmap.WithReferencePolicy(c.Policy()))
	if err != nil {
		return nil, nil, nil, err
	}
	writer, err := mindmap.NewWriter(reg, mindmap.WithIndent(c.Indent))
	if err != nil {
		return nil, nil, nil, err
	}
	return reg, reader, writer, nil
}
