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
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"

	"github.com/vine-io/mindmap"
	"github.com/vine-io/mindmap/api"
)

func TestExportJSON(t *testing.T) {
	reader, _ := newPipeline(t)

	result, err := reader.LoadFile("testdata/sample.mm")
	if !assert.NoError(t, err) {
		return
	}

	data, err := mindmap.ExportJSON(result.Document, true)
	if !assert.NoError(t, err) {
		return
	}

	var out struct {
		Version string `json:"version"`
		Root    struct {
			ID       string `json:"id"`
			Created  int64  `json:"created"`
			Children []struct {
				ID         string                     `json:"id"`
				Folded     bool                       `json:"folded"`
				References []string                   `json:"references"`
				Extensions map[string]json.RawMessage `json:"extensions"`
			} `json:"children"`
		} `json:"root"`
	}
	if !assert.NoError(t, json.Unmarshal(data, &out)) {
		return
	}
	assert.Equal(t, out.Version, "1.0.1", "they should be equal")
	assert.Equal(t, out.Root.ID, "ID_1", "they should be equal")
	assert.Equal(t, out.Root.Created, int64(1700000000000), "they should be equal")
	if assert.Len(t, out.Root.Children, 2) {
		plan := out.Root.Children[0]
		assert.True(t, plan.Folded)
		assert.Equal(t, plan.References, []string{"ID_4"}, "they should be equal")
		assert.Contains(t, plan.Extensions, "cloud")
		assert.Contains(t, plan.Extensions, "style")
		assert.Contains(t, plan.Extensions, "arrowlink")
	}

	_, err = mindmap.ExportJSON(mindmap.NewDocument(), false)
	assert.True(t, api.IsKind(err, api.KindSerialization))
}
