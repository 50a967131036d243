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
	"fmt"
	"image/color"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/vine-io/pkg/xname"

	"github.com/vine-io/mindmap/api"
)

const (
	idPrefix       = "ID_"
	maxIDAttempts  = 64
	generatedIDLen = 10
)

func getAttr(attrs []xml.Attr, name string) (string, bool) {
	for _, attr := range attrs {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

// GetAttr returns the value of the attribute name in attrs.
func GetAttr(attrs []xml.Attr, name string) (string, bool) {
	return getAttr(attrs, name)
}

func getKind(v any) string {
	if v == nil {
		return "<nil>"
	}
	if ext, ok := v.(Extension); ok {
		return ext.ExtensionKind()
	}
	typ := reflect.TypeOf(v)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return typ.Name()
}

func randID() string {
	return idPrefix + xname.Gen(xname.C(generatedIDLen), xname.Digit())
}

// allocateID generates identifiers until one is not used.
func allocateID(used func(string) bool) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := randID()
		if !used(id) {
			return id, nil
		}
	}
	return "", api.Structural("unable to allocate a unique node id after %d attempts", maxIDAttempts)
}

// ParseBool accepts the "true"/"false" encoding of the file format.
func ParseBool(text string) (bool, error) {
	switch strings.TrimSpace(text) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", text)
}

// FormatBool is the inverse of ParseBool.
func FormatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

// ParseInt parses a decimal integer.
func ParseInt(text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", text)
	}
	return v, nil
}

// FormatInt renders v in decimal.
func FormatInt(v int) string {
	return strconv.Itoa(v)
}

// ParseColor parses a "#RRGGBB" hex color, case-insensitive.
func ParseColor(text string) (color.RGBA, error) {
	s := strings.TrimSpace(text)
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("invalid color %q", text)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", text)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// FormatColor renders c as "#RRGGBB".
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseMillis parses a timestamp stored as milliseconds since the epoch.
func ParseMillis(text string) (time.Time, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", text)
	}
	return time.UnixMilli(v), nil
}

// FormatMillis is the inverse of ParseMillis.
func FormatMillis(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
