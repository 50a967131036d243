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

package api

import (
	"errors"
	"fmt"
	"strings"

	json "github.com/json-iterator/go"
)

// Kind classifies the failures of the document pipeline.
type Kind int32

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "Configuration Error"
	case KindStructural:
		return "Structural Error"
	case KindFormat:
		return "Format Error"
	case KindDuplicateID:
		return "Duplicate Id Error"
	case KindUnresolvedReference:
		return "Unresolved Reference Error"
	case KindSerialization:
		return "Serialization Error"
	}
	return "Unknown Error"
}

const (
	KindConfiguration Kind = iota + 1
	KindStructural
	KindFormat
	KindDuplicateID
	KindUnresolvedReference
	KindSerialization
)

// Error is the error returned by every stage of the read/write pipeline.
// Location fields are filled when the failing stage knows them.
type Error struct {
	Kind      Kind   `json:"kind"`
	Status    string `json:"status"`
	Detail    string `json:"detail"`
	Tag       string `json:"tag,omitempty"`
	Attribute string `json:"attribute,omitempty"`
	Value     string `json:"value,omitempty"`
	NodeID    string `json:"nodeId,omitempty"`
	Extension string `json:"extension,omitempty"`
	Line      int    `json:"line,omitempty"`
	Column    int    `json:"column,omitempty"`
	Offset    int64  `json:"offset,omitempty"`

	cause error
}

// New generates a custom error.
func New(detail string, kind Kind) *Error {
	e := &Error{
		Kind:   kind,
		Detail: detail,
		Status: kind.String(),
	}
	return e
}

func (e *Error) WithKind(kind Kind) *Error {
	e.Kind = kind
	e.Status = kind.String()
	return e
}

// WithTag fills the element name the error belongs to.
func (e *Error) WithTag(tag string) *Error {
	e.Tag = tag
	return e
}

// WithAttribute fills the attribute name and its raw value.
func (e *Error) WithAttribute(name, value string) *Error {
	e.Attribute = name
	e.Value = value
	return e
}

func (e *Error) WithNode(id string) *Error {
	e.NodeID = id
	return e
}

func (e *Error) WithExtension(kind string) *Error {
	e.Extension = kind
	return e
}

// WithPosition fills the input location, lines and columns are 1-based.
func (e *Error) WithPosition(line, column int, offset int64) *Error {
	e.Line = line
	e.Column = column
	e.Offset = offset
	return e
}

// WithCause keeps err as the wrapped error.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(e.Kind.String()))
	sb.WriteString(": ")
	sb.WriteString(e.Detail)

	fields := make([]string, 0, 6)
	if e.Tag != "" {
		fields = append(fields, "tag="+e.Tag)
	}
	if e.Attribute != "" {
		fields = append(fields, fmt.Sprintf("attribute=%s value=%q", e.Attribute, e.Value))
	}
	if e.NodeID != "" {
		fields = append(fields, "node="+e.NodeID)
	}
	if e.Extension != "" {
		fields = append(fields, "extension="+e.Extension)
	}
	if e.Line > 0 {
		fields = append(fields, fmt.Sprintf("line=%d column=%d offset=%d", e.Line, e.Column, e.Offset))
	}
	if len(fields) > 0 {
		sb.WriteString(" (")
		sb.WriteString(strings.Join(fields, ", "))
		sb.WriteString(")")
	}
	if e.cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.cause.Error())
	}

	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}
	return t.Kind == e.Kind
}

// Marshal renders the error as JSON.
func (e *Error) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Parse tries to parse a JSON string into an error. If that
// fails, it will set the given string as the error detail.
func Parse(err string) *Error {
	e := new(Error)
	errr := json.Unmarshal([]byte(err), e)
	if errr != nil {
		e.Detail = err
	}
	return e
}

// Configuration generates an error for a bad registry setup.
func Configuration(format string, a ...interface{}) *Error {
	return New(fmt.Sprintf(format, a...), KindConfiguration)
}

// Structural generates an error for malformed nesting or a missing root.
func Structural(format string, a ...interface{}) *Error {
	return New(fmt.Sprintf(format, a...), KindStructural)
}

// Format generates an error for an attribute value that fails coercion.
func Format(format string, a ...interface{}) *Error {
	return New(fmt.Sprintf(format, a...), KindFormat)
}

// DuplicateID generates an error for an identifier used twice in one load.
func DuplicateID(format string, a ...interface{}) *Error {
	return New(fmt.Sprintf(format, a...), KindDuplicateID)
}

// UnresolvedReference generates an error for a reference to an unknown node.
func UnresolvedReference(format string, a ...interface{}) *Error {
	return New(fmt.Sprintf(format, a...), KindUnresolvedReference)
}

// Serialization generates an error for a failing writer.
func Serialization(format string, a ...interface{}) *Error {
	return New(fmt.Sprintf(format, a...), KindSerialization)
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// FromErr try to convert go error go *Error
func FromErr(err error) *Error {
	if err == nil {
		return nil
	}

	var verr *Error
	if errors.As(err, &verr) && verr != nil {
		return verr
	}

	return Parse(err.Error())
}
