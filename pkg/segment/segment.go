package segment

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the concrete type of a Segment.
type Kind string

const (
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindObject Kind = "object"
	KindArray  Kind = "array"
	KindFile   Kind = "file"
	KindGroup  Kind = "group"
	KindNone   Kind = "none"
)

// Segment is an immutable typed value.
// Implementations live in this package only.
type Segment interface {
	// Kind reports which member of the closed kind set this is.
	Kind() Kind
	// Value returns the plain Go representation (string, int64, float64, map[string]any, []any, File or nil).
	Value() any
	// Text renders the segment for concatenation into prompts and templates.
	Text() string
	// Log renders the segment for logs and traces (pretty JSON for containers).
	Log() string
	// Markdown renders the segment for rich displays.
	Markdown() string

	segment()
}

// String wraps a text value.
type String struct {
	value string
}

// NewString creates a string segment.
func NewString(s string) String { return String{value: s} }

func (s String) Kind() Kind       { return KindString }
func (s String) Value() any       { return s.value }
func (s String) Text() string     { return s.value }
func (s String) Log() string      { return s.value }
func (s String) Markdown() string { return s.value }
func (s String) segment()         {}

// Number wraps an integer or a floating point value.
// Integers keep their exact representation.
type Number struct {
	i       int64
	f       float64
	isFloat bool
}

// NewInt creates an integer number segment.
func NewInt(i int64) Number { return Number{i: i} }

// NewFloat creates a floating point number segment.
func NewFloat(f float64) Number { return Number{f: f, isFloat: true} }

// IsFloat reports whether the number was built from a floating point value.
func (n Number) IsFloat() bool { return n.isFloat }

// Int returns the integer value and true when the number is an integer.
func (n Number) Int() (int64, bool) { return n.i, !n.isFloat }

// Float returns the value as float64 regardless of representation.
func (n Number) Float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (n Number) Kind() Kind { return KindNumber }

func (n Number) Value() any {
	if n.isFloat {
		return n.f
	}
	return n.i
}

func (n Number) Text() string {
	if n.isFloat {
		return strconv.FormatFloat(n.f, 'f', -1, 64)
	}
	return strconv.FormatInt(n.i, 10)
}

func (n Number) Log() string      { return n.Text() }
func (n Number) Markdown() string { return n.Text() }
func (n Number) segment()         {}

// Object is a string-keyed mapping with a stable key order.
type Object struct {
	keys   []string
	fields map[string]Segment
}

// NewObject creates an object segment. Keys are ordered lexically.
func NewObject(fields map[string]Segment) Object {
	keys := make([]string, 0, len(fields))
	copied := make(map[string]Segment, len(fields))
	for k, v := range fields {
		keys = append(keys, k)
		copied[k] = v
	}
	slices.Sort(keys)
	return Object{keys: keys, fields: copied}
}

// Keys returns the ordered field names.
func (o Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Field returns the segment stored under key.
func (o Object) Field(key string) (Segment, bool) {
	s, ok := o.fields[key]
	return s, ok
}

// Len returns the number of fields.
func (o Object) Len() int { return len(o.keys) }

func (o Object) Kind() Kind { return KindObject }

func (o Object) Value() any {
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = o.fields[k].Value()
	}
	return out
}

func (o Object) Text() string     { return encodeJSON(o.Value(), false) }
func (o Object) Log() string      { return encodeJSON(o.Value(), true) }
func (o Object) Markdown() string { return encodeJSON(o.Value(), true) }
func (o Object) segment()         {}

// Array is an ordered sequence of segments.
type Array struct {
	items []Segment
}

// NewArray creates an array segment.
func NewArray(items ...Segment) Array {
	return Array{items: append([]Segment(nil), items...)}
}

// Items returns a copy of the elements.
func (a Array) Items() []Segment { return append([]Segment(nil), a.items...) }

// Len returns the number of elements.
func (a Array) Len() int { return len(a.items) }

// At returns the element at index i.
func (a Array) At(i int) (Segment, bool) {
	if i < 0 || i >= len(a.items) {
		return nil, false
	}
	return a.items[i], true
}

func (a Array) Kind() Kind { return KindArray }

func (a Array) Value() any {
	out := make([]any, len(a.items))
	for i, item := range a.items {
		out[i] = item.Value()
	}
	return out
}

func (a Array) Text() string { return encodeJSON(a.Value(), false) }
func (a Array) Log() string  { return encodeJSON(a.Value(), true) }

func (a Array) Markdown() string {
	lines := make([]string, len(a.items))
	for i, item := range a.items {
		lines[i] = "- " + item.Markdown()
	}
	return strings.Join(lines, "\n")
}

func (a Array) segment() {}

// FileSegment wraps a File. Files have no text form; use Markdown to show them.
type FileSegment struct {
	file File
}

// NewFile creates a file segment.
func NewFile(f File) FileSegment { return FileSegment{file: f} }

// File returns the wrapped file.
func (f FileSegment) File() File { return f.file }

func (f FileSegment) Kind() Kind       { return KindFile }
func (f FileSegment) Value() any       { return f.file }
func (f FileSegment) Text() string     { return "" }
func (f FileSegment) Log() string      { return "" }
func (f FileSegment) Markdown() string { return f.file.Markdown() }
func (f FileSegment) segment()         {}

// None represents an absent or null value.
type None struct{}

func (None) Kind() Kind       { return KindNone }
func (None) Value() any       { return nil }
func (None) Text() string     { return "" }
func (None) Log() string      { return "" }
func (None) Markdown() string { return "" }
func (None) segment()         {}

func encodeJSON(v any, indent bool) string {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return ""
	}
	return string(data)
}
