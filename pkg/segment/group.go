package segment

import "strings"

// Group is the ordered result of expanding a template.
// It is kept as parts so callers choose how to render it.
type Group struct {
	parts []Segment
}

// NewGroup creates a group from the given parts.
func NewGroup(parts ...Segment) Group {
	return Group{parts: append([]Segment(nil), parts...)}
}

// Segments returns a copy of the parts.
func (g Group) Segments() []Segment { return append([]Segment(nil), g.parts...) }

// Len returns the number of parts.
func (g Group) Len() int { return len(g.parts) }

func (g Group) Kind() Kind { return KindGroup }

func (g Group) Value() any {
	out := make([]any, len(g.parts))
	for i, p := range g.parts {
		out[i] = p.Value()
	}
	return out
}

func (g Group) Text() string     { return g.join(Segment.Text) }
func (g Group) Log() string      { return g.join(Segment.Log) }
func (g Group) Markdown() string { return g.join(Segment.Markdown) }
func (g Group) segment()         {}

func (g Group) join(render func(Segment) string) string {
	var b strings.Builder
	for _, p := range g.parts {
		b.WriteString(render(p))
	}
	return b.String()
}
