package pool

import (
	"regexp"

	"github.com/aretw0/weft/pkg/segment"
)

// variablePattern matches {{#scope.path#}} placeholders: a 1-50 character first element followed
// by 1-10 identifier elements of up to 30 characters.
var variablePattern = regexp.MustCompile(`\{\{#([a-zA-Z0-9_]{1,50}(?:\.[a-zA-Z_][a-zA-Z0-9_]{0,29}){1,10})#\}\}`)

// ConvertTemplate expands template into an ordered group of segments.
//
// Literal text becomes string segments and each resolved placeholder becomes the referenced
// segment. A placeholder that does not resolve becomes none, so "Hello {{#env.name#}}!" renders
// as "Hello !" while name is unset.
func (p *Pool) ConvertTemplate(template string) segment.Group {
	var parts []segment.Segment
	last := 0
	for _, m := range variablePattern.FindAllStringSubmatchIndex(template, -1) {
		if m[0] > last {
			parts = append(parts, segment.NewString(template[last:m[0]]))
		}
		if seg, ok := p.Get(ParseSelector(template[m[2]:m[3]])); ok {
			parts = append(parts, seg)
		} else {
			parts = append(parts, segment.None{})
		}
		last = m[1]
	}
	if last < len(template) {
		parts = append(parts, segment.NewString(template[last:]))
	}
	return segment.NewGroup(parts...)
}

// ConvertTemplateText expands template and renders it as plain text.
func (p *Pool) ConvertTemplateText(template string) string {
	return p.ConvertTemplate(template).Text()
}

// References lists the selectors template refers to, in order of appearance.
func References(template string) []Selector {
	matches := variablePattern.FindAllStringSubmatch(template, -1)
	out := make([]Selector, len(matches))
	for i, m := range matches {
		out[i] = ParseSelector(m[1])
	}
	return out
}
