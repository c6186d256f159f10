package pool

import (
	"strconv"
	"strings"
)

// MinSelectorLength is the shortest selector that addresses a single variable.
const MinSelectorLength = 2

// Selector addresses a variable: a scope followed by a path within it.
type Selector []string

// ParseSelector splits a dotted reference such as "node1.output.text".
func ParseSelector(s string) Selector {
	if s == "" {
		return nil
	}
	return Selector(strings.Split(s, "."))
}

// Scope returns the first element, or "" for an empty selector.
func (s Selector) Scope() string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

// Path returns the elements after the scope.
func (s Selector) Path() []string {
	if len(s) == 0 {
		return nil
	}
	return s[1:]
}

// String joins the selector with dots.
func (s Selector) String() string {
	return strings.Join(s, ".")
}

// key encodes the path as a length-prefixed string, so distinct paths never share a key.
func (s Selector) key() string {
	var b strings.Builder
	for _, part := range s.Path() {
		b.WriteString(strconv.Itoa(len(part)))
		b.WriteByte(':')
		b.WriteString(part)
	}
	return b.String()
}
