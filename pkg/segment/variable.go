package segment

// Variable is a Segment bound to a name and the selector that owns it.
// It satisfies Segment by delegating to the embedded value.
type Variable struct {
	Segment

	ID          string
	Name        string
	Description string
	Selector    []string
}

// NewVariable creates a named variable. The selector is assigned when the
// variable is inserted into a pool.
func NewVariable(name string, value Segment) Variable {
	if value == nil {
		value = None{}
	}
	return Variable{Segment: value, Name: name}
}

// FromSegment binds seg to selector. The variable is named after the last selector element.
func FromSegment(seg Segment, selector []string) Variable {
	if v, ok := seg.(Variable); ok {
		seg = v.Segment
	}
	if seg == nil {
		seg = None{}
	}
	v := Variable{Segment: seg, Selector: append([]string(nil), selector...)}
	if len(selector) > 0 {
		v.Name = selector[len(selector)-1]
	}
	return v
}
