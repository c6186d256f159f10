package pool

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/segment"
)

// Pool is the selector-addressed variable store of one run.
type Pool struct {
	// entries is keyed by scope, then by the encoded path (see Selector.key).
	entries map[string]map[string]segment.Variable

	userInputs   map[string]any
	system       map[domain.SystemVariableKey]any
	environment  []segment.Variable
	conversation []segment.Variable
}

// New seeds a pool with system, environment and conversation variables.
//
// System variables are stored under domain.SystemScope keyed by their key name; environment and
// conversation variables under their own names. userInputs is kept for reference only and is
// never addressable by selector. The only error is a system value that cannot be normalized.
func New(
	systemVariables map[domain.SystemVariableKey]any,
	userInputs map[string]any,
	environmentVariables []segment.Variable,
	conversationVariables []segment.Variable,
) (*Pool, error) {
	p := &Pool{
		entries:      make(map[string]map[string]segment.Variable),
		userInputs:   maps.Clone(userInputs),
		system:       maps.Clone(systemVariables),
		environment:  slices.Clone(environmentVariables),
		conversation: slices.Clone(conversationVariables),
	}
	if p.userInputs == nil {
		p.userInputs = make(map[string]any)
	}

	// Sorted so that a failing seed is reported deterministically.
	keys := slices.Sorted(maps.Keys(p.system))
	for _, key := range keys {
		if err := p.Add(Selector{domain.SystemScope, string(key)}, p.system[key]); err != nil {
			return nil, fmt.Errorf("failed to seed system variable %q: %w", key, err)
		}
	}
	for _, v := range p.environment {
		p.put(Selector{domain.EnvironmentScope, v.Name}, v)
	}
	for _, v := range p.conversation {
		p.put(Selector{domain.ConversationScope, v.Name}, v)
	}

	return p, nil
}

// UserInputs returns the raw user inputs the pool was created with.
func (p *Pool) UserInputs() map[string]any {
	return maps.Clone(p.userInputs)
}

// EnvironmentVariables returns the environment variables the pool was seeded with.
func (p *Pool) EnvironmentVariables() []segment.Variable {
	return slices.Clone(p.environment)
}

// ConversationVariables returns the conversation variables the pool was seeded with.
func (p *Pool) ConversationVariables() []segment.Variable {
	return slices.Clone(p.conversation)
}

// Add stores value at selector, replacing any previous entry.
//
// value may be a segment.Variable (rebound to selector, name kept), a segment.Segment, or a raw value that
// segment.Build can normalize. Selectors shorter than MinSelectorLength fail with
// domain.ErrInvalidSelector.
func (p *Pool) Add(selector Selector, value any) error {
	if len(selector) < MinSelectorLength {
		return fmt.Errorf("%w: %q needs at least %d elements", domain.ErrInvalidSelector, selector.String(), MinSelectorLength)
	}

	var variable segment.Variable
	switch v := value.(type) {
	case segment.Variable:
		variable = v
		if variable.Segment == nil {
			variable.Segment = segment.None{}
		}
	case segment.Segment:
		variable = segment.FromSegment(v, selector)
	default:
		seg, err := segment.Build(value)
		if err != nil {
			return fmt.Errorf("failed to add %q: %w", selector.String(), err)
		}
		variable = segment.FromSegment(seg, selector)
	}

	p.put(selector, variable)
	return nil
}

// put stores variable under selector. The stored binding always reports selector, whatever pool
// or scope the variable came from.
func (p *Pool) put(selector Selector, variable segment.Variable) {
	variable.Selector = slices.Clone(selector)
	scope, ok := p.entries[selector.Scope()]
	if !ok {
		scope = make(map[string]segment.Variable)
		p.entries[selector.Scope()] = scope
	}
	scope[selector.key()] = variable
}

// Get resolves selector to a segment.
//
// A direct entry wins. Otherwise, when the last element names a file attribute, the shorter
// selector is resolved: a file yields the computed attribute, a none value yields none, and
// anything else is a miss. Get never panics on missing data.
func (p *Pool) Get(selector Selector) (segment.Segment, bool) {
	if len(selector) < MinSelectorLength {
		return nil, false
	}

	if v, ok := p.lookup(selector); ok {
		return v.Segment, true
	}

	attr, ok := segment.ParseAttribute(selector[len(selector)-1])
	if !ok {
		return nil, false
	}

	parent, ok := p.Get(selector[:len(selector)-1])
	if !ok {
		return nil, false
	}

	switch seg := parent.(type) {
	case segment.FileSegment:
		attrSeg, err := segment.Build(segment.FileAttr(seg.File(), attr))
		if err != nil {
			return nil, false
		}
		return attrSeg, true
	case segment.None:
		return seg, true
	}
	return nil, false
}

// Variable returns the stored binding (name, selector, value) for a direct entry.
func (p *Pool) Variable(selector Selector) (segment.Variable, bool) {
	if len(selector) < MinSelectorLength {
		return segment.Variable{}, false
	}
	return p.lookup(selector)
}

func (p *Pool) lookup(selector Selector) (segment.Variable, bool) {
	scope, ok := p.entries[selector.Scope()]
	if !ok {
		return segment.Variable{}, false
	}
	v, ok := scope[selector.key()]
	return v, ok
}

// GetFile resolves selector and returns it only when it is a file.
func (p *Pool) GetFile(selector Selector) (segment.FileSegment, bool) {
	seg, ok := p.Get(selector)
	if !ok {
		return segment.FileSegment{}, false
	}
	f, ok := seg.(segment.FileSegment)
	return f, ok
}

// Remove deletes entries. An empty selector is a no-op, a single element clears the whole
// scope, and anything longer removes exactly the addressed entry.
func (p *Pool) Remove(selector Selector) {
	switch len(selector) {
	case 0:
		return
	case 1:
		delete(p.entries, selector.Scope())
		return
	}
	if scope, ok := p.entries[selector.Scope()]; ok {
		delete(scope, selector.key())
	}
}

// Len returns the number of stored entries across all scopes.
func (p *Pool) Len() int {
	n := 0
	for _, scope := range p.entries {
		n += len(scope)
	}
	return n
}

// Scopes returns the scopes holding at least one entry, sorted.
func (p *Pool) Scopes() []string {
	scopes := make([]string, 0, len(p.entries))
	for name, entries := range p.entries {
		if len(entries) > 0 {
			scopes = append(scopes, name)
		}
	}
	slices.Sort(scopes)
	return scopes
}

// Variables returns every entry ordered by selector.
func (p *Pool) Variables() []segment.Variable {
	out := make([]segment.Variable, 0, p.Len())
	for _, scope := range p.entries {
		for _, v := range scope {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b segment.Variable) int {
		return slices.Compare(a.Selector, b.Selector)
	})
	return out
}

// Records converts the pool contents into their serializable form.
func (p *Pool) Records() []domain.VariableRecord {
	vars := p.Variables()
	out := make([]domain.VariableRecord, len(vars))
	for i, v := range vars {
		out[i] = domain.VariableRecord{
			Selector: slices.Clone(v.Selector),
			Name:     v.Name,
			Kind:     string(v.Kind()),
			Value:    v.Value(),
		}
	}
	return out
}

// String summarizes the pool for debugging.
func (p *Pool) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pool(%d entries)", p.Len())
	for _, v := range p.Variables() {
		fmt.Fprintf(&b, "\n  %s = %s", Selector(v.Selector), v.Log())
	}
	return b.String()
}
