package middleware

import (
	"context"
	"reflect"
	"regexp"

	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/ports"
)

// Mask replaces masked values in persisted snapshots.
const Mask = "***"

type piiMiddleware struct {
	next        ports.RunStore
	patterns    []*regexp.Regexp
	environment bool
}

// PIIOption configures the PII middleware.
type PIIOption func(*piiMiddleware)

// WithEnvironmentMasked masks every variable of the environment scope, whatever its name.
func WithEnvironmentMasked() PIIOption {
	return func(m *piiMiddleware) {
		m.environment = true
	}
}

// NewPIIMiddleware creates a middleware that masks values whose key matches one of the patterns.
// Variables are matched by name; node inputs, outputs, process data, metadata and frame inputs
// by map key, at any depth. Typed maps with string keys and typed slices are walked as well.
func NewPIIMiddleware(patternStrings []string, opts ...PIIOption) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.RunStore) ports.RunStore {
		m := &piiMiddleware{next: next, patterns: patterns}
		for _, opt := range opts {
			opt(m)
		}
		return m
	}
}

func (m *piiMiddleware) Save(ctx context.Context, snapshot *domain.RunSnapshot) error {
	if snapshot == nil {
		return m.next.Save(ctx, snapshot)
	}
	// The caller keeps using its snapshot, so mask a copy.
	cloned := snapshot.Clone()

	for i := range cloned.Variables {
		v := &cloned.Variables[i]
		if (m.environment && v.Scope() == domain.EnvironmentScope) || m.matches(v.Name) {
			v.Value = Mask
			continue
		}
		v.Value = m.maskValue(v.Value)
	}
	for i := range cloned.History {
		r := &cloned.History[i].Result
		r.Inputs = m.maskMap(r.Inputs)
		r.Outputs = m.maskMap(r.Outputs)
		r.ProcessData = m.maskMap(r.ProcessData)
		r.Metadata = m.maskMetadata(r.Metadata)
	}
	if cloned.Iteration != nil {
		cloned.Iteration.Inputs = m.maskMap(cloned.Iteration.Inputs)
	}
	if cloned.Loop != nil {
		cloned.Loop.Inputs = m.maskMap(cloned.Loop.Inputs)
	}

	return m.next.Save(ctx, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, runID string) (*domain.RunSnapshot, error) {
	return m.next.Load(ctx, runID)
}

func (m *piiMiddleware) Delete(ctx context.Context, runID string) error {
	return m.next.Delete(ctx, runID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

// maskMap returns a masked copy of in; nil stays nil.
func (m *piiMiddleware) maskMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		if m.matches(k) {
			out[k] = Mask
			continue
		}
		out[k] = m.maskValue(v)
	}
	return out
}

func (m *piiMiddleware) maskMetadata(in map[domain.NodeRunMetadataKey]any) map[domain.NodeRunMetadataKey]any {
	if in == nil {
		return nil
	}
	out := make(map[domain.NodeRunMetadataKey]any, len(in))
	for k, v := range in {
		if m.matches(string(k)) {
			out[k] = Mask
			continue
		}
		out[k] = m.maskValue(v)
	}
	return out
}

func (m *piiMiddleware) maskValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return m.maskMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = m.maskValue(item)
		}
		return out
	case []byte:
		return v
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		fields := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			fields[iter.Key().String()] = iter.Value().Interface()
		}
		return m.maskMap(fields)
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = m.maskValue(rv.Index(i).Interface())
		}
		return out
	case reflect.Pointer:
		if rv.IsNil() {
			return v
		}
		return m.maskValue(rv.Elem().Interface())
	}
	return v
}
