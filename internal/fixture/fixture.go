// Package fixture loads run seeds from YAML or JSON files, for the CLI and for tests.
package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/weft"
	"github.com/aretw0/weft/pkg/domain"
	"github.com/aretw0/weft/pkg/pool"
	"github.com/aretw0/weft/pkg/segment"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrUnknownSystemKey is returned for system variables outside the well-known set.
var ErrUnknownSystemKey = errors.New("unknown system variable")

// Fixture describes a run: who starts it, the variables it is seeded with, and node outputs
// already present in the pool.
type Fixture struct {
	Workflow   domain.WorkflowMetadata `mapstructure:"workflow" validate:"required"`
	User       User                    `mapstructure:"user"`
	InvokeFrom domain.InvokeFrom       `mapstructure:"invoke_from" validate:"omitempty,oneof=service-api web-app explore debugger"`
	CallDepth  int                     `mapstructure:"call_depth" validate:"gte=0"`

	System       map[string]any `mapstructure:"system"`
	Inputs       map[string]any `mapstructure:"inputs"`
	Environment  map[string]any `mapstructure:"environment"`
	Conversation map[string]any `mapstructure:"conversation"`

	Variables []Variable `mapstructure:"variables" validate:"dive"`
}

// User identifies the caller.
type User struct {
	ID   string          `mapstructure:"id"`
	From domain.UserFrom `mapstructure:"from" validate:"omitempty,oneof=account end-user"`
}

// Variable is a node output written to the pool after it is seeded.
type Variable struct {
	Selector string `mapstructure:"selector" validate:"required"`
	Value    any    `mapstructure:"value"`
}

// Load reads a fixture file. Files ending in .json are parsed as JSON, anything else as YAML.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var raw map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	return Decode(raw)
}

// Parse decodes a YAML (or JSON, which is valid YAML) document.
func Parse(data []byte) (*Fixture, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return Decode(raw)
}

// Decode turns a loosely typed document into a validated Fixture with defaults applied.
func Decode(raw map[string]any) (*Fixture, error) {
	var f Fixture
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &f,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}

	if f.User.From == "" {
		f.User.From = domain.UserFromAccount
	}
	if f.InvokeFrom == "" {
		f.InvokeFrom = domain.InvokeFromDebugger
	}

	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid fixture: %w", err)
	}
	for key := range f.System {
		if !domain.SystemVariableKey(key).IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSystemKey, key)
		}
	}
	for _, v := range f.Variables {
		if sel := pool.ParseSelector(v.Selector); len(sel) < pool.MinSelectorLength {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSelector, v.Selector)
		}
	}
	return &f, nil
}

// Invocation returns the run identity described by the fixture.
func (f *Fixture) Invocation() weft.Invocation {
	return weft.Invocation{
		Workflow:   f.Workflow,
		UserID:     f.User.ID,
		UserFrom:   f.User.From,
		InvokeFrom: f.InvokeFrom,
		CallDepth:  f.CallDepth,
	}
}

// Seed converts the fixture scopes into pool seed values.
func (f *Fixture) Seed() (weft.Seed, error) {
	seed := weft.Seed{
		System:     make(map[domain.SystemVariableKey]any, len(f.System)),
		UserInputs: f.Inputs,
	}
	for k, v := range f.System {
		seed.System[domain.SystemVariableKey(k)] = v
	}

	var err error
	if seed.Environment, err = variables(f.Environment); err != nil {
		return weft.Seed{}, fmt.Errorf("environment: %w", err)
	}
	if seed.Conversation, err = variables(f.Conversation); err != nil {
		return weft.Seed{}, fmt.Errorf("conversation: %w", err)
	}
	return seed, nil
}

// Start seeds a run from the fixture and writes its node outputs. Node outputs are normalized
// before the run starts, so a bad value never leaves a run registered with a coordinator.
func (f *Fixture) Start(opts ...weft.Option) (*weft.Run, error) {
	seed, err := f.Seed()
	if err != nil {
		return nil, err
	}

	selectors := make([]pool.Selector, len(f.Variables))
	outputs := make([]segment.Segment, len(f.Variables))
	for i, v := range f.Variables {
		selectors[i] = pool.ParseSelector(v.Selector)
		if len(selectors[i]) < pool.MinSelectorLength {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSelector, v.Selector)
		}
		if outputs[i], err = segment.Build(v.Value); err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Selector, err)
		}
	}

	run, err := weft.Start(f.Invocation(), seed, opts...)
	if err != nil {
		return nil, err
	}
	for i, sel := range selectors {
		if err := run.State.Pool().Add(sel, outputs[i]); err != nil {
			return nil, err
		}
	}
	return run, nil
}

func variables(raw map[string]any) ([]segment.Variable, error) {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]segment.Variable, 0, len(names))
	for _, name := range names {
		seg, err := segment.Build(raw[name])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, segment.NewVariable(name, seg))
	}
	return out, nil
}
