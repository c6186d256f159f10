package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WorkflowMetadata identifies the workflow a run executes.
type WorkflowMetadata struct {
	ID       string       `json:"id" yaml:"id" mapstructure:"id" validate:"required"`
	TenantID string       `json:"tenant_id" yaml:"tenant_id" mapstructure:"tenant_id" validate:"required"`
	AppID    string       `json:"app_id" yaml:"app_id" mapstructure:"app_id" validate:"required"`
	Type     WorkflowType `json:"type" yaml:"type" mapstructure:"type" validate:"required,oneof=workflow chat"`
	Version  string       `json:"version,omitempty" yaml:"version,omitempty" mapstructure:"version"`
}

// Validate checks the required identity fields.
func (m WorkflowMetadata) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid workflow metadata: %w", err)
	}
	return nil
}
