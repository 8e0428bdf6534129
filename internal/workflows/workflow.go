// Package workflows implements the workflow definition domain for Chancery:
// workflow records plus their ordered steps. Execution lives in the engine
// package; this package owns definition storage and step sequencing.
package workflows

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Step types.
const (
	StepProcessing   = "processing"
	StepApproval     = "approval"
	StepIntegration  = "integration"
	StepNotification = "notification"
)

// Condition operators for conditional step execution.
const (
	OpEquals      = "eq"
	OpGreaterThan = "gt"
	OpLessThan    = "lt"
	OpContains    = "contains"
)

// Workflow defines an executable sequence of steps for routing documents.
type Workflow struct {
	ID                        uuid.UUID `json:"id"`
	Name                      string    `json:"name"`
	Description               string    `json:"description"`
	IsActive                  bool      `json:"is_active"`
	RequiresApproval          bool      `json:"requires_approval"`
	ApprovalThreshold         *float64  `json:"approval_threshold"`
	AutoApproveBelowThreshold bool      `json:"auto_approve_below_threshold"`
	CreatedAt                 time.Time `json:"created_at"`
}

// Step is a single stage within a workflow, executed in StepOrder. Condition
// fields are optional; when ConditionField is set, the step runs only if the
// document's extracted value satisfies the operator against ConditionValue.
type Step struct {
	ID                   uuid.UUID       `json:"id"`
	WorkflowID           uuid.UUID       `json:"workflow_id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	StepOrder            int             `json:"step_order"`
	StepType             string          `json:"step_type"`
	ConditionField       *string         `json:"condition_field"`
	ConditionValue       *string         `json:"condition_value"`
	ConditionOperator    *string         `json:"condition_operator"`
	Approver             *string         `json:"approver"`
	ApprovalGroup        *uuid.UUID      `json:"approval_group"`
	RequiresAllApprovers bool            `json:"requires_all_approvers"`
	IntegrationSystem    *string         `json:"integration_system"`
	IntegrationConfig    json.RawMessage `json:"integration_config"`
	CreatedAt            time.Time       `json:"created_at"`
}

// CreateCommand carries the data needed to define a new workflow.
type CreateCommand struct {
	Name                      string   `json:"name"`
	Description               string   `json:"description"`
	RequiresApproval          bool     `json:"requires_approval"`
	ApprovalThreshold         *float64 `json:"approval_threshold"`
	AutoApproveBelowThreshold bool     `json:"auto_approve_below_threshold"`
}

// Validate checks the command for structural problems.
func (c CreateCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	if c.AutoApproveBelowThreshold && c.ApprovalThreshold == nil {
		return ErrMissingThreshold
	}
	return nil
}

// StepCommand carries the data needed to add a step to a workflow.
type StepCommand struct {
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	StepOrder            int             `json:"step_order"`
	StepType             string          `json:"step_type"`
	ConditionField       *string         `json:"condition_field"`
	ConditionValue       *string         `json:"condition_value"`
	ConditionOperator    *string         `json:"condition_operator"`
	Approver             *string         `json:"approver"`
	ApprovalGroup        *uuid.UUID      `json:"approval_group"`
	RequiresAllApprovers bool            `json:"requires_all_approvers"`
	IntegrationSystem    *string         `json:"integration_system"`
	IntegrationConfig    json.RawMessage `json:"integration_config"`
}

// Validate checks the step command for structural problems.
func (c StepCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}

	switch c.StepType {
	case StepProcessing, StepNotification:
	case StepApproval:
		if c.Approver == nil && c.ApprovalGroup == nil {
			return ErrMissingApprover
		}
	case StepIntegration:
		if c.IntegrationSystem == nil || strings.TrimSpace(*c.IntegrationSystem) == "" {
			return ErrMissingIntegration
		}
	default:
		return ErrUnknownStepType
	}

	if c.ConditionField != nil {
		if c.ConditionOperator == nil {
			return ErrUnknownOperator
		}
		switch *c.ConditionOperator {
		case OpEquals, OpGreaterThan, OpLessThan, OpContains:
		default:
			return ErrUnknownOperator
		}
	}

	return nil
}
