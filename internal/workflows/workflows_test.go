package workflows_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/internal/workflows"
)

func ptr[T any](v T) *T { return &v }

func TestCreateCommandValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     workflows.CreateCommand
		wantErr error
	}{
		{"valid minimal", workflows.CreateCommand{Name: "intake"}, nil},
		{"missing name", workflows.CreateCommand{}, workflows.ErrMissingName},
		{"blank name", workflows.CreateCommand{Name: "  "}, workflows.ErrMissingName},
		{
			"auto-approve without threshold",
			workflows.CreateCommand{Name: "spend", AutoApproveBelowThreshold: true},
			workflows.ErrMissingThreshold,
		},
		{
			"auto-approve with threshold",
			workflows.CreateCommand{Name: "spend", RequiresApproval: true, AutoApproveBelowThreshold: true, ApprovalThreshold: ptr(1000.0)},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStepCommandValidate(t *testing.T) {
	groupID := uuid.New()

	tests := []struct {
		name    string
		cmd     workflows.StepCommand
		wantErr error
	}{
		{"processing", workflows.StepCommand{Name: "ingest", StepType: workflows.StepProcessing}, nil},
		{"notification", workflows.StepCommand{Name: "notify", StepType: workflows.StepNotification}, nil},
		{"missing name", workflows.StepCommand{StepType: workflows.StepProcessing}, workflows.ErrMissingName},
		{"unknown type", workflows.StepCommand{Name: "x", StepType: "review"}, workflows.ErrUnknownStepType},
		{
			"approval with approver",
			workflows.StepCommand{Name: "sign-off", StepType: workflows.StepApproval, Approver: ptr("manager")},
			nil,
		},
		{
			"approval with group",
			workflows.StepCommand{Name: "board", StepType: workflows.StepApproval, ApprovalGroup: &groupID},
			nil,
		},
		{
			"approval without approver",
			workflows.StepCommand{Name: "sign-off", StepType: workflows.StepApproval},
			workflows.ErrMissingApprover,
		},
		{
			"integration with system",
			workflows.StepCommand{Name: "sync", StepType: workflows.StepIntegration, IntegrationSystem: ptr("erp")},
			nil,
		},
		{
			"integration without system",
			workflows.StepCommand{Name: "sync", StepType: workflows.StepIntegration},
			workflows.ErrMissingIntegration,
		},
		{
			"valid condition",
			workflows.StepCommand{
				Name: "gate", StepType: workflows.StepProcessing,
				ConditionField: ptr("total"), ConditionOperator: ptr(workflows.OpGreaterThan), ConditionValue: ptr("100"),
			},
			nil,
		},
		{
			"condition without operator",
			workflows.StepCommand{Name: "gate", StepType: workflows.StepProcessing, ConditionField: ptr("total")},
			workflows.ErrUnknownOperator,
		},
		{
			"condition with bad operator",
			workflows.StepCommand{
				Name: "gate", StepType: workflows.StepProcessing,
				ConditionField: ptr("total"), ConditionOperator: ptr("between"), ConditionValue: ptr("100"),
			},
			workflows.ErrUnknownOperator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", workflows.ErrNotFound, http.StatusNotFound},
		{"step not found", workflows.ErrStepNotFound, http.StatusNotFound},
		{"duplicate", workflows.ErrDuplicate, http.StatusConflict},
		{"duplicate step order", workflows.ErrDuplicateStepOrder, http.StatusConflict},
		{"missing name", workflows.ErrMissingName, http.StatusBadRequest},
		{"missing threshold", workflows.ErrMissingThreshold, http.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("find failed: %w", workflows.ErrNotFound), http.StatusNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workflows.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
