// Package engine implements workflow execution: starting an execution for a
// document, walking the workflow's ordered steps, routing approval requests,
// and applying approval decisions. Executions persist between steps, so an
// execution waiting on approval survives restarts; resuming is a matter of
// loading the execution and continuing from its current step.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/internal/approvals"
	"github.com/chancerylabs/chancery/internal/directory"
	"github.com/chancerylabs/chancery/internal/documents"
	"github.com/chancerylabs/chancery/internal/executions"
	"github.com/chancerylabs/chancery/internal/fields"
	"github.com/chancerylabs/chancery/internal/integrations"
	"github.com/chancerylabs/chancery/internal/notifications"
	"github.com/chancerylabs/chancery/internal/workflows"
)

// amountKeys are probed in order when a workflow auto-approves below a
// monetary threshold.
var amountKeys = []string{"total", "amount", "total_amount", "grand_total", "subtotal"}

// Engine drives workflow executions over documents.
type Engine struct {
	documents  documents.System
	workflows  workflows.System
	executions executions.System
	router     *Router
	dispatcher Dispatcher
	notifier   Notifier
	logger     *slog.Logger
}

// New creates an Engine. approvalTTL sets how long a requested approval
// remains open before its due date.
func New(
	docs documents.System,
	flows workflows.System,
	execs executions.System,
	appr approvals.System,
	groups directory.System,
	dispatcher Dispatcher,
	notifier Notifier,
	logger *slog.Logger,
	approvalTTL time.Duration,
) *Engine {
	logger = logger.With("system", "engine")
	return &Engine{
		documents:  docs,
		workflows:  flows,
		executions: execs,
		router:     NewRouter(appr, groups, notifier, logger, approvalTTL),
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
	}
}

// Start begins a workflow execution for a processed document. When the
// workflow auto-approves below its threshold and the document's amount
// qualifies, the execution completes immediately without running steps.
func (e *Engine) Start(ctx context.Context, documentID, workflowID uuid.UUID, startedBy string) (*executions.Execution, error) {
	if strings.TrimSpace(startedBy) == "" {
		return nil, ErrMissingStartedBy
	}

	doc, err := e.documents.Find(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != documents.StatusProcessed {
		return nil, ErrDocumentNotProcessed
	}

	flow, err := e.workflows.Find(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if !flow.IsActive {
		return nil, ErrWorkflowInactive
	}

	exec, err := e.executions.Create(ctx, executions.CreateCommand{
		DocumentID: documentID,
		WorkflowID: workflowID,
		StartedBy:  startedBy,
	})
	if err != nil {
		return nil, err
	}

	if e.autoApproves(flow, doc) {
		return e.autoApprove(ctx, doc, exec)
	}

	if _, err := e.documents.SetWorkflowStatus(ctx, doc.ID, documents.WorkflowPending, nil); err != nil {
		return nil, err
	}

	steps, err := e.workflows.ListSteps(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return e.fail(ctx, exec, "workflow has no steps")
	}

	exec, err = e.executions.Transition(ctx, exec.ID, executions.StatusInProgress, nil, exec.Data)
	if err != nil {
		return nil, err
	}

	return e.runSteps(ctx, doc, exec, steps, 0)
}

// Cancel terminates a running execution and clears the document's workflow
// state. Pending approvals stay pending; responding to one fails because the
// execution has finished.
func (e *Engine) Cancel(ctx context.Context, executionID uuid.UUID, cancelledBy string) (*executions.Execution, error) {
	exec, err := e.executions.Find(ctx, executionID)
	if err != nil {
		return nil, err
	}

	exec, err = e.executions.Transition(ctx, exec.ID, executions.StatusCancelled, exec.CurrentStep, exec.Data)
	if err != nil {
		return nil, err
	}

	if _, err := e.documents.SetWorkflowStatus(ctx, exec.DocumentID, documents.WorkflowNone, nil); err != nil {
		return nil, err
	}

	e.logger.Info("execution cancelled",
		"execution_id", exec.ID,
		"document_id", exec.DocumentID,
		"cancelled_by", cancelledBy,
	)
	return exec, nil
}

// runSteps walks the workflow's steps from the given index. It returns when
// every remaining step has run, a step fails, or an approval step suspends
// the execution.
func (e *Engine) runSteps(
	ctx context.Context,
	doc *documents.Document,
	exec *executions.Execution,
	steps []workflows.Step,
	start int,
) (*executions.Execution, error) {
	for i := start; i < len(steps); i++ {
		step := steps[i]

		met, err := e.conditionMet(doc, step)
		if err != nil {
			return e.fail(ctx, exec, fmt.Sprintf("step %s: %v", step.Name, err))
		}
		if !met {
			// A skipped step still counts toward progress.
			exec.Data.StepsSkipped++
			exec.Data.StepsCompleted++
			continue
		}

		switch step.StepType {
		case workflows.StepProcessing:
			exec.Data.StepsCompleted++

		case workflows.StepNotification:
			e.sendStepNotification(ctx, doc, step)
			exec.Data.StepsCompleted++

		case workflows.StepIntegration:
			if err := e.runIntegration(ctx, doc, exec, step); err != nil {
				return e.fail(ctx, exec, fmt.Sprintf("integration step %s: %v", step.Name, err))
			}
			exec.Data.StepsCompleted++

		case workflows.StepApproval:
			return e.suspendForApproval(ctx, doc, exec, step)

		default:
			return e.fail(ctx, exec, fmt.Sprintf("step %s: unknown step type %s", step.Name, step.StepType))
		}
	}

	return e.complete(ctx, doc, exec)
}

// suspendForApproval requests approvals for the step and parks the execution
// until decisions arrive.
func (e *Engine) suspendForApproval(
	ctx context.Context,
	doc *documents.Document,
	exec *executions.Execution,
	step workflows.Step,
) (*executions.Execution, error) {
	requested, err := e.router.Request(ctx, doc, exec, step, 0)
	if err != nil {
		return e.fail(ctx, exec, fmt.Sprintf("approval step %s: %v", step.Name, err))
	}

	exec.Data.CurrentApprovalLevel = 0
	exec.Data.PendingApprovals = approvalIDs(requested)

	stepID := step.ID
	exec, err = e.executions.Transition(ctx, exec.ID, executions.StatusInProgress, &stepID, exec.Data)
	if err != nil {
		return nil, err
	}

	first := requested[0].Approver
	if _, err := e.documents.SetWorkflowStatus(ctx, doc.ID, documents.WorkflowInReview, &first); err != nil {
		return nil, err
	}

	e.logger.Info("execution awaiting approval",
		"execution_id", exec.ID,
		"step", step.Name,
		"approvals", len(requested),
	)
	return exec, nil
}

func (e *Engine) runIntegration(
	ctx context.Context,
	doc *documents.Document,
	exec *executions.Execution,
	step workflows.Step,
) error {
	payload := map[string]any{
		"document_id":    doc.ID,
		"document_type":  doc.DocumentType,
		"execution_id":   exec.ID,
		"step":           step.Name,
		"extracted_data": doc.ExtractedData,
	}

	system := ""
	if step.IntegrationSystem != nil {
		system = *step.IntegrationSystem
	}

	result, err := e.dispatcher.Dispatch(ctx, system, step.IntegrationConfig, payload)
	if result == nil {
		result = &integrations.Result{System: system}
	}

	exec.Data.IntegrationResults = append(exec.Data.IntegrationResults, executions.IntegrationResult{
		StepID:   step.ID,
		System:   system,
		Success:  result.Success,
		Attempts: result.Attempts,
		Error:    result.Error,
	})

	return err
}

func (e *Engine) sendStepNotification(ctx context.Context, doc *documents.Document, step workflows.Step) {
	recipient := ""
	if step.Approver != nil {
		recipient = *step.Approver
	}

	e.notifier.Send(ctx, notifications.Notification{
		Recipient:  recipient,
		Subject:    fmt.Sprintf("workflow step %s reached", step.Name),
		Body:       step.Description,
		DocumentID: doc.ID,
	})
}

func (e *Engine) complete(ctx context.Context, doc *documents.Document, exec *executions.Execution) (*executions.Execution, error) {
	exec, err := e.executions.Transition(ctx, exec.ID, executions.StatusCompleted, nil, exec.Data)
	if err != nil {
		return nil, err
	}

	if _, err := e.documents.SetWorkflowStatus(ctx, doc.ID, documents.WorkflowApproved, nil); err != nil {
		return nil, err
	}

	e.notifier.Send(ctx, notifications.Notification{
		Recipient:  exec.StartedBy,
		Subject:    "workflow completed",
		Body:       fmt.Sprintf("document %s completed its workflow", doc.Filename),
		DocumentID: doc.ID,
	})

	e.logger.Info("execution completed",
		"execution_id", exec.ID,
		"document_id", doc.ID,
		"steps_completed", exec.Data.StepsCompleted,
		"steps_skipped", exec.Data.StepsSkipped,
	)
	return exec, nil
}

// fail marks the execution failed, records the reason, and clears the
// document's workflow state so a corrected document can be resubmitted.
func (e *Engine) fail(ctx context.Context, exec *executions.Execution, reason string) (*executions.Execution, error) {
	if err := e.executions.AppendError(ctx, exec.ID, reason); err != nil {
		e.logger.Warn("failed to record execution error", "execution_id", exec.ID, "error", err)
	}

	failed, err := e.executions.Transition(ctx, exec.ID, executions.StatusFailed, exec.CurrentStep, exec.Data)
	if err != nil {
		return nil, err
	}

	if _, err := e.documents.SetWorkflowStatus(ctx, exec.DocumentID, documents.WorkflowNone, nil); err != nil {
		return nil, err
	}

	e.logger.Error("execution failed",
		"execution_id", exec.ID,
		"document_id", exec.DocumentID,
		"reason", reason,
	)
	return failed, nil
}

func (e *Engine) autoApproves(flow *workflows.Workflow, doc *documents.Document) bool {
	if !flow.RequiresApproval || !flow.AutoApproveBelowThreshold || flow.ApprovalThreshold == nil {
		return false
	}

	amount, ok := doc.ExtractedData.FirstAmount(amountKeys...)
	if !ok {
		return false
	}

	return amount < *flow.ApprovalThreshold
}

func (e *Engine) autoApprove(ctx context.Context, doc *documents.Document, exec *executions.Execution) (*executions.Execution, error) {
	exec.Data.AutoApproved = true

	exec, err := e.executions.Transition(ctx, exec.ID, executions.StatusCompleted, nil, exec.Data)
	if err != nil {
		return nil, err
	}

	if _, err := e.documents.SetWorkflowStatus(ctx, doc.ID, documents.WorkflowApproved, nil); err != nil {
		return nil, err
	}

	e.notifier.Send(ctx, notifications.Notification{
		Recipient:  exec.StartedBy,
		Subject:    "document auto-approved",
		Body:       fmt.Sprintf("document %s was approved below the workflow threshold", doc.Filename),
		DocumentID: doc.ID,
	})

	e.logger.Info("execution auto-approved",
		"execution_id", exec.ID,
		"document_id", doc.ID,
	)
	return exec, nil
}

// conditionMet evaluates a step's optional condition against the document's
// extracted data. A missing field never satisfies the condition.
func (e *Engine) conditionMet(doc *documents.Document, step workflows.Step) (bool, error) {
	if step.ConditionField == nil {
		return true, nil
	}
	if step.ConditionOperator == nil || step.ConditionValue == nil {
		return false, fmt.Errorf("incomplete condition on step %s", step.Name)
	}

	value := doc.ExtractedData.Resolve(*step.ConditionField)
	if value == nil {
		return false, nil
	}

	expected := *step.ConditionValue

	switch *step.ConditionOperator {
	case workflows.OpEquals:
		if lv, err := fields.Numeric(value); err == nil {
			if rv, err := fields.Numeric(expected); err == nil {
				return lv == rv, nil
			}
		}
		return fields.Stringify(value) == expected, nil

	case workflows.OpGreaterThan, workflows.OpLessThan:
		lv, err := fields.Numeric(value)
		if err != nil {
			return false, nil
		}
		rv, err := fields.Numeric(expected)
		if err != nil {
			return false, fmt.Errorf("condition value %q is not numeric", expected)
		}
		if *step.ConditionOperator == workflows.OpGreaterThan {
			return lv > rv, nil
		}
		return lv < rv, nil

	case workflows.OpContains:
		return strings.Contains(
			strings.ToLower(fields.Stringify(value)),
			strings.ToLower(expected),
		), nil

	default:
		return false, fmt.Errorf("unknown condition operator %s", *step.ConditionOperator)
	}
}

func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func approvalIDs(items []approvals.Approval) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(items))
	for _, a := range items {
		ids = append(ids, a.ID)
	}
	return ids
}
