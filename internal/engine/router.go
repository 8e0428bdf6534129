package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/chancerylabs/chancery/internal/approvals"
	"github.com/chancerylabs/chancery/internal/directory"
	"github.com/chancerylabs/chancery/internal/documents"
	"github.com/chancerylabs/chancery/internal/executions"
	"github.com/chancerylabs/chancery/internal/notifications"
	"github.com/chancerylabs/chancery/internal/workflows"
)

// DefaultApprovalTTL is how long an approval stays open before its due date
// when no override is configured.
const DefaultApprovalTTL = 24 * time.Hour

// Router resolves who must approve an approval step and how decisions move
// the step forward. Two group modes exist: with RequiresAllApprovers every
// member is asked at once and the step completes when the last pending
// approval resolves; without it, members are asked one at a time in group
// order, each approval escalating to the next member.
type Router struct {
	approvals approvals.System
	groups    directory.System
	notifier  Notifier
	logger    *slog.Logger
	ttl       time.Duration
}

// NewRouter creates a Router. A non-positive ttl falls back to
// DefaultApprovalTTL.
func NewRouter(
	appr approvals.System,
	groups directory.System,
	notifier Notifier,
	logger *slog.Logger,
	ttl time.Duration,
) *Router {
	if ttl <= 0 {
		ttl = DefaultApprovalTTL
	}
	return &Router{
		approvals: appr,
		groups:    groups,
		notifier:  notifier,
		logger:    logger.With("component", "router"),
		ttl:       ttl,
	}
}

// Request creates the pending approvals for an approval step at the given
// level and notifies the approvers.
func (r *Router) Request(
	ctx context.Context,
	doc *documents.Document,
	exec *executions.Execution,
	step workflows.Step,
	level int,
) ([]approvals.Approval, error) {
	approvers, err := r.resolveApprovers(ctx, step, level)
	if err != nil {
		return nil, err
	}

	due := time.Now().UTC().Add(r.ttl)
	created := make([]approvals.Approval, 0, len(approvers))

	for _, approver := range approvers {
		a, err := r.approvals.Create(ctx, approvals.CreateCommand{
			DocumentID:     doc.ID,
			WorkflowStepID: step.ID,
			ExecutionID:    exec.ID,
			Approver:       approver,
			ApprovalLevel:  level,
			DueDate:        &due,
		})
		if err != nil {
			return nil, err
		}
		created = append(created, *a)

		r.notifier.Send(ctx, notifications.Notification{
			Recipient:  approver,
			Subject:    fmt.Sprintf("approval requested: %s", doc.Filename),
			Body:       fmt.Sprintf("step %s requires your approval by %s", step.Name, due.Format(time.RFC3339)),
			DocumentID: doc.ID,
		})
	}

	return created, nil
}

// Advance decides what follows an approved approval. done reports the step
// finished; next holds newly requested approvals when the group escalated.
func (r *Router) Advance(
	ctx context.Context,
	doc *documents.Document,
	exec *executions.Execution,
	step workflows.Step,
	approved *approvals.Approval,
) (done bool, next []approvals.Approval, err error) {
	if step.RequiresAllApprovers {
		remaining, err := r.approvals.CountPendingAtLevel(ctx, exec.ID, approved.ApprovalLevel)
		if err != nil {
			return false, nil, err
		}
		return remaining == 0, nil, nil
	}

	if step.ApprovalGroup != nil {
		group, err := r.groups.Find(ctx, *step.ApprovalGroup)
		if err != nil {
			return false, nil, err
		}

		nextLevel := approved.ApprovalLevel + 1
		if _, ok := group.MemberAt(nextLevel); !ok {
			return true, nil, nil
		}

		next, err = r.Request(ctx, doc, exec, step, nextLevel)
		if err != nil {
			return false, nil, err
		}
		return false, next, nil
	}

	return true, nil, nil
}

// resolveApprovers names the approvers for a step at a level. Steps with a
// direct approver ignore levels beyond zero.
func (r *Router) resolveApprovers(ctx context.Context, step workflows.Step, level int) ([]string, error) {
	if step.Approver != nil {
		return []string{*step.Approver}, nil
	}

	if step.ApprovalGroup == nil {
		return nil, workflows.ErrMissingApprover
	}

	group, err := r.groups.Find(ctx, *step.ApprovalGroup)
	if err != nil {
		return nil, err
	}

	if step.RequiresAllApprovers {
		return group.Members, nil
	}

	member, ok := group.MemberAt(level)
	if !ok {
		return nil, ErrGroupExhausted
	}
	return []string{member}, nil
}

// HandleApproval applies an approver's decision and advances the execution.
// Approvals resolve by compare-and-swap, so two concurrent responses to the
// same approval cannot both take effect.
func (e *Engine) HandleApproval(ctx context.Context, approvalID uuid.UUID, decision approvals.Decision) (*executions.Execution, error) {
	if err := decision.Validate(); err != nil {
		return nil, err
	}

	approval, err := e.router.approvals.Find(ctx, approvalID)
	if err != nil {
		return nil, err
	}

	exec, err := e.executions.Find(ctx, approval.ExecutionID)
	if err != nil {
		return nil, err
	}
	if executions.Terminal(exec.Status) {
		return nil, executions.ErrTerminal
	}

	comments := optional(decision.Comments)

	switch decision.Action {
	case approvals.ActionDelegate:
		return e.delegate(ctx, exec, approval, decision, comments)

	case approvals.ActionReject:
		if _, err := e.router.approvals.Resolve(ctx, approvalID, decision.Approver, approvals.StatusRejected, comments); err != nil {
			return nil, err
		}
		return e.reject(ctx, exec, decision.Approver)

	case approvals.ActionApprove:
		resolved, err := e.router.approvals.Resolve(ctx, approvalID, decision.Approver, approvals.StatusApproved, comments)
		if err != nil {
			return nil, err
		}
		return e.approve(ctx, exec, resolved)

	default:
		return nil, approvals.ErrUnknownAction
	}
}

func (e *Engine) delegate(
	ctx context.Context,
	exec *executions.Execution,
	approval *approvals.Approval,
	decision approvals.Decision,
	comments *string,
) (*executions.Execution, error) {
	created, err := e.router.approvals.Delegate(ctx, approval.ID, decision.Approver, decision.DelegateTo, comments)
	if err != nil {
		return nil, err
	}

	exec.Data.PendingApprovals = replaceID(exec.Data.PendingApprovals, approval.ID, created.ID)
	exec, err = e.executions.Transition(ctx, exec.ID, executions.StatusInProgress, exec.CurrentStep, exec.Data)
	if err != nil {
		return nil, err
	}

	e.notifier.Send(ctx, notifications.Notification{
		Recipient:  decision.DelegateTo,
		Subject:    "approval delegated to you",
		Body:       fmt.Sprintf("%s delegated an approval to you", decision.Approver),
		DocumentID: approval.DocumentID,
	})

	return exec, nil
}

// reject fails the execution and marks the document rejected. A single
// rejection is final regardless of group mode.
func (e *Engine) reject(ctx context.Context, exec *executions.Execution, approver string) (*executions.Execution, error) {
	reason := fmt.Sprintf("rejected by %s", approver)
	if err := e.executions.AppendError(ctx, exec.ID, reason); err != nil {
		e.logger.Warn("failed to record rejection", "execution_id", exec.ID, "error", err)
	}

	exec.Data.PendingApprovals = nil
	failed, err := e.executions.Transition(ctx, exec.ID, executions.StatusFailed, exec.CurrentStep, exec.Data)
	if err != nil {
		return nil, err
	}

	if _, err := e.documents.SetWorkflowStatus(ctx, exec.DocumentID, documents.WorkflowRejected, nil); err != nil {
		return nil, err
	}

	e.notifier.Send(ctx, notifications.Notification{
		Recipient:  exec.StartedBy,
		Subject:    "document rejected",
		Body:       reason,
		DocumentID: exec.DocumentID,
	})

	e.logger.Info("execution rejected",
		"execution_id", exec.ID,
		"document_id", exec.DocumentID,
		"approver", approver,
	)
	return failed, nil
}

func (e *Engine) approve(ctx context.Context, exec *executions.Execution, approval *approvals.Approval) (*executions.Execution, error) {
	doc, err := e.documents.Find(ctx, exec.DocumentID)
	if err != nil {
		return nil, err
	}

	step, err := e.workflows.FindStep(ctx, approval.WorkflowStepID)
	if err != nil {
		return nil, err
	}

	done, next, err := e.router.Advance(ctx, doc, exec, *step, approval)
	if err != nil {
		return nil, err
	}

	if !done {
		exec.Data.PendingApprovals = removeID(exec.Data.PendingApprovals, approval.ID)
		if len(next) > 0 {
			exec.Data.CurrentApprovalLevel = next[0].ApprovalLevel
			exec.Data.PendingApprovals = append(exec.Data.PendingApprovals, approvalIDs(next)...)

			reviewer := next[0].Approver
			if _, err := e.documents.SetWorkflowStatus(ctx, doc.ID, documents.WorkflowInReview, &reviewer); err != nil {
				return nil, err
			}
		}
		return e.executions.Transition(ctx, exec.ID, executions.StatusInProgress, exec.CurrentStep, exec.Data)
	}

	exec.Data.PendingApprovals = nil
	exec.Data.StepsCompleted++

	steps, err := e.workflows.ListSteps(ctx, exec.WorkflowID)
	if err != nil {
		return nil, err
	}

	return e.runSteps(ctx, doc, exec, steps, stepIndex(steps, step.ID)+1)
}

func stepIndex(steps []workflows.Step, id uuid.UUID) int {
	for i, s := range steps {
		if s.ID == id {
			return i
		}
	}
	return len(steps)
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func replaceID(ids []uuid.UUID, old, repl uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == old {
			ids[i] = repl
		}
	}
	return ids
}
