/*
workflow.go - Approval state machine of an accrual period

STATES:
  planning ──submit──▶ pending_manager ──approve──▶ pending_rh ──approve──▶ scheduled
                            │                           │
                            └──────reject──────┬────────┘
                                               ▼
                                           rejected ──submit──▶ pending_manager

  Submitting (schedule.go ApplyFraction) moves any state to pending_manager.
  scheduled is terminal for the workflow; fractions keep progressing through
  enjoying/enjoyed by date (status.go).

AUTHORIZATION:
  pending_manager: manager/rh/admin, higher hierarchy level than the
                   requester, same area or an ancestor area
  pending_rh:      rh/admin, hierarchy level >= 2, member of the HR area

  CanApprove is a predicate; "false" means no action is available. The
  Service turns it into ErrNotAuthorized for API callers.
*/
package ferias

import (
	"fmt"
	"time"

	"github.com/warp/ferias-engine/generic"
)

type ApprovalAction string

const (
	ActionApprove ApprovalAction = "approve"
	ActionReject  ApprovalAction = "reject"
)

const minRHLevel = 2

// CanApprove reports whether approver may act on a period of requester in status.
func CanApprove(approver, requester *Employee, status WorkflowStatus, tree *OrgTree, cfg *AppConfig) bool {
	if approver == nil || requester == nil || cfg == nil {
		return false
	}
	switch status {
	case WorkflowPendingManager:
		switch approver.Role {
		case RoleManager, RoleRH, RoleAdmin:
		default:
			return false
		}
		if approver.HierarchyLevel <= requester.HierarchyLevel {
			return false
		}
		if approver.AreaID != "" && approver.AreaID == requester.AreaID {
			return true
		}
		if tree == nil {
			return false
		}
		// A misconfigured tree denies rather than fails.
		ok, _ := tree.IsAncestor(approver.AreaID, requester.AreaID)
		return ok
	case WorkflowPendingRH:
		switch approver.Role {
		case RoleRH, RoleAdmin:
		default:
			return false
		}
		return approver.HierarchyLevel >= minRHLevel && approver.AreaID == cfg.HRAreaID
	default:
		return false
	}
}

// ApplyApprovalAction moves the period one step through the workflow and
// returns the updated copy together with the notifications to store.
// The input period is not modified. Authorization is the caller's job.
func ApplyApprovalAction(
	period AccrualPeriod,
	action ApprovalAction,
	approver, requester *Employee,
	directory []Employee,
	now time.Time,
) (AccrualPeriod, []Notification, error) {
	if approver == nil || requester == nil {
		return period, nil, fmt.Errorf("%w: approver and requester are required", generic.ErrInvalidInput)
	}
	out := period.Clone()
	var notes []Notification

	switch action {
	case ActionApprove:
		switch period.Status {
		case WorkflowPendingManager:
			out.Status = WorkflowPendingRH
			out.ManagerApproverID = ptr(approver.ID)
			appendSignature(&out, approver.ID, "manager_approved", now)

			notes = append(notes, newNotification(requester.ID, out.ID, NotifyManagerApproved,
				fmt.Sprintf("Suas férias foram aprovadas por %s e seguem para o RH.", approver.Name), now))
			for _, e := range directory {
				if e.ID == requester.ID || (e.Role != RoleRH && e.Role != RoleAdmin) {
					continue
				}
				notes = append(notes, newNotification(e.ID, out.ID, NotifyPendingRH,
					fmt.Sprintf("Férias de %s aguardando aprovação do RH.", requester.Name), now))
			}

		case WorkflowPendingRH:
			out.Status = WorkflowScheduled
			out.RHApproverID = ptr(approver.ID)
			appendSignature(&out, approver.ID, "rh_approved", now)
			for i := range out.Fractions {
				if out.Fractions[i].Status == FractionPlanned {
					out.Fractions[i].Status = FractionScheduled
				}
			}

			notes = append(notes, newNotification(requester.ID, out.ID, NotifyScheduled,
				"Suas férias foram aprovadas pelo RH e estão programadas.", now))
			if requester.ManagerID != nil && *requester.ManagerID != "" {
				notes = append(notes, newNotification(*requester.ManagerID, out.ID, NotifyScheduled,
					fmt.Sprintf("As férias de %s foram programadas.", requester.Name), now))
			}

		default:
			return period, nil, fmt.Errorf("%w: cannot approve period in status %s", generic.ErrInvalidTransition, period.Status)
		}

	case ActionReject:
		switch period.Status {
		case WorkflowPendingManager, WorkflowPendingRH:
		default:
			return period, nil, fmt.Errorf("%w: cannot reject period in status %s", generic.ErrInvalidTransition, period.Status)
		}
		out.Status = WorkflowRejected
		appendSignature(&out, approver.ID, "rejected", now)
		notes = append(notes, newNotification(requester.ID, out.ID, NotifyRejected,
			fmt.Sprintf("Sua solicitação de férias foi reprovada por %s.", approver.Name), now))

	default:
		return period, nil, fmt.Errorf("%w: unknown action %q", generic.ErrInvalidInput, action)
	}

	return out, notes, nil
}

func appendSignature(p *AccrualPeriod, signerID, action string, now time.Time) {
	if p.Signature == nil {
		return
	}
	p.Signature.Events = append(p.Signature.Events, SignatureEvent{SignerID: signerID, Action: action, At: now})
}

func newNotification(recipientID, periodID string, kind NotificationKind, msg string, now time.Time) Notification {
	return Notification{
		ID:          generic.NewID(generic.PrefixNotification),
		RecipientID: recipientID,
		PeriodID:    periodID,
		Kind:        kind,
		Message:     msg,
		CreatedAt:   now,
	}
}

func ptr(s string) *string { return &s }
