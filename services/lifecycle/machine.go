// Package lifecycle owns the booking request state machine and the
// transactional handlers that move requests between dashboard tabs.
package lifecycle

import (
	"fmt"

	bookingModel "narration-desk/models/booking"
)

// Action names a dashboard operation that changes a request's status.
type Action string

const (
	ActionApprove         Action = "approve"
	ActionStartF15        Action = "start_f15"
	ActionApproveF15      Action = "approve_f15"
	ActionFailF15         Action = "fail_f15"
	ActionRequestRevision Action = "request_revision"
	ActionFastTrack       Action = "fast_track"
	ActionComplete        Action = "complete"
	ActionArchive         Action = "archive"
	ActionReject          Action = "reject"
	ActionBoot            Action = "boot"
	ActionRevive          Action = "revive"
	ActionDelete          Action = "delete"
)

type edge struct {
	from []bookingModel.BookingStatus
	to   bookingModel.BookingStatus
}

var (
	pending       = bookingModel.BookingStatusPending
	approved      = bookingModel.BookingStatusApproved
	f15Production = bookingModel.BookingStatusF15Production
	production    = bookingModel.BookingStatusProduction
	completed     = bookingModel.BookingStatusCompleted
	archived      = bookingModel.BookingStatusArchived
	rejected      = bookingModel.BookingStatusRejected
	booted        = bookingModel.BookingStatusBooted
	deleted       = bookingModel.BookingStatusDeleted
)

var transitions = map[Action]edge{
	ActionApprove:         {from: statuses(pending), to: approved},
	ActionStartF15:        {from: statuses(approved), to: f15Production},
	ActionApproveF15:      {from: statuses(f15Production), to: production},
	ActionFailF15:         {from: statuses(f15Production), to: rejected},
	ActionRequestRevision: {from: statuses(f15Production), to: f15Production},
	ActionFastTrack:       {from: statuses(pending, approved), to: production},
	ActionComplete:        {from: statuses(production), to: completed},
	ActionArchive:         {from: statuses(pending, approved, f15Production, production, completed, rejected), to: archived},
	ActionReject:          {from: statuses(pending, approved), to: rejected},
	ActionBoot:            {from: statuses(pending, approved, f15Production, production), to: booted},
	ActionRevive:          {from: statuses(rejected, archived, booted, completed), to: pending},
	ActionDelete:          {from: statuses(pending, approved, f15Production, production, completed, archived, rejected, booted), to: deleted},
}

// resolveOrder is the preference when more than one action links two statuses.
var resolveOrder = []Action{
	ActionApprove,
	ActionStartF15,
	ActionApproveF15,
	ActionFastTrack,
	ActionComplete,
	ActionArchive,
	ActionReject,
	ActionFailF15,
	ActionBoot,
	ActionRevive,
	ActionDelete,
}

func statuses(s ...bookingModel.BookingStatus) []bookingModel.BookingStatus {
	return s
}

// TransitionError reports a move the state machine does not allow.
type TransitionError struct {
	From   bookingModel.BookingStatus
	To     bookingModel.BookingStatus
	Action Action
}

func (e *TransitionError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("cannot %s a request in status %s", e.Action, e.From)
	}
	return fmt.Sprintf("cannot move a request from %s to %s", e.From, e.To)
}

// Next returns the status a request in from ends up in after action.
func Next(from bookingModel.BookingStatus, action Action) (bookingModel.BookingStatus, error) {
	e, ok := transitions[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}
	if !contains(e.from, from) {
		return "", &TransitionError{From: from, To: e.to, Action: action}
	}
	return e.to, nil
}

// Resolve finds the action that moves a request from one status to another.
// Self transitions are never resolved; revisions go through RecordF15Feedback.
func Resolve(from, to bookingModel.BookingStatus) (Action, error) {
	if !to.IsValid() {
		return "", fmt.Errorf("%w: unknown booking status %q", ErrValidation, to)
	}
	if from != to {
		for _, a := range resolveOrder {
			e := transitions[a]
			if e.to == to && contains(e.from, from) {
				return a, nil
			}
		}
	}
	return "", &TransitionError{From: from, To: to}
}

// Destructive reports whether the action takes a request out of the working
// pipeline. Such actions need an explicit confirmation from the caller.
func (a Action) Destructive() bool {
	switch a {
	case ActionArchive, ActionBoot, ActionDelete:
		return true
	}
	return false
}

// DestructiveTarget reports whether moving a request to s is a destructive action.
func DestructiveTarget(s bookingModel.BookingStatus) bool {
	for a, e := range transitions {
		if e.to == s && a.Destructive() {
			return true
		}
	}
	return false
}

// Allowed lists the actions available to a request in status s, in dashboard order.
func Allowed(s bookingModel.BookingStatus) []Action {
	actions := append(append([]Action{}, resolveOrder...), ActionRequestRevision)
	var out []Action
	for _, a := range actions {
		if contains(transitions[a].from, s) {
			out = append(out, a)
		}
	}
	return out
}

// ParseAction validates a raw action name.
func ParseAction(raw string) (Action, error) {
	a := Action(raw)
	if _, ok := transitions[a]; !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrValidation, raw)
	}
	return a, nil
}

func contains(list []bookingModel.BookingStatus, s bookingModel.BookingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
