package lifecycle

import (
	"errors"
	"testing"

	bookingModel "narration-desk/models/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		from    bookingModel.BookingStatus
		action  Action
		want    bookingModel.BookingStatus
		wantErr error
	}{
		{"approve pending", pending, ActionApprove, approved, nil},
		{"start first fifteen", approved, ActionStartF15, f15Production, nil},
		{"approve first fifteen", f15Production, ActionApproveF15, production, nil},
		{"fail first fifteen", f15Production, ActionFailF15, rejected, nil},
		{"revision stays in stage", f15Production, ActionRequestRevision, f15Production, nil},
		{"fast track pending", pending, ActionFastTrack, production, nil},
		{"complete production", production, ActionComplete, completed, nil},
		{"revive booted", booted, ActionRevive, pending, nil},
		{"cannot approve twice", approved, ActionApprove, "", ErrInvalidState},
		{"cannot start first fifteen from pending", pending, ActionStartF15, "", ErrInvalidState},
		{"cannot complete pending", pending, ActionComplete, "", ErrInvalidState},
		{"deleted is terminal", deleted, ActionRevive, "", ErrInvalidState},
		{"unknown action", pending, Action("teleport"), "", ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.from, tt.action)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		from    bookingModel.BookingStatus
		to      bookingModel.BookingStatus
		want    Action
		wantErr error
	}{
		{"pending to approved", pending, approved, ActionApprove, nil},
		{"pending to production", pending, production, ActionFastTrack, nil},
		{"first fifteen to production", f15Production, production, ActionApproveF15, nil},
		{"first fifteen to rejected", f15Production, rejected, ActionFailF15, nil},
		{"pending to rejected", pending, rejected, ActionReject, nil},
		{"anything open to archived", production, archived, ActionArchive, nil},
		{"archived to pending", archived, pending, ActionRevive, nil},
		{"to deleted", completed, deleted, ActionDelete, nil},
		{"self move", pending, pending, "", ErrInvalidState},
		{"skip back", production, approved, "", ErrInvalidState},
		{"unknown status", pending, bookingModel.BookingStatus("shipped"), "", ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.from, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransitionErrorMessage(t *testing.T) {
	_, err := Next(pending, ActionComplete)
	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, pending, te.From)
	assert.Equal(t, "cannot complete a request in status pending", err.Error())

	_, err = Resolve(production, approved)
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "cannot move a request from production to approved", err.Error())
}

func TestAllowed(t *testing.T) {
	assert.Equal(t,
		[]Action{ActionApproveF15, ActionArchive, ActionFailF15, ActionBoot, ActionDelete, ActionRequestRevision},
		Allowed(f15Production))
	assert.Equal(t,
		[]Action{ActionApprove, ActionFastTrack, ActionArchive, ActionReject, ActionBoot, ActionDelete},
		Allowed(pending))
	assert.Empty(t, Allowed(deleted))
}

func TestEveryStatusHasAWayOut(t *testing.T) {
	for _, s := range bookingModel.GetAllBookingStatuses() {
		if s == deleted {
			continue
		}
		assert.NotEmpty(t, Allowed(s), "status %s has no outgoing action", s)
	}
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("approve_f15")
	require.NoError(t, err)
	assert.Equal(t, ActionApproveF15, a)

	_, err = ParseAction("APPROVE")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDestructiveActions(t *testing.T) {
	for _, a := range []Action{ActionArchive, ActionBoot, ActionDelete} {
		assert.True(t, a.Destructive(), a)
	}
	for _, a := range []Action{ActionApprove, ActionRevive, ActionComplete, ActionFastTrack} {
		assert.False(t, a.Destructive(), a)
	}

	assert.True(t, DestructiveTarget(bookingModel.BookingStatusArchived))
	assert.True(t, DestructiveTarget(bookingModel.BookingStatusBooted))
	assert.True(t, DestructiveTarget(bookingModel.BookingStatusDeleted))
	assert.False(t, DestructiveTarget(bookingModel.BookingStatusProduction))
	assert.False(t, DestructiveTarget(bookingModel.BookingStatusPending))
}
