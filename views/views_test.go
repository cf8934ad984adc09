package views

import (
	"bytes"
	"testing"
	"time"

	bookingModel "narration-desk/models/booking"
	"narration-desk/services/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderLoginEscapesRedirect(t *testing.T) {
	e := New()
	require.NoError(t, e.Load())

	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, "login", map[string]interface{}{
		"redirect": `/admin/dashboard"><script>`,
	}))
	assert.Contains(t, buf.String(), `action="/api/login"`)
	assert.NotContains(t, buf.String(), "<script>")
}

func TestRenderDashboard(t *testing.T) {
	due := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	d := &lifecycle.Dashboard{
		Counts: map[bookingModel.BookingStatus]int64{bookingModel.BookingStatusF15Production: 1},
		FirstFifteen: []bookingModel.BookingRequest{{
			RefNumber:    "NB-2026-ABCDEF12",
			BookTitle:    "The Quiet Coast",
			FirstFifteen: &bookingModel.FirstFifteen{DueDate: &due, StrikeCount: 2},
		}},
		GeneratedAt: due,
	}

	var buf bytes.Buffer
	require.NoError(t, New().Render(&buf, "dashboard", map[string]interface{}{
		"actor":     "owner",
		"dashboard": d,
	}))
	out := buf.String()
	assert.Contains(t, out, "F15 production: 1")
	assert.Contains(t, out, "The Quiet Coast")
	assert.Contains(t, out, "2026-03-13")
	assert.Contains(t, out, "Nothing due this week")
}

func TestRenderUnknownPage(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, New().Render(&buf, "missing", nil))
}
