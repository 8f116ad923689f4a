package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ThaerHindawi/livekit/internal/models"
)

// StatsResponse summarizes the room journal.
type StatsResponse struct {
	Admissions       int64              `json:"admissions"`
	Readmissions     int64              `json:"readmissions"`
	Rejections       int64              `json:"rejections"`
	Releases         int64              `json:"releases"`
	IssuanceFailures int64              `json:"issuanceFailures"`
	LastActivity     string             `json:"lastActivity"`
	RecentEvents     []models.RoomEvent `json:"recentEvents"`
}

// Stats returns aggregate admission statistics.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		h.Error(w, http.StatusServiceUnavailable, "room journal not configured")
		return
	}

	summary, err := h.journal.Summary(r.Context(), 10)
	if err != nil {
		h.logger.Error().Err(err).Msg("journal summary failed")
		h.Error(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	lastActivity := "no activity yet"
	if summary.LastActivity != nil {
		lastActivity = formatTimeAgo(*summary.LastActivity)
	}

	h.JSON(w, http.StatusOK, StatsResponse{
		Admissions:       summary.Counts[models.EventAdmitted],
		Readmissions:     summary.Counts[models.EventReadmitted],
		Rejections:       summary.Counts[models.EventRejected],
		Releases:         summary.Counts[models.EventReleased],
		IssuanceFailures: summary.Counts[models.EventIssuanceFailed],
		LastActivity:     lastActivity,
		RecentEvents:     summary.Recent,
	})
}

// formatTimeAgo formats a time as a human-readable "X ago" string.
func formatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	default:
		return plural(int(diff.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}
