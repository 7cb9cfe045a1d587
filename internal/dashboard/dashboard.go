// Package dashboard derives the read-only teacher views. Everything here
// is recomputed in full from the session/event collections on each refresh;
// there is no incremental diffing.
package dashboard

import (
	"errors"
	"sort"
	"time"

	"github.com/neuraledu/proctor_backend_v1/internal/models"
	"github.com/neuraledu/proctor_backend_v1/internal/store"
)

// Row is the per-student projection for the monitor table.
type Row struct {
	Username     string       `json:"username"`
	Focus        models.Focus `json:"focus"`
	InFullscreen bool         `json:"in_fullscreen"`
	LastExit     *time.Time   `json:"last_exit,omitempty"`
	ExitCount    int          `json:"exit_count"`
	Points       int          `json:"points"`
	AiUsed       bool         `json:"ai_used"`
	StartTime    time.Time    `json:"start_time"`
	LastSeen     time.Time    `json:"last_seen"`
	DurationSecs int          `json:"duration_secs"`
}

// TrendPoint is one scored session on the chronological trend line.
type TrendPoint struct {
	Username string       `json:"username"`
	Focus    models.Focus `json:"focus"`
	Points   int          `json:"points"`
	At       time.Time    `json:"at"`
}

type Overview struct {
	TotalSessions  int                  `json:"total_sessions"`
	ScoredSessions int                  `json:"scored_sessions"`
	AveragePoints  int                  `json:"average_points"` // among sessions with points > 0
	FocusHistogram map[models.Focus]int `json:"focus_histogram"`
	InFullscreen   int                  `json:"in_fullscreen"`
	TotalFsExits   int                  `json:"total_fs_exits"`
	LowFocusPct    int                  `json:"low_focus_pct"`

	Rows []Row `json:"rows"`

	// Trend requires at least two scored sessions; otherwise
	// TrendInsufficient is the explicit placeholder.
	Trend             []TrendPoint `json:"trend"`
	TrendInsufficient bool         `json:"trend_insufficient"`

	EventFeed  []models.Event `json:"event_feed"`   // reverse chronological, capped
	FsExitFeed []models.Event `json:"fs_exit_feed"` // fs_exit only, capped

	ActiveCameras []string  `json:"active_cameras"`
	GeneratedAt   time.Time `json:"generated_at"`
}

type Aggregator struct {
	store      *store.Store
	eventLimit int
	exitLimit  int
}

func NewAggregator(s *store.Store, eventLimit, exitLimit int) *Aggregator {
	return &Aggregator{store: s, eventLimit: eventLimit, exitLimit: exitLimit}
}

// Overview re-derives the full teacher view from the current store state.
func (a *Aggregator) Overview() (*Overview, error) {
	sessions, err := a.store.Sessions()
	if err != nil {
		return nil, err
	}
	events, err := a.store.Events()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ov := &Overview{
		TotalSessions:  len(sessions),
		FocusHistogram: map[models.Focus]int{models.FocusHigh: 0, models.FocusMedium: 0, models.FocusLow: 0},
		GeneratedAt:    now,
	}

	var pointSum, lowCount int
	for _, s := range sessions {
		if _, ok := ov.FocusHistogram[s.Focus]; ok {
			ov.FocusHistogram[s.Focus]++
		}
		if s.Focus == models.FocusLow {
			lowCount++
		}
		if s.Points > 0 {
			ov.ScoredSessions++
			pointSum += s.Points
		}
		if s.FsInFullscreen {
			ov.InFullscreen++
		}
		ov.Rows = append(ov.Rows, Row{
			Username:     s.Username,
			Focus:        s.Focus,
			InFullscreen: s.FsInFullscreen,
			LastExit:     s.LastExit,
			ExitCount:    s.FsExitCount,
			Points:       s.Points,
			AiUsed:       s.AiUsed,
			StartTime:    s.StartTime,
			LastSeen:     s.LastSeen,
			DurationSecs: int(now.Sub(s.StartTime) / time.Second),
		})
	}
	if ov.ScoredSessions > 0 {
		ov.AveragePoints = pointSum / ov.ScoredSessions
	}
	if len(sessions) > 0 {
		ov.LowFocusPct = lowCount * 100 / len(sessions)
	}

	ov.Trend = trendSeries(sessions)
	ov.TrendInsufficient = len(ov.Trend) < 2
	if ov.TrendInsufficient {
		ov.Trend = nil
	}

	for _, e := range events {
		if e.Type == models.EventFsExit {
			ov.TotalFsExits++
		}
	}
	ov.EventFeed = latestEvents(events, "", a.eventLimit)
	ov.FsExitFeed = latestEvents(events, models.EventFsExit, a.exitLimit)

	ov.ActiveCameras = a.activeCameras(sessions)
	return ov, nil
}

// trendSeries maps scored sessions onto their focus-level point values in
// chronological order.
func trendSeries(sessions []models.Session) []TrendPoint {
	var scored []models.Session
	for _, s := range sessions {
		if s.Focus != models.FocusNone {
			scored = append(scored, s)
		}
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].StartTime.Before(scored[j].StartTime) })

	points := make([]TrendPoint, 0, len(scored))
	for _, s := range scored {
		at := s.LastSeen
		if at.IsZero() {
			at = s.StartTime
		}
		points = append(points, TrendPoint{
			Username: s.Username,
			Focus:    s.Focus,
			Points:   models.FocusPoints[s.Focus],
			At:       at,
		})
	}
	return points
}

// latestEvents returns the newest events first, optionally filtered by
// type, capped at limit.
func latestEvents(events []models.Event, eventType string, limit int) []models.Event {
	out := []models.Event{}
	for i := len(events) - 1; i >= 0 && len(out) < limit; i-- {
		if eventType != "" && events[i].Type != eventType {
			continue
		}
		out = append(out, events[i])
	}
	return out
}

func (a *Aggregator) activeCameras(sessions []models.Session) []string {
	var active []string
	for _, s := range sessions {
		var cam models.CamState
		err := a.store.GetSetting(models.CamSettingName(s.Username), &cam)
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				continue
			}
			continue
		}
		if cam.Active {
			active = append(active, s.Username)
		}
	}
	return active
}
