package scoring

import "github.com/neuraledu/proctor_backend_v1/internal/models"

// Badge is a one-way-settable achievement. Earned predicates are monotonic
// in the student's counters, so re-evaluation is idempotent and
// order-independent.
type Badge struct {
	ID     string
	Label  string
	Earned func(*models.Student) bool
}

var Badges = []Badge{
	{ID: "starter", Label: "🎯 First Login", Earned: func(s *models.Student) bool { return s.Sessions >= 1 }},
	{ID: "pts50", Label: "⭐ 50 Points", Earned: func(s *models.Student) bool { return s.Points >= 50 }},
	{ID: "pts100", Label: "💎 100 Points", Earned: func(s *models.Student) bool { return s.Points >= 100 }},
	{ID: "high_flyer", Label: "🔥 High Achiever", Earned: func(s *models.Student) bool { return s.HighFocusSessions >= 1 }},
	{ID: "ai_user", Label: "🤖 AI Explorer", Earned: func(s *models.Student) bool { return s.AiSessions >= 1 }},
	{ID: "resilient", Label: "💪 Resilient", Earned: func(s *models.Student) bool { return s.FsExitCount >= 1 }},
}

// evaluateBadges adds every badge whose predicate holds and is not yet in
// the set. Badges are never removed.
func evaluateBadges(st *models.Student) {
	for _, b := range Badges {
		if !st.HasBadge(b.ID) && b.Earned(st) {
			st.Badges = append(st.Badges, b.ID)
		}
	}
}
