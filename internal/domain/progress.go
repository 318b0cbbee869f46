package domain

// levelThresholds holds the XP needed to reach level i+1.
var levelThresholds = []float64{0, 100, 250, 500, 900, 1500, 2400, 3600, 5200, 7500}

// Progress is a user's accumulated gamification state.
type Progress struct {
	UserID            string  `json:"userId"`
	XP                float64 `json:"xp"`
	Level             int     `json:"level"`
	NextLevelXP       float64 `json:"nextLevelXp,omitempty"`
	SessionsCompleted int     `json:"sessionsCompleted"`
	BestAccuracy      int     `json:"bestAccuracy"`
}

// LevelFor maps accumulated XP to a level starting at 1, and returns the XP
// needed for the next level (0 at the top level).
func LevelFor(xp float64) (level int, next float64) {
	level = 1
	for i, threshold := range levelThresholds {
		if xp >= threshold {
			level = i + 1
		}
	}
	if level < len(levelThresholds) {
		next = levelThresholds[level]
	}
	return level, next
}

// LeaderboardEntry is one row of the XP leaderboard.
type LeaderboardEntry struct {
	Rank   int     `json:"rank"`
	UserID string  `json:"userId"`
	XP     float64 `json:"xp"`
	Level  int     `json:"level"`
}
