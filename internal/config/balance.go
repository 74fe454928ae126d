package config

// Balance holds scoring and timing balance configuration.
type Balance struct {
	// Points per day status
	CompletePoints int `json:"complete_points"`
	FailedPoints   int `json:"failed_points"`
	BreakPoints    int `json:"break_points"`

	// Leveling
	PointsPerLevel int `json:"points_per_level"`
	LevelUpBonus   int `json:"level_up_bonus"`

	// Prediction bonuses
	LevelBonusPerLevel  int     `json:"level_bonus_per_level"`
	MaxLevelBonus       int     `json:"max_level_bonus"`
	ConsistencyWindow   int     `json:"consistency_window"`
	ConsistencyScale    float64 `json:"consistency_scale"`
	MaxConsistencyBonus int     `json:"max_consistency_bonus"`

	// Timing
	SaveDebounceMS        int `json:"save_debounce_ms"`
	StatsCacheMS          int `json:"stats_cache_ms"`
	ReminderAutoDismissMS int `json:"reminder_auto_dismiss_ms"`
}

// Default returns the default balance configuration
func Default() Balance {
	return Balance{
		CompletePoints:        10,
		FailedPoints:          -5,
		BreakPoints:           2,
		PointsPerLevel:        100,
		LevelUpBonus:          50,
		LevelBonusPerLevel:    5,
		MaxLevelBonus:         25,
		ConsistencyWindow:     10,
		ConsistencyScale:      0.15,
		MaxConsistencyBonus:   15,
		SaveDebounceMS:        300,
		StatsCacheMS:          1000,
		ReminderAutoDismissMS: 30000,
	}
}
