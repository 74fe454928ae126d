package config

import (
	"os"
	"strconv"
)

// BalanceFromEnv loads balance configuration from environment variables
// Falls back to defaults if variables are not set
func BalanceFromEnv() Balance {
	cfg := Default()

	if val, ok := getEnvInt("COMPLETE_POINTS"); ok {
		cfg.CompletePoints = val
	}
	if val, ok := getEnvInt("FAILED_POINTS"); ok {
		cfg.FailedPoints = val
	}
	if val, ok := getEnvInt("BREAK_POINTS"); ok {
		cfg.BreakPoints = val
	}
	if val, ok := getEnvInt("POINTS_PER_LEVEL"); ok && val > 0 {
		cfg.PointsPerLevel = val
	}
	if val, ok := getEnvInt("LEVEL_UP_BONUS"); ok && val >= 0 {
		cfg.LevelUpBonus = val
	}
	if val, ok := getEnvInt("SAVE_DEBOUNCE_MS"); ok && val >= 0 {
		cfg.SaveDebounceMS = val
	}
	if val, ok := getEnvInt("STATS_CACHE_MS"); ok && val >= 0 {
		cfg.StatsCacheMS = val
	}
	if val, ok := getEnvInt("REMINDER_AUTO_DISMISS_MS"); ok && val > 0 {
		cfg.ReminderAutoDismissMS = val
	}

	return cfg
}

func getEnvInt(key string) (int, bool) {
	val := os.Getenv(key)
	if val == "" {
		return 0, false
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return num, true
}
