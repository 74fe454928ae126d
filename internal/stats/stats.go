// Package stats derives weekly and predictive statistics from the
// task collection, with a short-lived cache in front of the tallies.
package stats

import (
	"math"
	"sync"
	"time"

	"github.com/Mobin10111010/Planning/internal/clock"
	"github.com/Mobin10111010/Planning/internal/config"
	"github.com/Mobin10111010/Planning/internal/score"
	"github.com/Mobin10111010/Planning/internal/task"
	"github.com/Mobin10111010/Planning/internal/week"
)

// DayStat is the tally for one day of the tracked week.
type DayStat struct {
	Date      time.Time `json:"date"`
	Completed int       `json:"completed"`
	Failed    int       `json:"failed"`
	Break     int       `json:"break"`
}

type Totals struct {
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Break     int `json:"break"`
}

type Summary struct {
	Weekly []DayStat `json:"weekly"`
	Total  Totals    `json:"total"`
}

// Prediction is the derived success outlook. All figures are rounded
// percentages.
type Prediction struct {
	OverallSuccessRate  int `json:"overallSuccessRate"`
	LevelBonus          int `json:"levelBonus"`
	ConsistencyBonus    int `json:"consistencyBonus"`
	AdjustedSuccessRate int `json:"adjustedSuccessRate"`
}

// Source is the read side of the task store.
type Source interface {
	Tasks() []task.Task
	Progress() score.Progress
}

type Engine struct {
	mu      sync.Mutex
	src     Source
	clock   clock.Clock
	anchor  time.Weekday
	ttl     time.Duration
	bal     config.Balance
	cache   *Summary
	cacheAt time.Time
}

type EngineConfig struct {
	Source  Source
	Clock   clock.Clock
	Balance config.Balance
	Anchor  time.Weekday
}

func NewEngine(cfg EngineConfig) *Engine {
	c := cfg.Clock
	if c == nil {
		c = clock.Real{}
	}
	return &Engine{
		src:    cfg.Source,
		clock:  c,
		anchor: cfg.Anchor,
		ttl:    time.Duration(cfg.Balance.StatsCacheMS) * time.Millisecond,
		bal:    cfg.Balance,
	}
}

// Invalidate drops the cached summary. The store calls this on
// structural changes so deletes and week rollovers show up at once.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.cache = nil
	e.cacheAt = time.Time{}
	e.mu.Unlock()
}

// Weekly returns per-day and total tallies for the current week,
// serving a cached result while it is fresh. Slots are bucketed by
// position, not by date, so tasks anchored to an older week still
// contribute to the same day indices.
func (e *Engine) Weekly() *Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if e.cache != nil && now.Sub(e.cacheAt) < e.ttl {
		return e.cache
	}

	dates := week.Dates(week.Start(now, e.anchor))
	weekly := make([]DayStat, week.Days)
	for i := range weekly {
		weekly[i] = DayStat{Date: dates[i]}
	}

	for _, t := range e.src.Tasks() {
		for i, slot := range t.WeeklyStatus {
			if i >= week.Days {
				break
			}
			switch slot.Status {
			case task.StatusComplete:
				weekly[i].Completed++
			case task.StatusFailed:
				weekly[i].Failed++
			case task.StatusBreak:
				weekly[i].Break++
			}
		}
	}

	total := Totals{}
	for _, day := range weekly {
		total.Completed += day.Completed
		total.Failed += day.Failed
		total.Break += day.Break
	}

	e.cache = &Summary{Weekly: weekly, Total: total}
	e.cacheAt = now
	return e.cache
}

// Prediction derives the adjusted success outlook, or nil when there
// are no tasks to predict from.
func (e *Engine) Prediction() *Prediction {
	tasks := e.src.Tasks()
	if len(tasks) == 0 {
		return nil
	}

	total := e.Weekly().Total

	successRate := 0.0
	if denom := total.Completed + total.Failed; denom > 0 {
		successRate = float64(total.Completed) / float64(denom) * 100
	}

	levelBonus := e.src.Progress().Level * e.bal.LevelBonusPerLevel
	if levelBonus > e.bal.MaxLevelBonus {
		levelBonus = e.bal.MaxLevelBonus
	}

	consistency := e.consistencyBonus(tasks)

	adjusted := successRate + float64(levelBonus) + float64(consistency)
	if adjusted > 100 {
		adjusted = 100
	}

	return &Prediction{
		OverallSuccessRate:  int(math.Round(successRate)),
		LevelBonus:          levelBonus,
		ConsistencyBonus:    consistency,
		AdjustedSuccessRate: int(math.Round(adjusted)),
	}
}

// consistencyBonus looks at the most recent recorded day statuses in
// encounter order and rewards a high completion share.
func (e *Engine) consistencyBonus(tasks []task.Task) int {
	var recent []task.Status
	for _, t := range tasks {
		for _, slot := range t.WeeklyStatus {
			if slot.Status != task.StatusNone {
				recent = append(recent, slot.Status)
			}
		}
	}
	if len(recent) > e.bal.ConsistencyWindow {
		recent = recent[len(recent)-e.bal.ConsistencyWindow:]
	}
	if len(recent) == 0 {
		return 0
	}

	complete := 0
	for _, st := range recent {
		if st == task.StatusComplete {
			complete++
		}
	}

	rate := float64(complete) / float64(len(recent)) * 100
	bonus := rate * e.bal.ConsistencyScale
	if max := float64(e.bal.MaxConsistencyBonus); bonus > max {
		bonus = max
	}
	return int(math.Round(bonus))
}
