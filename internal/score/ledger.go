// Package score tracks the gamified point and level progression.
package score

import "github.com/Mobin10111010/Planning/internal/config"

// Progress is a snapshot of the accumulated score.
type Progress struct {
	Level  int `json:"level"`
	Points int `json:"points"`
}

// Ledger accumulates points and derives the level from them. It is not
// safe for concurrent use; the owning store serializes access.
type Ledger struct {
	points int
	level  int
	bal    config.Balance
}

func NewLedger(bal config.Balance) *Ledger {
	return &Ledger{bal: bal}
}

// Restore sets the ledger to previously persisted values.
func (l *Ledger) Restore(points, level int) {
	if points < 0 {
		points = 0
	}
	l.points = points
	l.level = level
}

func (l *Ledger) Points() int { return l.points }
func (l *Ledger) Level() int  { return l.level }

func (l *Ledger) Progress() Progress {
	return Progress{Level: l.level, Points: l.points}
}

// StatusDelta returns the point value of a day status. Unknown or
// empty statuses are worth nothing.
func (l *Ledger) StatusDelta(status string) int {
	switch status {
	case "complete":
		return l.bal.CompletePoints
	case "failed":
		return l.bal.FailedPoints
	case "break":
		return l.bal.BreakPoints
	}
	return 0
}

// Apply adds delta to the points, clamping at zero, and recomputes the
// level. Crossing a level boundary upward grants the level-up bonus
// once; the bonus itself does not trigger another level check.
func (l *Ledger) Apply(delta int) {
	l.points += delta
	if l.points < 0 {
		l.points = 0
	}

	oldLevel := l.level
	l.level = l.points / l.bal.PointsPerLevel

	if l.level > oldLevel {
		l.points += l.bal.LevelUpBonus
	}
}

// Deduct removes a previously earned contribution, clamping at zero
// and recomputing the level without any bonus pass. Used when a task
// is deleted and its day statuses stop counting.
func (l *Ledger) Deduct(sum int) {
	l.points += sum
	if l.points < 0 {
		l.points = 0
	}
	l.level = l.points / l.bal.PointsPerLevel
}
