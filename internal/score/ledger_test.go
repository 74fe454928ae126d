package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mobin10111010/Planning/internal/config"
)

func newLedger() *Ledger {
	return NewLedger(config.Default())
}

func TestApply_AccumulatesPoints(t *testing.T) {
	l := newLedger()

	l.Apply(10)
	l.Apply(2)

	assert.Equal(t, 12, l.Points())
	assert.Equal(t, 0, l.Level())
}

func TestApply_ClampsAtZero(t *testing.T) {
	l := newLedger()

	l.Apply(10)
	l.Apply(-25)

	assert.Equal(t, 0, l.Points())
	assert.Equal(t, 0, l.Level())
}

func TestApply_LevelUpGrantsBonusOnce(t *testing.T) {
	l := newLedger()
	l.Restore(95, 0)

	l.Apply(10)

	// 95 + 10 = 105 crosses level 1, then +50 bonus.
	assert.Equal(t, 155, l.Points())
	assert.Equal(t, 1, l.Level())
	assert.Equal(t, l.Points()/100, l.Level())
}

func TestApply_NoBonusWithinLevel(t *testing.T) {
	l := newLedger()
	l.Restore(155, 1)

	l.Apply(10)

	assert.Equal(t, 165, l.Points())
	assert.Equal(t, 1, l.Level())
}

func TestApply_BonusDoesNotCascade(t *testing.T) {
	l := newLedger()
	l.Restore(95, 0)

	// One call crossing a boundary performs a single bonus pass even if
	// the bonus lands the points total past the next threshold.
	l.Apply(60)

	assert.Equal(t, 205, l.Points())
	assert.Equal(t, 1, l.Level())
}

func TestApply_LevelDropsWhenPointsDrop(t *testing.T) {
	l := newLedger()
	l.Restore(105, 1)

	l.Apply(-10)

	assert.Equal(t, 95, l.Points())
	assert.Equal(t, 0, l.Level())
}

func TestDeduct_ClampsAndRecomputesWithoutBonus(t *testing.T) {
	l := newLedger()
	l.Restore(120, 1)

	l.Deduct(-30)

	assert.Equal(t, 90, l.Points())
	assert.Equal(t, 0, l.Level())

	l.Deduct(-500)
	assert.Equal(t, 0, l.Points())
	assert.Equal(t, 0, l.Level())
}

func TestStatusDelta(t *testing.T) {
	l := newLedger()

	assert.Equal(t, 10, l.StatusDelta("complete"))
	assert.Equal(t, -5, l.StatusDelta("failed"))
	assert.Equal(t, 2, l.StatusDelta("break"))
	assert.Equal(t, 0, l.StatusDelta(""))
	assert.Equal(t, 0, l.StatusDelta("bogus"))
}
