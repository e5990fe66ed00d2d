package engine

import "time"

// safetyMargin keeps headroom so a move is always returned before any
// external timeout fires.
const safetyMargin = 0.9

// defaultGrowthFactor is the assumed per-depth time blowup before two depths
// have completed and a measured factor is available.
const defaultGrowthFactor = 4.0

const maxGrowthFactor = 16.0

// TimeBudget enforces the wall-clock budget around the iterative-deepening
// loop. It is consulted between depths only; a depth that has started always
// runs to completion.
type TimeBudget struct {
	start     time.Time
	deadline  time.Time
	total     time.Duration
	lastDepth time.Duration
	prevDepth time.Duration
}

func NewTimeBudget(budget time.Duration) *TimeBudget {
	now := time.Now()
	effective := time.Duration(float64(budget) * safetyMargin)
	return &TimeBudget{
		start:    now,
		deadline: now.Add(effective),
		total:    budget,
	}
}

func (t *TimeBudget) Expired() bool {
	return !time.Now().Before(t.deadline)
}

func (t *TimeBudget) Elapsed() time.Duration {
	return time.Since(t.start)
}

// RecordDepth feeds the duration of a completed depth into the estimator.
func (t *TimeBudget) RecordDepth(elapsed time.Duration) {
	t.prevDepth = t.lastDepth
	t.lastDepth = elapsed
}

// AllowNextDepth estimates whether one more depth can finish before the
// deadline, using the growth factor observed between the last two completed
// depths. Starting a depth that would be abandoned midway is wasted work.
func (t *TimeBudget) AllowNextDepth() bool {
	if t.Expired() {
		return false
	}
	growth := defaultGrowthFactor
	if t.prevDepth > 0 && t.lastDepth > 0 {
		measured := float64(t.lastDepth) / float64(t.prevDepth)
		// Never trust a measured factor below the default; underestimating
		// means starting a depth that cannot be aborted.
		if measured > growth {
			growth = measured
		}
		if growth > maxGrowthFactor {
			growth = maxGrowthFactor
		}
	}
	predicted := time.Duration(float64(t.lastDepth) * growth * 1.25)
	return time.Now().Add(predicted).Before(t.deadline)
}
