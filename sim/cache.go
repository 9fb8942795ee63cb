package sim

import "sort"

// LookaheadCache holds the most recent Prediction.
//
// Lookups between two samples interpolate linearly for real outputs. Integer,
// boolean and string outputs only change at state events, and an event ends
// a prediction, so they are constant over its span and are taken from the
// left sample.
type LookaheadCache struct {
	pred *Prediction
}

// NewLookaheadCache returns an empty cache.
func NewLookaheadCache() *LookaheadCache {
	return &LookaheadCache{}
}

// Store replaces the cached prediction wholesale.
func (c *LookaheadCache) Store(p *Prediction) {
	c.pred = p
}

// Invalidate drops the cached prediction. It reports whether one was held.
func (c *LookaheadCache) Invalidate() bool {
	held := c.pred != nil
	c.pred = nil
	return held
}

// Valid reports whether a prediction is cached.
func (c *LookaheadCache) Valid() bool {
	return c.pred != nil
}

// Current returns the cached prediction, or nil.
func (c *LookaheadCache) Current() *Prediction {
	return c.pred
}

// Covers reports whether t lies inside the cached prediction's span.
func (c *LookaheadCache) Covers(t SimTime) bool {
	return c.pred != nil && c.pred.Covers(t)
}

// Query returns the snapshot at t, interpolated when t falls between samples.
func (c *LookaheadCache) Query(t SimTime) (OutputSnapshot, error) {
	if !c.Covers(t) {
		return OutputSnapshot{}, ErrNotCovered
	}
	snaps := c.pred.Snapshots

	// First sample at or after t.
	i := sort.Search(len(snaps), func(i int) bool { return !timeBefore(snaps[i].Time, t) })
	if i == len(snaps) {
		i = len(snaps) - 1
	}
	if timeEqual(snaps[i].Time, t) || i == 0 {
		out := snaps[i].Clone()
		out.Time = t
		return out, nil
	}
	return interpolate(snaps[i-1], snaps[i], t), nil
}

func interpolate(lo, hi OutputSnapshot, t SimTime) OutputSnapshot {
	out := lo.Clone()
	out.Time = t
	w := (t - lo.Time) / (hi.Time - lo.Time)
	for j := range out.Real {
		out.Real[j] = lo.Real[j] + w*(hi.Real[j]-lo.Real[j])
	}
	return out
}
