package trace

// TraceSummary aggregates statistics from a SyncTrace.
type TraceSummary struct {
	TotalSyncs    int
	CacheHits     int
	RealAdvances  int
	Rejected      int
	ClampedSyncs  int     // real advances that stopped at a state event
	HitRatio      float64 // CacheHits / (CacheHits + RealAdvances)
	MeanStep      float64 // mean reached-current over accepted syncs
	MaxStep       float64
	Reasons       map[string]int // invalidation reason → count
	StatusCounts  map[string]int
	UniqueReasons int
}

// Summarize computes aggregate statistics from a SyncTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SyncTrace) *TraceSummary {
	summary := &TraceSummary{
		Reasons:      make(map[string]int),
		StatusCounts: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalSyncs = len(st.Syncs)
	totalStep := 0.0
	for _, r := range st.Syncs {
		summary.StatusCounts[r.Status]++
		switch r.Path {
		case PathCacheHit:
			summary.CacheHits++
		case PathRealAdvance:
			summary.RealAdvances++
			summary.Reasons[r.Reason]++
			if r.Clamped() {
				summary.ClampedSyncs++
			}
		case PathRejected:
			summary.Rejected++
			continue
		}
		step := r.ReachedTime - r.CurrentTime
		totalStep += step
		if step > summary.MaxStep {
			summary.MaxStep = step
		}
	}

	if accepted := summary.CacheHits + summary.RealAdvances; accepted > 0 {
		summary.HitRatio = float64(summary.CacheHits) / float64(accepted)
		summary.MeanStep = totalStep / float64(accepted)
	}
	summary.UniqueReasons = len(summary.Reasons)

	return summary
}
