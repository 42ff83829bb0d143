// Package ratecalc implements the rate calculator (spec §4.I): pure,
// stateless functions computed over series already recorded by a
// collector.Collector. Nothing here mutates or owns state.
package ratecalc

import "github.com/pflow-xyz/shpn/collector"

// TokenRateSeries returns the finite-difference rate of change between
// consecutive samples: rate[i] = (v[i]-v[i-1]) / (t[i]-t[i-1]).
func TokenRateSeries(samples []collector.Sample) []collector.Sample {
	if len(samples) < 2 {
		return nil
	}
	out := make([]collector.Sample, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		dt := samples[i].Time - samples[i-1].Time
		if dt == 0 {
			continue
		}
		rate := (samples[i].Value - samples[i-1].Value) / dt
		out = append(out, collector.Sample{Time: samples[i].Time, Value: rate})
	}
	return out
}

// MovingAverage returns a trailing simple moving average with the given
// window size (in number of samples, minimum 1).
func MovingAverage(samples []collector.Sample, window int) []collector.Sample {
	if window < 1 {
		window = 1
	}
	out := make([]collector.Sample, len(samples))
	sum := 0.0
	for i, s := range samples {
		sum += s.Value
		if i >= window {
			sum -= samples[i-window].Value
		}
		count := window
		if i+1 < window {
			count = i + 1
		}
		out[i] = collector.Sample{Time: s.Time, Value: sum / float64(count)}
	}
	return out
}

// FiringFrequency returns the number of firing events recorded in
// [windowStart, windowEnd] divided by the window length. Returns 0 if the
// window has non-positive length.
func FiringFrequency(events []collector.Sample, windowStart, windowEnd float64) float64 {
	if windowEnd <= windowStart {
		return 0
	}
	count := 0
	for _, e := range events {
		if e.Time >= windowStart && e.Time <= windowEnd {
			count++
		}
	}
	return float64(count) / (windowEnd - windowStart)
}
