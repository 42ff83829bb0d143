package collector

import "github.com/pflow-xyz/shpn/petri"

// Statistics summarizes a place's recorded marking series.
type Statistics struct {
	Min, Max, Mean, Last float64
	Count                int
}

// PlaceStatistics aggregates p's full-resolution series (spec §9 Open
// Question: report views are aggregations over the single collector, not
// separate collector instances).
func (c *Collector) PlaceStatistics(p *petri.Place) Statistics {
	return computeStatistics(c.seriesFor(p).Samples())
}

func computeStatistics(samples []Sample) Statistics {
	if len(samples) == 0 {
		return Statistics{}
	}
	stats := Statistics{Min: samples[0].Value, Max: samples[0].Value, Count: len(samples)}
	sum := 0.0
	for _, s := range samples {
		if s.Value < stats.Min {
			stats.Min = s.Value
		}
		if s.Value > stats.Max {
			stats.Max = s.Value
		}
		sum += s.Value
	}
	stats.Mean = sum / float64(len(samples))
	stats.Last = samples[len(samples)-1].Value
	return stats
}

// TransitionFrequencyReport summarizes how often t fired across the
// recorded run.
type TransitionFrequencyReport struct {
	FireCount   int
	TotalBurst  int
	FirstFireAt float64
	LastFireAt  float64
}

// TransitionFrequency aggregates t's recorded firing events.
func (c *Collector) TransitionFrequency(t *petri.Transition) TransitionFrequencyReport {
	samples := c.eventsFor(t).Samples()
	if len(samples) == 0 {
		return TransitionFrequencyReport{}
	}
	report := TransitionFrequencyReport{
		FireCount:   len(samples),
		FirstFireAt: samples[0].Time,
		LastFireAt:  samples[len(samples)-1].Time,
	}
	for _, s := range samples {
		report.TotalBurst += int(s.Value)
	}
	return report
}
