package collector

import (
	"github.com/pflow-xyz/shpn/petri"
	"github.com/pflow-xyz/shpn/sim"
)

// Default downsampling thresholds (spec §4.H): place marking series
// downsample more aggressively than transition event series, since a
// long run samples every place every step but only records a point per
// actual firing.
const (
	DefaultPlaceSeriesThreshold      = 8000
	DefaultTransitionSeriesThreshold = 10000
)

// Collector is a sim.Observer that records a time series per place
// (marking over time) and per transition (firing events), in memory.
type Collector struct {
	net *petri.Net

	placeSeries      map[*petri.Place]*Series
	transitionEvents map[*petri.Transition]*Series

	placeThreshold      int
	transitionThreshold int
}

// New creates a Collector bound to net, using the default downsampling
// thresholds.
func New(net *petri.Net) *Collector {
	return &Collector{
		net:                 net,
		placeSeries:         make(map[*petri.Place]*Series),
		transitionEvents:    make(map[*petri.Transition]*Series),
		placeThreshold:      DefaultPlaceSeriesThreshold,
		transitionThreshold: DefaultTransitionSeriesThreshold,
	}
}

// SetThresholds overrides the default downsampling thresholds.
func (c *Collector) SetThresholds(place, transition int) {
	c.placeThreshold = place
	c.transitionThreshold = transition
}

// OnStep implements sim.Observer: it records the current marking of
// every place and, if a discrete transition fired, one event for it.
func (c *Collector) OnStep(o sim.StepOutcome) {
	for _, p := range c.net.Places() {
		c.seriesFor(p).Append(o.Time, p.Tokens)
	}
	if o.FiredTransition != nil {
		c.eventsFor(o.FiredTransition).Append(o.Time, float64(o.Burst))
	}
}

func (c *Collector) seriesFor(p *petri.Place) *Series {
	s, ok := c.placeSeries[p]
	if !ok {
		s = &Series{}
		c.placeSeries[p] = s
	}
	return s
}

func (c *Collector) eventsFor(t *petri.Transition) *Series {
	s, ok := c.transitionEvents[t]
	if !ok {
		s = &Series{}
		c.transitionEvents[t] = s
	}
	return s
}

// PlaceSeries returns p's marking-over-time series, downsampled.
func (c *Collector) PlaceSeries(p *petri.Place) []Sample {
	return Downsample(c.seriesFor(p).Samples(), c.placeThreshold)
}

// RawPlaceSeries returns p's marking-over-time series at full resolution.
func (c *Collector) RawPlaceSeries(p *petri.Place) []Sample {
	return c.seriesFor(p).Samples()
}

// TransitionEvents returns t's firing-event series (time, burst size),
// downsampled.
func (c *Collector) TransitionEvents(t *petri.Transition) []Sample {
	return Downsample(c.eventsFor(t).Samples(), c.transitionThreshold)
}
