// Package entity defines the domain models for the analysis feature.
package entity

import "time"

// Observation is one price/volume sample of an instrument.
// Open, High, Low and Volume are 0 when the provider omitted them; Close is always set.
type Observation struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// TimeSeries is an ordered sequence of observations, strictly increasing by Time.
type TimeSeries []Observation

// Closes returns the close column.
func (ts TimeSeries) Closes() []float64 {
	out := make([]float64, len(ts))
	for i, o := range ts {
		out[i] = o.Close
	}
	return out
}

// Volumes returns the volume column.
func (ts TimeSeries) Volumes() []float64 {
	out := make([]float64, len(ts))
	for i, o := range ts {
		out[i] = o.Volume
	}
	return out
}

// RawObservation is a single provider row before normalization:
// timestamp string plus label -> numeric string ("1. open" -> "101.5").
type RawObservation struct {
	Timestamp string
	Fields    map[string]string
}
