// Package entities contains core business entities.
// These are pure domain objects with no knowledge of parsing, rendering or storage.
package entities

import "time"

// SamplePair is one ablation measurement.
type SamplePair struct {
	Energy   float64 // Pulse energy in μJ
	Diameter float64 // Crater diameter in μm
}

// Dataset is an ordered sequence of measurements.
// Order is irrelevant to the fit but preserved for display.
type Dataset []SamplePair

// NewDataset pairs energies and diameters positionally.
// The shorter slice bounds the result; callers that must detect a length
// mismatch should validate before pairing.
func NewDataset(energy, diameter []float64) Dataset {
	n := min(len(energy), len(diameter))
	ds := make(Dataset, n)
	for i := range n {
		ds[i] = SamplePair{Energy: energy[i], Diameter: diameter[i]}
	}
	return ds
}

// Energies returns the energy column.
func (d Dataset) Energies() []float64 {
	out := make([]float64, len(d))
	for i, s := range d {
		out[i] = s.Energy
	}
	return out
}

// Diameters returns the diameter column.
func (d Dataset) Diameters() []float64 {
	out := make([]float64, len(d))
	for i, s := range d {
		out[i] = s.Diameter
	}
	return out
}

// TransformedSample is a sample in regression space: X = ln(E), Y = D².
type TransformedSample struct {
	X float64
	Y float64
}

// LinePoint is one point on the fitted line, used for plotting.
type LinePoint struct {
	X float64
	Y float64
}

// Source records where a dataset came from.
type Source string

const (
	SourceManual Source = "manual"
	SourceUpload Source = "upload"
	SourceFile   Source = "file"
)

// FitResult is the outcome of one Liu method fit.
// It is built fresh for every request and never mutated afterwards.
type FitResult struct {
	ID string // Fingerprint of the input dataset

	Slope     float64
	Intercept float64
	RSquared  float64

	ThresholdEnergy  float64 // E_th, μJ
	BeamWaist        float64 // w0, μm
	ThresholdFluence float64 // F_th, μJ/μm²

	Samples     Dataset
	Transformed []TransformedSample
	FitLine     []LinePoint

	Source     Source
	SourceName string // Upload or file name, empty for manual entry
	CreatedAt  time.Time
}
