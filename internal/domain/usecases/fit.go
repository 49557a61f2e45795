// Package usecases contains application business rules.
// Usecases orchestrate entities and depend on port interfaces only.
package usecases

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
)

// FitLinePoints is the number of points sampled along the fitted line.
const FitLinePoints = 100

// Fit runs the Liu method regression on a dataset.
func Fit(ds entities.Dataset) (*entities.FitResult, error) {
	return FitSeries(ds.Energies(), ds.Diameters())
}

// FitSeries runs the Liu method regression on parallel energy and diameter series.
//
// D² is regressed on ln(E) by ordinary least squares. The threshold energy is
// where the line crosses D² = 0, the beam waist follows from the slope
// (slope = w0²/2), and the threshold fluence is the peak fluence of a
// Gaussian beam at the threshold energy.
func FitSeries(energy, diameter []float64) (*entities.FitResult, error) {
	if err := validateSeries(energy, diameter); err != nil {
		return nil, err
	}

	n := len(energy)
	x := make([]float64, n)
	y := make([]float64, n)
	transformed := make([]entities.TransformedSample, n)
	for i := range n {
		x[i] = math.Log(energy[i])
		y[i] = diameter[i] * diameter[i]
		transformed[i] = entities.TransformedSample{X: x[i], Y: y[i]}
	}

	// Finite diameters above ~1e154 square to +Inf.
	for _, v := range y {
		if math.IsInf(v, 0) {
			return nil, &entities.NumericError{Reason: entities.ReasonNonFinite}
		}
	}

	// Constant x leaves var(x) = 0; constant y forces slope = 0. Both are
	// checked exactly so rounding in the mean cannot leak a tiny slope.
	if floats.Min(x) == floats.Max(x) || floats.Min(y) == floats.Max(y) {
		return nil, &entities.NumericError{Reason: entities.ReasonDegenerateFit}
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	if !(slope > 0) {
		return nil, &entities.NumericError{Reason: entities.ReasonDegenerateFit}
	}

	// Two distinct points lie on the line exactly. Otherwise rounding in
	// Correlation can push r² just past 1.
	rSquared := 1.0
	if n > 2 {
		r := stat.Correlation(x, y, nil)
		rSquared = math.Min(1, math.Max(0, r*r))
	}

	thresholdEnergy := math.Exp(-intercept / slope)
	beamWaist := math.Sqrt(2 * slope)
	thresholdFluence := (2 * thresholdEnergy) / (math.Pi * beamWaist * beamWaist)

	for _, v := range []float64{slope, intercept, rSquared, thresholdEnergy, beamWaist, thresholdFluence} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &entities.NumericError{Reason: entities.ReasonNonFinite}
		}
	}

	return &entities.FitResult{
		Slope:            slope,
		Intercept:        intercept,
		RSquared:         rSquared,
		ThresholdEnergy:  thresholdEnergy,
		BeamWaist:        beamWaist,
		ThresholdFluence: thresholdFluence,
		Samples:          entities.NewDataset(energy, diameter),
		Transformed:      transformed,
		FitLine:          fitLine(x, slope, intercept),
	}, nil
}

// validateSeries checks the preconditions in the order they are reported.
func validateSeries(energy, diameter []float64) error {
	if len(energy) != len(diameter) {
		return entities.NewValidationError(entities.ReasonLengthMismatch,
			"%d energies vs %d diameters", len(energy), len(diameter))
	}
	if len(energy) < 2 {
		return entities.NewValidationError(entities.ReasonInsufficientSamples,
			"need at least 2, got %d", len(energy))
	}
	for i, e := range energy {
		if !(e > 0) || math.IsInf(e, 1) {
			return entities.NewValidationError(entities.ReasonNonPositiveEnergy,
				"sample %d has energy %g", i+1, e).
				At(entities.Location{Field: entities.FieldEnergy, Item: i + 1, Text: fmt.Sprint(e)})
		}
	}
	for i, d := range diameter {
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return entities.NewValidationError(entities.ReasonInvalidDiameter,
				"sample %d has diameter %g", i+1, d).
				At(entities.Location{Field: entities.FieldDiameter, Item: i + 1, Text: fmt.Sprint(d)})
		}
	}
	return nil
}

// fitLine samples the regression line evenly over the observed x range.
func fitLine(x []float64, slope, intercept float64) []entities.LinePoint {
	xs := floats.Span(make([]float64, FitLinePoints), floats.Min(x), floats.Max(x))
	pts := make([]entities.LinePoint, len(xs))
	for i, v := range xs {
		pts[i] = entities.LinePoint{X: v, Y: slope*v + intercept}
	}
	return pts
}
