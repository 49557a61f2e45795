// Package report formats a FitResult for display: fixed-precision derived
// quantities, the data table and localized error messages.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
	"github.com/0xcro3dile/liufit-go/internal/domain/ports"
)

// Display precision, in decimal places.
const (
	ThresholdEnergyDecimals  = 2
	BeamWaistDecimals        = 2
	ThresholdFluenceDecimals = 5
	RSquaredDecimals         = 4
	CoefficientDecimals      = 4
	TableDecimals            = 4
)

// Units of the derived quantities. Inputs are μJ and μm, so fluence comes
// out in μJ/μm² (1 μJ/μm² = 100 J/cm²).
const (
	UnitEnergy  = "μJ"
	UnitLength  = "μm"
	UnitFluence = "μJ/μm²"
)

// Quantity is one labelled, formatted scalar.
type Quantity struct {
	Key   string // Stable identifier, e.g. "threshold_energy"
	Label string
	Value string
	Unit  string
	Raw   float64
}

// Row is one line of the data table.
type Row struct {
	Energy     string
	LnEnergy   string
	Diameter   string
	DiameterSq string
}

// Report is everything a view needs to show a fit.
type Report struct {
	Lang         string
	Quantities   []Quantity // E_th, w0, F_th, R²
	Coefficients []Quantity // slope, intercept
	Headers      []string
	Rows         []Row
}

// Build formats result with labels from tr.
func Build(result *entities.FitResult, tr ports.Translator) Report {
	r := Report{
		Lang: tr.Lang(),
		Quantities: []Quantity{
			quantity(tr, "threshold_energy", result.ThresholdEnergy, ThresholdEnergyDecimals, UnitEnergy),
			quantity(tr, "beam_waist", result.BeamWaist, BeamWaistDecimals, UnitLength),
			quantity(tr, "threshold_fluence", result.ThresholdFluence, ThresholdFluenceDecimals, UnitFluence),
			quantity(tr, "r_squared", result.RSquared, RSquaredDecimals, ""),
		},
		Coefficients: []Quantity{
			quantity(tr, "slope", result.Slope, CoefficientDecimals, UnitLength+"²"),
			quantity(tr, "intercept", result.Intercept, CoefficientDecimals, UnitLength+"²"),
		},
		Headers: TableHeaders(tr),
		Rows:    make([]Row, len(result.Samples)),
	}

	for i, s := range result.Samples {
		var ts entities.TransformedSample
		if i < len(result.Transformed) {
			ts = result.Transformed[i]
		}
		r.Rows[i] = Row{
			Energy:     strconv.FormatFloat(s.Energy, 'g', -1, 64),
			LnEnergy:   Fixed(ts.X, TableDecimals),
			Diameter:   strconv.FormatFloat(s.Diameter, 'g', -1, 64),
			DiameterSq: Fixed(ts.Y, TableDecimals),
		}
	}
	return r
}

// TableHeaders returns the localized column names of the data table.
func TableHeaders(tr ports.Translator) []string {
	return []string{
		tr.T("table.energy"),
		tr.T("table.ln_energy"),
		tr.T("table.diameter"),
		tr.T("table.diameter_sq"),
	}
}

// Fixed formats v with exactly decimals places.
func Fixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// ErrorMessage localizes a fit or input error. A structured location is
// described in the translator's language; a free-form detail is English and
// is only shown to English readers.
func ErrorMessage(err error, tr ports.Translator) string {
	var ve *entities.ValidationError
	if errors.As(err, &ve) {
		msg := tr.T("error." + ve.Reason)
		switch {
		case ve.Loc != nil:
			msg += " (" + describeLocation(*ve.Loc, tr) + ")"
		case ve.Detail != "" && tr.Lang() == "en":
			msg += " (" + ve.Detail + ")"
		}
		return msg
	}

	var ne *entities.NumericError
	if errors.As(err, &ne) {
		return tr.T("error." + ne.Reason)
	}
	return err.Error()
}

func describeLocation(loc entities.Location, tr ports.Translator) string {
	var parts []string
	if loc.Field != "" {
		parts = append(parts, tr.T("location.field."+loc.Field))
	}
	if loc.Item > 0 {
		parts = append(parts, fmt.Sprintf(tr.T("location.item"), loc.Item))
	}
	if loc.Row > 0 {
		parts = append(parts, fmt.Sprintf(tr.T("location.row"), loc.Row))
	}
	if loc.Column > 0 {
		parts = append(parts, fmt.Sprintf(tr.T("location.column"), loc.Column))
	}

	out := strings.Join(parts, " ")
	if loc.Text != "" {
		out += fmt.Sprintf(": %q", loc.Text)
	}
	return out
}

func quantity(tr ports.Translator, key string, v float64, decimals int, unit string) Quantity {
	return Quantity{
		Key:   key,
		Label: tr.T("quantity." + key),
		Value: Fixed(v, decimals),
		Unit:  unit,
		Raw:   v,
	}
}
