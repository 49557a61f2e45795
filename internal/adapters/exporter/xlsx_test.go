package exporter

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/0xcro3dile/liufit-go/internal/adapters/i18n"
	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
	"github.com/0xcro3dile/liufit-go/internal/domain/usecases"
)

func fitReference(t *testing.T) *entities.FitResult {
	t.Helper()
	res, err := usecases.FitSeries(
		[]float64{10, 15, 22, 33, 50, 75, 110},
		[]float64{4.1, 5.3, 6.0, 7.0, 8.1, 9.2, 10.1},
	)
	require.NoError(t, err)
	return res
}

func exportAndOpen(t *testing.T, res *entities.FitResult, lang string) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	tr := i18n.NewCatalog(lang).For(lang)
	require.NoError(t, NewXLSXExporter().Export(&buf, res, tr))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func rawFloat(t *testing.T, f *excelize.File, sheet, cell string) float64 {
	t.Helper()
	s, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err, "cell %s!%s = %q", sheet, cell, s)
	return v
}

func TestXLSXExporter_Sheets(t *testing.T) {
	f := exportAndOpen(t, fitReference(t), i18n.LangEN)
	assert.Equal(t, []string{DataSheet, ResultsSheet}, f.GetSheetList())
}

func TestXLSXExporter_DataSheet(t *testing.T) {
	res := fitReference(t)
	f := exportAndOpen(t, res, i18n.LangEN)

	rows, err := f.GetRows(DataSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(res.Samples)+1)
	assert.Equal(t, []string{"Pulse Energy (μJ)", "ln(E)", "Ablation Diameter (μm)", "D² (μm²)"}, rows[0])

	assert.Equal(t, 10.0, rawFloat(t, f, DataSheet, "A2"))
	assert.InDelta(t, res.Transformed[0].X, rawFloat(t, f, DataSheet, "B2"), 1e-12)
	assert.Equal(t, 4.1, rawFloat(t, f, DataSheet, "C2"))
	assert.InDelta(t, res.Transformed[6].Y, rawFloat(t, f, DataSheet, "D8"), 1e-9)
}

func TestXLSXExporter_ResultsSheet(t *testing.T) {
	res := fitReference(t)
	f := exportAndOpen(t, res, i18n.LangZH)

	label, err := f.GetCellValue(ResultsSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "阈值能量 E_th", label)

	assert.InDelta(t, res.ThresholdEnergy, rawFloat(t, f, ResultsSheet, "B2"), 1e-9)
	assert.InDelta(t, res.BeamWaist, rawFloat(t, f, ResultsSheet, "B3"), 1e-9)
	assert.InDelta(t, res.ThresholdFluence, rawFloat(t, f, ResultsSheet, "B4"), 1e-12)
	assert.InDelta(t, res.RSquared, rawFloat(t, f, ResultsSheet, "B5"), 1e-12)

	shown, err := f.GetCellValue(ResultsSheet, "B4")
	require.NoError(t, err)
	assert.Equal(t, "0.06402", shown)

	unit, err := f.GetCellValue(ResultsSheet, "C3")
	require.NoError(t, err)
	assert.Equal(t, "μm", unit)

	empty, err := f.GetCellValue(ResultsSheet, "A6")
	require.NoError(t, err)
	assert.Empty(t, empty, "only four scalars are exported")
}

func TestXLSXExporter_Metadata(t *testing.T) {
	e := NewXLSXExporter()
	assert.Equal(t, ".xlsx", e.Extension())
	assert.Contains(t, e.ContentType(), "spreadsheetml")
}
