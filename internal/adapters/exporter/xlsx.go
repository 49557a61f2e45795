// Package exporter writes fit results as spreadsheet downloads.
package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/0xcro3dile/liufit-go/internal/adapters/report"
	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
	"github.com/0xcro3dile/liufit-go/internal/domain/ports"
)

// Sheet names are fixed so downstream tooling can rely on them.
const (
	DataSheet    = "Data"
	ResultsSheet = "Results"
)

// XLSXExporter implements ports.ResultExporter with excelize.
type XLSXExporter struct{}

// NewXLSXExporter creates a new spreadsheet exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// ContentType is the MIME type of an .xlsx workbook.
func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension returns ".xlsx".
func (e *XLSXExporter) Extension() string {
	return ".xlsx"
}

// Export writes a two-sheet workbook: the raw and transformed table on
// Data, the four derived scalars on Results.
func (e *XLSXExporter) Export(w io.Writer, result *entities.FitResult, tr ports.Translator) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeDataSheet(f, result, tr); err != nil {
		return err
	}

	if _, err := f.NewSheet(ResultsSheet); err != nil {
		return fmt.Errorf("creating results sheet: %w", err)
	}
	if err := writeResultsSheet(f, result, tr); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeDataSheet(f *excelize.File, result *entities.FitResult, tr ports.Translator) error {
	sw, err := f.NewStreamWriter(DataSheet)
	if err != nil {
		return fmt.Errorf("opening data sheet: %w", err)
	}

	headers := report.TableHeaders(tr)
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, s := range result.Samples {
		ts := result.Transformed[i]
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, []any{s.Energy, ts.X, s.Diameter, ts.Y}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return sw.Flush()
}

func writeResultsSheet(f *excelize.File, result *entities.FitResult, tr ports.Translator) error {
	header := []any{tr.T("export.quantity"), tr.T("export.value"), tr.T("export.unit")}
	if err := f.SetSheetRow(ResultsSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	rep := report.Build(result, tr)
	decimals := []int{
		report.ThresholdEnergyDecimals,
		report.BeamWaistDecimals,
		report.ThresholdFluenceDecimals,
		report.RSquaredDecimals,
	}

	for i, q := range rep.Quantities {
		row := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, row)
		values := []any{q.Label, q.Raw, q.Unit}
		if err := f.SetSheetRow(ResultsSheet, cell, &values); err != nil {
			return fmt.Errorf("writing %s: %w", q.Key, err)
		}

		// Full precision is stored; the cell format only controls display.
		numFmt := "0." + strings.Repeat("0", decimals[i])
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
		if err != nil {
			return fmt.Errorf("creating number style: %w", err)
		}
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellStyle(ResultsSheet, valueCell, valueCell, style); err != nil {
			return fmt.Errorf("styling %s: %w", q.Key, err)
		}
	}

	return f.SetColWidth(ResultsSheet, "A", "A", 32)
}
