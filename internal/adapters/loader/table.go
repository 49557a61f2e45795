package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
)

// HeaderMode says how to treat the first non-blank row of a table.
type HeaderMode int

const (
	// HeaderAuto treats the first row as a header when its first two
	// cells are not both numbers.
	HeaderAuto HeaderMode = iota
	HeaderPresent
	HeaderAbsent
)

// TableOptions configures table decoding.
type TableOptions struct {
	Header HeaderMode
}

// DefaultTableOptions returns options with header auto-detection.
func DefaultTableOptions() TableOptions {
	return TableOptions{Header: HeaderAuto}
}

var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// TableDecoder reads two-column (energy, diameter) tables from CSV or XLSX.
type TableDecoder struct {
	opts TableOptions
}

// NewTableDecoder creates a table decoder.
func NewTableDecoder(opts TableOptions) *TableDecoder {
	return &TableDecoder{opts: opts}
}

// DecodeTable parses an uploaded table. Compressed payloads are unpacked
// first; the format is chosen from the content, then the filename.
func (d *TableDecoder) DecodeTable(data []byte, filename string) (entities.Dataset, error) {
	if len(data) == 0 {
		return nil, &entities.ValidationError{Reason: entities.ReasonEmptyInput, Detail: "uploaded file is empty"}
	}

	data, _, err := Decompress(data)
	if err != nil {
		return nil, &entities.ValidationError{Reason: entities.ReasonUnparsable, Detail: err.Error()}
	}
	name := stripCompressionExt(filename)

	var rows [][]string
	if bytes.HasPrefix(data, zipMagic) || strings.EqualFold(filepath.Ext(name), ".xlsx") {
		rows, err = readXLSXRows(data)
	} else {
		rows, err = readCSVRows(data)
	}
	if err != nil {
		return nil, &entities.ValidationError{Reason: entities.ReasonUnparsable, Detail: err.Error()}
	}

	return rowsToDataset(rows, d.opts)
}

// readXLSXRows returns the rows of the first sheet.
func readXLSXRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("no sheets found in XLSX file")
	}
	return f.GetRows(sheets[0])
}

// readCSVRows reads delimited text. The delimiter is guessed from the first
// non-blank line: tab, then semicolon, then comma.
func readCSVRows(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = detectDelimiter(data)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func detectDelimiter(data []byte) rune {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.Contains(line, "\t"):
			return '\t'
		case strings.Contains(line, ";"):
			return ';'
		default:
			return ','
		}
	}
	return ','
}

// rowsToDataset converts raw rows into samples. Rows are numbered from 1 as
// they appear in the source so error messages point at the right line.
func rowsToDataset(rows [][]string, opts TableOptions) (entities.Dataset, error) {
	var ds entities.Dataset
	first := true

	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}

		if first {
			first = false
			skip := opts.Header == HeaderPresent ||
				(opts.Header == HeaderAuto && !looksNumeric(row))
			if skip {
				continue
			}
		}

		if len(row) < 2 || strings.TrimSpace(row[0]) == "" || strings.TrimSpace(row[1]) == "" {
			return nil, entities.NewValidationError(entities.ReasonMissingColumns,
				"row %d needs energy and diameter", i+1).
				At(entities.Location{Row: i + 1})
		}

		energy, err := parseCell(row[0])
		if err != nil {
			return nil, entities.NewValidationError(entities.ReasonUnparsable,
				"row %d, column 1: %q", i+1, row[0]).
				At(entities.Location{Row: i + 1, Column: 1, Text: row[0]})
		}
		diameter, err := parseCell(row[1])
		if err != nil {
			return nil, entities.NewValidationError(entities.ReasonUnparsable,
				"row %d, column 2: %q", i+1, row[1]).
				At(entities.Location{Row: i + 1, Column: 2, Text: row[1]})
		}
		ds = append(ds, entities.SamplePair{Energy: energy, Diameter: diameter})
	}

	if len(ds) == 0 {
		return nil, &entities.ValidationError{Reason: entities.ReasonEmptyInput, Detail: "no data rows found"}
	}
	return ds, nil
}

func parseCell(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func looksNumeric(row []string) bool {
	if len(row) < 2 {
		return false
	}
	_, err1 := parseCell(row[0])
	_, err2 := parseCell(row[1])
	return err1 == nil && err2 == nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
