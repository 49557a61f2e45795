// Package loader provides dataset acquisition adapters: free-text lists,
// uploaded tables and files on disk.
package loader

import (
	"strconv"
	"strings"

	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
)

// ListParser parses two comma-separated number lists.
type ListParser struct{}

// NewListParser creates a new list parser.
func NewListParser() *ListParser {
	return &ListParser{}
}

// ParseLists parses the energy and diameter lists into a dataset.
// Unequal counts are reported with the same reason the fit engine uses.
func (p *ListParser) ParseLists(energyText, diameterText string) (entities.Dataset, error) {
	energy, err := parseList(entities.FieldEnergy, energyText)
	if err != nil {
		return nil, err
	}
	diameter, err := parseList(entities.FieldDiameter, diameterText)
	if err != nil {
		return nil, err
	}

	if len(energy) != len(diameter) {
		return nil, entities.NewValidationError(entities.ReasonLengthMismatch,
			"%d energies vs %d diameters", len(energy), len(diameter))
	}
	return entities.NewDataset(energy, diameter), nil
}

// parseList splits on commas and parses each token as float64.
func parseList(field, text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, entities.NewValidationError(entities.ReasonEmptyInput, "%s list is empty", field).
			At(entities.Location{Field: field})
	}

	tokens := strings.Split(text, ",")
	values := make([]float64, 0, len(tokens))
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, entities.NewValidationError(entities.ReasonUnparsable,
				"%s value %d: %q", field, i+1, tok).
				At(entities.Location{Field: field, Item: i + 1, Text: tok})
		}
		values = append(values, v)
	}
	return values, nil
}
