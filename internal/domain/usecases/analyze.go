package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
	"github.com/0xcro3dile/liufit-go/internal/domain/ports"
)

// AnalyzeRequest is one submission of the fitting form.
// When Upload is non-empty it takes precedence over the text lists.
type AnalyzeRequest struct {
	EnergyText   string
	DiameterText string
	Upload       []byte
	UploadName   string
}

// AnalyzeUseCase turns raw form input into a stored FitResult.
type AnalyzeUseCase struct {
	lists  ports.ListParser
	tables ports.TableDecoder
	store  ports.ResultStore // optional
	fp     ports.Fingerprinter
	now    func() time.Time
}

// NewAnalyzeUseCase creates an AnalyzeUseCase with injected dependencies.
// store may be nil when results need not outlive the call.
func NewAnalyzeUseCase(
	lists ports.ListParser,
	tables ports.TableDecoder,
	store ports.ResultStore,
	fp ports.Fingerprinter,
) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		lists:  lists,
		tables: tables,
		store:  store,
		fp:     fp,
		now:    time.Now,
	}
}

// Analyze acquires the dataset from the request and fits it.
func (uc *AnalyzeUseCase) Analyze(ctx context.Context, req AnalyzeRequest) (*entities.FitResult, error) {
	var (
		ds  entities.Dataset
		err error
	)
	source, name := entities.SourceManual, ""

	if len(req.Upload) > 0 {
		source, name = entities.SourceUpload, req.UploadName
		ds, err = uc.tables.DecodeTable(req.Upload, req.UploadName)
	} else {
		ds, err = uc.lists.ParseLists(req.EnergyText, req.DiameterText)
	}
	if err != nil {
		return nil, err
	}

	return uc.AnalyzeDataset(ctx, ds, source, name)
}

// AnalyzeDataset fits an already acquired dataset, stamps it and stores it.
func (uc *AnalyzeUseCase) AnalyzeDataset(
	ctx context.Context,
	ds entities.Dataset,
	source entities.Source,
	name string,
) (*entities.FitResult, error) {
	result, err := Fit(ds)
	if err != nil {
		return nil, err
	}

	result.ID = uc.fp.Fingerprint(ds)
	result.Source = source
	result.SourceName = name
	result.CreatedAt = uc.now()

	if uc.store != nil {
		if err := uc.store.Put(ctx, result); err != nil {
			return nil, fmt.Errorf("storing result: %w", err)
		}
	}
	return result, nil
}

// AnalyzeSeries fits parallel energy and diameter series from a structured
// client. Length mismatches are reported before pairing.
func (uc *AnalyzeUseCase) AnalyzeSeries(ctx context.Context, energy, diameter []float64) (*entities.FitResult, error) {
	if len(energy) != len(diameter) {
		// FitSeries owns the canonical message.
		_, err := FitSeries(energy, diameter)
		return nil, err
	}
	return uc.AnalyzeDataset(ctx, entities.NewDataset(energy, diameter), entities.SourceManual, "")
}

// CachedResults returns how many results are held for follow-up requests.
func (uc *AnalyzeUseCase) CachedResults() int {
	if uc.store == nil {
		return 0
	}
	return uc.store.Len()
}

// Lookup returns a previously stored result.
func (uc *AnalyzeUseCase) Lookup(ctx context.Context, id string) (*entities.FitResult, bool) {
	if uc.store == nil || id == "" {
		return nil, false
	}
	return uc.store.Get(ctx, id)
}
