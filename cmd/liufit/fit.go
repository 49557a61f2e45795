package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/0xcro3dile/liufit-go/internal/adapters/chart"
	"github.com/0xcro3dile/liufit-go/internal/adapters/exporter"
	"github.com/0xcro3dile/liufit-go/internal/adapters/i18n"
	"github.com/0xcro3dile/liufit-go/internal/adapters/report"
	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
	"github.com/0xcro3dile/liufit-go/internal/domain/usecases"
)

// runFit handles "liufit fit". A file argument takes precedence over the
// -energy and -diameter lists, mirroring the web form.
func runFit(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("fit", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	energy := fs.String("energy", "", "comma-separated pulse energies in μJ")
	diameter := fs.String("diameter", "", "comma-separated crater diameters in μm")
	xlsxOut := fs.String("o", "", "write an .xlsx report to this path")
	pngOut := fs.String("chart", "", "write the chart as PNG to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	tr := i18n.NewCatalog(cfg.Language).For(cfg.Language)
	analyze := newAnalyzeUseCase(cfg)

	req := usecases.AnalyzeRequest{EnergyText: *energy, DiameterText: *diameter}
	switch fs.NArg() {
	case 0:
		if *energy == "" && *diameter == "" {
			fs.Usage()
			return errors.New("a data file or -energy and -diameter are required")
		}
	case 1:
		name := fs.Arg(0)
		data, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		req.Upload, req.UploadName = data, name
	default:
		return fmt.Errorf("expected at most one data file, got %d", fs.NArg())
	}

	result, err := analyze.Analyze(ctx, req)
	if err != nil {
		if entities.IsValidation(err) || entities.IsNumeric(err) {
			return errors.New(report.ErrorMessage(err, tr))
		}
		return err
	}

	if err := printReport(stdout, report.Build(result, tr)); err != nil {
		return err
	}

	if *xlsxOut != "" {
		if err := writeFile(*xlsxOut, func(w io.Writer) error {
			return exporter.NewXLSXExporter().Export(w, result, tr)
		}); err != nil {
			return err
		}
	}
	if *pngOut != "" {
		img, err := chart.NewRenderer(cfg.Chart.WidthPx, cfg.Chart.HeightPx).Render(result, tr)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*pngOut, img, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func printReport(w io.Writer, rep report.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, q := range rep.Quantities {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", q.Label, q.Value, q.Unit)
	}
	for _, q := range rep.Coefficients {
		fmt.Fprintf(tw, "%s\t%s\t\n", q.Label, q.Value)
	}
	fmt.Fprintln(tw)

	for i, h := range rep.Headers {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, h)
	}
	fmt.Fprintln(tw)
	for _, r := range rep.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Energy, r.LnEnergy, r.Diameter, r.DiameterSq)
	}
	return tw.Flush()
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
