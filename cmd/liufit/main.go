// Command liufit fits Liu method ablation data from the command line, a
// watched directory or a small web form.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/0xcro3dile/liufit-go/internal/adapters/chart"
	"github.com/0xcro3dile/liufit-go/internal/adapters/exporter"
	"github.com/0xcro3dile/liufit-go/internal/adapters/filewatcher"
	"github.com/0xcro3dile/liufit-go/internal/adapters/i18n"
	"github.com/0xcro3dile/liufit-go/internal/adapters/loader"
	"github.com/0xcro3dile/liufit-go/internal/adapters/resultstore"
	"github.com/0xcro3dile/liufit-go/internal/config"
	"github.com/0xcro3dile/liufit-go/internal/domain/usecases"
	httpserver "github.com/0xcro3dile/liufit-go/internal/infrastructure/http"
)

const usage = `usage: liufit <command> [flags]

commands:
  serve   run the web form
  fit     fit one file or two comma-separated lists and print the results
  watch   fit every data file dropped into a directory

run "liufit <command> -h" for command flags`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "serve":
		err = runServe(ctx, args)
	case "fit":
		err = runFit(ctx, args, os.Stdout)
	case "watch":
		err = runWatch(ctx, args)
	case "-h", "-help", "--help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n%s\n", cmd, usage)
		os.Exit(2)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// commonFlags are shared by every command. Flags given explicitly override
// the config file.
type commonFlags struct {
	configPath string
	lang       string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML config file")
	fs.StringVar(&c.lang, "lang", "", "output language: zh or en")
}

func (c *commonFlags) load() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.lang != "" {
		cfg.Language = c.lang
	}
	return cfg, cfg.Validate()
}

func newAnalyzeUseCase(cfg config.Config) *usecases.AnalyzeUseCase {
	return usecases.NewAnalyzeUseCase(
		loader.NewListParser(),
		loader.NewTableDecoder(loader.DefaultTableOptions()),
		resultstore.NewInMemoryStore(cfg.CacheSize),
		resultstore.NewFingerprinter(),
	)
}

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	addr := fs.String("addr", "", "listen address (default from config, :8080)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	srv, err := httpserver.NewServer(
		newAnalyzeUseCase(cfg),
		i18n.NewCatalog(cfg.Language),
		chart.NewRenderer(cfg.Chart.WidthPx, cfg.Chart.HeightPx),
		exporter.NewXLSXExporter(),
		cfg.MaxUploadBytes,
		cfg.Addr,
	)
	if err != nil {
		return err
	}
	return srv.Start(ctx)
}

func runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	dir := fs.String("dir", "", "directory to watch (default from config, ./incoming)")
	out := fs.String("out", "", "report directory (default: next to each input)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := common.load()
	if err != nil {
		return err
	}
	if *dir != "" {
		cfg.Watch.Dir = *dir
	}
	if *out != "" {
		cfg.Watch.OutputDir = *out
	}

	xlsx := exporter.NewXLSXExporter()
	batch := usecases.NewBatchUseCase(
		loader.NewMultiLoader(nil),
		xlsx,
		i18n.NewCatalog(cfg.Language).For(cfg.Language),
		resultstore.NewFingerprinter(),
		cfg.Watch.OutputDir,
	)

	watcher, err := filewatcher.NewFSNotifyWatcher(cfg.Watch.Patterns,
		[]string{"*" + usecases.ReportSuffix + xlsx.Extension(), ".liufit-*"})
	if err != nil {
		return err
	}
	defer watcher.Stop()

	events, err := watcher.Watch(ctx, cfg.Watch.Dir)
	if err != nil {
		return fmt.Errorf("watching %s: %w", cfg.Watch.Dir, err)
	}
	log.Printf("[INFO] watching %s for %s", cfg.Watch.Dir, strings.Join(batch.SupportedExtensions(), " "))

	return batch.Run(ctx, events)
}
