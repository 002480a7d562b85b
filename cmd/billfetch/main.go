package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/awalczyk/billfetch"
	"github.com/awalczyk/billfetch/etree"
	"github.com/awalczyk/billfetch/fs"
	"github.com/awalczyk/billfetch/goquery"
	billhttp "github.com/awalczyk/billfetch/http"
	"github.com/awalczyk/billfetch/scrape"
	billslog "github.com/awalczyk/billfetch/slog"
	"github.com/awalczyk/billfetch/sqlite"
)

func main() {
	// Load .env file if it exists.
	_ = godotenv.Load()

	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("billfetch"),
		kong.Description("Scan for and download congressional bill documents"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}
	if err := cli.Validate(); err != nil {
		return err
	}

	// Wire dependencies
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		APIKey: os.Getenv("GOVINFO_API_KEY"),
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	osFs := afero.NewOsFs()
	downloadsRoot := filepath.Join(cli.Path, "downloads")

	store := fs.NewStore(osFs, downloadsRoot)
	if err := store.EnsureRoot(); err != nil {
		return fmt.Errorf("failed to create downloads directory: %w", err)
	}

	var ledger billfetch.Ledger = fs.NewLedger(osFs, filepath.Join(downloadsRoot, fs.LedgerFileName), logger)
	var prober billfetch.Prober = billhttp.NewProber(billhttp.WithProberTimeout(cli.Timeout))
	if cli.Verbose {
		ledger = billslog.NewLoggingLedger(ledger, logger)
		prober = billslog.NewLoggingProber(prober, logger)
	}

	downloader := billhttp.NewDownloader(billhttp.WithDownloaderTimeout(cli.Timeout))

	// The catalog is a convenience index; failing to open it degrades to
	// running without one rather than aborting the scan.
	var catalog billfetch.Catalog
	if !cli.NoCatalog {
		dataDir := filepath.Join(cli.Path, "scraped_data")
		if err := osFs.MkdirAll(dataDir, 0o755); err != nil {
			logger.Warn("catalog disabled", "error", err)
		} else {
			db := sqlite.NewDB(filepath.Join(dataDir, "catalog.db"))
			if err := db.Open(); err != nil {
				logger.Warn("catalog disabled", "error", err)
			} else {
				defer db.Close()
				catalog = sqlite.NewCatalogService(db)
			}
		}
	}

	deps.Runner = &scrape.Runner{
		BaseURL: cli.BaseURL,
		Prober:  prober,
		Fetcher: scrape.NewFetcher(downloader, store),
		Ledger:  ledger,
		Pacer:   scrape.NewRatePacer(cli.ProbeRPS, cli.DownloadRPS),
		Catalog: catalog,
		Titles: map[billfetch.Format]billfetch.TitleExtractor{
			billfetch.FormatXML: etree.NewTitleExtractor(),
			billfetch.FormatHTM: goquery.NewTitleExtractor(),
		},
		Logger:      logger,
		Concurrency: cli.Concurrency,
	}

	cmd := &RunCmd{
		Congress: cli.Congress,
		Start:    cli.Start,
		End:      cli.End,
		URLs:     cli.URLs,
		Force:    cli.Force,
	}
	// Validated above.
	cmd.Types, _ = cli.billTypes()
	cmd.Formats, _ = cli.formats()

	return cmd.Run(deps)
}
