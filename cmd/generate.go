package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dragsbruh/notfoundgen/internal/config"
	"github.com/dragsbruh/notfoundgen/internal/fetch"
	"github.com/dragsbruh/notfoundgen/internal/generator"
	"github.com/dragsbruh/notfoundgen/internal/meta"
	"github.com/dragsbruh/notfoundgen/internal/output"
	"github.com/dragsbruh/notfoundgen/internal/render"
	"github.com/dragsbruh/notfoundgen/internal/ui"
	"github.com/dragsbruh/notfoundgen/internal/util"

	"github.com/spf13/cobra"
)

var (
	// source
	flagBaseURL  string
	flagPages    []string
	flagTemplate string
	flagMarker   string

	// output
	flagOutput   string
	flagFilename string
	flagDryRun   bool

	// fetching
	flagWorkers          int
	flagTimeout          time.Duration
	flagUserAgent        string
	flagCloudflareBypass bool
	flagRender           bool
	flagBrowserURL       string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Scrape the configured pages and write their 404 fallbacks. Uses the selected config, overwritten by CLI flags",
	RunE:  runGenerate,
}

func init() {
	// source
	generateCmd.Flags().StringVar(&flagBaseURL, "base-url", "", "site the page paths are resolved against")
	generateCmd.Flags().StringSliceVar(&flagPages, "page", nil, "site path to generate (repeatable, e.g. --page / --page /tea)")
	generateCmd.Flags().StringVar(&flagTemplate, "template", "", "HTML template file")
	generateCmd.Flags().StringVar(&flagMarker, "marker", "", "placeholder replaced by the scraped head tags")

	// output
	generateCmd.Flags().StringVar(&flagOutput, "output", "", "output folder")
	generateCmd.Flags().StringVar(&flagFilename, "filename", "", "file name written into each page folder")
	generateCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "show what would be generated, don't fetch or write")

	// fetching
	generateCmd.Flags().IntVar(&flagWorkers, "workers", 1, "pages processed at once")
	generateCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "per-request timeout (0 = none)")
	generateCmd.Flags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
	generateCmd.Flags().BoolVar(&flagCloudflareBypass, "cloudflare-bypass", false, "send browser-like TLS and headers to pass Cloudflare checks")
	generateCmd.Flags().BoolVar(&flagRender, "render", false, "load pages in a headless browser before scraping")
	generateCmd.Flags().StringVar(&flagBrowserURL, "browser-url", "", "DevTools URL of a running browser (implies --render)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, usedPath, err := config.LoadMerged(config.Options{
		IgnoreConfig:     flagIgnoreConfig,
		Debug:            flagDebug,
		BaseURL:          flagBaseURL,
		Pages:            flagPages,
		Template:         flagTemplate,
		Marker:           flagMarker,
		Output:           flagOutput,
		Filename:         flagFilename,
		UserAgent:        flagUserAgent,
		CloudflareBypass: flagCloudflareBypass,
		Render:           flagRender || flagBrowserURL != "",
		BrowserURL:       flagBrowserURL,
	})
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = flagTimeout
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logSvc := ui.NewLogger(cfg.Debug)
	defer logSvc.Sync()

	out := cmd.OutOrStdout()

	if usedPath != "" {
		fmt.Fprintf(out, "Config file: %s\n", usedPath)
	}

	fmt.Fprintln(out, "Full config:")
	cfg.Print(out)
	fmt.Fprintln(out)

	tmpl, err := render.LoadTemplate(cfg.Template, cfg.Marker)
	if err != nil {
		return err
	}

	writer := output.NewWriter(cfg.Output, cfg.Filename)

	if flagDryRun {
		return dryRun(out, cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	util.SetupInterruptHandler(cancel, cfg.Output, output.TempSuffix)

	fetcher, closeFetcher, err := newFetcher(ctx, cfg, logSvc)
	if err != nil {
		return err
	}
	defer closeFetcher()

	pm := ui.NewProgressManager(out)
	handle := pm.Register("Pages")
	stats := &ui.Stats{}

	gen, err := generator.New(
		cfg.BaseURL,
		meta.NewScraper(fetcher, logSvc),
		tmpl,
		writer,
		logSvc,
		generator.WithWorkers(cfg.Workers),
		generator.WithStats(stats),
		generator.WithProgress(handle),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	runErr := gen.Run(ctx, cfg.Pages)
	pm.Close()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Generate Summary:")
	fmt.Fprintf(out, "Pages:    %d/%d\n", stats.TotalPages.Load(), len(cfg.Pages))
	fmt.Fprintf(out, "No meta:  %d\n", stats.EmptyPages.Load())
	fmt.Fprintf(out, "Data:     %s\n", util.Human(stats.TotalBytes.Load()))
	fmt.Fprintf(out, "Time:     %s\n", time.Since(start).Round(time.Millisecond))

	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(out, "\nAll done.")
	return nil
}

func newFetcher(ctx context.Context, cfg *config.Config, logSvc *ui.Logger) (meta.Fetcher, func(), error) {
	if cfg.Render {
		bf, err := fetch.NewBrowserFetcher(ctx, cfg.BrowserURL, cfg.Timeout, logSvc)
		if err != nil {
			return nil, nil, err
		}

		return bf, func() {
			if err := bf.Close(); err != nil {
				logSvc.Debugf("Closing browser: %v", err)
			}
		}, nil
	}

	client, err := fetch.NewHTTPClient(fetch.HTTPClientOptions{
		Timeout:          cfg.Timeout,
		UserAgent:        fetch.PickUserAgent(cfg.UserAgent),
		CloudflareBypass: cfg.CloudflareBypass,
		DebugLogger:      logSvc,
	})
	if err != nil {
		return nil, nil, err
	}

	return fetch.NewHTTPFetcher(client, logSvc), client.CloseIdleConnections, nil
}

func dryRun(out io.Writer, cfg *config.Config) error {
	gen, err := generator.New(cfg.BaseURL, nil, nil, nil, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Dry-run: %d pages configured.\n\n", len(cfg.Pages))
	for i, page := range cfg.Pages {
		target, err := gen.PageURL(page)
		if err != nil {
			return fmt.Errorf("page %s: %w", page, err)
		}

		path, err := output.Path(cfg.Output, page, cfg.Filename)
		if err != nil {
			return fmt.Errorf("page %s: %w", page, err)
		}

		fmt.Fprintf(out, "%3d) %s\n    %s -> %s\n", i+1, page, target, path)
	}

	return nil
}
