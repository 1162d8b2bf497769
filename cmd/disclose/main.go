// Command disclose browses, filters, sorts, and exports US House financial
// disclosure filings from the Clerk's index XML.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"disclose/cmd/disclose/ui"
	"disclose/internal/config"
	"disclose/internal/export"
	"disclose/internal/fetch"
	"disclose/internal/ingest"
	"disclose/internal/pdfs"
	"disclose/internal/perf"
	"disclose/internal/query"
	"disclose/internal/record"
	"disclose/internal/stats"
	"disclose/internal/watch"
	"disclose/internal/window"
)

var (
	// Global flags
	cfgFile    string
	verbose    bool
	sourcePath string
	sourceURL  string

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "disclose",
	Short: "Browse House financial-disclosure filings",
	Long: `disclose loads the House Clerk's financial-disclosure index XML and
presents it as a searchable, sortable table. Tens of thousands of filings
stay responsive because only the visible window of rows is materialized.

Run without arguments to start the interactive browser.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = "disclose.yaml"
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		if sourcePath != "" {
			cfg.Source.Path = sourcePath
		}
		if sourceURL != "" {
			cfg.Source.URL = sourceURL
		}
		if verbose {
			cfg.Logging.Verbose = true
		}

		zcfg := zap.NewProductionConfig()
		if cfg.Logging.Verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if cfg.Logging.File != "" {
			zcfg.OutputPaths = []string{cfg.Logging.File}
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBrowse(cmd.Context())
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the (optionally filtered and sorted) view as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		term, _ := cmd.Flags().GetString("filter")
		sortBy, _ := cmd.Flags().GetString("sort")
		desc, _ := cmd.Flags().GetBool("desc")

		view, err := buildView(cmd.Context(), term, sortBy, desc)
		if err != nil {
			return err
		}

		w := os.Stdout
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := export.WriteCSV(w, view); err != nil {
			return err
		}
		if out != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", len(view), out)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print summary statistics for the dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		term, _ := cmd.Flags().GetString("filter")

		dataset, _, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		view := query.Filter(dataset, term)
		s := stats.Aggregate(dataset, view)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Total records:    %d\n", s.Total)
		fmt.Fprintf(out, "Filtered records: %d\n", s.Filtered)
		fmt.Fprintf(out, "Filing dates:     %s\n", s.DateRangeText())
		fmt.Fprintf(out, "Districts:        %d\n", s.DistinctStates)
		fmt.Fprintln(out, "Filings by type:")
		for _, ft := range sortedKeys(s.ByFilingType) {
			fmt.Fprintf(out, "  %-10s %d\n", ft, s.ByFilingType[ft])
		}
		return nil
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the index XML to a local file",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		loader := fetch.NewLoader(nil, logger)
		body, err := loader.Fetch(cmd.Context(), cfg.Source.URL)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, body, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(body), out)
		return nil
	},
}

var pdfsCmd = &cobra.Command{
	Use:   "pdfs",
	Short: "Download filing PDFs for the current view",
	RunE: func(cmd *cobra.Command, args []string) error {
		term, _ := cmd.Flags().GetString("filter")
		ftype, _ := cmd.Flags().GetString("type")
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.PDFs.Dir
		}

		dataset, _, err := loadDataset(cmd.Context())
		if err != nil {
			return err
		}
		view := query.Filter(dataset, term)

		d := pdfs.NewDownloader(nil, dir, cfg.PDFs.Concurrency, logger)
		res, err := d.Download(cmd.Context(), view, ftype)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "downloaded %d, skipped %d, failed %d (dir %s)\n",
			res.Downloaded, res.Skipped, len(res.Failures), dir)
		for _, f := range res.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %v\n", f.DocID, f.Err)
		}
		return nil
	},
}

// loadDataset reads and ingests the index document from the configured
// source. A local path wins over the URL.
func loadDataset(ctx context.Context) ([]record.Record, ingest.Report, error) {
	loader := fetch.NewLoader(nil, logger)

	var (
		body []byte
		err  error
	)
	if cfg.Source.Path != "" {
		body, err = loader.ReadFile(cfg.Source.Path)
	} else {
		body, err = loader.Fetch(ctx, cfg.Source.URL)
	}
	if err != nil {
		return nil, ingest.Report{}, err
	}

	return ingest.NewParser(logger).Parse(bytes.NewReader(body))
}

// buildView loads the dataset and applies the headless filter/sort flags.
func buildView(ctx context.Context, term, sortBy string, desc bool) ([]record.Record, error) {
	dataset, _, err := loadDataset(ctx)
	if err != nil {
		return nil, err
	}
	view := query.Filter(dataset, term)
	if sortBy != "" {
		col, err := parseColumn(sortBy)
		if err != nil {
			return nil, err
		}
		dir := query.Ascending
		if desc {
			dir = query.Descending
		}
		query.Sort(view, col, dir)
	}
	return view, nil
}

// parseColumn maps a flag value to a column identifier.
func parseColumn(name string) (record.Column, error) {
	switch strings.ToLower(name) {
	case "prefix":
		return record.ColPrefix, nil
	case "last", "lastname":
		return record.ColLastName, nil
	case "first", "firstname":
		return record.ColFirstName, nil
	case "suffix":
		return record.ColSuffix, nil
	case "type", "filingtype":
		return record.ColFilingType, nil
	case "state", "district", "statedst":
		return record.ColStateDst, nil
	case "year":
		return record.ColYear, nil
	case "date", "filingdate":
		return record.ColFilingDate, nil
	case "docid", "id":
		return record.ColDocID, nil
	}
	return 0, fmt.Errorf("unknown sort column %q", name)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// runBrowse wires the pipeline, windowing engine, and TUI together and
// hands control to bubbletea.
func runBrowse(ctx context.Context) error {
	timer := perf.NewRecorder()
	pipeline := query.NewPipeline(logger, timer)
	engine := window.NewEngine(1, 20, window.Options{
		BufferRows: cfg.Browse.BufferRows,
		Threshold:  cfg.Browse.VirtualizeThreshold,
	})

	loadCmd := func() tea.Msg {
		records, report, err := loadDataset(ctx)
		if err != nil {
			return ui.LoadFailedMsg{Err: err}
		}
		return ui.LoadedMsg{Records: records, Report: report}
	}

	exportView := func(view []record.Record) (string, error) {
		path := fmt.Sprintf("disclosures-%s.csv", time.Now().Format("20060102-150405"))
		f, err := os.Create(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		if err := export.WriteCSV(f, view); err != nil {
			os.Remove(path)
			return "", err
		}
		return path, nil
	}

	m := ui.NewModel(ui.Options{
		Pipeline:   pipeline,
		Engine:     engine,
		Debounce:   ui.NewDebouncer(time.Duration(cfg.Browse.DebounceMS) * time.Millisecond),
		LoadCmd:    loadCmd,
		ExportView: exportView,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Watch the local index file, when configured, and replace the
	// dataset wholesale on change.
	if cfg.Browse.WatchSource && cfg.Source.Path != "" {
		w, err := watch.New(cfg.Source.Path, logger)
		if err != nil {
			return err
		}
		defer w.Close()

		wctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go w.Run(wctx, func() {
			records, report, err := ingestFile(cfg.Source.Path)
			if err != nil {
				logger.Warn("reload failed, keeping current dataset", zap.Error(err))
				return
			}
			p.Send(ui.LoadedMsg{Records: records, Report: report})
		})
	}

	_, err := p.Run()

	for name, s := range timer.Snapshot() {
		logger.Debug("pipeline timing",
			zap.String("stage", name),
			zap.Int("count", s.Count),
			zap.Duration("total", s.Total),
			zap.Duration("max", s.Max))
	}
	return err
}

// ingestFile re-ingests the local index document for a watcher reload.
func ingestFile(path string) ([]record.Record, ingest.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ingest.Report{}, err
	}
	defer f.Close()
	return ingest.NewParser(logger).Parse(f)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default disclose.yaml if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&sourcePath, "source", "", "local index XML path")
	rootCmd.PersistentFlags().StringVar(&sourceURL, "url", "", "index XML URL")

	exportCmd.Flags().StringP("out", "o", "", "output file (default stdout)")
	exportCmd.Flags().String("filter", "", "search term applied before export")
	exportCmd.Flags().String("sort", "", "sort column (last, first, year, date, docid, ...)")
	exportCmd.Flags().Bool("desc", false, "sort descending")

	statsCmd.Flags().String("filter", "", "search term for the filtered counts")

	fetchCmd.Flags().StringP("out", "o", "2025FD.xml", "destination file")

	pdfsCmd.Flags().String("filter", "", "search term applied before download")
	pdfsCmd.Flags().String("type", "P", "only download filings of this type (empty for all)")
	pdfsCmd.Flags().String("dir", "", "destination directory")

	rootCmd.AddCommand(exportCmd, statsCmd, fetchCmd, pdfsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
