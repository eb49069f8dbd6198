package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/placescout/placescout/internal/config"
	"github.com/placescout/placescout/internal/database"
	"github.com/placescout/placescout/internal/finder"
	"github.com/placescout/placescout/internal/log"
	"github.com/placescout/placescout/internal/model"
	"github.com/placescout/placescout/internal/pipeline"
	"github.com/placescout/placescout/internal/places"
	"github.com/placescout/placescout/internal/report"
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search business listings and save them to CSV",
		Long: `Search queries the Places text-search API for businesses of a given
specialty across one or more locations, follows every result page, looks
up each listing's details, and writes the records to CSV.

The API key is read from the GOOGLE_MAPS_API_KEY environment variable
(a .env file in the working directory is consulted first).

Examples:
  # Search one specialty across two cities
  placescout search --specialty dentists --places "Mumbai,Delhi"

  # Free-text query
  placescout search --query "pediatricians in Pune"

  # One CSV file per location
  placescout search -s dentists -p "Mumbai;Delhi" --separate-files

  # Cap results per location and print the summary as JSON
  placescout search -s plumbers -p Mumbai -n 20 --json

Configuration file (.placescout) example:
  specialty: dentists
  places:
    - Mumbai
    - Delhi
  max_results: 0
  page_delay: 2s`,
		Args: cobra.NoArgs,
		RunE: runSearchCmd,
	}

	// Query flags
	cmd.Flags().StringP("query", "q", "",
		"Free-text search query (mutually exclusive with --specialty)")
	cmd.Flags().StringP("specialty", "s", "",
		"Business category combined with each place, e.g. dentists")
	cmd.Flags().StringP("places", "p", "",
		"Comma- or semicolon-separated location list (default: config file list)")
	cmd.Flags().IntP("max-results", "n", config.DefaultMaxResults,
		"Maximum records per location (0 = unlimited)")

	// Output flags
	cmd.Flags().StringP("output", "o", "",
		"CSV output path (default: derived from the query)")
	cmd.Flags().Bool("separate-files", false,
		"Write one CSV file per location instead of one combined file")
	cmd.Flags().BoolP("json", "j", false,
		"Print the run summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the run summary as Markdown (mutually exclusive with --json)")

	// Pacing flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Transport timeout for each API request")
	cmd.Flags().Duration("page-delay", config.DefaultPageDelay,
		"Wait before fetching a continuation page")
	cmd.Flags().Duration("location-delay", config.DefaultLocationDelay,
		"Pause between locations")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .placescout in current or home directory)")
	cmd.Flags().Bool("no-save", false,
		"Skip recording the run in the history database")

	return cmd
}

// runSearchCmd executes the search command.
func runSearchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// The redacting handler keeps API keys out of log output even when a
	// request URL ends up in an error message.
	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Interrupt cancels the context; collected records are still written.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing up...")
		cancel()
	}()

	return runSearch(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags plus the optional
// configuration file. Precedence: flags > config file > built-in defaults.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.FreeQuery, err = cmd.Flags().GetString("query")
	if err != nil {
		return nil, err
	}

	cfg.Specialty, err = cmd.Flags().GetString("specialty")
	if err != nil {
		return nil, err
	}

	placeList, err := cmd.Flags().GetString("places")
	if err != nil {
		return nil, err
	}
	cfg.Places = config.ParsePlaces(placeList)

	cfg.MaxResults, err = cmd.Flags().GetInt("max-results")
	if err != nil {
		return nil, err
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.SeparateFiles, err = cmd.Flags().GetBool("separate-files")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.PageDelay, err = cmd.Flags().GetDuration("page-delay")
	if err != nil {
		return nil, err
	}

	cfg.LocationDelay, err = cmd.Flags().GetDuration("location-delay")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	cfg.Verbose = getVerboseFlag(cmd)

	// Config file: an explicitly named file must exist; the default search
	// locations are optional.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}

		// Delays and timeout set on the command line win over file values.
		flagTimeout := cfg.Timeout
		flagPageDelay := cfg.PageDelay
		flagLocationDelay := cfg.LocationDelay
		cfg.ApplyFile(file)
		if cmd.Flags().Changed("timeout") {
			cfg.Timeout = flagTimeout
		}
		if cmd.Flags().Changed("page-delay") {
			cfg.PageDelay = flagPageDelay
		}
		if cmd.Flags().Changed("location-delay") {
			cfg.LocationDelay = flagLocationDelay
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.APIKey = config.LoadAPIKey()

	return cfg, nil
}

// runSearch executes the search run.
func runSearch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.APIKey == "" {
		logger.Warn("no API key found; requests will be denied",
			"env", config.EnvAPIKey,
		)
	}

	var db *database.HistoryDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close() //nolint:errcheck // read-side close
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	client := places.NewClient(cfg.APIKey,
		&http.Client{Timeout: cfg.Timeout},
		places.WithMaxRetries(cfg.MaxRetries),
		places.WithRetryBaseDelay(cfg.RetryBaseDelay),
		places.WithLogger(logger),
	)

	f := finder.New(client,
		finder.WithMaxResults(cfg.MaxResults),
		finder.WithPageDelay(cfg.PageDelay),
		finder.WithLogger(logger),
	)

	p := pipeline.New(f,
		pipeline.WithLocationDelay(cfg.LocationDelay),
		pipeline.WithLogger(logger),
	)

	startedAt := time.Now()
	queryText := cfg.FreeQuery

	var results *model.ResultSet
	var err error
	if cfg.FreeQuery != "" {
		fmt.Printf("Searching %q...\n", cfg.FreeQuery)
		results, err = p.RunQuery(ctx, model.NewFreeTextQuery(cfg.FreeQuery))
	} else {
		queryText = cfg.Specialty
		fmt.Printf("Searching %q across %d location(s)...\n", cfg.Specialty, len(cfg.Places))
		results, err = p.Run(ctx, cfg.Specialty, cfg.Places)
	}

	if err != nil && results.Len() == 0 {
		printAPIHint(err)
		return fmt.Errorf("search failed: %w", err)
	}

	elapsed := time.Since(startedAt)
	fmt.Printf("Collected %d record(s) in %s\n", results.Len(), elapsed.Round(time.Millisecond))

	if err := saveResults(cfg, results); err != nil {
		if errors.Is(err, report.ErrNothingToWrite) {
			fmt.Println("No records collected; nothing written.")
		} else {
			return err
		}
	}

	if err := outputSummary(cfg, results); err != nil {
		logger.Error("summary output failed", "error", err)
	}

	if db != nil {
		run := database.SearchRun{
			Query:     queryText,
			Specialty: cfg.Specialty,
			Places:    cfg.Places,
			StartedAt: startedAt,
		}
		if id, err := saveHistory(ctx, db, run, results); err != nil {
			logger.Error("failed to save run to history", "error", err)
		} else {
			logger.Info("run saved to history", "id", id)
		}
	}

	return nil
}

// saveHistory records the run in the history database.
// The run context is already cancelled after an interrupt, but the partial
// results still have to be recorded, so the save runs on a detached context.
func saveHistory(ctx context.Context, db *database.HistoryDB, run database.SearchRun, results *model.ResultSet) (int64, error) {
	return db.SaveSearch(context.WithoutCancel(ctx), run, results)
}

// saveResults writes the collected records to CSV.
func saveResults(cfg *config.Config, results *model.ResultSet) error {
	if cfg.SeparateFiles {
		dir := "."
		if cfg.OutputFile != "" {
			dir = filepath.Dir(cfg.OutputFile)
		}
		paths, err := report.SaveSeparateCSV(dir, cfg.Specialty, results)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Printf("Saved %s\n", p)
		}
		return nil
	}

	path := cfg.OutputFile
	if path == "" {
		query := cfg.FreeQuery
		if query == "" {
			query = cfg.Specialty
		}
		path = report.DefaultFileName(query)
	}

	if err := report.SaveCSV(path, results.Records); err != nil {
		return err
	}
	fmt.Printf("Saved %s\n", path)
	return nil
}

// outputSummary prints the run summary in the requested format.
func outputSummary(cfg *config.Config, results *model.ResultSet) error {
	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(os.Stdout)
	default:
		w = report.NewSimpleWriter(os.Stdout)
	}

	_, err := w.Write(results)
	return err
}

// printAPIHint prints actionable guidance for typed API failures.
func printAPIHint(err error) {
	switch {
	case places.IsQuotaExceeded(err):
		fmt.Fprintln(os.Stderr, "The API reported OVER_QUERY_LIMIT.")
		fmt.Fprintln(os.Stderr, "  - Check the quota usage in the Google Cloud console")
		fmt.Fprintln(os.Stderr, "  - Wait for the quota window to reset, or raise the limit")
	case places.IsRequestDenied(err):
		fmt.Fprintln(os.Stderr, "The API reported REQUEST_DENIED.")
		fmt.Fprintf(os.Stderr, "  - Check that %s is set and valid\n", config.EnvAPIKey)
		fmt.Fprintln(os.Stderr, "  - Make sure the Places API is enabled for the key's project")
		fmt.Fprintln(os.Stderr, "  - Check the key's API restrictions")
	}
}
