package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/yogeshc/csv2rds/internal/config"
	"github.com/yogeshc/csv2rds/internal/dataset"
	"github.com/yogeshc/csv2rds/internal/errs"
	"github.com/yogeshc/csv2rds/internal/history"
	"github.com/yogeshc/csv2rds/internal/loader"
	"github.com/yogeshc/csv2rds/internal/logging"
	"github.com/yogeshc/csv2rds/internal/version"

	_ "github.com/yogeshc/csv2rds/internal/driver/mssql"
	_ "github.com/yogeshc/csv2rds/internal/driver/mysql"
	_ "github.com/yogeshc/csv2rds/internal/driver/postgres"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logging.Error("%v", err)
		os.Exit(errs.ExitCodeForError(err))
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    version.Name,
		Usage:   version.Description,
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.ini",
				Usage:   "Path to the INI file with the [RDS] section",
			},
			&cli.StringFlag{
				Name:  "defaults",
				Value: "csv2rds.yaml",
				Usage: "Path to the optional YAML defaults file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: text or json",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "load",
				Usage:     "Load a CSV file into a database table",
				ArgsUsage: "<csv-file> <table>",
				Action:    runLoad,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "engine",
						Usage: "Target engine: mysql, postgres, mssql",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Rows per insert batch",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent batch writers",
					},
					&cli.BoolFlag{
						Name:  "replace",
						Usage: "Drop and recreate the table before loading",
					},
					&cli.BoolFlag{
						Name:  "no-progress",
						Usage: "Disable the progress bar",
					},
				},
			},
			{
				Name:      "validate",
				Usage:     "Run the pre-flight checks on a CSV file without loading it",
				ArgsUsage: "<csv-file>",
				Action:    runValidate,
			},
			{
				Name:   "history",
				Usage:  "List recorded load runs, or view details of a specific run",
				Action: showHistory,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "run",
						Usage: "Show details for a specific run ID",
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "Maximum runs to list (0 for all)",
					},
				},
			},
		},
	}
}

// loadDefaults reads the defaults file and applies logging flags on top.
func loadDefaults(c *cli.Context) (*config.Defaults, error) {
	defaults, err := config.LoadDefaults(c.String("defaults"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		defaults.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") {
		defaults.LogFormat = c.String("log-format")
	}

	level, err := logging.ParseLevel(defaults.LogLevel)
	if err != nil {
		return nil, errs.Configuration("%v", err)
	}
	logging.SetLevel(level)
	logging.SetFormat(defaults.LogFormat)
	return defaults, nil
}

func runLoad(c *cli.Context) error {
	if c.NArg() != 2 {
		return errs.Configuration("usage: %s load <csv-file> <table>", version.Name)
	}
	csvPath, table := c.Args().Get(0), c.Args().Get(1)

	defaults, err := loadDefaults(c)
	if err != nil {
		return err
	}
	if c.IsSet("engine") {
		defaults.Engine = c.String("engine")
	}
	if c.IsSet("chunk-size") {
		defaults.ChunkSize = c.Int("chunk-size")
	}
	if c.IsSet("workers") {
		defaults.Workers = c.Int("workers")
	}
	logging.Debug("Effective settings: %s", defaults)

	policy := loader.PolicyAppend
	if c.Bool("replace") {
		policy = loader.PolicyReplace
	}

	opts := loader.Options{
		ConfigPath:   c.String("config"),
		Engine:       defaults.Engine,
		Policy:       policy,
		Workers:      defaults.Workers,
		ShowProgress: defaults.ShowProgress() && !c.Bool("no-progress"),
	}

	// History is best effort. A broken store logs a warning and the
	// load goes ahead unrecorded.
	if defaults.HistoryPath != "" {
		store, err := history.Open(defaults.HistoryPath)
		if err != nil {
			logging.Warn("Load history unavailable: %v", err)
		} else {
			defer store.Close()
			opts.History = store
		}
	}

	l := loader.New(opts)
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted.")
		cancel()
	}()

	_, err = l.LoadFile(ctx, csvPath, table, defaults.ChunkSize)
	return err
}

func runValidate(c *cli.Context) error {
	if c.NArg() != 1 {
		return errs.Configuration("usage: %s validate <csv-file>", version.Name)
	}
	path := c.Args().Get(0)

	if _, err := loadDefaults(c); err != nil {
		return err
	}

	if ok, msg := dataset.ValidateFile(path); !ok {
		return errs.Validation("%s", msg)
	}
	fmt.Printf("%s: OK\n", path)
	return nil
}

func showHistory(c *cli.Context) error {
	defaults, err := loadDefaults(c)
	if err != nil {
		return err
	}
	if defaults.HistoryPath == "" {
		return errs.Configuration("history_path is not set in the defaults file")
	}

	store, err := history.Open(defaults.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if runID := c.String("run"); runID != "" {
		run, err := store.GetRun(runID)
		if err != nil {
			return err
		}
		printRunDetails(run)
		return nil
	}

	runs, err := store.ListRuns(c.Int("limit"))
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No load runs recorded.")
		return nil
	}

	fmt.Printf("%-36s  %-19s  %-8s  %10s  %s\n", "RUN ID", "STARTED", "STATUS", "ROWS", "TABLE")
	for _, run := range runs {
		fmt.Printf("%-36s  %-19s  %-8s  %10d  %s\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Status,
			run.RowsLoaded,
			run.TableName,
		)
	}
	return nil
}

func printRunDetails(run *history.Run) {
	fmt.Printf("Run:      %s\n", run.ID)
	fmt.Printf("File:     %s\n", run.CSVPath)
	fmt.Printf("Table:    %s\n", run.TableName)
	fmt.Printf("Engine:   %s\n", run.Engine)
	fmt.Printf("Status:   %s\n", run.Status)
	fmt.Printf("Rows:     %d\n", run.RowsLoaded)
	fmt.Printf("Started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if !run.FinishedAt.IsZero() {
		fmt.Printf("Finished: %s (%s)\n", run.FinishedAt.Format("2006-01-02 15:04:05"), run.Duration().Round(0))
	}
	if run.Error != "" {
		fmt.Printf("Error:    %s\n", run.Error)
	}
}
