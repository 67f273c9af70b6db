// Package main provides the rolodex command, an interactive terminal address
// book and notebook. Every change is saved as it is made.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/rolodex/pkg/config"
	"github.com/entrhq/rolodex/pkg/logging"
	"github.com/entrhq/rolodex/pkg/session"
	"github.com/entrhq/rolodex/pkg/storage"
	"github.com/entrhq/rolodex/pkg/types"
	"github.com/entrhq/rolodex/pkg/ui"
	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

// options holds command-line overrides applied on top of the config file.
type options struct {
	configPath string
	dataFile   string
	backend    string
	locale     string
	verbose    bool
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reads from the terminal cannot be interrupted, so a signal ends the
	// process; every change has already been saved.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		fmt.Fprintln(os.Stdout)
		os.Exit(130)
	}()

	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "rolodex",
		Short: "Keep contacts and notes in the terminal",
		Long: `rolodex is a menu-driven address book and notebook.

Type 'help' at any prompt to see the commands available there, 'menu' to go
back one level and 'exit' to leave. Data is saved after every change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, in, out)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.rolodex/config.yaml)")
	flags.StringVar(&opts.dataFile, "data", "", "data file (default ~/.rolodex/rolodex.json or rolodex.db)")
	flags.StringVar(&opts.backend, "backend", "", "storage backend: json|sqlite")
	flags.StringVar(&opts.locale, "locale", "", "message language, e.g. en-US")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "write debug entries to the session log")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rolodex v%s\n", version)
		},
	})

	return rootCmd
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.dataFile != "" {
		cfg.DataFile = opts.dataFile
	}
	if opts.backend != "" {
		cfg.Backend = opts.backend
	}
	if opts.locale != "" {
		cfg.Locale = opts.locale
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, opts *options, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// A logger that could not open its file still writes to stderr
	log, _ := logging.NewLogger("rolodex", cfg.LogDir, cfg.LogLevel)
	defer log.Close()
	log.Infof("starting rolodex v%s with %s backend", version, cfg.Backend)

	catalog, err := ui.NewCatalog(cfg.Locale)
	if err != nil {
		return err
	}
	term := ui.NewTerminal(catalog,
		ui.WithInput(in),
		ui.WithOutput(out),
		ui.WithConfirmRetries(cfg.ConfirmRetries),
	)

	store, err := storage.Open(cfg.Backend, cfg.DataFile, log.Named("storage"))
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	book, notebook, err := storage.Load(store, log.Named("storage"))
	if err != nil {
		if keyed, ok := types.AsKeyed(err); ok {
			term.Warning(keyed.Key(), keyed.Params())
		} else {
			return err
		}
	}
	storage.NewAutosaver(store, book, notebook, log.Named("autosave"))

	s := session.New(book, notebook, term,
		session.WithLogger(log.Named("session")),
		session.WithMaxBirthdayDays(cfg.BirthdayMaxDays),
	)
	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Infof("session ended with %d contacts and %d notes", book.Len(), notebook.Len())
	return nil
}
