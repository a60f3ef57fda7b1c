package main

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"tunebridge/internal/extractor"
	"tunebridge/internal/resolver"
	"tunebridge/internal/services"
	"tunebridge/internal/shared"
	"tunebridge/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	catalog    services.SourceCatalog
	platform   services.VideoPlatform
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.SourceCatalog
	Platform   services.VideoPlatform
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		platform:   opts.Platform,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, convertCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// newEngine wires the conversion pipeline against the given video platform.
// The catalog must have been initialized from Spotify credentials.
func (r *Runner) newEngine(platform services.VideoPlatform) (*tasks.ConvertEngine, error) {
	if r.catalog == nil {
		return nil, fmt.Errorf("%w: Spotify credentials not configured", shared.ErrMissingCredentials)
	}

	cfg := r.config.Resolver
	res := resolver.New(platform, resolver.Opts{
		SkipTop:      cfg.SkipTop,
		CacheSize:    cfg.CacheSize,
		SearchPerSec: cfg.SearchPerSec,
	})

	return tasks.NewConvertEngine(extractor.New(r.catalog), res, platform, cfg.MinConfidence), nil
}

// openDatabase opens the run history database and ensures its schema.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
