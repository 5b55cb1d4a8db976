package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/encorefm/encore/internal/engine"
	"github.com/encorefm/encore/internal/repositories"
	"github.com/encorefm/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	db     *sql.DB
	logger *log.Logger
	output io.Writer
	users  *repositories.UserRepository
	tracks *repositories.TrackRepository
	recs   *repositories.RecommendationRepository
	engine *engine.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	DB     *sql.DB
	Logger *log.Logger
	Output io.Writer
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

	r := &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
	}

	if opts.DB != nil {
		r.wire(opts.DB)
	}

	return r
}

// SetLogger swaps the runner's logger, e.g. to redirect output to a file.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// wire attaches repositories and the engine to an open database handle.
func (r *Runner) wire(db *sql.DB) {
	r.db = db
	r.users = repositories.NewUserRepository(db)
	r.tracks = repositories.NewTrackRepository(db)
	r.recs = repositories.NewRecommendationRepository(db)
	r.engine = engine.NewEngine(engine.Opts{
		Catalog:      r.tracks,
		Store:        r.recs,
		Users:        r.users,
		CooldownDays: r.config.Recommendations.CooldownDays,
		TrendingDays: r.config.Recommendations.TrendingDays,
	})
}

// connect opens the configured database and wires repositories, once.
//
// Commands other than setup call this; setup builds its own connection
// because it may also create the config file first.
func (r *Runner) connect() error {
	if r.db != nil {
		return nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.wire(db)
	return nil
}

// defaultLimit returns the configured per-user recommendation limit.
func (r *Runner) defaultLimit() int {
	if r.config.Recommendations.DefaultLimit > 0 {
		return r.config.Recommendations.DefaultLimit
	}
	return 10
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, generateCommand, recommendationsCommand, catalogCommand, cleanupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
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
