package main

import (
	"os"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/victorhqc/photos-manager/cmd"
	"github.com/victorhqc/photos-manager/config"
	"github.com/victorhqc/photos-manager/logging"
	"github.com/victorhqc/photos-manager/progress"
	"github.com/victorhqc/photos-manager/types"
)

var Version = "dev"

type CLI struct {
	Config    string           `help:"Path to the configuration file" type:"path" placeholder:"PATH"`
	LogLevel  string           `name:"log-level" help:"Log level: trace, debug, info, warn or error" placeholder:"LEVEL"`
	LogFormat string           `name:"log-format" help:"Log format: console or json" placeholder:"FORMAT"`
	Workers   int              `help:"Number of parallel workers (0 = auto)" default:"0"`
	Version   kong.VersionFlag `help:"Print version and exit"`

	Order      cmd.OrderCmd      `cmd:"" help:"Move photos and videos into YYYY-MM folders by the date they were taken"`
	Border     cmd.BorderCmd     `cmd:"" help:"Add a white border to photos"`
	Duplicates cmd.DuplicatesCmd `cmd:"" help:"Find duplicate photos by hash"`
	Similar    cmd.SimilarCmd    `cmd:"" help:"Find perceptually similar photos"`
}

// appContext loads the configuration, lets flags override it and builds the
// logger every command shares.
func (c *CLI) appContext() (*types.AppContext, error) {
	cfg, path, exists, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	if c.LogFormat != "" {
		cfg.Logging.Format = c.LogFormat
	}
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Writer:  os.Stderr,
		NoColor: !progress.IsTerminal(os.Stderr),
	})
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger = logger.With().Str("run_id", runID).Logger()
	if exists {
		logger.Debug().Str("path", path).Msg("loaded config")
	}

	return &types.AppContext{
		Version: Version,
		RunID:   runID,
		Workers: cfg.Workers,
		Logger:  logger,
		Config:  cfg,
	}, nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("photos-manager"),
		kong.Description("Organize photos and videos by the date they were taken."),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	appCtx, err := cli.appContext()
	ctx.FatalIfErrorf(err)

	err = ctx.Run(appCtx)
	ctx.FatalIfErrorf(err)
}
