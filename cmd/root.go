package cmd

import (
	"fmt"
	"os"

	"github.com/cnosuke/cabin-tools/config"
	"github.com/cnosuke/cabin-tools/executor"
	"github.com/cnosuke/cabin-tools/logger"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// Execute runs the root command
func Execute(name, version, revision, commitDate string) {
	app := NewApp(name, version, revision, commitDate)

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// NewApp builds the CLI application
func NewApp(name, version, revision, commitDate string) *cli.App {
	app := cli.NewApp()
	app.Name = name
	app.Version = version + commitInfo(revision, commitDate)
	app.Usage = "C++ package manager and build system front end"
	app.HideVersion = true

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   config.DefaultConfigPath,
			Usage:   "path to the package manifest",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "use verbose output",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Usage:   "enable debug logging",
			EnvVars: []string{"CABIN_DEBUG"},
		},
		&cli.StringFlag{
			Name:    "log",
			Usage:   "write logs to this file instead of stderr",
			EnvVars: []string{"CABIN_LOG"},
		},
	}

	app.Commands = []*cli.Command{
		NewLintCommand(),
		NewVersionCommand(name, version, revision, commitDate),
	}

	app.Before = func(c *cli.Context) error {
		return logger.InitLogger(c.Bool("debug"), c.String("log"))
	}
	app.After = func(c *cli.Context) error {
		logger.Sync()
		return nil
	}

	// Anything left over at the root is a subcommand we don't know
	app.Action = func(c *cli.Context) error {
		if c.Args().Present() {
			return noSuchCommand(c, c.Args().First())
		}
		return cli.ShowAppHelp(c)
	}
	app.CommandNotFound = func(c *cli.Context, command string) {
		fmt.Fprintln(c.App.ErrWriter, noSuchCommand(c, command).Error())
	}
	app.OnUsageError = onUsageError

	return app
}

// loadConfig reads the manifest named by --config. When it is not required
// and missing, defaults are used.
func loadConfig(c *cli.Context, required bool) (*config.Config, error) {
	path := c.String("config")
	if _, err := os.Stat(path); err != nil {
		if !required && os.IsNotExist(err) {
			cfg, err := config.LoadDefaults()
			if err != nil {
				return nil, errors.Wrap(err, "failed to load default configuration")
			}
			if cfg.Exec.Retry < 1 {
				cfg.Exec.Retry = executor.DefaultRetry
			}
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "could not find package manifest `%s`", path)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration file")
	}
	return cfg, nil
}
