package main

import (
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
)

type cli struct {
	ConfigDir string `type:"path" help:"The directory containing bcrypt.yaml. Defaults to ~/.config/bcrypt."`
	LogLevel  string `help:"The log level. Overrides the configured level."`

	Hash   hashCmd   `cmd:"" help:"Hash a password."`
	Verify verifyCmd `cmd:"" help:"Verify a password against a hash."`
	Salt   saltCmd   `cmd:"" help:"Generate a random salt."`
	Cost   costCmd   `cmd:"" help:"Print the cost parameter of a hash."`
	Bench  benchCmd  `cmd:"" help:"Measure the time taken at each cost."`
}

// env is passed to every command.
type env struct {
	config *config
	log    *logrus.Logger
}

func main() {
	var cli cli

	ctx := kong.Parse(&cli)

	if cli.ConfigDir == "" {
		home, err := os.UserHomeDir()
		ctx.FatalIfErrorf(err)

		cli.ConfigDir = filepath.Join(home, ".config", "bcrypt")
	}

	cfg, err := loadConfig(cli.ConfigDir)
	ctx.FatalIfErrorf(err)

	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}

	log, err := newLogger(cfg.LogLevel, os.Stderr)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(&env{config: cfg, log: log})
	if err != nil {
		log.WithError(err).Debug("command failed")
	}

	ctx.FatalIfErrorf(err)
}
