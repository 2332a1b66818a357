package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Config   string           `short:"c" default:"pokerrooms.hcl" env:"POKERROOMS_CONFIG" help:"Path to HCL configuration file"`
	LogLevel string           `short:"l" env:"POKERROOMS_LOG_LEVEL" help:"Log level (overrides config)"`

	Server ServerCmd `cmd:"" help:"Run the room server"`
	Room   RoomCmd   `cmd:"" help:"Manage rooms in the store"`

	// Stdout receives command output; nil means os.Stdout.
	Stdout io.Writer `kong:"-"`
}

func (c *CLI) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokerrooms"),
		kong.Description("Multiplayer Texas Hold'em room server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

// newLogger builds the process logger at level, falling back to info
func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("Unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
