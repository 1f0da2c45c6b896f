package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config string `short:"c" default:"blackjack.hcl" env:"BLACKJACK_CONFIG" help:"Path to HCL configuration file"`
	Table  string `short:"t" default:"main" env:"BLACKJACK_TABLE" help:"Table from the configuration to play"`
	Debug  bool   `env:"BLACKJACK_DEBUG" help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play blackjack in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Play many rounds with an automated agent"`
	Serve    ServeCmd         `cmd:"" help:"Serve blackjack tables over WebSockets"`
}

func newParser(cli *CLI, stdout io.Writer, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("blackjack"),
		kong.Description("Single-player blackjack against the dealer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Bind(&cli.Globals),
		kong.BindTo(stdout, (*io.Writer)(nil)),
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	// A missing .env is fine; flags and the environment still apply
	_ = godotenv.Load()

	var cli CLI
	parser, err := newParser(&cli, os.Stdout)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run())
}
