package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/verona-ai/profilesearch/v1/config"
)

func main() {
	app := &cli.App{
		Name:  "profilesearch",
		Usage: "Profile ingestion and hybrid semantic search service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file (environment variables override it)",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	app := fx.New(Options(cfg))
	if err := app.Err(); err != nil {
		return err
	}
	app.Run()
	return nil
}
