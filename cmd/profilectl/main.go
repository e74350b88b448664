package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "profilectl",
		Usage: "Administer the profile collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file (environment variables override it)",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "create-collection",
				Usage:  "Create the collection with its named vectors and payload indexes",
				Action: createCollectionCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "recreate",
						Usage: "Drop and recreate the collection if it exists",
					},
				},
			},
			{
				Name:   "ingest",
				Usage:  "Ingest a JSON array of raw profiles",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the profiles JSON file",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Number of concurrent ingests",
						Value:   4,
					},
				},
			},
			{
				Name:   "publish",
				Usage:  "Publish a JSON array of raw profiles to the ingest topic",
				Action: publishCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the profiles JSON file",
						Required: true,
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Run a search and print the response",
				Action: searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Free-text query",
					},
					&cli.StringFlag{
						Name:  "filters",
						Usage: `Filters as JSON, e.g. '{"religions":["HIN"],"min_age":25}'`,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Page size",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Page offset",
					},
					&cli.BoolFlag{
						Name:  "include-non-circulateable",
						Usage: "Do not restrict results to circulateable profiles",
					},
				},
			},
			{
				Name:   "count",
				Usage:  "Count stored profiles",
				Action: countCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "circulateable",
						Usage: "Count only circulateable profiles",
					},
				},
			},
			{
				Name:   "suggest",
				Usage:  "Analyze filter impact and suggest filters to relax",
				Action: suggestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "filters",
						Usage:    "Filters as JSON",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "min-results",
						Usage: "Target number of matching profiles",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "include-non-circulateable",
						Usage: "Count profiles hidden from search too",
					},
				},
			},
			{
				Name:   "forget-query",
				Usage:  "Drop cached query parses from Redis",
				Action: forgetQueryCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "query",
						Aliases:  []string{"q"},
						Usage:    "Query whose cached parse is dropped (repeatable)",
						Required: true,
					},
				},
			},
		},
	}
}
