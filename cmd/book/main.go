package main

import (
	"os"
	"spacebook/config"
	"spacebook/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg := config.Get()
	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	app := &cli.App{
		Name:  "book",
		Usage: "browse availability and reserve a space from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagSpace, Aliases: []string{"s"}, Usage: "space id", Required: true},
		},
		Commands: []*cli.Command{
			slotsCommand(),
			reserveCommand(),
			eventsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("book failed")
	}
}
