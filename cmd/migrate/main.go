package main

import (
	"os"
	"spacebook/config"
	"spacebook/helper"
	"spacebook/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func action(a helper.Action) cli.ActionFunc {
	return func(_ *cli.Context) error {
		return helper.Runner(config.Get(), a)
	}
}

func main() {
	cfg := config.Get()
	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	app := &cli.App{
		Name:  "migrate",
		Usage: "manage the booking database schema",
		Commands: []*cli.Command{
			{Name: string(helper.ActionUp), Usage: "apply every pending migration", Action: action(helper.ActionUp)},
			{Name: string(helper.ActionDown), Usage: "roll back the latest migration", Action: action(helper.ActionDown)},
			{Name: string(helper.ActionStepUp), Usage: "apply the next pending migration", Action: action(helper.ActionStepUp)},
			{Name: string(helper.ActionDrop), Usage: "roll back every migration", Action: action(helper.ActionDrop)},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
}
