package main

import (
	"log/slog"
	"os"

	app "github.com/rocketscienceinc/tictactoe-league/internal"
	"github.com/rocketscienceinc/tictactoe-league/internal/config"
)

func main() {
	conf := config.MustLoad(config.Path())

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: conf.SlogLevel()}))
	logger.Info("tic-tac-toe league starting", "config", config.Path(), "log_level", conf.SlogLevel().String())

	if err := app.RunApp(logger, conf); err != nil {
		logger.Error("league stopped with an error", "error", err)
		os.Exit(1)
	}
}
