package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jllopis/agora/pkg/config"
	"github.com/jllopis/agora/pkg/weather"
)

// runWeather prints the current weather report for a city.
func runWeather(ctx context.Context, global globalFlags, cfg *config.Config, logger *slog.Logger, args []string) {
	city := cfg.Weather.City
	if len(args) > 0 {
		city = strings.TrimSpace(strings.Join(args, " "))
	}
	if city == "" {
		fatal(errors.New("usage: agora weather [city]"))
	}

	svc, closeWeather, err := buildWeather(cfg, logger)
	if err != nil {
		fatal(err)
	}
	defer closeWeather()
	if svc == nil {
		fatal(errors.New("weather is disabled; enable it with --set weather.enabled=true"))
	}

	if global.JSON {
		obs, outcome, err := svc.Current(ctx, city)
		if err != nil {
			fatal(err)
		}
		printJSON(struct {
			weather.Observation
			Outcome string `json:"outcome"`
		}{Observation: obs, Outcome: outcome})
		return
	}

	fmt.Println(svc.Report(ctx, city))
}
