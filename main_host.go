//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"ember/app"
	"ember/driver/gpio"
	"ember/hal"
	"ember/internal/buildinfo"

	"github.com/urfave/cli"
)

var (
	headless   hal.HeadlessConfig
	period     time.Duration
	ungated    bool
	startLevel string
)

var runFlags = []cli.Flag{
	cli.BoolFlag{
		Name:        "headless",
		Usage:       "run without a window",
		Destination: &headless.Enabled,
	},
	cli.IntFlag{
		Name:        "hz",
		Usage:       "host loop rate in headless mode",
		Value:       60,
		Destination: &headless.Hz,
	},
	cli.Uint64Flag{
		Name:        "frames",
		Usage:       "stop after N host loop iterations in headless mode (0 = run forever)",
		Destination: &headless.Frames,
	},
	cli.DurationFlag{
		Name:        "press-every",
		Usage:       "simulate a button press at this interval (headless mode)",
		EnvVar:      "EMBER_PRESS_EVERY",
		Destination: &headless.PressEvery,
	},
	cli.DurationFlag{
		Name:        "period, p",
		Usage:       "blink period",
		EnvVar:      "EMBER_PERIOD",
		Value:       200 * time.Millisecond,
		Destination: &period,
	},
	cli.BoolFlag{
		Name:        "ungated",
		Usage:       "blink unconditionally, without the button task",
		Destination: &ungated,
	},
	cli.StringFlag{
		Name:        "initial-level",
		Usage:       "LED level at startup: high or low (default depends on the variant)",
		Destination: &startLevel,
	},
}

func main() {
	a := cli.NewApp()
	a.Name = "ember"
	a.Usage = "gated LED blinker on a cooperative task kernel"
	a.Version = buildinfo.Long()
	a.Flags = runFlags
	a.Action = run
	if err := a.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	newApp := func(h hal.HAL) (func() error, error) {
		return app.NewStep(h, cfg)
	}

	if !headless.Enabled {
		return hal.RunWindow(newApp)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := hal.RunHeadless(ctx, newApp, headless); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

func buildConfig() (app.Config, error) {
	cfg := app.DefaultConfig()
	if ungated {
		cfg = app.UngatedConfig()
	}
	cfg.Period = period

	switch startLevel {
	case "":
	case "high":
		cfg.InitialLevel = gpio.High
	case "low":
		cfg.InitialLevel = gpio.Low
	default:
		return cfg, cli.NewExitError(fmt.Sprintf("invalid --initial-level %q", startLevel), 2)
	}
	return cfg, nil
}
