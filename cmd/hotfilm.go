package main

import (
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/urfave/cli/v2"
	"github.com/womat/debug"

	"hotfilm/pkg/app"
	"hotfilm/pkg/app/config"
	"hotfilm/pkg/labjack"
)

const defaultConfigFile = "/opt/hotfilm/config/" + app.MODULE + ".yaml"

func main() {
	exitCode := 1
	defer func() {
		os.Exit(exitCode)
	}()

	// cfg holds the application configuration
	cfg := config.NewConfig()

	cliApp := &cli.App{
		Name:    app.MODULE,
		Usage:   "PPS-synchronized hot film anemometer sampler",
		Version: app.VERSION,
		Description: "Stream analog channels from a LabJack T-series ADC, align each" +
			"\n one-second block of scans with the PPS edge seen on a counter channel," +
			"\n and publish full-rate series plus per-second statistics to mqtt.",
		UsageText: "hotfilm [--conf <file>] [--log error|debug|trace] [options]" +
			"\n\nEXAMPLE:" +
			"\n\tstart the sampler and use the configuration file hotfilm.yaml" +
			"\n\t\thotfilm --config /opt/hotfilm/hotfilm.yaml",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Destination: &cfg.Flag.ConfigFile, Value: defaultConfigFile, Usage: "load configuration from `FILE`"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Destination: &cfg.Flag.LogLevel, Value: "standard", Usage: "`LEVEL` defines the log level (fatal|info|warning|error|debug|trace)"},
			&cli.Float64Flag{Name: "scanrate", Usage: "scan rate in `HZ`, scans per read follows as half of it"},
			&cli.IntFlag{Name: "channels", Usage: "scan only the first `N` configured analog channels"},
			&cli.IntFlag{Name: "resolution", Usage: "ADC resolution `INDEX`, 0-8"},
			&cli.BoolFlag{Name: "nopps", Usage: "do not scan the PPS counter, timestamps will be unsynchronized"},
			&cli.IntFlag{Name: "number", Aliases: []string{"n"}, Usage: "stop after `COUNT` reads, unless 0"},
			&cli.BoolFlag{Name: "diag", Usage: "enable stream diagnostics (skipped scans, backlogs)"},
		},
		Action: func(ctx *cli.Context) error {
			if err := cfg.LoadConfig(); err != nil {
				return err
			}
			if err := applyFlags(ctx, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			debug.SetDebug(cfg.Debug.File, cfg.Debug.Flag)
			defer func() {
				debug.InfoLog.Printf("closing debug file %s", cfg.Debug.FileString)
				_ = cfg.Debug.File.Close()
			}()

			// the simulated device stands in for the stream library; it
			// paces reads like real hardware
			device := labjack.NewSimulator()
			device.Pace = true

			a, err := app.New(cfg, device)
			defer func() {
				debug.InfoLog.Printf("closing app %s", app.Version())
				_ = a.Close()
			}()

			if err != nil {
				return err
			}

			debug.InfoLog.Printf("starting app %s", app.Version())
			if err = a.Run(); err != nil {
				return err
			}

			// capture exit signals to ensure resources are released on exit.
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			// wait for an os.Interrupt signal (CTRL C) or the end of the
			// acquisition session (read limit reached or device failure)
			select {
			case sig := <-quit:
				debug.InfoLog.Printf("Got %s signal. Aborting...", sig)
			case <-a.Shutdown():
				debug.InfoLog.Print("acquisition session ended")
			}

			return err
		},
	}

	// we expect to have more command line flags in the future - sort them
	sort.Sort(cli.FlagsByName(cliApp.Flags))
	sort.Sort(cli.CommandsByName(cliApp.Commands))

	err := cliApp.Run(os.Args)
	if err != nil {
		debug.FatalLog.Print(err)
		exitCode = 1
		return
	}

	exitCode = 0
	return
}

// applyFlags overlays the domain command line flags on the file config.
func applyFlags(ctx *cli.Context, cfg *config.Config) error {
	if ctx.IsSet("scanrate") {
		cfg.Device.ScanRate = ctx.Float64("scanrate")
		cfg.Device.ScansPerRead = int(cfg.Device.ScanRate / 2)
	}
	if ctx.IsSet("channels") {
		n := ctx.Int("channels")
		if n < 1 || n > len(cfg.Device.Channels) {
			return cli.Exit("channels must be between 1 and the configured channel count", 1)
		}
		cfg.Device.Channels = cfg.Device.Channels[:n]
	}
	if ctx.IsSet("resolution") {
		cfg.Device.Resolution = ctx.Int("resolution")
	}
	if ctx.IsSet("nopps") {
		cfg.Device.PPS = false
	}
	if ctx.IsSet("number") {
		cfg.Device.ReadLimit = ctx.Int("number")
	}
	if ctx.IsSet("diag") {
		cfg.Device.Diagnostics = true
	}
	return nil
}
