//go:build linux

// Command beaconctl runs and checks artifact beacons from a Linux host.
//
//	beaconctl advertise [-driver hci|bluez] [-name NAME]
//	beaconctl watch [-name NAME] [-duration D] [-publish]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/trakieu/artifactbeacon/beacon"
	"github.com/trakieu/artifactbeacon/bleadapter"
	"github.com/trakieu/artifactbeacon/hcidev"
	"github.com/trakieu/artifactbeacon/internal/config"
	"github.com/trakieu/artifactbeacon/internal/logging"
	"github.com/trakieu/artifactbeacon/internal/mqtt"
	"github.com/trakieu/artifactbeacon/internal/watch"
)

var version = "dev"
var appName = "beaconctl"

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s advertise|watch [flags]\n", os.Args[0])
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadFromEnv()
	handleError("config error", err)

	logger := logging.New(os.Stderr, cfg, version, appName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "advertise":
		err = advertise(ctx, cfg, logger, os.Args[2:])
	case "watch":
		err = runWatch(ctx, cfg, logger, os.Args[2:])
	default:
		usage()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		handleError(os.Args[1]+" failed", err)
	}
}

type stoppableStack interface {
	beacon.Stack
	Stop() error
}

func advertise(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("advertise", flag.ExitOnError)
	driver := fs.String("driver", "hci", "stack to advertise on: hci (raw HCI socket) or bluez")
	name := fs.String("name", cfg.BeaconName, "advertised device name")
	fs.Parse(args)

	var stack stoppableStack
	switch *driver {
	case "hci":
		stack = hcidev.New(cfg.HCIDevice)
	case "bluez":
		stack = bleadapter.New(bluetooth.NewAdapter(cfg.BlueZAdapter))
	default:
		return fmt.Errorf("unknown driver %q", *driver)
	}

	bc := beacon.DefaultConfig()
	bc.Name = *name
	bc.Handler = beacon.LogHandler(logger)
	bc.Logger = logger
	logger.Info("starting beacon",
		"driver", *driver,
		"name", bc.Name,
		"min_interval", bc.Params.MinInterval,
		"max_interval", bc.Params.MaxInterval,
		"type", bc.Params.Type,
	)
	if err := beacon.Start(ctx, stack, bc); err != nil {
		stack.Stop()
		return err
	}

	<-ctx.Done()
	logger.Info("stopping beacon")
	return stack.Stop()
}

func runWatch(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	name := fs.String("name", cfg.BeaconName, "artifact name to look for")
	duration := fs.Duration("duration", 0, "stop after this long (0: until interrupted)")
	publish := fs.Bool("publish", false, "publish sightings to MQTT")
	fs.Parse(args)

	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	var publisher watch.Publisher
	if *publish {
		client, err := mqtt.NewClient(cfg, logger)
		if err != nil {
			return err
		}
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err = client.Connect(connectCtx)
		cancel()
		if err != nil {
			return err
		}
		defer client.Disconnect()
		publisher = client
	}

	handler := watch.NewHandler(watch.NewVerifier(watch.DefaultExpectation(*name)), publisher, cfg.SightingDedupWindow, logger)
	scanner := &watch.Scanner{DeviceID: cfg.HCIDevice, Logger: logger}
	if err := scanner.Run(ctx, handler.HandleObservation); err != nil {
		return err
	}

	stats := handler.Stats()
	logger.Info("watch finished",
		"observations", stats.Observations,
		"violations", stats.Violations,
		"published", stats.Published,
	)
	if stats.Observations == 0 {
		return fmt.Errorf("artifact %q not seen", *name)
	}
	if stats.Violations != 0 {
		return fmt.Errorf("artifact %q misconfigured in %d of %d observations", *name, stats.Violations, stats.Observations)
	}
	return nil
}

func handleError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", msg, err)
		os.Exit(1)
	}
}
