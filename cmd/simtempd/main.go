package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/simtempd/internal/config"
	"codeberg.org/mutker/simtempd/internal/errors"
	"codeberg.org/mutker/simtempd/internal/logger"
	"codeberg.org/mutker/simtempd/internal/pid"
	"codeberg.org/mutker/simtempd/internal/simtemp"
	"codeberg.org/mutker/simtempd/internal/telemetry"
)

var (
	cfg    *config.Config
	device *simtemp.Device
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Level(), logger.IsService())
	logger.Debug().Msg("Config loaded")

	device, err = simtemp.New(cfg.Device())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize device")
	}
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write pid file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove pid file")
		}
	}()

	collector, err := telemetry.NewService(telemetry.Config{
		DBPath:  cfg.TelemetryDB,
		Enabled: cfg.Telemetry,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize telemetry")
	}

	if err := device.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to arm sampling")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	logger.Info().
		Uint32("sampling_ms", device.SamplingMS()).
		Int32("threshold_mc", device.ThresholdMC()).
		Str("mode", device.Mode().String()).
		Msg("Sampling started")

	if err := consume(ctx, collector); err != nil {
		logger.Error().Err(err).Msg("error in sample loop")
	}

	cleanup(collector)
}

// consume drains the device until cancelled, rendering and recording each
// sample.
func consume(ctx context.Context, collector telemetry.Collector) error {
	for {
		sample, err := device.Read(ctx)
		if err != nil {
			if errors.IsCode(err, simtemp.ErrInterrupted) || errors.IsCode(err, simtemp.ErrClosed) {
				return nil
			}
			return err
		}

		if cfg.Monitor {
			fmt.Println(renderSample(sample))
		}

		logSample(sample)

		if err := collector.Record(ctx, sample); err != nil {
			logger.Warn().Err(err).Msg("failed to record sample")
		}
	}
}

func logSample(sample simtemp.Sample) {
	alert := sample.Flags&simtemp.FlagThresholdCrossed != 0

	if alert {
		logger.Warn().
			Int64("timestamp_ns", sample.Timestamp).
			Int32("temp_mc", sample.TempMilliC).
			Int32("threshold_mc", device.ThresholdMC()).
			Msg("Threshold crossed")
		return
	}

	logger.Debug().
		Int64("timestamp_ns", sample.Timestamp).
		Int32("temp_mc", sample.TempMilliC).
		Msg("Sample")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup(collector telemetry.Collector) {
	if err := device.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close device")
	}
	if err := collector.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close telemetry")
	}

	stats := device.Stats()
	logger.Info().
		Uint64("total_samples", stats.TotalSamples).
		Uint64("threshold_alerts", stats.ThresholdAlerts).
		Uint64("read_count", stats.ReadCount).
		Uint64("dropped_samples", stats.DroppedSamples).
		Msg("Exiting...")
}
