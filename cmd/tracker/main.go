package main

import (
	"context"
	"flag"
	"time"

	"github.com/lifeline-ops/ambutrack/pkg/clock"
	"github.com/lifeline-ops/ambutrack/pkg/fleet"
	"github.com/lifeline-ops/ambutrack/pkg/http"
	"github.com/lifeline-ops/ambutrack/pkg/http/usecases"
	"github.com/lifeline-ops/ambutrack/pkg/logger"
	"github.com/lifeline-ops/ambutrack/pkg/tracking"
	"github.com/lifeline-ops/ambutrack/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	useConfigFile = flag.Bool("use_config_file", false, "read ./data/config file for server and tracking settings")
	useRateLimit  = flag.Bool("use_rate_limit", false, "rate limit API requests per client IP")
)

func main() {
	flag.Parse()
	logger, err := logger.New()
	if err != nil {
		panic(err)
	}

	if *useConfigFile {
		if err := util.ReadConfig(); err != nil {
			panic(err)
		}
	}

	cfg := trackingConfig()

	manager := fleet.NewManager(cfg, clock.System(), logger)

	api := http.NewServer(logger)

	trackingService := usecases.NewTrackingService(logger, manager)
	ctx, cleanup, err := NewContext()
	if err != nil {
		panic(err)
	}
	api.Use(ctx,
		logger, *useRateLimit, trackingService)

	signal := http.GracefulShutdown()

	logger.Info("Ambutrack Server Stopped", zap.String("signal", signal.String()))
	cleanup()
	manager.Dispose()
}

func trackingConfig() tracking.Config {
	def := tracking.DefaultConfig()

	viper.SetDefault("DISTANCE_FILTER_METERS", def.DistanceFilterMeters)
	viper.SetDefault("SMOOTHING_FACTOR", def.SmoothingFactor)
	viper.SetDefault("INTERPOLATION_FRAME_COUNT", def.InterpolationFrameCount)
	viper.SetDefault("INTERPOLATION_DURATION_MS", int(def.InterpolationDuration/time.Millisecond))
	viper.SetDefault("CAMERA_THROTTLE_MS", int(def.CameraThrottleInterval/time.Millisecond))

	return tracking.Config{
		DistanceFilterMeters:    viper.GetFloat64("DISTANCE_FILTER_METERS"),
		SmoothingFactor:         viper.GetFloat64("SMOOTHING_FACTOR"),
		InterpolationFrameCount: viper.GetInt("INTERPOLATION_FRAME_COUNT"),
		InterpolationDuration:   time.Duration(viper.GetInt("INTERPOLATION_DURATION_MS")) * time.Millisecond,
		CameraThrottleInterval:  time.Duration(viper.GetInt("CAMERA_THROTTLE_MS")) * time.Millisecond,
	}
}

func NewContext() (context.Context, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	cb := func() {
		cancel()
	}

	return ctx, cb, nil
}
