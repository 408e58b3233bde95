package annunciator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/jonboulle/clockwork"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/annunciator/internal/annunciation"
	api "github.com/oshokin/annunciator/internal/api/grpc/annunciator"
	"github.com/oshokin/annunciator/internal/config"
	"github.com/oshokin/annunciator/internal/controller"
	"github.com/oshokin/annunciator/internal/link/framer"
	"github.com/oshokin/annunciator/internal/link/serial"
	"github.com/oshokin/annunciator/internal/logger"
	pb "github.com/oshokin/annunciator/internal/pb/v1"
	"github.com/oshokin/annunciator/internal/presenter"
	repository "github.com/oshokin/annunciator/internal/repository/state"
)

// Options controls the annunciatord process and configuration.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the gRPC server.
	ListenAddress string
	// StateFile specifies the path to persist alarm state JSON.
	StateFile string
	// SerialPort overrides the serial device from the configuration.
	SerialPort string
	// Console forces log-backed collaborators even when hardware is enabled.
	Console bool

	// clock replaces the wall clock in tests.
	clock clockwork.Clock
	// openPort replaces the serial device in tests.
	openPort portOpener
	// allowDuplicates skips the single-instance guard in tests.
	allowDuplicates bool
	// ready receives the bound listen address once the API is serving.
	ready chan<- string
}

// Run starts the unit and blocks until the context is canceled or the API stops.
//
//nolint:funlen // Start-up order is easier to follow in one place.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "annunciatord")

	// Load configuration first to get unit settings.
	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	applyOverrides(settings, opts)

	if level, ok := logger.ParseLogLevel(settings.LogLevel); ok {
		logger.SetLevel(level)
	}

	if !opts.allowDuplicates {
		if err = ensureSingleInstance(ctx); err != nil {
			return err
		}
	}

	clock := opts.clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	opener := opts.openPort
	if opener == nil {
		opener = serial.Open
	}

	// Open the light bank, buzzer, display and button.
	panel, err := openPanel(ctx, settings, clock, opts.Console)
	if err != nil {
		return fmt.Errorf("open panel: %w", err)
	}

	defer panel.Close(ctx)

	output := presenter.New(panel.lights, panel.buzzer, panel.display, settings.Hardware.LCD.Rows, settings.Hardware.LCD.Cols)

	startup(ctx, settings, panel, output)

	// Initialize state repository and resume the last alarm.
	repo := repository.NewFileRepository(settings.StateFile)

	restored, err := restoreState(ctx, repo)
	if err != nil {
		return fmt.Errorf("restore state: %w", err)
	}

	table := annunciation.DefaultTable()
	table.StepDuration = settings.StepDuration

	scheduler, err := annunciation.NewScheduler(table, output.NumLights(), len(presenter.ToneFrequencies), clock.Now())
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	persist := newPersister(repo)

	unit := controller.New(
		clock,
		framer.New(clock, settings.Link.ByteTimeout),
		scheduler,
		output,
		controller.WithInitialState(restored),
		controller.WithLoopInterval(settings.LoopInterval),
		controller.WithStateObserver(persist.Offer),
	)

	// Setup TCP listener for gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", settings.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", settings.ListenAddress, err)
	}

	// Create and configure gRPC server with the annunciator and health services.
	grpcServer := grpc.NewServer()
	pb.RegisterAnnunciatorServiceServer(grpcServer, api.NewServer(settings.UnitName, unit))

	healthServer := health.NewServer()
	healthgrpc.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(pb.ServiceName, healthgrpc.HealthCheckResponse_SERVING)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup

	wg.Go(func() { persist.Run(runCtx) })
	wg.Go(func() { _ = unit.Run(runCtx) })

	if panel.button != nil {
		wg.Go(func() { panel.button.Run(runCtx, unit.PressMute) })
	}

	if settings.Link.Port != "" {
		wg.Go(func() { runLink(runCtx, settings.Link, opener, clock, unit.ReceiveByte, healthServer) })
	} else {
		logger.Warn(ctx, "No serial port configured, frames are accepted over gRPC only")
	}

	logger.InfoKV(ctx, "Annunciator listening",
		"listen_address", lis.Addr().String(),
		"state_file", settings.StateFile,
		"serial_port", settings.Link.Port,
	)

	// Serve in the background so both cancellation and a serve failure stop the unit.
	serveErr := make(chan error, 1)

	go func() {
		serveErr <- grpcServer.Serve(lis)
	}()

	if opts.ready != nil {
		opts.ready <- lis.Addr().String()
	}

	select {
	case <-ctx.Done():
		logger.Info(ctx, "Shutting down gRPC server")
	case err = <-serveErr:
		logger.ErrorKV(ctx, "GRPC server failed", "error", err)
	}

	healthServer.Shutdown()
	grpcServer.GracefulStop()
	cancel()
	wg.Wait()

	logger.Info(ctx, "Annunciator stopped")

	if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// applyOverrides applies command line options on top of the settings.
func applyOverrides(settings *config.Config, opts *Options) {
	if opts.ListenAddress != "" {
		settings.ListenAddress = opts.ListenAddress
	}

	if opts.StateFile != "" {
		settings.StateFile = opts.StateFile
	}

	if opts.SerialPort != "" {
		settings.Link.Port = opts.SerialPort
	}
}
