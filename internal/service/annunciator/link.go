package annunciator

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"google.golang.org/grpc/health"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/annunciator/internal/config"
	"github.com/oshokin/annunciator/internal/link/serial"
	"github.com/oshokin/annunciator/internal/logger"
	pb "github.com/oshokin/annunciator/internal/pb/v1"
)

// linkRetryInterval is how long to wait before reopening a failed port.
const linkRetryInterval = 2 * time.Second

// portOpener opens the serial device.
type portOpener func(name string, baudRate int) (serial.Port, error)

// runLink keeps the serial link open and reports its health until ctx is done.
func runLink(
	ctx context.Context,
	cfg config.LinkConfig,
	open portOpener,
	clock clockwork.Clock,
	sink serial.Sink,
	healthServer *health.Server,
) {
	ctx = logger.WithLevelOverride(logger.WithName(ctx, "link"), cfg.LogLevel)
	ctx = logger.WithKV(ctx, "port", cfg.Port)

	healthServer.SetServingStatus(pb.LinkServiceName, healthgrpc.HealthCheckResponse_NOT_SERVING)

	for {
		port, err := open(cfg.Port, cfg.BaudRate)
		if err == nil {
			logger.InfoKV(ctx, "Serial link open", "baud_rate", cfg.BaudRate)
			healthServer.SetServingStatus(pb.LinkServiceName, healthgrpc.HealthCheckResponse_SERVING)

			err = serial.NewReader(port, sink).Run(ctx)

			healthServer.SetServingStatus(pb.LinkServiceName, healthgrpc.HealthCheckResponse_NOT_SERVING)
		}

		if ctx.Err() != nil {
			logger.Info(ctx, "Serial link closed")

			return
		}

		if err != nil {
			logger.ErrorKV(ctx, "Serial link failed", "error", err, "retry_in", linkRetryInterval)
		}

		select {
		case <-ctx.Done():
			return
		case <-clock.After(linkRetryInterval):
		}
	}
}
