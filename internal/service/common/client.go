//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/annunciator/internal/config"
	domain "github.com/oshokin/annunciator/internal/domain/alarm"
	pb "github.com/oshokin/annunciator/internal/pb/v1"
)

// Client wraps the gRPC AnnunciatorService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the unit.
	conn *grpc.ClientConn
	// api is the AnnunciatorService client interface.
	api pb.AnnunciatorServiceClient
	// health is the standard gRPC health client.
	health healthgrpc.HealthClient
	// actor identifies the caller in request metadata.
	actor *domain.Actor

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor attaches the caller identity to every call.
func WithActor(actor *domain.Actor) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errFrameRequired is returned when an empty frame is submitted.
	errFrameRequired = errors.New("frame must be provided")
)

// Dial establishes a gRPC connection to the unit.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial annunciator: %w", err)
	}

	client := &Client{
		conn:        conn,
		api:         pb.NewAnnunciatorServiceClient(conn),
		health:      healthgrpc.NewHealthClient(conn),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// GetStatus retrieves the current unit status.
func (c *Client) GetStatus(ctx context.Context) (*pb.Status, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.GetStatus(callCtx, new(emptypb.Empty))
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	return pb.StatusFromStruct(response)
}

// SubmitFrame sends raw frame bytes to the unit's framer.
func (c *Client) SubmitFrame(ctx context.Context, frame []byte) (*pb.SubmitResult, error) {
	if len(frame) == 0 {
		return nil, errFrameRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.SubmitFrame(callCtx, wrapperspb.Bytes(frame))
	if err != nil {
		return nil, fmt.Errorf("submit frame: %w", err)
	}

	return pb.SubmitResultFromStruct(response), nil
}

// ToggleMute presses the unit's mute button.
func (c *Client) ToggleMute(ctx context.Context) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	if _, err := c.api.ToggleMute(callCtx, new(emptypb.Empty)); err != nil {
		return fmt.Errorf("toggle mute: %w", err)
	}

	return nil
}

// LinkHealth reports whether the unit's serial link is up.
func (c *Client) LinkHealth(ctx context.Context, service string) (healthgrpc.HealthCheckResponse_ServingStatus, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.health.Check(callCtx, &healthgrpc.HealthCheckRequest{Service: service})
	if err != nil {
		return healthgrpc.HealthCheckResponse_UNKNOWN, fmt.Errorf("check health: %w", err)
	}

	return response.GetStatus(), nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline. The actor, when
// known, travels in the request metadata.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = pb.WithActor(ctx, c.actor)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
