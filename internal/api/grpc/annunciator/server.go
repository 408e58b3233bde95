package annunciator

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/annunciator/internal/controller"
	"github.com/oshokin/annunciator/internal/link/framer"
	"github.com/oshokin/annunciator/internal/logger"
	pb "github.com/oshokin/annunciator/internal/pb/v1"
	"github.com/oshokin/annunciator/internal/protocol"
)

// Controller abstracts the runtime operations the transport layer depends on.
type Controller interface {
	Snapshot() *controller.Snapshot
	ReceiveByte(b byte) error
	PressMute()
}

// Server implements the AnnunciatorService gRPC API.
type Server struct {
	pb.UnimplementedAnnunciatorServiceServer

	// unit is reported in every status.
	unit string
	// controller owns the alarm state.
	controller Controller
}

// NewServer wires the provided controller into a gRPC handler.
func NewServer(unit string, controller Controller) *Server {
	return &Server{
		unit:       unit,
		controller: controller,
	}
}

// GetStatus returns the latest controller snapshot.
func (s *Server) GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	snapshot := s.controller.Snapshot()
	if snapshot == nil {
		return nil, status.Error(codes.Unavailable, "controller not started")
	}

	result, err := toProtoStatus(s.unit, snapshot).ToStruct()
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode status")
	}

	return result, nil
}

// SubmitFrame feeds raw bytes to the framer in order, exactly as the serial link would.
func (s *Server) SubmitFrame(ctx context.Context, req *wrapperspb.BytesValue) (*structpb.Struct, error) {
	data := req.GetValue()

	if len(data) == 0 {
		return nil, status.Error(codes.InvalidArgument, "frame is required")
	}

	if len(data) > protocol.FrameSize {
		return nil, status.Errorf(codes.InvalidArgument, "frame exceeds %d bytes", protocol.FrameSize)
	}

	var result pb.SubmitResult

	for _, b := range data {
		err := s.controller.ReceiveByte(b)

		switch {
		case err == nil:
			result.Accepted++
		case errors.Is(err, framer.ErrFrameOverrun):
			result.Dropped++
		default:
			return nil, status.Error(codes.Internal, "unable to receive frame")
		}
	}

	logger.InfoKV(ctx, "Frame submitted",
		"actor", pb.ActorFromContext(ctx),
		"accepted", result.Accepted,
		"dropped", result.Dropped,
	)

	if result.Accepted == 0 {
		return nil, status.Error(codes.Unavailable, "previous frame not processed yet")
	}

	return result.ToStruct(), nil
}

// ToggleMute presses the mute button on behalf of the caller.
func (s *Server) ToggleMute(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.controller.PressMute()

	logger.InfoKV(ctx, "Mute pressed remotely", "actor", pb.ActorFromContext(ctx))

	return new(emptypb.Empty), nil
}

// toProtoStatus converts a controller snapshot to a pb.Status.
func toProtoStatus(unit string, snapshot *controller.Snapshot) *pb.Status {
	return &pb.Status{
		Unit:           unit,
		LevelName:      snapshot.State.Level.String(),
		Message:        snapshot.State.Message,
		UpdatedAt:      snapshot.State.UpdatedAt,
		Level:          uint32(snapshot.State.Level),
		Step:           uint32(snapshot.Step.Index),
		LightCount:     uint32(snapshot.Step.LightCount),
		ToneIndex:      uint32(snapshot.Step.ToneIndex),
		FramesAccepted: snapshot.FramesAccepted,
		FramesRejected: snapshot.FramesRejected,
		BytesDropped:   snapshot.Link.DroppedBytes,
		StaleFrames:    snapshot.Link.StaleFrames,
		Muted:          snapshot.State.Muted,
	}
}
