package pb

import (
	"context"

	"google.golang.org/grpc/metadata"

	domain "github.com/oshokin/annunciator/internal/domain/alarm"
)

// Metadata keys carrying the caller identity.
const (
	MetadataHostname = "x-actor-hostname"
	MetadataUsername = "x-actor-username"
)

// WithActor attaches the actor to outgoing request metadata.
func WithActor(ctx context.Context, actor *domain.Actor) context.Context {
	if actor == nil {
		return ctx
	}

	return metadata.AppendToOutgoingContext(ctx,
		MetadataHostname, actor.Hostname,
		MetadataUsername, actor.Username,
	)
}

// ActorFromContext extracts the caller identity from incoming metadata.
// It returns nil when the caller did not identify itself.
func ActorFromContext(ctx context.Context) *domain.Actor {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil
	}

	var (
		hostnames = md.Get(MetadataHostname)
		usernames = md.Get(MetadataUsername)
	)

	if len(hostnames) == 0 || len(usernames) == 0 {
		return nil
	}

	return &domain.Actor{
		Hostname: hostnames[0],
		Username: usernames[0],
	}
}
