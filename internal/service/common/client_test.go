//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"

	domain "github.com/oshokin/annunciator/internal/domain/alarm"
	pb "github.com/oshokin/annunciator/internal/pb/v1"
)

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestSubmitFrame_Empty asserts that an empty frame is rejected by the client.
func TestSubmitFrame_Empty(t *testing.T) {
	t.Parallel()

	c := new(Client)

	_, err := c.SubmitFrame(context.Background(), nil)
	require.ErrorIs(t, err, errFrameRequired)
}

// TestClient_callContext_Actor checks that the actor is sent as metadata.
func TestClient_callContext_Actor(t *testing.T) {
	t.Parallel()

	c := &Client{actor: &domain.Actor{Hostname: "bay4", Username: "nurse"}}

	ctx, cancel := c.callContext(context.Background())
	defer cancel()

	md, ok := metadata.FromOutgoingContext(ctx)
	require.True(t, ok)
	require.Equal(t, []string{"nurse"}, md.Get(pb.MetadataUsername))
}
