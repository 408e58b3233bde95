package state

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/annunciator/internal/config"
	domain "github.com/oshokin/annunciator/internal/domain/alarm"
	"github.com/oshokin/annunciator/internal/syncutil"
)

// Repository defines persistence operations for the alarm state.
type Repository interface {
	Load(ctx context.Context) (*domain.State, error)
	Save(ctx context.Context, state *domain.State) error
}

// FileRepository persists the alarm state to a JSON file on disk.
// JSON is produced and consumed via protobuf JSON (protojson) of a
// google.protobuf.Struct, the same shape the status API speaks.
type FileRepository struct {
	// path is the filesystem location of the JSON state file.
	path string
	// mu protects concurrent access to the state file.
	mu syncutil.Mutex
}

// Persisted field names.
const (
	fieldLevel     = "level"
	fieldMessage   = "message"
	fieldMuted     = "muted"
	fieldUpdatedAt = "updated_at"
)

var (
	// ErrNotFound is returned when the state file does not exist yet.
	ErrNotFound = errors.New("state not found")
	// errBadLevel is returned when the stored level is out of range.
	errBadLevel = errors.New("stored level out of range")
)

// NewFileRepository creates a repository that reads/writes JSON at the provided path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Load reads the state from disk.
func (r *FileRepository) Load(_ context.Context) (*domain.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read state file: %w", err)
	}

	var protoState structpb.Struct
	if err = protojson.Unmarshal(contents, &protoState); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}

	return fromProto(&protoState)
}

// Save writes the state to disk using JSON representation.
// The file is replaced atomically so a power cut never leaves half a state behind.
func (r *FileRepository) Save(_ context.Context, state *domain.State) error {
	if state == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	marshalOptions := protojson.MarshalOptions{
		EmitUnpopulated: true,
	}

	data, err := marshalOptions.Marshal(toProto(state))
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	temporary := r.path + ".tmp"
	if err = os.WriteFile(temporary, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}

	if err = os.Rename(temporary, r.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	return nil
}

// fromProto converts the stored Struct into the domain State model.
func fromProto(protoState *structpb.Struct) (*domain.State, error) {
	fields := protoState.GetFields()

	code := fields[fieldLevel].GetNumberValue()
	if code < 0 || code >= float64(domain.NumLevels) || code != math.Trunc(code) {
		return nil, fmt.Errorf("%w: %v", errBadLevel, code)
	}

	state := &domain.State{
		Level:   domain.Level(code),
		Message: fields[fieldMessage].GetStringValue(),
		Muted:   fields[fieldMuted].GetBoolValue(),
	}

	if raw := fields[fieldUpdatedAt].GetStringValue(); raw != "" {
		updatedAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", fieldUpdatedAt, err)
		}

		state.UpdatedAt = updatedAt
	}

	return state, nil
}

// toProto converts the domain State model into a Struct.
func toProto(state *domain.State) *structpb.Struct {
	fields := map[string]*structpb.Value{
		fieldLevel:   structpb.NewNumberValue(float64(state.Level)),
		fieldMessage: structpb.NewStringValue(strings.ToValidUTF8(state.Message, "\uFFFD")),
		fieldMuted:   structpb.NewBoolValue(state.Muted),
	}

	if !state.UpdatedAt.IsZero() {
		fields[fieldUpdatedAt] = structpb.NewStringValue(state.UpdatedAt.UTC().Format(time.RFC3339Nano))
	}

	return &structpb.Struct{Fields: fields}
}
