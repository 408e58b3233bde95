package pb

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Status field names inside the google.protobuf.Struct payload.
const (
	FieldUnit           = "unit"
	FieldLevel          = "level"
	FieldLevelName      = "level_name"
	FieldMessage        = "message"
	FieldMuted          = "muted"
	FieldUpdatedAt      = "updated_at"
	FieldStep           = "step"
	FieldLightCount     = "light_count"
	FieldToneIndex      = "tone_index"
	FieldFramesAccepted = "frames_accepted"
	FieldFramesRejected = "frames_rejected"
	FieldBytesDropped   = "bytes_dropped"
	FieldStaleFrames    = "stale_frames"
	FieldAccepted       = "accepted"
	FieldDropped        = "dropped"
)

// Status is the typed view of a GetStatus response.
type Status struct {
	Unit           string
	LevelName      string
	Message        string
	UpdatedAt      time.Time
	Level          uint32
	Step           uint32
	LightCount     uint32
	ToneIndex      uint32
	FramesAccepted uint64
	FramesRejected uint64
	BytesDropped   uint64
	StaleFrames    uint64
	Muted          bool
}

// ToStruct encodes the status as a google.protobuf.Struct.
func (s *Status) ToStruct() (*structpb.Struct, error) {
	fields := map[string]any{
		FieldUnit:           s.Unit,
		FieldLevel:          s.Level,
		FieldLevelName:      s.LevelName,
		FieldMessage:        s.Message,
		FieldMuted:          s.Muted,
		FieldStep:           s.Step,
		FieldLightCount:     s.LightCount,
		FieldToneIndex:      s.ToneIndex,
		FieldFramesAccepted: s.FramesAccepted,
		FieldFramesRejected: s.FramesRejected,
		FieldBytesDropped:   s.BytesDropped,
		FieldStaleFrames:    s.StaleFrames,
	}

	if !s.UpdatedAt.IsZero() {
		fields[FieldUpdatedAt] = s.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}

	result, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode status: %w", err)
	}

	return result, nil
}

// StatusFromStruct decodes a GetStatus payload. Missing fields stay zero.
func StatusFromStruct(payload *structpb.Struct) (*Status, error) {
	fields := payload.GetFields()

	result := &Status{
		Unit:           fields[FieldUnit].GetStringValue(),
		LevelName:      fields[FieldLevelName].GetStringValue(),
		Message:        fields[FieldMessage].GetStringValue(),
		Level:          uint32(fields[FieldLevel].GetNumberValue()),
		Step:           uint32(fields[FieldStep].GetNumberValue()),
		LightCount:     uint32(fields[FieldLightCount].GetNumberValue()),
		ToneIndex:      uint32(fields[FieldToneIndex].GetNumberValue()),
		FramesAccepted: uint64(fields[FieldFramesAccepted].GetNumberValue()),
		FramesRejected: uint64(fields[FieldFramesRejected].GetNumberValue()),
		BytesDropped:   uint64(fields[FieldBytesDropped].GetNumberValue()),
		StaleFrames:    uint64(fields[FieldStaleFrames].GetNumberValue()),
		Muted:          fields[FieldMuted].GetBoolValue(),
	}

	if raw := fields[FieldUpdatedAt].GetStringValue(); raw != "" {
		updatedAt, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", FieldUpdatedAt, err)
		}

		result.UpdatedAt = updatedAt
	}

	return result, nil
}

// SubmitResult reports how many submitted bytes the framer took.
type SubmitResult struct {
	Accepted uint32
	Dropped  uint32
}

// ToStruct encodes the result as a google.protobuf.Struct.
func (r *SubmitResult) ToStruct() *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			FieldAccepted: structpb.NewNumberValue(float64(r.Accepted)),
			FieldDropped:  structpb.NewNumberValue(float64(r.Dropped)),
		},
	}
}

// SubmitResultFromStruct decodes a SubmitFrame payload.
func SubmitResultFromStruct(payload *structpb.Struct) *SubmitResult {
	fields := payload.GetFields()

	return &SubmitResult{
		Accepted: uint32(fields[FieldAccepted].GetNumberValue()),
		Dropped:  uint32(fields[FieldDropped].GetNumberValue()),
	}
}
