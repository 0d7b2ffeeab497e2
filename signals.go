package codable

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for registry, engine and mapper events.
var (
	SignalTypeRegistered = capitan.NewSignal("codable.type.registered", "Type metadata registered")
	SignalDecodeStart    = capitan.NewSignal("codable.decode.start", "Decode beginning")
	SignalDecodeComplete = capitan.NewSignal("codable.decode.complete", "Decode finished")
	SignalEncodeStart    = capitan.NewSignal("codable.encode.start", "Encode beginning")
	SignalEncodeComplete = capitan.NewSignal("codable.encode.complete", "Encode finished")
	SignalFieldDropped   = capitan.NewSignal("codable.field.dropped", "Raw value could not be assigned")

	SignalMapperCreated   = capitan.NewSignal("codable.mapper.created", "Mapper instantiated")
	SignalReceiveComplete = capitan.NewSignal("codable.receive.complete", "Receive operation finished")
	SignalLoadComplete    = capitan.NewSignal("codable.load.complete", "Load operation finished")
	SignalStoreComplete   = capitan.NewSignal("codable.store.complete", "Store operation finished")
	SignalSendComplete    = capitan.NewSignal("codable.send.complete", "Send operation finished")
)

// Keys for typed event data.
var (
	KeyTypeName     = capitan.NewStringKey("type_name")
	KeyField        = capitan.NewStringKey("field")
	KeyReason       = capitan.NewStringKey("reason")
	KeyContentType  = capitan.NewStringKey("content_type")
	KeyFieldCount   = capitan.NewIntKey("field_count")
	KeyDroppedCount = capitan.NewIntKey("dropped_count")
	KeyActionCount  = capitan.NewIntKey("action_count")
	KeySize         = capitan.NewIntKey("size")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeyError        = capitan.NewErrorKey("error")
)

func emitTypeRegistered(ctx context.Context, typeName string, fields int) {
	capitan.Emit(ctx, SignalTypeRegistered,
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fields),
	)
}

func emitDecodeStart(ctx context.Context, typeName string, keys int) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(keys),
	)
}

func emitDecodeComplete(ctx context.Context, typeName string, duration time.Duration, dropped int) {
	capitan.Emit(ctx, SignalDecodeComplete,
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyDroppedCount.Field(dropped),
	)
}

func emitEncodeStart(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyTypeName.Field(typeName),
	)
}

func emitEncodeComplete(ctx context.Context, typeName string, duration time.Duration, fields int) {
	capitan.Emit(ctx, SignalEncodeComplete,
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeyFieldCount.Field(fields),
	)
}

func emitFieldDropped(ctx context.Context, typeName, field, reason string) {
	capitan.Emit(ctx, SignalFieldDropped,
		KeyTypeName.Field(typeName),
		KeyField.Field(field),
		KeyReason.Field(reason),
	)
}

func emitMapperCreated(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalMapperCreated,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

// emitBoundaryComplete reports the end of a Receive/Load/Store/Send call.
// size is the byte length of the payload read or written.
func emitBoundaryComplete(ctx context.Context, op boundary, contentType, typeName string, size int, duration time.Duration, actions int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyActionCount.Field(actions),
	}

	signal := SignalReceiveComplete
	switch op {
	case boundaryLoad:
		signal = SignalLoadComplete
	case boundaryStore:
		signal = SignalStoreComplete
	case boundarySend:
		signal = SignalSendComplete
	}

	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, signal, fields...)
		return
	}
	capitan.Emit(ctx, signal, fields...)
}
