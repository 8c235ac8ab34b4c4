package shuttle

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for engine events.
var (
	SignalSerializeStart    = capitan.NewSignal("shuttle.serialize.start", "Serialize call beginning")
	SignalSerializeComplete = capitan.NewSignal("shuttle.serialize.complete", "Serialize call finished")
	SignalDeserializeStart  = capitan.NewSignal("shuttle.deserialize.start", "Deserialize call beginning")
	SignalDeserializeComplete = capitan.NewSignal("shuttle.deserialize.complete", "Deserialize call finished")
	SignalCodecRegistered   = capitan.NewSignal("shuttle.codec.registered", "A type was bound to a serializer")
	SignalPlaceholderResolved = capitan.NewSignal("shuttle.placeholder.resolved", "A forward reference was fixed up")
)

// Keys for typed event data.
var (
	KeyTypeName      = capitan.NewStringKey("type_name")
	KeySerializerID  = capitan.NewIntKey("serializer_id")
	KeyBufferCount   = capitan.NewIntKey("buffer_count")
	KeyBufferBytes   = capitan.NewIntKey("buffer_bytes")
	KeyDuration      = capitan.NewDurationKey("duration")
	KeyError         = capitan.NewErrorKey("error")
	KeyPlaceholderID = capitan.NewIntKey("placeholder_id")
	KeyFixupCount    = capitan.NewIntKey("fixup_count")
)

func emitSerializeStart(ctx context.Context) {
	capitan.Emit(ctx, SignalSerializeStart)
}

func emitSerializeComplete(ctx context.Context, duration time.Duration, bufCount, bufBytes int, err error) {
	fields := []capitan.Field{
		KeyDuration.Field(duration),
		KeyBufferCount.Field(bufCount),
		KeyBufferBytes.Field(bufBytes),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSerializeComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalSerializeComplete, fields...)
}

func emitDeserializeStart(ctx context.Context) {
	capitan.Emit(ctx, SignalDeserializeStart)
}

func emitDeserializeComplete(ctx context.Context, duration time.Duration, err error) {
	fields := []capitan.Field{KeyDuration.Field(duration)}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDeserializeComplete, fields...)
		return
	}
	capitan.Emit(ctx, SignalDeserializeComplete, fields...)
}

func emitCodecRegistered(typeName string, serializerID uint32) {
	capitan.Emit(context.Background(), SignalCodecRegistered,
		KeyTypeName.Field(typeName),
		KeySerializerID.Field(int(serializerID)),
	)
}

func emitPlaceholderResolved(placeholderID uint32, fixupCount int) {
	capitan.Emit(context.Background(), SignalPlaceholderResolved,
		KeyPlaceholderID.Field(int(placeholderID)),
		KeyFixupCount.Field(fixupCount),
	)
}
