package data3d

import (
	"log/slog"
)

// Options configures a single Marshal or Unmarshal call.
type Options struct {
	// Logger receives progress and diagnostic messages. Nil discards them.
	Logger *slog.Logger

	// Payload, when not nil, switches mesh arrays to the buffer layout. On
	// Unmarshal, arrays are read from the payload through their offset and
	// length keys. On Marshal, arrays are appended to the payload and
	// replaced by offset and length keys.
	Payload *Payload

	// InheritMaterials allows a mesh to refer to a material of an ancestor
	// node, as is done by flattened buffer documents.
	InheritMaterials bool
}

// Log returns Logger, or a logger that discards everything when Logger is
// nil.
func (o Options) Log() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
