// Package wire holds what the server and client of the Core service share:
// the JSON codec, the stream descriptor and the reply frame.
package wire

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of every Core frame.
const CodecName = "json"

// Codec marshals frames as JSON. It is registered with gRPC on import.
type Codec struct{}

var _ encoding.Codec = Codec{}

func init() { encoding.RegisterCodec(Codec{}) }

// Marshal implements encoding.Codec.
func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal implements encoding.Codec. A *json.RawMessage receives the frame
// unvalidated, so a malformed envelope reaches the request parser instead of
// failing the stream.
func (Codec) Unmarshal(data []byte, v any) error {
	if raw, ok := v.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	return json.Unmarshal(data, v)
}

// Name implements encoding.Codec.
func (Codec) Name() string { return CodecName }
