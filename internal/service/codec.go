package service

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec serializes plain Go structs for Connect. It replaces connect's
// built-in "json" codec, which only accepts protobuf messages.
type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// withJSON is added to every handler and client in this package.
var withJSON = connect.WithCodec(jsonCodec{})
