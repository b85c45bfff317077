package matchv1

import "encoding/json"

// CodecName is the Connect codec name; it maps to the application/json content type
const CodecName = "json"

// JSONCodec marshals plain Go messages with encoding/json
type JSONCodec struct{}

func (JSONCodec) Name() string { return CodecName }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
