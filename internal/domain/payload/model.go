package payload

import "encoding/json"

// Payload is an opaque encoded value plus its metadata. Decoding never
// mutates it.
type Payload struct {
	Metadata map[string][]byte `json:"metadata,omitempty"`
	Data     []byte            `json:"data,omitempty"`
}

// Encoding returns the payload's "encoding" metadata entry.
func (p *Payload) Encoding() string {
	if p == nil {
		return ""
	}
	return string(p.Metadata[MetadataEncoding])
}

const (
	MetadataEncoding    = "encoding"
	MetadataMessageType = "messageType"

	EncodingJSON           = "json/plain"
	EncodingBinaryEncrypt  = "binary/encrypted"
	EncodingEncodingCrypt  = "encoding/encrypted"
	EncodingBinaryProtobuf = "binary/protobuf"
	EncodingJSONProtobuf   = "json/protobuf"
)

const (
	encryptedNote = "Payloads are encrypted. Configure a codec server endpoint for decryption."
	protobufNote  = "Install the project's protobuf definitions for full deserialization"
)

// Value is a decoded payload. The concrete types are JSON, Truncated,
// Protobuf, Encrypted and List.
type Value interface {
	// Plain projects the value onto plain JSON-compatible Go values.
	Plain() any
	isValue()
}

// JSON is a parsed JSON document, or the raw text when parsing failed.
// A nil V means null.
type JSON struct {
	V any
}

// Truncated replaces a payload larger than the active threshold.
type Truncated struct {
	Preview       string
	FullSizeBytes int
}

// Protobuf marks a binary or JSON protobuf payload that is not deserialized.
type Protobuf struct {
	MessageType string
}

// Encrypted marks a payload encrypted by a codec.
type Encrypted struct{}

// List holds several decoded values.
type List struct {
	Items []Value
}

func (JSON) isValue()      {}
func (Truncated) isValue() {}
func (Protobuf) isValue()  {}
func (Encrypted) isValue() {}
func (List) isValue()      {}

func (v JSON) Plain() any { return v.V }

func (v Truncated) Plain() any {
	return map[string]any{
		"_truncated":    true,
		"preview":       v.Preview,
		"fullSizeBytes": v.FullSizeBytes,
	}
}

func (v Protobuf) Plain() any {
	return map[string]any{
		"_type":       "protobuf",
		"messageType": v.MessageType,
		"note":        protobufNote,
	}
}

func (Encrypted) Plain() any {
	return map[string]any{
		"_type": "encrypted",
		"note":  encryptedNote,
	}
}

func (v List) Plain() any {
	items := make([]any, len(v.Items))
	for i, item := range v.Items {
		items[i] = item.Plain()
	}
	return items
}

func (v JSON) MarshalJSON() ([]byte, error)      { return json.Marshal(v.Plain()) }
func (v Truncated) MarshalJSON() ([]byte, error) { return json.Marshal(v.Plain()) }
func (v Protobuf) MarshalJSON() ([]byte, error)  { return json.Marshal(v.Plain()) }
func (v Encrypted) MarshalJSON() ([]byte, error) { return json.Marshal(v.Plain()) }
func (v List) MarshalJSON() ([]byte, error)      { return json.Marshal(v.Plain()) }

// IsNull reports whether v is nil or a JSON null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	j, ok := v.(JSON)
	return ok && j.V == nil
}
