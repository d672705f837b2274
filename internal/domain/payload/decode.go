package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// PreviewChars is the length of a truncation preview, in characters.
const PreviewChars = 500

// Decode turns a payload into a Value. truncateAt is a byte threshold;
// zero or less disables truncation. Decode never fails.
func Decode(p *Payload, truncateAt int) Value {
	if p == nil || len(p.Data) == 0 {
		return JSON{}
	}

	encoding := p.Encoding()
	switch {
	case encoding == EncodingBinaryEncrypt || encoding == EncodingEncodingCrypt:
		return Encrypted{}
	case encoding == EncodingBinaryProtobuf || strings.HasPrefix(encoding, EncodingJSONProtobuf):
		messageType := string(p.Metadata[MetadataMessageType])
		if messageType == "" {
			messageType = "unknown"
		}
		return Protobuf{MessageType: messageType}
	}

	text := string(bytes.ToValidUTF8(p.Data, []byte(string(utf8.RuneError))))
	if truncateAt > 0 && len(p.Data) > truncateAt {
		return Truncated{Preview: preview(text), FullSizeBytes: len(p.Data)}
	}

	v, err := parseJSON(p.Data)
	if err != nil {
		return JSON{V: text}
	}
	return JSON{V: v}
}

// DecodeMany decodes each payload in order.
func DecodeMany(payloads []Payload, truncateAt int) []Value {
	values := make([]Value, 0, len(payloads))
	for i := range payloads {
		values = append(values, Decode(&payloads[i], truncateAt))
	}
	return values
}

// DecodeOneOrMany collapses a single payload to its bare value and no
// payloads to null.
func DecodeOneOrMany(payloads []Payload, truncateAt int) Value {
	values := DecodeMany(payloads, truncateAt)
	switch len(values) {
	case 0:
		return JSON{}
	case 1:
		return values[0]
	default:
		return List{Items: values}
	}
}

func parseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= PreviewChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:PreviewChars])
}
