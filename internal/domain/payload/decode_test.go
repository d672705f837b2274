package payload_test

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rpggio/temporal-xray/internal/domain/payload"
	"github.com/stretchr/testify/require"
)

func jsonPayload(data string) payload.Payload {
	return payload.Payload{
		Metadata: map[string][]byte{payload.MetadataEncoding: []byte(payload.EncodingJSON)},
		Data:     []byte(data),
	}
}

func TestDecode_NilAndEmpty(t *testing.T) {
	require.Equal(t, payload.JSON{}, payload.Decode(nil, 0))
	require.Equal(t, payload.JSON{}, payload.Decode(&payload.Payload{}, 0))
	require.True(t, payload.IsNull(payload.Decode(nil, 10)))
}

func TestDecode_JSON(t *testing.T) {
	p := jsonPayload(`{"orderId":"o-1","amount":42}`)

	v := payload.Decode(&p, 0)
	doc, ok := v.(payload.JSON)
	require.True(t, ok)
	m, ok := doc.V.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "o-1", m["orderId"])
	require.Equal(t, json.Number("42"), m["amount"])
}

func TestDecode_InvalidJSONFallsBackToText(t *testing.T) {
	p := jsonPayload(`not json`)
	require.Equal(t, payload.JSON{V: "not json"}, payload.Decode(&p, 0))

	p = jsonPayload(`{"a":1} trailing`)
	require.Equal(t, payload.JSON{V: `{"a":1} trailing`}, payload.Decode(&p, 0))
}

func TestDecode_Encrypted(t *testing.T) {
	for _, enc := range []string{"binary/encrypted", "encoding/encrypted"} {
		p := payload.Payload{
			Metadata: map[string][]byte{"encoding": []byte(enc)},
			Data:     []byte("ciphertext"),
		}
		require.Equal(t, payload.Encrypted{}, payload.Decode(&p, 0))
	}
}

func TestDecode_Protobuf(t *testing.T) {
	p := payload.Payload{
		Metadata: map[string][]byte{
			"encoding":    []byte("json/protobuf"),
			"messageType": []byte("orders.v1.Order"),
		},
		Data: []byte(`{"id":"1"}`),
	}
	require.Equal(t, payload.Protobuf{MessageType: "orders.v1.Order"}, payload.Decode(&p, 0))

	p = payload.Payload{
		Metadata: map[string][]byte{"encoding": []byte("binary/protobuf")},
		Data:     []byte{0x0a, 0x01},
	}
	require.Equal(t, payload.Protobuf{MessageType: "unknown"}, payload.Decode(&p, 0))
}

func TestDecode_Truncation(t *testing.T) {
	body := `"` + strings.Repeat("x", 2000) + `"`
	p := jsonPayload(body)

	v := payload.Decode(&p, 1000)
	tr, ok := v.(payload.Truncated)
	require.True(t, ok)
	require.Equal(t, len(body), tr.FullSizeBytes)
	require.Equal(t, payload.PreviewChars, utf8.RuneCountInString(tr.Preview))
	require.True(t, strings.HasPrefix(body, tr.Preview))

	// At the threshold exactly, no truncation.
	short := jsonPayload(`"abc"`)
	require.Equal(t, payload.JSON{V: "abc"}, payload.Decode(&short, 5))

	// Disabled threshold.
	_, ok = payload.Decode(&p, 0).(payload.JSON)
	require.True(t, ok)
}

func TestDecode_TruncationPreviewCountsCharacters(t *testing.T) {
	body := strings.Repeat("é", 600)
	p := jsonPayload(body)

	tr, ok := payload.Decode(&p, 100).(payload.Truncated)
	require.True(t, ok)
	require.Equal(t, len(body), tr.FullSizeBytes)
	require.Equal(t, strings.Repeat("é", payload.PreviewChars), tr.Preview)
}

func TestDecodeOneOrMany(t *testing.T) {
	a := jsonPayload(`1`)
	b := jsonPayload(`"two"`)

	require.Equal(t, payload.JSON{}, payload.DecodeOneOrMany(nil, 0))
	require.Equal(t, payload.JSON{V: json.Number("1")}, payload.DecodeOneOrMany([]payload.Payload{a}, 0))
	require.Equal(t,
		payload.List{Items: []payload.Value{payload.JSON{V: json.Number("1")}, payload.JSON{V: "two"}}},
		payload.DecodeOneOrMany([]payload.Payload{a, b}, 0),
	)
}

func TestDecodeMany_Empty(t *testing.T) {
	values := payload.DecodeMany(nil, 0)
	require.NotNil(t, values)
	require.Empty(t, values)
}

func TestValue_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(payload.Truncated{Preview: "abc", FullSizeBytes: 20000})
	require.NoError(t, err)
	require.JSONEq(t, `{"_truncated":true,"preview":"abc","fullSizeBytes":20000}`, string(data))

	data, err = json.Marshal(payload.Encrypted{})
	require.NoError(t, err)
	require.JSONEq(t, `{"_type":"encrypted","note":"Payloads are encrypted. Configure a codec server endpoint for decryption."}`, string(data))

	data, err = json.Marshal(payload.List{Items: []payload.Value{payload.JSON{V: "a"}, payload.Protobuf{MessageType: "x.Y"}}})
	require.NoError(t, err)
	require.JSONEq(t, `["a",{"_type":"protobuf","messageType":"x.Y","note":"Install the project's protobuf definitions for full deserialization"}]`, string(data))
}

func TestDecode_DoesNotMutatePayload(t *testing.T) {
	p := jsonPayload(`{"k":"v"}`)
	before := append([]byte(nil), p.Data...)

	first := payload.Decode(&p, 0)
	second := payload.Decode(&p, 0)
	require.Equal(t, first, second)
	require.Equal(t, before, p.Data)
}
