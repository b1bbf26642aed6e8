package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Codec serializes collections.
type Codec interface {
	Name() string
	Ext() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSON is the default, human-readable codec.
var JSON Codec = jsonCodec{}

// CBOR is a compact binary codec with deterministic encoding.
var CBOR Codec

func init() {
	enc := cbor.CoreDetEncOptions()
	// Money and other TextMarshaler types travel as text, as they do in JSON.
	enc.TextMarshaler = cbor.TextMarshalerTextString
	// Purchase dates are calendar days; keep the zone offset.
	enc.Time = cbor.TimeRFC3339Nano
	encMode, err := enc.EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err := cbor.DecOptions{
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
	CBOR = cborCodec{enc: encMode, dec: decMode}
}

// CodecByName returns the codec called name ("json" or "cbor").
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSON, nil
	case "cbor":
		return CBOR, nil
	}
	return nil, fmt.Errorf("unknown snapshot codec %q", name)
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }
func (jsonCodec) Ext() string  { return ".json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func (cborCodec) Name() string { return "cbor" }
func (cborCodec) Ext() string  { return ".cbor" }

func (c cborCodec) Marshal(v any) ([]byte, error) {
	return c.enc.Marshal(v)
}

func (c cborCodec) Unmarshal(data []byte, v any) error {
	return c.dec.Unmarshal(data, v)
}
