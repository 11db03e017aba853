package wire

import (
	"encoding/json"
	"encoding/xml"
)

// EncodeJSON is a Serializable encoder for JSON wire formats.
func EncodeJSON[T any](v T) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeJSON is a Deserializable decoder for JSON wire formats.
func DecodeJSON[T any](raw []byte) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}

// EncodeXML is a Serializable encoder for XML wire formats, prefixed with
// the standard declaration.
func EncodeXML[T any](v T) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}

// DecodeXML is a Deserializable decoder for XML wire formats.
func DecodeXML[T any](raw []byte) (T, error) {
	var v T
	err := xml.Unmarshal(raw, &v)
	return v, err
}
