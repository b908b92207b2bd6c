package jsonutil

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

var jsonConfig = jsoniter.ConfigCompatibleWithStandardLibrary

// Marshal encodes v the same way encoding/json does.
func Marshal(v interface{}) ([]byte, error) {
	return jsonConfig.Marshal(v)
}

// Unmarshal decodes data into v the same way encoding/json does.
func Unmarshal(data []byte, v interface{}) error {
	return jsonConfig.Unmarshal(data, v)
}

// IsObject reports whether data holds a JSON object. Leading whitespace is ignored.
// It does not validate the rest of the document.
func IsObject(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
