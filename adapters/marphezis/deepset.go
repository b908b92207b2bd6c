package marphezis

import (
	"strings"

	"github.com/buger/jsonparser"
	jsonpatch "github.com/evanphx/json-patch"
	"github.com/marphezis/prebid-adapters/util/jsonutil"
)

// deepSet writes value at the dotted path of doc, creating the missing parent objects.
// Parents are created with a JSON merge patch, so keys already present next to the target
// survive. The leaf is written verbatim: null members and array elements are kept.
func deepSet(doc []byte, path string, value interface{}) ([]byte, error) {
	raw, err := jsonutil.Marshal(value)
	if err != nil {
		return nil, err
	}

	keys := strings.Split(path, ".")
	if len(keys) > 1 {
		if doc, err = jsonpatch.MergePatch(doc, parentPatch(keys[:len(keys)-1])); err != nil {
			return nil, err
		}
	}
	return jsonparser.Set(doc, raw, keys...)
}

// parentPatch nests an empty object under keys: a.b becomes {"a":{"b":{}}}.
func parentPatch(keys []string) []byte {
	patch := []byte(`{}`)
	for i := len(keys) - 1; i >= 0; i-- {
		key, _ := jsonutil.Marshal(keys[i])
		wrapped := make([]byte, 0, len(key)+len(patch)+3)
		wrapped = append(wrapped, '{')
		wrapped = append(wrapped, key...)
		wrapped = append(wrapped, ':')
		wrapped = append(wrapped, patch...)
		wrapped = append(wrapped, '}')
		patch = wrapped
	}
	return patch
}
