package marphezis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepSet(t *testing.T) {
	testCases := []struct {
		description string
		doc         string
		path        string
		value       interface{}
		expected    string
	}{
		{
			description: "creates parents",
			doc:         `{"id":"1"}`,
			path:        "regs.ext.gdpr",
			value:       1,
			expected:    `{"id":"1","regs":{"ext":{"gdpr":1}}}`,
		},
		{
			description: "keeps siblings",
			doc:         `{"regs":{"coppa":1,"ext":{"gdpr":0}}}`,
			path:        "regs.ext.us_privacy",
			value:       "1YNN",
			expected:    `{"regs":{"coppa":1,"ext":{"gdpr":0,"us_privacy":"1YNN"}}}`,
		},
		{
			description: "replaces leaf",
			doc:         `{"user":{"ext":{"consent":"old"}}}`,
			path:        "user.ext.consent",
			value:       "new",
			expected:    `{"user":{"ext":{"consent":"new"}}}`,
		},
		{
			description: "raw values",
			doc:         `{}`,
			path:        "source.ext.schain",
			value:       json.RawMessage(`{"ver":"1.0","nodes":[{"asi":"a.com","hp":1}]}`),
			expected:    `{"source":{"ext":{"schain":{"ver":"1.0","nodes":[{"asi":"a.com","hp":1}]}}}}`,
		},
		{
			description: "keeps null members of objects",
			doc:         `{}`,
			path:        "user.ext.ids",
			value:       json.RawMessage(`{"pubcid":null,"lotame":{"id":"x","keyValue":null}}`),
			expected:    `{"user":{"ext":{"ids":{"pubcid":null,"lotame":{"id":"x","keyValue":null}}}}}`,
		},
		{
			description: "keeps null members inside arrays",
			doc:         `{"source":{"fd":1}}`,
			path:        "source.ext.schain",
			value:       json.RawMessage(`{"ver":"1.0","nodes":[{"asi":"a.com","sid":"1","hp":1,"rid":null,"name":null}]}`),
			expected:    `{"source":{"fd":1,"ext":{"schain":{"ver":"1.0","nodes":[{"asi":"a.com","sid":"1","hp":1,"rid":null,"name":null}]}}}}`,
		},
		{
			description: "top level key",
			doc:         `{"id":"1"}`,
			path:        "tmax",
			value:       300,
			expected:    `{"id":"1","tmax":300}`,
		},
		{
			description: "arrays are replaced",
			doc:         `{"user":{"ext":{"eids":[1,2]}}}`,
			path:        "user.ext.eids",
			value:       []int{3},
			expected:    `{"user":{"ext":{"eids":[3]}}}`,
		},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			actual, err := deepSet([]byte(test.doc), test.path, test.value)
			require.NoError(t, err)
			assert.JSONEq(t, test.expected, string(actual))
		})
	}
}

func TestDeepSetInvalidDocument(t *testing.T) {
	_, err := deepSet([]byte(`not json`), "a.b", 1)
	assert.Error(t, err)
}

func TestDeepSetUnencodableValue(t *testing.T) {
	_, err := deepSet([]byte(`{}`), "a.b", make(chan int))
	assert.Error(t, err)
}
