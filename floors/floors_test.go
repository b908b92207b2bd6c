package floors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	testCases := []struct {
		name          string
		provider      Provider
		static        float64
		expectedFloor float64
		expectedOK    bool
	}{
		{
			name:          "static-floor",
			static:        1.25,
			expectedFloor: 1.25,
			expectedOK:    true,
		},
		{
			name:       "static-zero-omitted",
			static:     0,
			expectedOK: false,
		},
		{
			name:          "provider-usd",
			provider:      &Static{Currency: "USD", Floor: 0.75},
			static:        2,
			expectedFloor: 0.75,
			expectedOK:    true,
		},
		{
			name:       "provider-other-currency-ignores-static",
			provider:   &Static{Currency: "EUR", Floor: 0.75},
			static:     2,
			expectedOK: false,
		},
		{
			name:       "provider-no-answer",
			provider:   ProviderFunc(func(FloorRequest) *Floor { return nil }),
			static:     2,
			expectedOK: false,
		},
		{
			name:       "provider-nan",
			provider:   &Static{Currency: "USD", Floor: math.NaN()},
			expectedOK: false,
		},
		{
			name:       "provider-zero",
			provider:   &Static{Currency: "USD", Floor: 0},
			expectedOK: false,
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			floor, ok := Resolve(test.provider, test.static)
			assert.Equal(t, test.expectedOK, ok)
			if test.expectedOK {
				assert.Equal(t, test.expectedFloor, floor)
			}
		})
	}
}

func TestResolveRequest(t *testing.T) {
	var got FloorRequest
	provider := ProviderFunc(func(req FloorRequest) *Floor {
		got = req
		return &Floor{Currency: "USD", Floor: 1}
	})

	Resolve(provider, 0)

	assert.Equal(t, FloorRequest{Currency: "USD", MediaType: "*", Size: "*"}, got)
}

func TestStaticFloor(t *testing.T) {
	testCases := []struct {
		name     string
		params   string
		expected float64
	}{
		{name: "number", params: `{"publisherId":"p","bidFloor":0.5}`, expected: 0.5},
		{name: "numeric-string", params: `{"bidFloor":"1.5"}`, expected: 1.5},
		{name: "garbage-string", params: `{"bidFloor":"abc"}`, expected: 0},
		{name: "boolean", params: `{"bidFloor":true}`, expected: 0},
		{name: "missing", params: `{"publisherId":"p"}`, expected: 0},
		{name: "not-json", params: `nope`, expected: 0},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, StaticFloor([]byte(test.params)))
		})
	}
}
