package adapterstest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/marphezis/prebid-adapters/adapters"
	"github.com/marphezis/prebid-adapters/floors"
	"github.com/marphezis/prebid-adapters/page"
	"github.com/marphezis/prebid-adapters/util/jsonutil"
	"github.com/stretchr/testify/assert"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// RunJSONBidderTest is a helper method intended to unit test Bidders' adapters.
// It requires that:
//
//  1. Bidders communicate with external servers over HTTP.
//  2. The HTTP request bodies are legal JSON.
//
// Although the project does not require it, it's a good practice to write tests for
// your adapter with this helper.
//
// This method will look for *.json files in the following subdirectories of rootDir:
//
//	"{rootDir}/exemplary": Tests which demonstrate how the bidder is intended to be used.
//	    The bid requests should be valid, and produce no errors.
//	"{rootDir}/supplemental": Tests which demonstrate how the bidder handles invalid
//	    input or server responses, and the errors it reports.
//
// Each file is a testSpec: the slots and the auction context, the expected outbound
// request, a mocked exchange response and the bids the bidder should produce from it.
// Slots the bidder rejects through IsBidRequestValid never reach BuildRequests, the
// way a host filters them.
func RunJSONBidderTest(t *testing.T, rootDir string, bidder adapters.Bidder) {
	runTests(t, fmt.Sprintf("%s/exemplary", rootDir), bidder, false)
	runTests(t, fmt.Sprintf("%s/supplemental", rootDir), bidder, true)
}

// runTests runs all the *.json files in a directory. If allowErrors is false, and one
// of the test files has an expected error, then the test will fail.
func runTests(t *testing.T, directory string, bidder adapters.Bidder, allowErrors bool) {
	t.Helper()
	if specFiles, err := os.ReadDir(directory); err == nil {
		for _, specFile := range specFiles {
			if specFile.IsDir() || !strings.HasSuffix(specFile.Name(), ".json") {
				continue
			}
			fileName := filepath.Join(directory, specFile.Name())
			specData, err := loadFile(fileName)
			if err != nil {
				t.Fatalf("Failed to load contents of file %s: %v", fileName, err)
			}

			if !allowErrors && specData.expectsErrors() {
				t.Fatalf("Exemplary spec %s must not expect errors.", fileName)
			}
			runSpec(t, fileName, specData, bidder)
		}
	}
}

// loadFile reads and parses a file as a test case. If something goes wrong, it returns an error.
func loadFile(filename string) (*testSpec, error) {
	specData, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("Failed to read file %s: %v", filename, err)
	}

	var spec testSpec
	if err := jsonutil.Unmarshal(specData, &spec); err != nil {
		return nil, fmt.Errorf("Failed to unmarshal JSON from file: %v", err)
	}

	return &spec, nil
}

// runSpec runs a single test case. It will make sure:
//
//   - That the Bidder does not return nil values in the error slices.
//   - That the outbound request matches the expected request.
//   - That the Bidder's errors match the spec's expected errors.
//   - That the Bidder's bids match the spec's expected bids.
func runSpec(t *testing.T, filename string, spec *testSpec, bidder adapters.Bidder) {
	requests := make([]*adapters.BidRequest, 0, len(spec.BidRequests))
	for i := range spec.BidRequests {
		request := spec.BidRequests[i].bidRequest()
		if bidder.IsBidRequestValid(request) {
			requests = append(requests, request)
		}
	}

	var actualReq *adapters.RequestData
	if len(requests) > 0 {
		var err error
		actualReq, err = bidder.BuildRequests(requests, spec.bidderRequest())
		var errs []error
		if err != nil {
			errs = append(errs, err)
		}
		assertErrorList(t, fmt.Sprintf("%s: BuildRequests", filename), errs, spec.BuildErrors)
	}

	if len(spec.HttpCalls) == 0 {
		assert.Nil(t, actualReq, "%s: BuildRequests built a request when none was expected", filename)
		return
	}
	if len(spec.HttpCalls) > 1 {
		t.Fatalf("%s: bidders send a single request per auction, got %d httpCalls", filename, len(spec.HttpCalls))
	}

	call := spec.HttpCalls[0]
	if !assert.NotNil(t, actualReq, "%s: BuildRequests did not build a request", filename) {
		return
	}
	assertRequest(t, filename, actualReq, call.Request)

	bids, errs := bidder.InterpretResponse(call.Response.responseData())
	assertErrorList(t, fmt.Sprintf("%s: InterpretResponse", filename), errs, spec.BidErrors)
	assertBids(t, filename, bids, spec.Bids)
}

type testSpec struct {
	Page          *page.Snapshot          `json:"page"`
	BidRequests   []testBidRequest        `json:"mockBidRequests"`
	BidderRequest *adapters.BidderRequest `json:"mockBidderRequest"`
	HttpCalls     []httpCall              `json:"httpCalls"`
	Bids          []json.RawMessage       `json:"expectedBids"`
	BuildErrors   []testSpecExpectedError `json:"expectedMakeRequestsErrors"`
	BidErrors     []testSpecExpectedError `json:"expectedMakeBidsErrors"`
}

func (spec *testSpec) expectsErrors() bool {
	return len(spec.BuildErrors) > 0 || len(spec.BidErrors) > 0
}

// bidderRequest attaches the page snapshot to the auction context.
func (spec *testSpec) bidderRequest() *adapters.BidderRequest {
	if spec.BidderRequest == nil && spec.Page == nil {
		return nil
	}
	bidderRequest := &adapters.BidderRequest{}
	if spec.BidderRequest != nil {
		copied := *spec.BidderRequest
		bidderRequest = &copied
	}
	if spec.Page != nil {
		bidderRequest.Page = spec.Page.NewContext()
	}
	return bidderRequest
}

// testBidRequest is a slot plus the answer of its floors provider. Without Floor and
// FloorUnavailable the slot has no provider.
type testBidRequest struct {
	adapters.BidRequest
	Floor            *floors.Static `json:"floor,omitempty"`
	FloorUnavailable bool           `json:"floorUnavailable,omitempty"`
}

func (r *testBidRequest) bidRequest() *adapters.BidRequest {
	request := r.BidRequest
	switch {
	case r.Floor != nil:
		request.FloorProvider = r.Floor
	case r.FloorUnavailable:
		request.FloorProvider = floors.ProviderFunc(func(floors.FloorRequest) *floors.Floor { return nil })
	}
	return &request
}

type httpCall struct {
	Request  httpRequest  `json:"expectedRequest"`
	Response httpResponse `json:"mockResponse"`
}

type httpRequest struct {
	Method  string            `json:"method"`
	Uri     string            `json:"uri"`
	Headers map[string]string `json:"headers"`
	Body    json.RawMessage   `json:"body"`
}

type httpResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
	// RawBody is sent verbatim instead of Body, for responses which are not JSON.
	RawBody *string `json:"rawBody"`
}

func (r httpResponse) responseData() *adapters.ResponseData {
	body := []byte(r.Body)
	if r.RawBody != nil {
		body = []byte(*r.RawBody)
	}
	return &adapters.ResponseData{
		StatusCode: r.Status,
		Body:       body,
	}
}

type testSpecExpectedError struct {
	Comparison string `json:"comparison"`
	Value      string `json:"value"`
}

func assertRequest(t *testing.T, filename string, actual *adapters.RequestData, expected httpRequest) {
	t.Helper()
	if expected.Method != "" {
		assert.Equal(t, expected.Method, actual.Method, "%s: method", filename)
	}
	assert.Equal(t, expected.Uri, actual.Uri, "%s: uri", filename)
	for name, value := range expected.Headers {
		assert.Equal(t, value, actual.Headers.Get(name), "%s: header %s", filename, name)
	}
	diffJson(t, fmt.Sprintf("%s: request body", filename), actual.Body, expected.Body)
}

func assertBids(t *testing.T, filename string, actual []*adapters.Bid, expected []json.RawMessage) {
	t.Helper()
	if len(expected) == 0 {
		assert.Empty(t, actual, "%s: expected no bids", filename)
		return
	}
	if !assert.Len(t, actual, len(expected), "%s: bids", filename) {
		return
	}
	for i := range expected {
		actualJSON, err := jsonutil.Marshal(actual[i])
		if err != nil {
			t.Fatalf("%s: failed to marshal bid %d: %v", filename, i, err)
		}
		diffJson(t, fmt.Sprintf("%s: bid %d", filename, i), actualJSON, expected[i])
	}
}

// assertErrorList asserts that the expected errors match the actual errors, in order.
func assertErrorList(t *testing.T, description string, actual []error, expected []testSpecExpectedError) {
	t.Helper()
	if !assert.Len(t, actual, len(expected), "%s had wrong error count. Expected %d, got %d (%v)", description, len(expected), len(actual), actual) {
		return
	}
	for i := 0; i < len(actual); i++ {
		if actual[i] == nil {
			t.Errorf("%s error[%d] was nil. Bidders must not return nil errors.", description, i)
			continue
		}
		switch expected[i].Comparison {
		case "literal":
			assert.Equal(t, expected[i].Value, actual[i].Error(), "%s error[%d] had wrong message", description, i)
		case "regex":
			matched, err := regexp.MatchString(expected[i].Value, actual[i].Error())
			if err != nil {
				t.Fatalf("%s regex %s failed to compile: %v", description, expected[i].Value, err)
			}
			assert.True(t, matched, "%s error[%d] had wrong message. Expected match with regex %s, got %s", description, i, expected[i].Value, actual[i].Error())
		default:
			t.Fatalf("invalid comparison type \"%s\"", expected[i].Comparison)
		}
	}
}

// diffJson compares two JSON documents semantically. Arrays at the top level are wrapped
// in an object, since gojsondiff only compares objects.
func diffJson(t *testing.T, description string, actual []byte, expected []byte) {
	t.Helper()
	if len(actual) == 0 {
		t.Errorf("%s: actual json is empty", description)
		return
	}

	wrappedActual := []byte(`{"value":` + string(actual) + `}`)
	wrappedExpected := []byte(`{"value":` + string(expected) + `}`)

	diff, err := gojsondiff.New().Compare(wrappedActual, wrappedExpected)
	if err != nil {
		t.Fatalf("%s json diff failed. %v", description, err)
	}

	if diff.Modified() {
		var left interface{}
		if err := json.Unmarshal(wrappedActual, &left); err != nil {
			t.Fatalf("%s json did not match, but unmarshalling failed. %v", description, err)
		}
		printer := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{
			ShowArrayIndex: true,
		})
		output, err := printer.Format(diff)
		if err != nil {
			t.Errorf("%s did not match, but diff formatting failed. %v", description, err)
		} else {
			t.Errorf("%s json did not match expected.\n\n%s", description, output)
		}
	}
}
