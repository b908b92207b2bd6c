package marphezis

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/buger/jsonparser"
	"github.com/marphezis/prebid-adapters/adapters"
	"github.com/marphezis/prebid-adapters/errortypes"
	"github.com/marphezis/prebid-adapters/floors"
	"github.com/marphezis/prebid-adapters/logger"
	"github.com/marphezis/prebid-adapters/metrics"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	"github.com/marphezis/prebid-adapters/page"
	"github.com/marphezis/prebid-adapters/util/uuidutil"
	"github.com/prebid/openrtb/v20/openrtb2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const safariUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"

func newTestTranslator(me metrics.MetricsEngine) (*Translator, *logger.Recorder) {
	recorder := logger.NewRecorder()
	return NewTranslator(openrtb_ext.BidderOms, "OMS", "https://rt.marphezis.com/hb", me, recorder, uuidutil.FixedGenerator("request-id")), recorder
}

func slot(bidID string, params string) *adapters.BidRequest {
	return &adapters.BidRequest{
		Bidder:     "oms",
		BidID:      bidID,
		AdUnitCode: "div-" + bidID,
		MediaTypes: adapters.MediaTypes{
			Banner: &adapters.BannerMediaType{Sizes: json.RawMessage(`[[300,250]]`)},
		},
		Params: json.RawMessage(params),
	}
}

// withSizes replaces the banner and legacy sizes of request. Empty strings unset them.
func withSizes(request *adapters.BidRequest, banner, legacy string) *adapters.BidRequest {
	request.MediaTypes.Banner = nil
	if banner != "" {
		request.MediaTypes.Banner = &adapters.BannerMediaType{Sizes: json.RawMessage(banner)}
	}
	request.Sizes = nil
	if legacy != "" {
		request.Sizes = json.RawMessage(legacy)
	}
	return request
}

func TestPublisherID(t *testing.T) {
	testCases := []struct {
		description string
		params      string
		expected    string
	}{
		{"string", `{"publisherId":"pub-1"}`, `"pub-1"`},
		{"escaped string", `{"publisherId":"a\"b"}`, `"a\"b"`},
		{"integer", `{"publisherId":1234}`, `1234`},
		{"float", `{"publisherId":1.5}`, `1.5`},
		{"true", `{"publisherId":true}`, `true`},
		{"object", `{"publisherId":{"id":1}}`, `{"id":1}`},
		{"array", `{"publisherId":[1]}`, `[1]`},
		{"empty string", `{"publisherId":""}`, `""`},
		{"zero", `{"publisherId":0}`, `""`},
		{"false", `{"publisherId":false}`, `""`},
		{"null", `{"publisherId":null}`, `""`},
		{"missing", `{}`, `""`},
		{"no params", ``, `""`},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			assert.Equal(t, test.expected, string(publisherID(json.RawMessage(test.params))))
		})
	}
}

func TestBuildRequestsHeaders(t *testing.T) {
	translator, _ := newTestTranslator(nil)
	snapshot := &page.Snapshot{UserAgent: safariUserAgent, VisibilityState: page.VisibilityVisible}

	request, err := translator.BuildRequests([]*adapters.BidRequest{slot("1", `{"publisherId":"p"}`)},
		&adapters.BidderRequest{Page: snapshot.NewContext()}, RequestOptions{})
	require.NoError(t, err)

	assert.Equal(t, "POST", request.Method)
	assert.Equal(t, "https://rt.marphezis.com/hb", request.Uri)
	assert.Equal(t, "text/plain;charset=utf-8", request.Headers.Get("Content-Type"))
	assert.Equal(t, safariUserAgent, request.Headers.Get("User-Agent"))

	request, err = translator.BuildRequests([]*adapters.BidRequest{slot("1", `{"publisherId":"p"}`)}, nil, RequestOptions{})
	require.NoError(t, err)
	assert.Empty(t, request.Headers.Get("User-Agent"))
	assert.JSONEq(t, `{
		"id": "request-id",
		"imp": [{"id":"1","banner":{"format":[{"w":300,"h":250}],"ext":{"viewability":"na"}},"tagid":"div-1"}],
		"site": {"publisher":{"id":"p"}},
		"device": {"devicetype":2}
	}`, string(request.Body))
}

func TestBuildRequestsOptions(t *testing.T) {
	translator, _ := newTestTranslator(nil)

	request, err := translator.BuildRequests([]*adapters.BidRequest{slot("1", `{"publisherId":"p"}`)}, nil,
		RequestOptions{COPPA: true, FirstPartyData: `{"pcid":"abc","pcidDate":1}`})
	require.NoError(t, err)

	coppa, err := jsonparser.GetInt(request.Body, "regs", "coppa")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), coppa)
	iiq, err := jsonparser.GetString(request.Body, "user", "ext", "iiq")
	assert.NoError(t, err)
	assert.Equal(t, `{"pcid":"abc","pcidDate":1}`, iiq)
}

func TestBuildRequestsFirstSlotIdentifiers(t *testing.T) {
	translator, _ := newTestTranslator(nil)
	first := slot("1", `{"publisherId":"first"}`)
	second := slot("2", `{"publisherId":"second"}`)
	second.SChain = json.RawMessage(`{"ver":"1.0"}`)
	second.UserID = map[string]json.RawMessage{"tdid": json.RawMessage(`"abc"`)}

	request, err := translator.BuildRequests([]*adapters.BidRequest{first, second}, nil, RequestOptions{})
	require.NoError(t, err)

	publisher, err := jsonparser.GetString(request.Body, "site", "publisher", "id")
	assert.NoError(t, err)
	assert.Equal(t, "first", publisher)
	_, _, _, err = jsonparser.Get(request.Body, "source")
	assert.Equal(t, jsonparser.KeyPathNotFoundError, err, "supply chain comes from the first slot")
	_, _, _, err = jsonparser.Get(request.Body, "user")
	assert.Equal(t, jsonparser.KeyPathNotFoundError, err, "user ids come from the first slot")
}

func TestBuildRequestsEmptyIdentifiers(t *testing.T) {
	translator, _ := newTestTranslator(nil)
	first := slot("1", `{"publisherId":"p"}`)
	first.SChain = json.RawMessage(`null`)
	first.UserIDAsEIDs = []openrtb2.EID{}
	first.UserID = map[string]json.RawMessage{}

	request, err := translator.BuildRequests([]*adapters.BidRequest{first}, nil, RequestOptions{})
	require.NoError(t, err)

	_, _, _, err = jsonparser.Get(request.Body, "source")
	assert.Equal(t, jsonparser.KeyPathNotFoundError, err)
	eids, dataType, _, err := jsonparser.Get(request.Body, "user", "ext", "eids")
	assert.NoError(t, err)
	assert.Equal(t, jsonparser.Array, dataType)
	assert.Equal(t, "[]", string(eids))
	ids, _, _, err := jsonparser.Get(request.Body, "user", "ext", "ids")
	assert.NoError(t, err)
	assert.Equal(t, "{}", string(ids))
}

func TestBuildRequestsConsent(t *testing.T) {
	empty := ""
	consentString := "CO-consent"
	testCases := []struct {
		description string
		consent     *adapters.GDPRConsent
		expected    string
	}{
		{"no consent object", nil, `{}`},
		{"consent string", &adapters.GDPRConsent{GDPRApplies: true, ConsentString: &consentString},
			`{"regs":{"ext":{"gdpr":1}},"user":{"ext":{"consent":"CO-consent"}}}`},
		{"empty consent string", &adapters.GDPRConsent{GDPRApplies: true, ConsentString: &empty},
			`{"regs":{"ext":{"gdpr":1}},"user":{"ext":{"consent":""}}}`},
		{"no consent string", &adapters.GDPRConsent{},
			`{"regs":{"ext":{"gdpr":0}}}`},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			translator, _ := newTestTranslator(nil)

			request, err := translator.BuildRequests([]*adapters.BidRequest{slot("1", `{"publisherId":"p"}`)},
				&adapters.BidderRequest{GDPRConsent: test.consent}, RequestOptions{})
			require.NoError(t, err)

			actual := []byte(`{}`)
			for _, key := range []string{"regs", "user"} {
				if value, _, _, err := jsonparser.Get(request.Body, key); err == nil {
					actual, err = jsonparser.Set(actual, value, key)
					require.NoError(t, err)
				}
			}
			assert.JSONEq(t, test.expected, string(actual))
		})
	}
}

func TestBuildRequestsFloors(t *testing.T) {
	provider := func(floor *floors.Floor) floors.Provider {
		return floors.ProviderFunc(func(req floors.FloorRequest) *floors.Floor {
			assert.Equal(t, floors.DefaultRequest(), req)
			return floor
		})
	}

	testCases := []struct {
		description string
		params      string
		provider    floors.Provider
		expected    float64
	}{
		{"static number", `{"publisherId":"p","bidFloor":0.75}`, nil, 0.75},
		{"static string", `{"publisherId":"p","bidFloor":"1.5"}`, nil, 1.5},
		{"static garbage", `{"publisherId":"p","bidFloor":"cheap"}`, nil, 0},
		{"static zero", `{"publisherId":"p","bidFloor":0}`, nil, 0},
		{"provider wins", `{"publisherId":"p","bidFloor":0.75}`, provider(&floors.Floor{Currency: "USD", Floor: 2}), 2},
		{"provider without answer", `{"publisherId":"p","bidFloor":0.75}`, provider(nil), 0},
		{"provider other currency", `{"publisherId":"p"}`, provider(&floors.Floor{Currency: "EUR", Floor: 2}), 0},
		{"provider NaN", `{"publisherId":"p"}`, provider(&floors.Floor{Currency: "USD", Floor: math.NaN()}), 0},
		{"provider infinity", `{"publisherId":"p"}`, provider(&floors.Floor{Currency: "USD", Floor: math.Inf(1)}), 0},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			translator, _ := newTestTranslator(nil)
			request := slot("1", test.params)
			request.FloorProvider = test.provider

			data, err := translator.BuildRequests([]*adapters.BidRequest{request}, nil, RequestOptions{})
			require.NoError(t, err)

			floor, err := jsonparser.GetFloat(data.Body, "imp", "[0]", "bidfloor")
			if test.expected == 0 {
				assert.Equal(t, jsonparser.KeyPathNotFoundError, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expected, floor)
		})
	}
}

func TestBuildRequestsMetrics(t *testing.T) {
	me := &metrics.MetricsEngineMock{}
	me.On("RecordAdapterRequest", mock.Anything).Return()
	me.On("RecordImpViewability", openrtb_ext.BidderOms, mock.Anything).Return()
	translator, _ := newTestTranslator(me)

	snapshot := &page.Snapshot{
		InnerWidth:      1280,
		InnerHeight:     800,
		VisibilityState: page.VisibilityVisible,
		UserAgent:       safariUserAgent,
		Elements: map[string]page.Rect{
			"div-1": {Left: 0, Top: 0, Width: 300, Height: 250},
		},
	}
	_, err := translator.BuildRequests([]*adapters.BidRequest{slot("1", `{"publisherId":"p"}`), slot("2", `{"publisherId":"p"}`)},
		&adapters.BidderRequest{Page: snapshot.NewContext()}, RequestOptions{})
	require.NoError(t, err)

	me.AssertCalled(t, "RecordAdapterRequest", metrics.AdapterLabels{
		Adapter:       openrtb_ext.BidderOms,
		Browser:       metrics.BrowserSafari,
		AdapterStatus: metrics.AdapterStatusOK,
	})
	me.AssertCalled(t, "RecordImpViewability", openrtb_ext.BidderOms, metrics.ViewabilityMeasured)
	me.AssertCalled(t, "RecordImpViewability", openrtb_ext.BidderOms, metrics.ViewabilityNotApplicable)
}

func TestBuildRequestsBadInput(t *testing.T) {
	testCases := []struct {
		description string
		requests    []*adapters.BidRequest
		expected    string
	}{
		{"no slots", nil, "no bid requests to translate"},
		{"nil slot", []*adapters.BidRequest{slot("1", `{"publisherId":"p"}`), nil}, "bid request 1 is nil"},
		{"slot without sizes", []*adapters.BidRequest{slot("1", `{"publisherId":"p"}`), withSizes(slot("2", `{"publisherId":"p"}`), ``, ``)}, "bid request 2 has no valid sizes"},
		{"empty legacy sizes", []*adapters.BidRequest{withSizes(slot("1", `{"publisherId":"p"}`), ``, `[]`)}, "bid request 1 has no valid sizes"},
		{"malformed sizes", []*adapters.BidRequest{withSizes(slot("1", `{"publisherId":"p"}`), `[["a","b"]]`, ``)}, "bid request 1 has no valid sizes"},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			me := &metrics.MetricsEngineMock{}
			me.On("RecordAdapterRequest", mock.Anything).Return()
			me.On("RecordImpViewability", openrtb_ext.BidderOms, mock.Anything).Return()
			translator, recorder := newTestTranslator(me)

			request, err := translator.BuildRequests(test.requests, nil, RequestOptions{})

			assert.Nil(t, request)
			assert.IsType(t, &errortypes.BadInput{}, err)
			assert.EqualError(t, err, test.expected)
			me.AssertCalled(t, "RecordAdapterRequest", metrics.AdapterLabels{
				Adapter:       openrtb_ext.BidderOms,
				Browser:       metrics.BrowserOther,
				AdapterStatus: metrics.AdapterStatusBadInput,
			})
			entries := recorder.Filter(logger.LevelError)
			require.Len(t, entries, 1)
			assert.Contains(t, entries[0].Message, "OMS: failed to build the bid request: "+test.expected)
		})
	}
}
