package marphezis

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/buger/jsonparser"
	"github.com/marphezis/prebid-adapters/adapters"
	"github.com/marphezis/prebid-adapters/device"
	"github.com/marphezis/prebid-adapters/errortypes"
	"github.com/marphezis/prebid-adapters/floors"
	"github.com/marphezis/prebid-adapters/metrics"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	"github.com/marphezis/prebid-adapters/page"
	"github.com/marphezis/prebid-adapters/util/jsonutil"
	"github.com/marphezis/prebid-adapters/viewability"
	"github.com/prebid/openrtb/v20/openrtb2"
)

// RequestOptions carry the parts of the payload which differ between bidders.
type RequestOptions struct {
	// COPPA sets regs.coppa.
	COPPA bool
	// FirstPartyData is sent as user.ext.iiq when not empty.
	FirstPartyData string
}

// BuildRequests translates the slots into one POST request.
//
// The publisher id, the supply chain and the user ids are read from the first slot only.
// Failures are logged with the offending input and returned with a nil request.
func (t *Translator) BuildRequests(requests []*adapters.BidRequest, bidderRequest *adapters.BidderRequest, opts RequestOptions) (*adapters.RequestData, error) {
	var pageCtx page.Context
	if bidderRequest != nil {
		pageCtx = bidderRequest.Page
	}
	userAgent := ""
	if pageCtx != nil {
		userAgent = pageCtx.UserAgent()
	}
	browser := metrics.Browser(device.Browser(userAgent))

	body, err := t.buildPayload(requests, bidderRequest, pageCtx, opts)
	if err != nil {
		t.logger.Errorf("%s: failed to build the bid request: %v; bidRequests=%s bidderRequest=%s",
			t.label, err, describe(requests), describe(bidderRequest))
		t.recordRequest(browser, metrics.AdapterStatusBadInput)
		return nil, err
	}
	t.recordRequest(browser, metrics.AdapterStatusOK)

	headers := http.Header{}
	headers.Add("Content-Type", contentType)
	if userAgent != "" {
		headers.Add("User-Agent", userAgent)
	}

	return &adapters.RequestData{
		Method:  http.MethodPost,
		Uri:     t.endpoint,
		Body:    body,
		Headers: headers,
	}, nil
}

func (t *Translator) buildPayload(requests []*adapters.BidRequest, bidderRequest *adapters.BidderRequest, pageCtx page.Context, opts RequestOptions) ([]byte, error) {
	if len(requests) == 0 {
		return nil, &errortypes.BadInput{Message: "no bid requests to translate"}
	}

	imps := make([]openrtb2.Imp, 0, len(requests))
	for i, request := range requests {
		if request == nil {
			return nil, &errortypes.BadInput{Message: fmt.Sprintf("bid request %d is nil", i)}
		}
		imp, err := t.buildImp(request, pageCtx)
		if err != nil {
			return nil, err
		}
		imps = append(imps, imp)
	}

	id, err := t.ids.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate the request id: %v", err)
	}

	payload := openrtb2.BidRequest{
		ID:  id,
		Imp: imps,
		Site: &openrtb2.Site{
			Publisher: &openrtb2.Publisher{},
		},
		Device: &openrtb2.Device{},
	}
	if pageCtx != nil {
		screen := pageCtx.Screen()
		payload.Device.DeviceType = device.Classify(pageCtx.UserAgent())
		payload.Device.W = screen.Width
		payload.Device.H = screen.Height
	} else {
		payload.Device.DeviceType = device.Classify("")
	}
	if bidderRequest != nil {
		payload.Site.Page = bidderRequest.RefererInfo.Page
		payload.Site.Domain = bidderRequest.RefererInfo.Domain
		payload.TMax = bidderRequest.Timeout
	}

	body, err := jsonutil.Marshal(payload)
	if err != nil {
		return nil, &errortypes.FailedToMarshal{Message: err.Error()}
	}
	if body, err = jsonparser.Set(body, publisherID(requests[0].Params), "site", "publisher", "id"); err != nil {
		return nil, &errortypes.FailedToMarshal{Message: err.Error()}
	}

	w := extWriter{doc: body}
	if bidderRequest != nil {
		if consent := bidderRequest.GDPRConsent; consent != nil {
			gdpr := 0
			if consent.GDPRApplies {
				gdpr = 1
			}
			w.set("regs.ext.gdpr", gdpr)
			if consent.ConsentString != nil {
				w.set("user.ext.consent", *consent.ConsentString)
			}
		}
		if bidderRequest.USPConsent != "" {
			w.set("regs.ext.us_privacy", bidderRequest.USPConsent)
		}
	}
	if opts.COPPA {
		w.set("regs.coppa", 1)
	}

	first := requests[0]
	if isPresent(first.SChain) {
		w.set("source.ext.schain", first.SChain)
	}
	if first.UserIDAsEIDs != nil {
		w.set("user.ext.eids", first.UserIDAsEIDs)
	}
	if first.UserID != nil {
		w.set("user.ext.ids", first.UserID)
	}
	if opts.FirstPartyData != "" {
		w.set("user.ext.iiq", opts.FirstPartyData)
	}
	if w.err != nil {
		return nil, &errortypes.FailedToMarshal{Message: w.err.Error()}
	}
	return w.doc, nil
}

func (t *Translator) buildImp(request *adapters.BidRequest, pageCtx page.Context) (openrtb2.Imp, error) {
	sizes := ParseSizes(request.BannerSizes(), request.Sizes)
	if len(sizes) == 0 {
		return openrtb2.Imp{}, &errortypes.BadInput{Message: fmt.Sprintf("bid request %s has no valid sizes", request.BidID)}
	}

	var element page.Element
	if pageCtx != nil {
		element = pageCtx.ElementByID(request.AdUnitCode)
	}
	score := viewability.GetViewability(pageCtx, element, SelectMinimumSize(sizes))
	if score.IsMeasurable() {
		t.recordViewability(metrics.ViewabilityMeasured)
	} else {
		t.recordViewability(metrics.ViewabilityNotApplicable)
	}

	bannerExt, err := jsonutil.Marshal(openrtb_ext.ExtBanner{Viewability: score})
	if err != nil {
		return openrtb2.Imp{}, &errortypes.FailedToMarshal{Message: err.Error()}
	}

	imp := openrtb2.Imp{
		ID: request.BidID,
		Banner: &openrtb2.Banner{
			Format: sizes,
			Ext:    bannerExt,
		},
		TagID: request.AdUnitCode,
	}
	if floor, ok := floors.Resolve(request.FloorProvider, floors.StaticFloor(request.Params)); ok {
		imp.BidFloor = floor
	}
	return imp, nil
}

// publisherID returns the publisherId param as raw JSON, keeping its type. Missing and
// falsy values become an empty string.
func publisherID(params json.RawMessage) []byte {
	empty := []byte(`""`)
	value, dataType, _, err := jsonparser.Get(params, publisherIDKey)
	if err != nil {
		return empty
	}

	switch dataType {
	case jsonparser.String:
		if len(value) == 0 {
			return empty
		}
		return rawJSON(value, dataType)
	case jsonparser.Number:
		if f, err := jsonparser.ParseFloat(value); err != nil || f == 0 {
			return empty
		}
		return value
	case jsonparser.Boolean:
		if string(value) != "true" {
			return empty
		}
		return value
	case jsonparser.Object, jsonparser.Array:
		return value
	}
	return empty
}

// rawJSON restores the quotes jsonparser strips from string values.
func rawJSON(value []byte, dataType jsonparser.ValueType) []byte {
	if dataType != jsonparser.String {
		return value
	}
	quoted := make([]byte, 0, len(value)+2)
	quoted = append(quoted, '"')
	quoted = append(quoted, value...)
	return append(quoted, '"')
}

type extWriter struct {
	doc []byte
	err error
}

func (w *extWriter) set(path string, value interface{}) {
	if w.err != nil {
		return
	}
	w.doc, w.err = deepSet(w.doc, path, value)
}

func describe(v interface{}) string {
	raw, err := jsonutil.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(raw)
}
