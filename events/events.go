// Package events delivers the tracking notifications bidders send back to their
// exchange: timeouts, failed calls and won auctions.
//
// Delivery is fire-and-forget. The response is drained and ignored and nothing is retried.
package events

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/marphezis/prebid-adapters/errortypes"
	"github.com/marphezis/prebid-adapters/logger"
	"github.com/marphezis/prebid-adapters/metrics"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	"github.com/marphezis/prebid-adapters/util/jsonutil"
	"golang.org/x/net/context/ctxhttp"
)

// Tracker sends one tracking event. Implementations must not block the caller.
type Tracker interface {
	Track(event metrics.EventType, payload interface{})
}

// HTTPTracker posts events as JSON to {endpoint}/{event}.
type HTTPTracker struct {
	client   *http.Client
	endpoint string
	timeout  time.Duration
	bidder   openrtb_ext.BidderName
	metrics  metrics.MetricsEngine
	logger   logger.Logger

	inflight sync.WaitGroup
}

func NewHTTPTracker(client *http.Client, endpoint string, timeout time.Duration, bidder openrtb_ext.BidderName, me metrics.MetricsEngine, l logger.Logger) *HTTPTracker {
	if client == nil {
		client = http.DefaultClient
	}
	if l == nil {
		l = logger.Default()
	}
	return &HTTPTracker{
		client:   client,
		endpoint: strings.TrimSuffix(endpoint, "/"),
		timeout:  timeout,
		bidder:   bidder,
		metrics:  me,
		logger:   l,
	}
}

// URL is the address event is posted to.
func (t *HTTPTracker) URL(event metrics.EventType) string {
	return t.endpoint + "/" + string(event)
}

// Track encodes payload and posts it in the background.
func (t *HTTPTracker) Track(event metrics.EventType, payload interface{}) {
	body, err := jsonutil.Marshal(payload)
	if err != nil {
		t.fail(event, &errortypes.FailedToMarshal{
			Message: fmt.Sprintf("failed to encode %s event: %v", event, err),
		})
		return
	}

	t.inflight.Add(1)
	go func() {
		defer t.inflight.Done()
		t.post(event, body)
	}()
}

// Wait blocks until every event handed to Track so far has been delivered or dropped.
func (t *HTTPTracker) Wait() {
	t.inflight.Wait()
}

func (t *HTTPTracker) post(event metrics.EventType, body []byte) {
	ctx := context.Background()
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	url := t.URL(event)
	httpReq, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		t.fail(event, &errortypes.FailedToTrack{
			Message: fmt.Sprintf("error creating POST request to %s: %v", url, err),
		})
		return
	}
	httpReq.Header.Add("Content-Type", "text/plain;charset=utf-8")

	startTime := time.Now()
	resp, err := ctxhttp.Do(ctx, t.client, httpReq)
	if err != nil {
		t.fail(event, &errortypes.FailedToTrack{
			Message: fmt.Sprintf("error sending %s event to %s: %v; Duration=%v", event, url, err, time.Since(startTime)),
		})
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	t.record(event, true)
}

func (t *HTTPTracker) fail(event metrics.EventType, err error) {
	t.logger.Warnf("%s: %v", t.bidder, err)
	t.record(event, false)
}

func (t *HTTPTracker) record(event metrics.EventType, success bool) {
	if t.metrics != nil {
		t.metrics.RecordTrackingEvent(t.bidder, event, success)
	}
}
