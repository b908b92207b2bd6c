package events

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/marphezis/prebid-adapters/logger"
	"github.com/marphezis/prebid-adapters/metrics"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method      string
	path        string
	contentType string
	body        string
}

func newCapturingServer(t *testing.T, status int) (*httptest.Server, func() []capturedRequest) {
	var (
		mu       sync.Mutex
		captured []capturedRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		mu.Lock()
		captured = append(captured, capturedRequest{
			method:      r.Method,
			path:        r.URL.Path,
			contentType: r.Header.Get("Content-Type"),
			body:        string(body),
		})
		mu.Unlock()
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	return server, func() []capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]capturedRequest(nil), captured...)
	}
}

func TestTrackPostsToEventPath(t *testing.T) {
	server, requests := newCapturingServer(t, http.StatusOK)
	me := &metrics.MetricsEngineMock{}
	me.On("RecordTrackingEvent", openrtb_ext.BidderOms, metrics.EventBidWon, true).Return()

	tracker := NewHTTPTracker(server.Client(), server.URL+"/prebid", time.Second, openrtb_ext.BidderOms, me, logger.NewRecorder())
	tracker.Track(metrics.EventBidWon, map[string]interface{}{"requestId": "bid-1", "cpm": 1.5})
	tracker.Wait()

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, "POST", got[0].method)
	assert.Equal(t, "/prebid/bidwon", got[0].path)
	assert.Equal(t, "text/plain;charset=utf-8", got[0].contentType)
	assert.JSONEq(t, `{"requestId":"bid-1","cpm":1.5}`, got[0].body)
	me.AssertExpectations(t)
}

func TestTrackIgnoresResponseStatus(t *testing.T) {
	server, requests := newCapturingServer(t, http.StatusInternalServerError)
	me := &metrics.MetricsEngineMock{}
	me.On("RecordTrackingEvent", openrtb_ext.BidderOms, metrics.EventTimeout, true).Return()

	tracker := NewHTTPTracker(server.Client(), server.URL+"/prebid/", time.Second, openrtb_ext.BidderOms, me, logger.NewRecorder())
	tracker.Track(metrics.EventTimeout, []string{})
	tracker.Wait()

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, "/prebid/timeout", got[0].path)
	assert.Equal(t, "[]", got[0].body)
	me.AssertExpectations(t)
}

func TestTrackConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	endpoint := server.URL
	server.Close()

	me := &metrics.MetricsEngineMock{}
	me.On("RecordTrackingEvent", openrtb_ext.BidderOms, metrics.EventError, false).Return()
	recorder := logger.NewRecorder()

	tracker := NewHTTPTracker(nil, endpoint, time.Second, openrtb_ext.BidderOms, me, recorder)
	tracker.Track(metrics.EventError, map[string]string{"auctionId": "a-1"})
	tracker.Wait()

	warnings := recorder.Filter(logger.LevelWarn)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "error sending error event")
	me.AssertExpectations(t)
}

func TestTrackUnencodablePayload(t *testing.T) {
	me := &metrics.MetricsEngineMock{}
	me.On("RecordTrackingEvent", openrtb_ext.BidderOms, metrics.EventBidWon, false).Return()
	recorder := logger.NewRecorder()

	tracker := NewHTTPTracker(nil, "http://127.0.0.1:1", time.Second, openrtb_ext.BidderOms, me, recorder)
	tracker.Track(metrics.EventBidWon, make(chan int))
	tracker.Wait()

	assert.Len(t, recorder.Filter(logger.LevelWarn), 1)
	me.AssertExpectations(t)
}

func TestURL(t *testing.T) {
	tracker := NewHTTPTracker(nil, "https://rt.marphezis.com/prebid/", 0, openrtb_ext.BidderOms, nil, nil)
	assert.Equal(t, "https://rt.marphezis.com/prebid/timeout", tracker.URL(metrics.EventTimeout))
}
