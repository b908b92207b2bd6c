package metrics

import (
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	"github.com/stretchr/testify/mock"
)

// MetricsEngineMock is mock for the MetricsEngine interface
type MetricsEngineMock struct {
	mock.Mock
}

// RecordAdapterRequest mock
func (me *MetricsEngineMock) RecordAdapterRequest(labels AdapterLabels) {
	me.Called(labels)
}

// RecordAdapterBidsReceived mock
func (me *MetricsEngineMock) RecordAdapterBidsReceived(labels AdapterLabels, bids int64) {
	me.Called(labels, bids)
}

// RecordAdapterPrice mock
func (me *MetricsEngineMock) RecordAdapterPrice(labels AdapterLabels, cpm float64) {
	me.Called(labels, cpm)
}

// RecordImpViewability mock
func (me *MetricsEngineMock) RecordImpViewability(adapter openrtb_ext.BidderName, status ViewabilityStatus) {
	me.Called(adapter, status)
}

// RecordFirstPartyID mock
func (me *MetricsEngineMock) RecordFirstPartyID(adapter openrtb_ext.BidderName, status IDStatus) {
	me.Called(adapter, status)
}

// RecordTrackingEvent mock
func (me *MetricsEngineMock) RecordTrackingEvent(adapter openrtb_ext.BidderName, event EventType, success bool) {
	me.Called(adapter, event, success)
}
