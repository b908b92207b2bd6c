package metrics

import (
	"github.com/marphezis/prebid-adapters/openrtb_ext"
)

// AdapterLabels defines the labels that can be attached to the adapter metrics.
type AdapterLabels struct {
	Adapter       openrtb_ext.BidderName
	Browser       Browser
	AdapterStatus AdapterStatus
}

// Label typecasting. See below the type definitions for possible values

// Browser type enumeration
type Browser string

// AdapterStatus : The outcome of one adapter call
type AdapterStatus string

// ViewabilityStatus : Whether a slot could be measured
type ViewabilityStatus string

// IDStatus : What happened to the persisted first-party id
type IDStatus string

// EventType : Tracking event names
type EventType string

// Browser flag; at this point we only care about identifying Safari
const (
	BrowserSafari Browser = "safari"
	BrowserOther  Browser = "other"
)

func BrowserTypes() []Browser {
	return []Browser{
		BrowserSafari,
		BrowserOther,
	}
}

// Adapter execution status
const (
	AdapterStatusOK       AdapterStatus = "ok"
	AdapterStatusBadInput AdapterStatus = "badinput"
	AdapterStatusErr      AdapterStatus = "err"
	AdapterStatusNoBid    AdapterStatus = "nobid"
)

func AdapterStatuses() []AdapterStatus {
	return []AdapterStatus{
		AdapterStatusOK,
		AdapterStatusBadInput,
		AdapterStatusErr,
		AdapterStatusNoBid,
	}
}

const (
	ViewabilityMeasured      ViewabilityStatus = "measured"
	ViewabilityNotApplicable ViewabilityStatus = "na"
)

func ViewabilityStatuses() []ViewabilityStatus {
	return []ViewabilityStatus{
		ViewabilityMeasured,
		ViewabilityNotApplicable,
	}
}

const (
	IDReused  IDStatus = "reused"
	IDCreated IDStatus = "created"
	IDStamped IDStatus = "stamped"
	IDFailed  IDStatus = "failed"
)

func IDStatuses() []IDStatus {
	return []IDStatus{
		IDReused,
		IDCreated,
		IDStamped,
		IDFailed,
	}
}

const (
	EventTimeout EventType = "timeout"
	EventError   EventType = "error"
	EventBidWon  EventType = "bidwon"
)

func EventTypes() []EventType {
	return []EventType{
		EventTimeout,
		EventError,
		EventBidWon,
	}
}

// MetricsEngine is a generic interface to record metrics into the desired backend
type MetricsEngine interface {
	// RecordAdapterRequest counts one BuildRequests call.
	RecordAdapterRequest(labels AdapterLabels)
	// RecordAdapterBidsReceived counts the bids one response produced.
	RecordAdapterBidsReceived(labels AdapterLabels, bids int64)
	RecordAdapterPrice(labels AdapterLabels, cpm float64)
	RecordImpViewability(adapter openrtb_ext.BidderName, status ViewabilityStatus)
	RecordFirstPartyID(adapter openrtb_ext.BidderName, status IDStatus)
	RecordTrackingEvent(adapter openrtb_ext.BidderName, event EventType, success bool)
}
