package device

import (
	"regexp"
	"strings"

	"github.com/mssola/user_agent"
	"github.com/prebid/openrtb/v20/adcom1"
)

var (
	mobilePattern      = regexp.MustCompile(`(?i)(ios|ipod|ipad|iphone|android)`)
	connectedTVPattern = regexp.MustCompile(`(?i)(smart[-]?tv|hbbtv|appletv|googletv|hdmi|netcast\.tv|viera|nettv|roku|\bdtv\b|sonydtv|inettvbrowser|\btv\b)`)
)

// Classify infers the OpenRTB device type from a user agent. Mobile tokens win over
// connected TV tokens; anything else is a desktop.
func Classify(userAgent string) adcom1.DeviceType {
	if IsMobile(userAgent) {
		return adcom1.DeviceMobile
	}
	if IsConnectedTV(userAgent) {
		return adcom1.DeviceTV
	}
	return adcom1.DevicePC
}

func IsMobile(userAgent string) bool {
	return mobilePattern.MatchString(userAgent)
}

func IsConnectedTV(userAgent string) bool {
	return connectedTVPattern.MatchString(userAgent)
}

// Browser label values.
const (
	BrowserSafari = "safari"
	BrowserOther  = "other"
)

// Browser returns the browser label used for metrics: at this point we only care about
// identifying Safari.
func Browser(userAgent string) string {
	if userAgent == "" {
		return BrowserOther
	}
	name, _ := user_agent.New(userAgent).Browser()
	if strings.EqualFold(name, "Safari") {
		return BrowserSafari
	}
	return BrowserOther
}
