package device

import (
	"testing"

	"github.com/prebid/openrtb/v20/adcom1"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		description string
		userAgent   string
		expected    adcom1.DeviceType
	}{
		{
			description: "iphone",
			userAgent:   "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1",
			expected:    adcom1.DeviceMobile,
		},
		{
			description: "android",
			userAgent:   "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0 Mobile Safari/537.36",
			expected:    adcom1.DeviceMobile,
		},
		{
			description: "ipad-uppercase",
			userAgent:   "MOZILLA IPAD",
			expected:    adcom1.DeviceMobile,
		},
		{
			description: "smart-tv",
			userAgent:   "Mozilla/5.0 (SMART-TV; Linux; Tizen 6.0) AppleWebKit/537.36 (KHTML, like Gecko) SamsungBrowser/4.0 Chrome/76.0 TV Safari/537.36",
			expected:    adcom1.DeviceTV,
		},
		{
			description: "smarttv-token",
			userAgent:   "Mozilla/5.0 (Linux) SmartTV",
			expected:    adcom1.DeviceTV,
		},
		{
			description: "roku",
			userAgent:   "Roku/DVP-9.10 (519.10E04111A)",
			expected:    adcom1.DeviceTV,
		},
		{
			description: "standalone-tv-word",
			userAgent:   "Mozilla/5.0 (Linux; TV) Browser",
			expected:    adcom1.DeviceTV,
		},
		{
			description: "android-tv-prefers-mobile",
			userAgent:   "Mozilla/5.0 (Linux; Android 9; SmartTV Build/PI)",
			expected:    adcom1.DeviceMobile,
		},
		{
			description: "windows-desktop",
			userAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0 Safari/537.36",
			expected:    adcom1.DevicePC,
		},
		{
			description: "tv-inside-word-is-not-tv",
			userAgent:   "Mozilla/5.0 Windows tvOSless",
			expected:    adcom1.DevicePC,
		},
		{
			description: "empty",
			userAgent:   "",
			expected:    adcom1.DevicePC,
		},
	}

	for _, test := range testCases {
		assert.Equal(t, test.expected, Classify(test.userAgent), test.description)
	}
}

func TestBrowser(t *testing.T) {
	assert.Equal(t, BrowserSafari, Browser("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.1 Safari/605.1.15"))
	assert.Equal(t, BrowserOther, Browser("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36"))
	assert.Equal(t, BrowserOther, Browser(""))
}
