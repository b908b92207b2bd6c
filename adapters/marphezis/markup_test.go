package marphezis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackPixel(t *testing.T) {
	assert.Equal(t, "", trackPixel(""))
	assert.Equal(t,
		`<div style="position:absolute;left:0px;top:0px;visibility:hidden;"><img src="https://rt.marphezis.com/win?p=$%7BAUCTION_PRICE%7D&a=%22b%22"></div>`,
		trackPixel(`https://rt.marphezis.com/win?p=${AUCTION_PRICE}&a="b"`))
}

func TestAdMarkup(t *testing.T) {
	testCases := []struct {
		description string
		adm         string
		nurl        string
		hasNurl     bool
		expected    string
	}{
		{"no nurl", "<div></div>", "", false, "<div></div>"},
		{"empty nurl", "<div></div>", "", true, "<div></div>"},
		{"missing adm", "", "https://win", true, trackPixel("https://win")},
		{"nurl", "<div></div>", "https://win", true, "<div></div>" + trackPixel("https://win")},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			assert.Equal(t, test.expected, adMarkup(test.adm, test.nurl, test.hasNurl))
		})
	}
}
