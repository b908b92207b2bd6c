package marphezis

import (
	"github.com/marphezis/prebid-adapters/util/httputil"
)

// trackPixel renders a hidden 1x1 image pointing at url. An empty url renders nothing.
func trackPixel(url string) string {
	if url == "" {
		return ""
	}
	return `<div style="position:absolute;left:0px;top:0px;visibility:hidden;">` +
		`<img src="` + httputil.EncodeURI(url) + `"></div>`
}

// adMarkup appends the win notice pixel to the creative when the bid carries a nurl.
func adMarkup(adm string, nurl string, hasNurl bool) string {
	if !hasNurl {
		return adm
	}
	return adm + trackPixel(nurl)
}
