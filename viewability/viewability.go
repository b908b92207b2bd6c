package viewability

import (
	"github.com/marphezis/prebid-adapters/page"
	"github.com/prebid/openrtb/v20/openrtb2"
)

// IsMeasurable is false inside any frame, same-origin or not, and for missing elements.
func IsMeasurable(ctx page.Context, element page.Element) bool {
	return ctx != nil && !page.IsFramed(ctx) && element != nil
}

// GetViewability measures the element against the top window's viewport.
//
// The result is NotApplicable when the element is not measurable, and a measured 0 when
// the top document is not visible (for example a background tab).
func GetViewability(ctx page.Context, element page.Element, fallback openrtb2.Format) Score {
	if !IsMeasurable(ctx, element) {
		return NotApplicable
	}

	top, err := ctx.Top()
	if err != nil {
		return NotApplicable
	}
	if top.VisibilityState() != page.VisibilityVisible {
		return Measured(0)
	}

	viewport := BoundingBox{
		Right:  top.InnerWidth(),
		Bottom: top.InnerHeight(),
		Width:  top.InnerWidth(),
		Height: top.InnerHeight(),
	}
	return Measured(PercentInView(ComputeBoundingBox(element, fallback), viewport))
}
