package viewability

import (
	"math"

	"github.com/marphezis/prebid-adapters/page"
	"github.com/prebid/openrtb/v20/openrtb2"
)

// BoundingBox is an axis-aligned rectangle in viewport pixels.
type BoundingBox struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
	Width  float64
	Height float64
}

func (b BoundingBox) area() float64 {
	return b.Width * b.Height
}

// ComputeBoundingBox reads the element's rendered rectangle. An element which has not
// been laid out yet reports a zero width or height; in that case a box of the fallback
// size is anchored at the reported top-left corner.
func ComputeBoundingBox(element page.Element, fallback openrtb2.Format) BoundingBox {
	rect := element.BoundingClientRect()
	box := BoundingBox{
		Left:   rect.Left,
		Top:    rect.Top,
		Right:  rect.Right,
		Bottom: rect.Bottom,
		Width:  rect.Width,
		Height: rect.Height,
	}

	if (box.Width == 0 || box.Height == 0) && fallback.W != 0 && fallback.H != 0 {
		box.Width = float64(fallback.W)
		box.Height = float64(fallback.H)
		box.Right = box.Left + box.Width
		box.Bottom = box.Top + box.Height
	}
	return box
}

// IntersectRects narrows a running box across rects, in order. It returns nil as soon as
// the running box is degenerate on either axis, meaning the rectangles do not overlap.
func IntersectRects(rects []BoundingBox) *BoundingBox {
	if len(rects) == 0 {
		return nil
	}

	bbox := BoundingBox{
		Left:   rects[0].Left,
		Top:    rects[0].Top,
		Right:  rects[0].Right,
		Bottom: rects[0].Bottom,
	}

	for _, rect := range rects[1:] {
		bbox.Left = math.Max(bbox.Left, rect.Left)
		bbox.Right = math.Min(bbox.Right, rect.Right)
		if bbox.Left >= bbox.Right {
			return nil
		}

		bbox.Top = math.Max(bbox.Top, rect.Top)
		bbox.Bottom = math.Min(bbox.Bottom, rect.Bottom)
		if bbox.Top >= bbox.Bottom {
			return nil
		}
	}

	bbox.Width = bbox.Right - bbox.Left
	bbox.Height = bbox.Bottom - bbox.Top
	return &bbox
}

// PercentInView returns the share of the element's area inside the viewport, in [0, 100].
// An element without area is reported as 0.
func PercentInView(element, viewport BoundingBox) float64 {
	inView := IntersectRects([]BoundingBox{viewport, element})
	if inView == nil {
		return 0
	}

	total := element.area()
	if total <= 0 {
		return 0
	}
	return math.Min(100, inView.area()/total*100)
}
