// Package page describes the parts of the browser environment the adapters read:
// the window hierarchy, element geometry, the screen and the user agent.
//
// The host hands a Context to the adapters for every auction round. Snapshot is the
// implementation used when the layout is captured on the page and shipped as JSON.
package page

// VisibilityVisible is the document visibility state of a foreground tab.
const VisibilityVisible = "visible"

// Rect is an element's rendered rectangle in viewport coordinates, as reported by
// getBoundingClientRect.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Screen holds the device screen dimensions.
type Screen struct {
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

// Element is a laid out DOM node.
type Element interface {
	BoundingClientRect() Rect
}

// Window is one browsing context.
type Window interface {
	InnerWidth() float64
	InnerHeight() float64
	// VisibilityState of the window's document.
	VisibilityState() string
}

// Context is the environment of one adapter invocation.
type Context interface {
	// Self is the window the adapter code runs in.
	Self() Window
	// Top is the top-level window. It returns an error when the top window
	// cannot be accessed, which happens inside cross-origin frames.
	Top() (Window, error)
	// ElementByID returns nil when no element has the given id.
	ElementByID(id string) Element
	Screen() Screen
	UserAgent() string
	// ClientID identifies the browser the auction runs in. It is empty when the
	// host cannot tell browsers apart.
	ClientID() string
}

// IsFramed reports whether ctx runs inside a nested browsing context. Any
// failure to reach the top window counts as framed.
func IsFramed(ctx Context) bool {
	top, err := ctx.Top()
	if err != nil {
		return true
	}
	return ctx.Self() != top
}
