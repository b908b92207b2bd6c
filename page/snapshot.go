package page

import (
	"errors"
)

var errCrossOrigin = errors.New("page: top window is not accessible from a cross-origin frame")

// Snapshot is a static capture of the page layout.
//
// When Framed is false the adapter runs in the top window. When Framed is true it runs
// in a nested frame; CrossOrigin additionally makes the top window inaccessible.
type Snapshot struct {
	Framed          bool            `json:"framed,omitempty"`
	CrossOrigin     bool            `json:"crossOrigin,omitempty"`
	InnerWidth      float64         `json:"innerWidth"`
	InnerHeight     float64         `json:"innerHeight"`
	VisibilityState string          `json:"visibilityState"`
	Screen          Screen          `json:"screen"`
	UserAgent       string          `json:"userAgent"`
	ClientID        string          `json:"clientId,omitempty"`
	Elements        map[string]Rect `json:"elements,omitempty"`
	// Frame describes the nested window the adapter runs in when Framed is set.
	Frame *FrameWindow `json:"frame,omitempty"`
}

// FrameWindow is the geometry of a nested window.
type FrameWindow struct {
	InnerWidth  float64 `json:"innerWidth"`
	InnerHeight float64 `json:"innerHeight"`
}

// NewContext builds a Context reading from s.
func (s *Snapshot) NewContext() Context {
	ctx := &snapshotContext{snapshot: s}
	ctx.top = &window{
		innerWidth:      s.InnerWidth,
		innerHeight:     s.InnerHeight,
		visibilityState: s.VisibilityState,
	}
	ctx.self = ctx.top
	if s.Framed {
		frame := &window{visibilityState: s.VisibilityState}
		if s.Frame != nil {
			frame.innerWidth = s.Frame.InnerWidth
			frame.innerHeight = s.Frame.InnerHeight
		}
		ctx.self = frame
	}
	return ctx
}

type snapshotContext struct {
	snapshot *Snapshot
	self     *window
	top      *window
}

func (c *snapshotContext) Self() Window {
	return c.self
}

func (c *snapshotContext) Top() (Window, error) {
	if c.snapshot.Framed && c.snapshot.CrossOrigin {
		return nil, errCrossOrigin
	}
	return c.top, nil
}

func (c *snapshotContext) ElementByID(id string) Element {
	rect, ok := c.snapshot.Elements[id]
	if !ok {
		return nil
	}
	return element(rect.normalized())
}

func (c *snapshotContext) Screen() Screen {
	return c.snapshot.Screen
}

func (c *snapshotContext) UserAgent() string {
	return c.snapshot.UserAgent
}

func (c *snapshotContext) ClientID() string {
	return c.snapshot.ClientID
}

type window struct {
	innerWidth      float64
	innerHeight     float64
	visibilityState string
}

func (w *window) InnerWidth() float64     { return w.innerWidth }
func (w *window) InnerHeight() float64    { return w.innerHeight }
func (w *window) VisibilityState() string { return w.visibilityState }

type element Rect

func (e element) BoundingClientRect() Rect {
	return Rect(e)
}

// normalized fills in right/bottom from left/top and the dimensions when a capture
// only recorded the latter.
func (r Rect) normalized() Rect {
	if r.Right == 0 && r.Width != 0 {
		r.Right = r.Left + r.Width
	}
	if r.Bottom == 0 && r.Height != 0 {
		r.Bottom = r.Top + r.Height
	}
	return r
}
