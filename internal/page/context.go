package page

import "time"

// UpdatedLayout matches JavaScript's Date.toISOString output.
const UpdatedLayout = "2006-01-02T15:04:05.000Z07:00"

// RenderContext carries the per-request inputs of a render. Rendering is a
// pure function of the manifest and this value.
type RenderContext struct {
	Now time.Time
	// Message is an optional externally injected footer message.
	Message *string
}

// NewRenderContext returns a context for now with an optional message. An
// empty message is treated as absent.
func NewRenderContext(now time.Time, message string) RenderContext {
	rc := RenderContext{Now: now}
	if message != "" {
		rc.Message = &message
	}
	return rc
}

// FooterMessage returns the injected message, or fallback when there is none.
func (rc RenderContext) FooterMessage(fallback string) (string, bool) {
	if rc.Message != nil && *rc.Message != "" {
		return *rc.Message, true
	}
	return fallback, false
}

// Updated formats Now in UTC for the "last updated" line.
func (rc RenderContext) Updated() string {
	return rc.Now.UTC().Format(UpdatedLayout)
}

// Year is the copyright year, taken in UTC like Updated.
func (rc RenderContext) Year() int {
	return rc.Now.UTC().Year()
}
