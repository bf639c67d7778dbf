package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeySection     = "section"
	KeyAnchor      = "anchor"
	KeyManifest    = "manifest"
	KeyFingerprint = "fingerprint"
	KeyStatus      = "status"
	KeyMethod      = "method"
	KeyPath        = "path"
	KeyUserAgent   = "user_agent"
	KeyRemoteAddr  = "remote_addr"
	KeyRequestID   = "request_id"
	KeyResponseSz  = "response_size"
	KeyDurationMS  = "duration_ms"
	KeyListener    = "listener"
	KeyAddr        = "addr"
	KeyFile        = "file"
	KeySchedule    = "schedule"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Section(id string) slog.Attr      { return slog.String(KeySection, id) }
func Anchor(a string) slog.Attr        { return slog.String(KeyAnchor, a) }
func Manifest(src string) slog.Attr    { return slog.String(KeyManifest, src) }
func Fingerprint(fp string) slog.Attr  { return slog.String(KeyFingerprint, fp) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func ResponseSize(n int) slog.Attr     { return slog.Int(KeyResponseSz, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Listener(name string) slog.Attr   { return slog.String(KeyListener, name) }
func Addr(addr string) slog.Attr       { return slog.String(KeyAddr, addr) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Schedule(expr string) slog.Attr   { return slog.String(KeySchedule, expr) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
