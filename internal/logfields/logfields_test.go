package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"Section", KeySection, "learn", Section("learn")},
		{"Anchor", KeyAnchor, "esl-phonics", Anchor("esl-phonics")},
		{"Manifest", KeyManifest, "embedded", Manifest("embedded")},
		{"Fingerprint", KeyFingerprint, "abc", Fingerprint("abc")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"Path", KeyPath, "/", Path("/")},
		{"UserAgent", KeyUserAgent, "ua", UserAgent("ua")},
		{"RemoteAddr", KeyRemoteAddr, "1.2.3.4", RemoteAddr("1.2.3.4")},
		{"RequestID", KeyRequestID, "rid", RequestID("rid")},
		{"Listener", KeyListener, "site", Listener("site")},
		{"Addr", KeyAddr, ":8080", Addr(":8080")},
		{"File", KeyFile, "index.html", File("index.html")},
		{"Schedule", KeySchedule, "@hourly", Schedule("@hourly")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if v := Status(200); v.Key != KeyStatus || v.Value.Int64() != 200 {
		t.Fatalf("Status mismatch: %v", v)
	}
	if v := ResponseSize(42); v.Key != KeyResponseSz {
		t.Fatalf("ResponseSize key mismatch: %s", v.Key)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS || v.Value.Float64() != 12.5 {
		t.Fatalf("DurationMS mismatch: %v", v)
	}
}

// TestErrorHelper ensures Error() handles nil and non-nil errors predictably.
func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError || attr.Value.String() != "" {
		t.Fatalf("unexpected nil error attr: %v", attr)
	}
	attr = Error(errors.New("err-test"))
	if attr.Value.String() != "err-test" {
		t.Fatalf("expected 'err-test', got %s", attr.Value.String())
	}
}
