package oasresolve

import (
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version() == "" {
		t.Error("Version() returned an empty string")
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	if !strings.HasPrefix(ua, "oasresolve/") {
		t.Errorf("UserAgent() = %q, want prefix %q", ua, "oasresolve/")
	}
	if !strings.HasSuffix(ua, Version()) {
		t.Errorf("UserAgent() = %q, want suffix %q", ua, Version())
	}
}
