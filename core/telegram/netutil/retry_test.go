package netutil

import (
	"errors"
	"net"
	"net/url"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

func TestShouldRetry(t *testing.T) {
	dial := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("bad request"), false},
		{"dial", dial, true},
		{"wrapped dial", &url.Error{Op: "Post", URL: "https://api.telegram.org", Err: dial}, true},
		{"flood", tele.FloodError{RetryAfter: 3}, true},
	}
	for _, tc := range cases {
		if got := ShouldRetry(tc.err); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestRetryAfter(t *testing.T) {
	if got := RetryAfter(tele.FloodError{RetryAfter: 5}); got != 5*time.Second {
		t.Fatalf("got %v", got)
	}
	if got := RetryAfter(errors.New("x")); got != 0 {
		t.Fatalf("got %v", got)
	}
}
