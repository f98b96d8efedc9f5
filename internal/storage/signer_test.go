package storage

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s := NewSigner("test-secret", "http://localhost:8080", time.Minute)
	s.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return s
}

func TestSignedURL_VerifyRoundTrip(t *testing.T) {
	s := newTestSigner(t)

	raw := s.SignedURL("GET", "file-1")
	if !strings.HasPrefix(raw, "http://localhost:8080/api/v1/files/file-1/blob?") {
		t.Fatalf("unexpected URL: %q", raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse URL: %v", err)
	}
	expires, err := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	if err != nil {
		t.Fatalf("parse expires: %v", err)
	}

	if err := s.Verify("GET", "file-1", expires, u.Query().Get("signature")); err != nil {
		t.Errorf("verify failed: %v", err)
	}
}

func TestVerify_RejectsWrongMethod(t *testing.T) {
	s := newTestSigner(t)

	u, _ := url.Parse(s.SignedURL("GET", "file-1"))
	expires, _ := strconv.ParseInt(u.Query().Get("expires"), 10, 64)

	if err := s.Verify("PUT", "file-1", expires, u.Query().Get("signature")); err == nil {
		t.Error("GET signature must not validate for PUT")
	}
}

func TestVerify_RejectsWrongFile(t *testing.T) {
	s := newTestSigner(t)

	u, _ := url.Parse(s.SignedURL("GET", "file-1"))
	expires, _ := strconv.ParseInt(u.Query().Get("expires"), 10, 64)

	if err := s.Verify("GET", "file-2", expires, u.Query().Get("signature")); err == nil {
		t.Error("signature must be bound to the file id")
	}
}

func TestVerify_RejectsExpired(t *testing.T) {
	s := newTestSigner(t)

	u, _ := url.Parse(s.SignedURL("GET", "file-1"))
	expires, _ := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	sig := u.Query().Get("signature")

	// jump past the TTL
	s.now = func() time.Time { return time.Unix(1_700_000_000+120, 0) }

	if err := s.Verify("GET", "file-1", expires, sig); err == nil {
		t.Error("expired URL must not validate")
	}
}

func TestVerify_RejectsTamperedExpiry(t *testing.T) {
	s := newTestSigner(t)

	u, _ := url.Parse(s.SignedURL("GET", "file-1"))
	expires, _ := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	sig := u.Query().Get("signature")

	if err := s.Verify("GET", "file-1", expires+3600, sig); err == nil {
		t.Error("extending expiry must invalidate the signature")
	}
}
