package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Signer issues and verifies HMAC-signed expiring URLs for file blobs.
// The signature covers method, file id and expiry, so a GET URL cannot be
// replayed as a PUT and vice versa.
type Signer struct {
	secret  []byte
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

// NewSigner creates a URL signer. baseURL is the externally visible service
// root, e.g. "http://localhost:8080".
func NewSigner(secret, baseURL string, ttl time.Duration) *Signer {
	return &Signer{
		secret:  []byte(secret),
		baseURL: baseURL,
		ttl:     ttl,
		now:     time.Now,
	}
}

// SignedURL builds a signed blob URL for the given method ("GET" or "PUT").
func (s *Signer) SignedURL(method, fileID string) string {
	expires := s.now().Add(s.ttl).Unix()
	sig := s.sign(method, fileID, expires)

	q := url.Values{}
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", sig)
	return fmt.Sprintf("%s/api/v1/files/%s/blob?%s", s.baseURL, url.PathEscape(fileID), q.Encode())
}

// Verify checks a signature for the given method, file id and expiry.
func (s *Signer) Verify(method, fileID string, expires int64, signature string) error {
	if s.now().Unix() > expires {
		return fmt.Errorf("signed URL expired")
	}
	want := s.sign(method, fileID, expires)
	if !hmac.Equal([]byte(want), []byte(signature)) {
		return fmt.Errorf("invalid signature")
	}
	return nil
}

func (s *Signer) sign(method, fileID string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s\n%s\n%d", method, fileID, expires)
	return hex.EncodeToString(mac.Sum(nil))
}
