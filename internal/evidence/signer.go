// Package evidence issues time-limited signed URLs for check-in evidence
// files (selfie and signature images). The files themselves live in external
// object storage; this package only signs display links for reviewers.
package evidence

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// DefaultTTL is how long a signed evidence link stays valid.
const DefaultTTL = 300 * time.Second

type Signer interface {
	SignedURL(path string) string
	Verify(path string, expires int64, signature string) bool
}

type signer struct {
	baseURL string
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
}

func NewSigner(baseURL string, secret []byte) Signer {
	return &signer{
		baseURL: baseURL,
		secret:  secret,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
}

// SignedURL returns baseURL + path with expiry and HMAC-SHA256 signature
// query parameters appended.
func (s *signer) SignedURL(path string) string {
	expires := s.now().Add(s.ttl).Unix()
	sig := s.sign(path, expires)
	return fmt.Sprintf("%s%s?expires=%d&signature=%s", s.baseURL, path, expires, url.QueryEscape(sig))
}

// Verify checks the signature and that the link has not expired.
func (s *signer) Verify(path string, expires int64, signature string) bool {
	if s.now().Unix() > expires {
		return false
	}
	expected := s.sign(path, expires)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *signer) sign(path string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(path))
	mac.Write([]byte(":"))
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
