// Package interauth implements the replay-protected authentication scheme
// used between internal services. Requests carry a unix timestamp and an
// HMAC-SHA256 digest of its decimal representation; a verifier accepts the
// pair only within a fixed clock-skew window, so a captured signature
// cannot be replayed later.
package interauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Header names carried on every inter-service request.
const (
	TimestampHeader = "X-Timestamp"
	SignatureHeader = "X-HMAC-Signature"
)

// DefaultMaxSkew is the accepted clock-skew window for signed requests.
const DefaultMaxSkew = 10 * time.Second

// Sign computes the hex HMAC-SHA256 digest of the decimal timestamp string
// using the shared secret.
func Sign(secret string, timestamp int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignNow signs the current time and returns the (timestamp, digest) pair
// to set as request headers.
func SignNow(secret string) (int64, string) {
	ts := time.Now().Unix()
	return ts, Sign(secret, ts)
}

// Verify checks a received (timestamp, digest) pair against the shared
// secret. It rejects pairs outside the maxSkew window around now, and
// compares digests in constant time. The reason for rejection is not
// reported; callers log the detail and surface a uniform failure.
func Verify(secret string, timestamp int64, digest string, now time.Time, maxSkew time.Duration) bool {
	skew := now.Unix() - timestamp
	if skew < 0 {
		skew = -skew
	}
	if time.Duration(skew)*time.Second > maxSkew {
		return false
	}

	expected := Sign(secret, timestamp)
	return hmac.Equal([]byte(expected), []byte(digest))
}
