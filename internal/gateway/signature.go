package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance is the maximum accepted distance between a signed
// timestamp and the local clock.
const DefaultTolerance = 300 * time.Second

// timestampedSignature is a parsed "t=<unix>,v1=<hex>[,v1=<hex>...]" header.
type timestampedSignature struct {
	timestamp  int64
	rawTime    string
	signatures [][]byte
}

func parseTimestampedHeader(header string) (*timestampedSignature, bool) {
	if header == "" {
		return nil, false
	}
	sig := &timestampedSignature{}
	haveTime := false
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return nil, false
		}
		switch key {
		case "t":
			if haveTime {
				return nil, false
			}
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return nil, false
			}
			sig.timestamp = ts
			sig.rawTime = value
			haveTime = true
		case "v1":
			decoded, err := hex.DecodeString(value)
			if err != nil || len(decoded) != sha256.Size {
				return nil, false
			}
			sig.signatures = append(sig.signatures, decoded)
		}
	}
	if !haveTime || len(sig.signatures) == 0 {
		return nil, false
	}
	return sig, true
}

// verifyTimestamped checks a timestamped HMAC-SHA256 header against body.
// The signed payload is "<t>.<body>". A correct digest outside the tolerance
// window is rejected.
func verifyTimestamped(body []byte, header, secret string, now time.Time, tolerance time.Duration) bool {
	if secret == "" {
		return false
	}
	parsed, ok := parseTimestampedHeader(header)
	if !ok {
		return false
	}

	expected := computeHMAC(sha256.New, secret, []byte(parsed.rawTime), []byte("."), body)
	matched := false
	for _, candidate := range parsed.signatures {
		if hmac.Equal(expected, candidate) {
			matched = true
		}
	}
	if !matched {
		return false
	}

	// Bounds are computed around the local clock so an extreme header value
	// cannot overflow the comparison.
	window := int64(tolerance / time.Second)
	return parsed.timestamp >= now.Unix()-window && parsed.timestamp <= now.Unix()+window
}

// verifyHexSHA512 checks a bare hex HMAC-SHA512 of body.
func verifyHexSHA512(body []byte, header, secret string) bool {
	if secret == "" || header == "" {
		return false
	}
	supplied, err := hex.DecodeString(strings.TrimSpace(header))
	if err != nil || len(supplied) != sha512.Size {
		return false
	}
	return hmac.Equal(computeHMAC(sha512.New, secret, body), supplied)
}

func computeHMAC(h func() hash.Hash, secret string, parts ...[]byte) []byte {
	mac := hmac.New(h, []byte(secret))
	for _, p := range parts {
		mac.Write(p)
	}
	return mac.Sum(nil)
}

// SignTimestamped produces a "t=<unix>,v1=<hex>" header for body. Used by
// tests and local tooling to craft deliveries.
func SignTimestamped(body []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := computeHMAC(sha256.New, secret, []byte(ts), []byte("."), body)
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac)
}

// SignHexSHA512 produces the hex HMAC-SHA512 of body.
func SignHexSHA512(body []byte, secret string) string {
	return hex.EncodeToString(computeHMAC(sha512.New, secret, body))
}
