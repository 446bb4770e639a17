package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// VerifySignature checks a GitHub webhook signature header
// ("sha256=<hex digest>") against the HMAC-SHA256 of the raw request body.
// The comparison is constant-time.
func VerifySignature(body []byte, signatureHeader, secret string) bool {
	if len(body) == 0 || signatureHeader == "" || secret == "" {
		return false
	}

	received, ok := strings.CutPrefix(signatureHeader, "sha256=")
	if !ok {
		return false
	}

	receivedMAC, err := hex.DecodeString(received)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(receivedMAC, mac.Sum(nil))
}
