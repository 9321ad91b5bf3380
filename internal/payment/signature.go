package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature authenticates a client-reported payment completion.
// The expected digest is HMAC-SHA256 over "orderID|paymentID" keyed with
// the provider secret; the comparison covers the full hex digest and is
// constant time.
func VerifySignature(secret, providerOrderID, providerPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(providerOrderID + "|" + providerPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
