package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks that signature is the hex HMAC-SHA256 of
// "orderID|paymentID" under secret, the scheme Razorpay uses for payment
// confirmations. The comparison is constant-time; a direct string compare
// would leak matching-prefix length through timing. Malformed input yields
// false, never an error.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}

	supplied, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := mac.Sum(nil)

	return hmac.Equal(expected, supplied)
}
