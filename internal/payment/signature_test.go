package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	secret := "rzp_test_secret"
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("order_abc|pay_xyz"))
	sig := hex.EncodeToString(mac.Sum(nil))

	require.True(t, VerifySignature(secret, "order_abc", "pay_xyz", sig))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	secret := "rzp_test_secret"
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("order_abc|pay_xyz"))
	sig := hex.EncodeToString(mac.Sum(nil))

	for i := range sig {
		tampered := []byte(sig)
		if tampered[i] == '0' {
			tampered[i] = '1'
		} else {
			tampered[i] = '0'
		}
		require.False(t, VerifySignature(secret, "order_abc", "pay_xyz", string(tampered)))
	}
}

func TestVerifySignatureRejectsPrefix(t *testing.T) {
	secret := "rzp_test_secret"
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("order_abc|pay_xyz"))
	sig := hex.EncodeToString(mac.Sum(nil))

	require.False(t, VerifySignature(secret, "order_abc", "pay_xyz", sig[:32]))
	require.False(t, VerifySignature(secret, "order_abc", "pay_xyz", ""))
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("other_secret"))
	mac.Write([]byte("order_abc|pay_xyz"))
	sig := hex.EncodeToString(mac.Sum(nil))

	require.False(t, VerifySignature("rzp_test_secret", "order_abc", "pay_xyz", sig))
}
