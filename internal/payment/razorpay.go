package payment

import (
	"math"

	razorpay "github.com/razorpay/razorpay-go"
)

func NewRazorpayClient(keyID, keySecret string) *razorpay.Client {
	return razorpay.NewClient(keyID, keySecret)
}

// CreateProviderOrder registers the collection intent with Razorpay.
// Receipt carries our order ID so the provider order can be correlated
// back. The provider object is returned verbatim.
func CreateProviderOrder(client *razorpay.Client, amount float64, currency, receipt string) (map[string]interface{}, error) {
	data := map[string]interface{}{
		"amount":   int64(math.Round(amount * 100)),
		"currency": currency,
		"receipt":  receipt,
	}
	return client.Order.Create(data, nil)
}
