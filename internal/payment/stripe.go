package payment

import (
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

func InitStripe(secretKey string) {
	stripe.Key = secretKey
}

// CreateIntent opens a Stripe payment intent for amount (major units) and
// returns the client secret the browser needs to complete the payment.
func CreateIntent(amount float64, currency string) (string, error) {
	if currency == "" {
		currency = "usd"
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("integration_check", "accept_a_payment")

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}
