package types

import "strings"

// PaymentChannel represents a channel the gateway may present to the payer
type PaymentChannel string

const (
	PaymentChannelCard         PaymentChannel = "card"
	PaymentChannelMobileMoney  PaymentChannel = "mobile_money"
	PaymentChannelBankTransfer PaymentChannel = "bank_transfer"
	PaymentChannelBank         PaymentChannel = "bank"
	PaymentChannelUSSD         PaymentChannel = "ussd"
)

// channelsByCurrency is the static currency to allowed-channel mapping
// consumed when building gateway requests. Currencies not listed fall
// back to card only.
var channelsByCurrency = map[string][]PaymentChannel{
	"GHS": {PaymentChannelCard, PaymentChannelMobileMoney, PaymentChannelBankTransfer},
	"NGN": {PaymentChannelCard, PaymentChannelBank, PaymentChannelUSSD, PaymentChannelBankTransfer},
	"KES": {PaymentChannelCard, PaymentChannelMobileMoney},
	"ZAR": {PaymentChannelCard},
	"USD": {PaymentChannelCard},
}

// AllowedChannels returns the payment channels available for a currency
func AllowedChannels(currency string) []PaymentChannel {
	if channels, ok := channelsByCurrency[strings.ToUpper(currency)]; ok {
		return channels
	}
	return []PaymentChannel{PaymentChannelCard}
}

// IsMatchingCurrency compares two currency codes case-insensitively
func IsMatchingCurrency(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
