package valueobjects

import (
	"fmt"
	"strings"
)

// Provider identifies the payment platform an account is connected to.
type Provider string

const (
	ProviderStripe Provider = "stripe"
	ProviderPayPal Provider = "paypal"
)

var ValidProviders = map[Provider]bool{
	ProviderStripe: true,
	ProviderPayPal: true,
}

func ParseProvider(value string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(value)))
	if !ValidProviders[p] {
		return "", fmt.Errorf("unsupported payment provider: %q", value)
	}
	return p, nil
}

func (p Provider) String() string {
	return string(p)
}
