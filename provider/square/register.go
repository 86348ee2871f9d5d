package square

import "github.com/mstgnz/gosquare/provider"

// Register the Square gateway with the default registry
func init() {
	provider.Register(providerName, NewProvider)
}
