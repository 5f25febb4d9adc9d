package domain

import "fmt"

// Credentials identify the deployer account. Both fields come straight from
// the environment and may be empty.
type Credentials struct {
	Address    string
	PrivateKey string
}

// String never prints the private key
func (c Credentials) String() string {
	key := "<empty>"
	if c.PrivateKey != "" {
		key = "<redacted>"
	}
	return fmt.Sprintf("Credentials{Address: %q, PrivateKey: %s}", c.Address, key)
}
