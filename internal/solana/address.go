// Package solana provides address validation helpers.
package solana

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// PublicKeyLength is the byte length of a Solana public key.
const PublicKeyLength = 32

// DecodeAddress decodes a base58 address and checks it is exactly 32 bytes.
func DecodeAddress(address string) ([]byte, error) {
	if address == "" {
		return nil, fmt.Errorf("empty address")
	}

	decoded, err := base58.Decode(address)
	if err != nil {
		return nil, fmt.Errorf("decode base58 address: %w", err)
	}
	if len(decoded) != PublicKeyLength {
		return nil, fmt.Errorf("address must decode to %d bytes, got %d", PublicKeyLength, len(decoded))
	}
	return decoded, nil
}

// IsValidAddress reports whether address is a well-formed Solana public key.
func IsValidAddress(address string) bool {
	_, err := DecodeAddress(address)
	return err == nil
}

// IsOnCurve reports whether address is a valid ed25519 curve point. Regular
// wallet keypairs are on-curve; program-derived addresses are deliberately
// off-curve. Returns an error for malformed addresses.
func IsOnCurve(address string) (bool, error) {
	decoded, err := DecodeAddress(address)
	if err != nil {
		return false, err
	}

	if _, err := new(edwards25519.Point).SetBytes(decoded); err != nil {
		return false, nil
	}
	return true, nil
}

// ValidateWalletAddress checks the address is well formed and on-curve,
// which is what a user wallet (as opposed to a PDA or token account owner
// program) looks like.
func ValidateWalletAddress(address string) error {
	onCurve, err := IsOnCurve(address)
	if err != nil {
		return err
	}
	if !onCurve {
		return fmt.Errorf("address %s is off-curve (program-derived, not a wallet)", address)
	}
	return nil
}
