package solana

import "testing"

const (
	// System program: the all-ones pubkey, a valid 32-byte address.
	systemProgram = "11111111111111111111111111111111"
	// WSOL mint, a known on-curve-decodable 32-byte address.
	wsolMint = "So11111111111111111111111111111111111111112"
)

func TestDecodeAddress(t *testing.T) {
	decoded, err := DecodeAddress(systemProgram)
	if err != nil {
		t.Fatalf("DecodeAddress failed: %v", err)
	}
	if len(decoded) != PublicKeyLength {
		t.Errorf("expected %d bytes, got %d", PublicKeyLength, len(decoded))
	}
}

func TestDecodeAddress_Rejects(t *testing.T) {
	cases := []struct {
		name    string
		address string
	}{
		{"empty", ""},
		{"invalid base58", "0OIl"},
		{"too short", "abc"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeAddress(tc.address); err == nil {
				t.Errorf("expected error for %q", tc.address)
			}
		})
	}
}

func TestIsValidAddress(t *testing.T) {
	if !IsValidAddress(wsolMint) {
		t.Error("WSOL mint should be valid")
	}
	if IsValidAddress("not-an-address") {
		t.Error("garbage should be invalid")
	}
}

func TestIsOnCurve_MalformedAddress(t *testing.T) {
	if _, err := IsOnCurve("abc"); err == nil {
		t.Error("expected error for malformed address")
	}
}

func TestIsOnCurve_ValidPoint(t *testing.T) {
	// The identity-adjacent all-zero key (system program decodes to 32 zero
	// bytes) is a valid encoding of the identity point.
	onCurve, err := IsOnCurve(systemProgram)
	if err != nil {
		t.Fatalf("IsOnCurve failed: %v", err)
	}
	if !onCurve {
		t.Error("system program key should decode as a curve point")
	}
}
