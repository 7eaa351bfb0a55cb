package sui

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"
)

// ed25519 scheme flag prepended to Sui signatures.
const ed25519Flag = 0x00

// LocalSigner signs transaction bytes with an in-process ed25519 key. Key
// material never leaves this struct and is never logged.
type LocalSigner struct {
	priv    ed25519.PrivateKey
	pub     ed25519.PublicKey
	address string
}

// NewLocalSigner builds a signer from a hex-encoded 32-byte ed25519 seed
// (optionally 0x-prefixed) and the sender address it belongs to.
func NewLocalSigner(seedHex, address string) (*LocalSigner, error) {
	seedHex = strings.TrimPrefix(seedHex, "0x")
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("decode signing key: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signing key must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return &LocalSigner{
		priv:    priv,
		pub:     priv.Public().(ed25519.PublicKey),
		address: address,
	}, nil
}

// Sign returns the serialized signature: flag || sig || pubkey.
func (s *LocalSigner) Sign(txBytes []byte) ([]byte, error) {
	sig := ed25519.Sign(s.priv, txBytes)

	out := make([]byte, 0, 1+len(sig)+len(s.pub))
	out = append(out, ed25519Flag)
	out = append(out, sig...)
	out = append(out, s.pub...)
	return out, nil
}

// Address returns the sender address of this key.
func (s *LocalSigner) Address() string {
	return s.address
}
