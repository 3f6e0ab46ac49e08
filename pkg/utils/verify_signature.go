package utils

import (
	"crypto/ed25519"
	"errors"

	"chatz/pkg/keys"
)

var ErrInvalidVerificationKey = errors.New("verification key must be 32 bytes")

// ValidateCiphertextSignature checks a ciphertext signature against the
// verification key handed out by the service.
func ValidateCiphertextSignature(verificationKey []byte, messageID uint64, ciphertext, signature []byte) (bool, error) {
	if len(verificationKey) != ed25519.PublicKeySize {
		return false, ErrInvalidVerificationKey
	}
	ok := ed25519.Verify(verificationKey, keys.SignedPayload(messageID, ciphertext), signature)
	return ok, nil
}
