// Package keys holds the service key material: per-message symmetric keys
// derived from one master secret, the sealing primitive, and the signing
// key whose public half is handed out as the verification key.
package keys

import (
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/box"
)

const (
	MasterKeySize    = 32
	MessageKeySize   = chacha20poly1305.KeySize
	TransportKeySize = 32
)

var (
	ErrInvalidMasterKey    = errors.New("master key must be 32 bytes")
	ErrInvalidTransportKey = errors.New("transport public key must be 32 bytes")
	ErrCiphertextTooShort  = errors.New("ciphertext too short")
)

type Keyring struct {
	master  []byte
	signing ed25519.PrivateKey
}

func NewKeyring(master []byte) (*Keyring, error) {
	if len(master) != MasterKeySize {
		return nil, ErrInvalidMasterKey
	}
	seed, err := derive(master, "chatz signing key", ed25519.SeedSize)
	if err != nil {
		return nil, err
	}
	m := make([]byte, len(master))
	copy(m, master)
	return &Keyring{master: m, signing: ed25519.NewKeyFromSeed(seed)}, nil
}

// ParseMasterKey decodes a hex master key. An empty string yields a fresh
// random key, which makes sealed messages unreadable after a restart.
func ParseMasterKey(s string) ([]byte, error) {
	if s == "" {
		k := make([]byte, MasterKeySize)
		if _, err := rand.Read(k); err != nil {
			return nil, errors.Wrap(err, "keys.ParseMasterKey.rand")
		}
		return k, nil
	}
	k, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "keys.ParseMasterKey.decode")
	}
	if len(k) != MasterKeySize {
		return nil, ErrInvalidMasterKey
	}
	return k, nil
}

// MessageKey derives the symmetric key of one message.
func (k *Keyring) MessageKey(messageID uint64) ([]byte, error) {
	return derive(k.master, fmt.Sprintf("message_%d", messageID), MessageKeySize)
}

// Seal encrypts plaintext under the message key. The output is nonce||ciphertext.
func (k *Keyring) Seal(messageID uint64, plaintext []byte) ([]byte, error) {
	aead, err := k.aead(messageID)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Wrap(err, "keys.Seal.nonce")
	}
	return aead.Seal(nonce, nonce, plaintext, messageAD(messageID)), nil
}

func (k *Keyring) Open(messageID uint64, sealed []byte) ([]byte, error) {
	aead, err := k.aead(messageID)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrCiphertextTooShort
	}
	nonce, ct := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ct, messageAD(messageID))
	if err != nil {
		return nil, errors.Wrap(err, "keys.Open")
	}
	return plain, nil
}

// WrapKey seals key to a caller-supplied X25519 public key so it never
// crosses the transport in the clear.
func (k *Keyring) WrapKey(key, transportPublicKey []byte) ([]byte, error) {
	if len(transportPublicKey) != TransportKeySize {
		return nil, ErrInvalidTransportKey
	}
	var pub [32]byte
	copy(pub[:], transportPublicKey)
	out, err := box.SealAnonymous(nil, key, &pub, rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "keys.WrapKey")
	}
	return out, nil
}

// Sign signs the ciphertext of a message together with its id.
func (k *Keyring) Sign(messageID uint64, ciphertext []byte) []byte {
	return ed25519.Sign(k.signing, SignedPayload(messageID, ciphertext))
}

// VerificationKey is the public Ed25519 key matching Sign.
func (k *Keyring) VerificationKey() []byte {
	pub := k.signing.Public().(ed25519.PublicKey)
	out := make([]byte, len(pub))
	copy(out, pub)
	return out
}

// SignedPayload is the byte string covered by a ciphertext signature.
func SignedPayload(messageID uint64, ciphertext []byte) []byte {
	out := make([]byte, 8, 8+len(ciphertext))
	binary.BigEndian.PutUint64(out, messageID)
	return append(out, ciphertext...)
}

func (k *Keyring) aead(messageID uint64) (cipher.AEAD, error) {
	key, err := k.MessageKey(messageID)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrap(err, "keys.aead")
	}
	return aead, nil
}

func messageAD(messageID uint64) []byte {
	ad := make([]byte, 8)
	binary.BigEndian.PutUint64(ad, messageID)
	return ad
}

func derive(master []byte, info string, n int) ([]byte, error) {
	r := hkdf.New(sha256.New, master, nil, []byte(info))
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, errors.Wrap(err, "keys.derive")
	}
	return out, nil
}
