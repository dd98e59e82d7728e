// Package keys manages secp256k1 key pairs for delegation signing.
package keys

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/nbd-wtf/go-nostr/nip19"
)

// ErrNoSecretKey is returned when a verify-only key set is asked to sign or
// export its secret key.
var ErrNoSecretKey = errors.New("keys: no secret key available")

// Keys holds a delegator or delegatee key pair. A Keys built from a public
// key only can verify but not sign.
type Keys struct {
	secret *btcec.PrivateKey
	public *btcec.PublicKey
}

// Generate creates a fresh key pair.
func Generate() (*Keys, error) {
	secret, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("keys: generate: %w", err)
	}
	return &Keys{secret: secret, public: secret.PubKey()}, nil
}

// FromSecretHex builds a key pair from a 32-byte hex-encoded secret key.
func FromSecretHex(s string) (*Keys, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("keys: secret key hex: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("keys: secret key must be 32 bytes, got %d", len(b))
	}
	secret, public := btcec.PrivKeyFromBytes(b)
	return &Keys{secret: secret, public: public}, nil
}

// FromNsec builds a key pair from a bech32 nsec secret key.
func FromNsec(nsec string) (*Keys, error) {
	prefix, value, err := nip19.Decode(nsec)
	if err != nil {
		return nil, fmt.Errorf("keys: decode nsec: %w", err)
	}
	if prefix != "nsec" {
		return nil, fmt.Errorf("keys: expected nsec, got %q", prefix)
	}
	return FromSecretHex(value.(string))
}

// FromPublicHex builds a verify-only Keys from an x-only public key encoded
// as 64 hex characters.
func FromPublicHex(s string) (*Keys, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("keys: public key hex: %w", err)
	}
	public, err := schnorr.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("keys: parse public key: %w", err)
	}
	return &Keys{public: public}, nil
}

// FromNpub builds a verify-only Keys from a bech32 npub public key.
func FromNpub(npub string) (*Keys, error) {
	prefix, value, err := nip19.Decode(npub)
	if err != nil {
		return nil, fmt.Errorf("keys: decode npub: %w", err)
	}
	if prefix != "npub" {
		return nil, fmt.Errorf("keys: expected npub, got %q", prefix)
	}
	return FromPublicHex(value.(string))
}

// PublicKey returns the public key.
func (k *Keys) PublicKey() *btcec.PublicKey {
	return k.public
}

// PublicKeyHex returns the x-only public key as 64 lowercase hex characters.
func (k *Keys) PublicKeyHex() string {
	return hex.EncodeToString(schnorr.SerializePubKey(k.public))
}

// Npub returns the public key in bech32 npub form.
func (k *Keys) Npub() (string, error) {
	return nip19.EncodePublicKey(k.PublicKeyHex())
}

// SecretHex returns the secret key as 64 lowercase hex characters.
func (k *Keys) SecretHex() (string, error) {
	if k.secret == nil {
		return "", ErrNoSecretKey
	}
	return hex.EncodeToString(k.secret.Serialize()), nil
}

// Nsec returns the secret key in bech32 nsec form.
func (k *Keys) Nsec() (string, error) {
	secretHex, err := k.SecretHex()
	if err != nil {
		return "", err
	}
	return nip19.EncodePrivateKey(secretHex)
}

// SchnorrSign produces a BIP-340 signature over a 32-byte digest. It
// satisfies delegation.Signer.
func (k *Keys) SchnorrSign(digest []byte) (*schnorr.Signature, error) {
	if k.secret == nil {
		return nil, ErrNoSecretKey
	}
	return schnorr.Sign(k.secret, digest)
}
