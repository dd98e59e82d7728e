package delegation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// delegationKeyword is the first element of the serialized tag and part of
// the signed token.
const delegationKeyword = "delegation"

// Signer is the delegator's signing capability. It is borrowed for the
// duration of a CreateTag or SignDelegation call; the secret key itself is
// never retained by this package.
type Signer interface {
	// SchnorrSign produces a BIP-340 signature over a 32-byte digest.
	SchnorrSign(digest []byte) (*schnorr.Signature, error)
	// PublicKey returns the public key the signatures verify against.
	PublicKey() *btcec.PublicKey
}

// Token compiles the delegation token, of the form
// "nostr:delegation:<pubkey_of_publisher>:<conditions_query_string>".
// The SHA-256 digest of this exact byte sequence is what gets signed, so
// the format is a wire contract shared with independent verifiers.
func Token(delegateePub *btcec.PublicKey, conditions string) string {
	return fmt.Sprintf("nostr:%s:%s:%s", delegationKeyword, PublicKeyHex(delegateePub), conditions)
}

// SignDelegation signs the delegation token for the given delegatee and
// conditions string. See CreateTag for the complete flow.
func SignDelegation(signer Signer, delegateePub *btcec.PublicKey, conditions string) (*schnorr.Signature, error) {
	digest := sha256.Sum256([]byte(Token(delegateePub, conditions)))
	return signer.SchnorrSign(digest[:])
}

// VerifyDelegationSignature checks a delegation signature against the
// delegator's public key for the given delegatee and conditions string.
// It returns ErrInvalidSignature when the signature does not verify.
func VerifyDelegationSignature(delegatorPub *btcec.PublicKey, sig *schnorr.Signature, delegateePub *btcec.PublicKey, conditions string) error {
	digest := sha256.Sum256([]byte(Token(delegateePub, conditions)))
	if !sig.Verify(digest[:], delegatorPub) {
		return ErrInvalidSignature
	}
	return nil
}

// PublicKeyHex renders a public key in the x-only lowercase hex form used
// in tokens and tags.
func PublicKeyHex(pub *btcec.PublicKey) string {
	return hex.EncodeToString(schnorr.SerializePubKey(pub))
}
