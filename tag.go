package delegation

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/nbd-wtf/go-nostr"
)

// Tag is a NIP-26 delegation tag: the delegator's public key, the conditions
// of the grant, and the delegator's signature over the delegation token.
//
// A Tag built by CreateTag is valid by construction. A Tag built by ParseTag
// or TagFromFields carries an unverified claim until Validate is called.
type Tag struct {
	delegatorPub *btcec.PublicKey
	conditions   Conditions
	sig          *schnorr.Signature
}

// CreateTag creates a signed delegation tag authorizing the delegatee to
// publish events within the given conditions. The token is signed over the
// conditions string exactly as supplied, not a re-serialized form.
func CreateTag(signer Signer, delegateePub *btcec.PublicKey, conditions string) (*Tag, error) {
	cs, err := ParseConditions(conditions)
	if err != nil {
		return nil, err
	}
	sig, err := SignDelegation(signer, delegateePub, conditions)
	if err != nil {
		return nil, err
	}
	return &Tag{
		delegatorPub: signer.PublicKey(),
		conditions:   cs,
		sig:          sig,
	}, nil
}

// DelegatorPubKey returns the delegator's public key.
func (t *Tag) DelegatorPubKey() *btcec.PublicKey {
	return t.delegatorPub
}

// Conditions returns a copy of the conditions of the grant.
func (t *Tag) Conditions() Conditions {
	return append(Conditions(nil), t.conditions...)
}

// Signature returns the delegator's signature.
func (t *Tag) Signature() *schnorr.Signature {
	return t.sig
}

// Validate checks the tag's signature for the given delegatee and then
// evaluates the conditions against the event properties. Every signature
// problem (wrong key, wrong delegatee, tampered conditions) collapses to
// ErrInvalidSignature; conditions are only evaluated once the signature
// checks out. Validate re-derives everything on every call and never
// caches a verdict.
func (t *Tag) Validate(delegateePub *btcec.PublicKey, props EventProperties) error {
	if err := VerifyDelegationSignature(t.delegatorPub, t.sig, delegateePub, t.conditions.String()); err != nil {
		return ErrInvalidSignature
	}
	return t.conditions.Evaluate(props)
}

// Fields returns the tag as its canonical 4-element array:
// ["delegation", delegator pubkey hex, conditions, signature hex].
func (t *Tag) Fields() []string {
	return []string{
		delegationKeyword,
		PublicKeyHex(t.delegatorPub),
		t.conditions.String(),
		hex.EncodeToString(t.sig.Serialize()),
	}
}

// NostrTag returns the tag in go-nostr's tag representation, ready to embed
// in an event's tag list.
func (t *Tag) NostrTag() nostr.Tag {
	return nostr.Tag(t.Fields())
}

// String returns the tag as a compact JSON array of four strings, its
// canonical wire form.
func (t *Tag) String() string {
	// json.Marshal would escape the < and > of the conditions string; the
	// wire form must carry them verbatim.
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t.Fields()); err != nil {
		return ""
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// MarshalJSON implements json.Marshaler using the canonical wire form.
func (t *Tag) MarshalJSON() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler. The result is unverified:
// call Validate before trusting it.
func (t *Tag) UnmarshalJSON(b []byte) error {
	parsed, err := ParseTag(string(b))
	if err != nil {
		return err
	}
	*t = *parsed
	return nil
}

// ParseTag parses a delegation tag from its JSON array form. The result is
// unverified: call Validate before trusting it.
func ParseTag(s string) (*Tag, error) {
	var fields []string
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTagParse, err)
	}
	return TagFromFields(fields)
}

// TagFromFields builds a delegation tag from a 4-element tag array, as found
// in an event's tag list. The result is unverified: call Validate before
// trusting it.
func TagFromFields(fields []string) (*Tag, error) {
	if len(fields) != 4 {
		return nil, fmt.Errorf("%w: expected 4 elements, got %d", ErrTagParse, len(fields))
	}
	if fields[0] != delegationKeyword {
		return nil, fmt.Errorf("%w: first element is %q, not %q", ErrTagParse, fields[0], delegationKeyword)
	}
	pub, err := parsePubKeyHex(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: delegator pubkey: %v", ErrTagParse, err)
	}
	cs, err := ParseConditions(fields[2])
	if err != nil {
		return nil, fmt.Errorf("%w: conditions: %v", ErrTagParse, err)
	}
	sig, err := parseSignatureHex(fields[3])
	if err != nil {
		return nil, fmt.Errorf("%w: signature: %v", ErrTagParse, err)
	}
	return &Tag{delegatorPub: pub, conditions: cs, sig: sig}, nil
}

func parsePubKeyHex(s string) (*btcec.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return schnorr.ParsePubKey(b)
}

func parseSignatureHex(s string) (*schnorr.Signature, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return schnorr.ParseSignature(b)
}
