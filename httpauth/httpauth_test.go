package httpauth

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/relaykit/delegation"
	"github.com/relaykit/delegation/keys"
)

func testIssuerKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, secret, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey failed: %v", err)
	}
	return secret
}

func testGrant(t *testing.T) (*delegation.Tag, *keys.Keys) {
	t.Helper()
	delegator, err := keys.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	delegatee, err := keys.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	tag, err := delegation.CreateTag(delegator, delegatee.PublicKey(), "kind=1&created_at<1999999999")
	if err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}
	return tag, delegatee
}

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer(testIssuerKey(t), "relay.example", time.Minute)
	tag, delegatee := testGrant(t)

	token, err := issuer.Issue(tag, delegatee.PublicKey())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, gotTag, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Subject != delegatee.PublicKeyHex() {
		t.Errorf("Subject = %q, want %q", claims.Subject, delegatee.PublicKeyHex())
	}
	if claims.Issuer != "relay.example" {
		t.Errorf("Issuer = %q, want %q", claims.Issuer, "relay.example")
	}
	if !strings.HasPrefix(claims.ID, "dlg_") {
		t.Errorf("ID = %q, want dlg_ prefix", claims.ID)
	}
	if gotTag.String() != tag.String() {
		t.Errorf("embedded tag = %s, want %s", gotTag.String(), tag.String())
	}

	// the embedded tag still validates against the delegatee
	err = gotTag.Validate(delegatee.PublicKey(), delegation.NewEventProperties(1, 1700000000))
	if err != nil {
		t.Errorf("embedded tag Validate failed: %v", err)
	}
}

func TestVerifyWrongKey(t *testing.T) {
	issuerA := NewIssuer(testIssuerKey(t), "relay-a", time.Minute)
	issuerB := NewIssuer(testIssuerKey(t), "relay-b", time.Minute)
	tag, delegatee := testGrant(t)

	token, err := issuerA.Issue(tag, delegatee.PublicKey())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, _, err := issuerB.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	issuer := NewIssuer(testIssuerKey(t), "relay.example", time.Nanosecond+1)
	tag, delegatee := testGrant(t)

	token, err := issuer.Issue(tag, delegatee.PublicKey())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewIssuer(testIssuerKey(t), "relay.example", time.Minute)
	if _, _, err := issuer.Verify("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestDefaultTTL(t *testing.T) {
	issuer := NewIssuer(testIssuerKey(t), "relay.example", 0)
	if issuer.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", issuer.ttl, DefaultTTL)
	}
}
