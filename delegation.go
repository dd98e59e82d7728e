// Package delegation implements NIP-26 delegated event signing for nostr.
//
// A delegator authorizes a delegatee to publish events on its behalf by
// signing a delegation token bound to the delegatee's public key and a set
// of machine-checkable conditions (event kind, validity window). The grant
// travels as a "delegation" tag on the published events.
//
// # Quick Start
//
//	delegator, err := keys.FromNsec("nsec1...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	tag, err := delegation.CreateTag(delegator, delegateePub,
//	    "kind=1&created_at>1676067553&created_at<1678659553")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// on the verifying side
//	err = tag.Validate(delegateePub, delegation.NewEventProperties(1, 1677000000))
package delegation

import "errors"

// Version is the library version.
const Version = "0.1.0"

// Parse errors returned when decoding conditions or tags.
var (
	ErrInvalidCondition       = errors.New("invalid condition in conditions string")
	ErrInvalidConditionNumber = errors.New("invalid condition, cannot parse expected number")
	ErrTagParse               = errors.New("delegation tag parse failed")
)

// Validation failures returned by Validate and Evaluate. These are expected,
// recoverable outcomes, not program errors; callers branch on them with
// errors.Is and reject the event rather than crash.
var (
	ErrInvalidSignature = errors.New("delegation signature does not match")
	ErrInvalidKind      = errors.New("event kind does not match delegation conditions")
	ErrCreatedTooEarly  = errors.New("event created before delegation validity period")
	ErrCreatedTooLate   = errors.New("event created after delegation validity period")
)
