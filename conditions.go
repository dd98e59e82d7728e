package delegation

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	kindPrefix          = "kind="
	createdBeforePrefix = "created_at<"
	createdAfterPrefix  = "created_at>"
)

// Condition is a single machine-checkable restriction on delegated events.
// A condition is immutable once constructed.
type Condition interface {
	// Evaluate reports whether the event properties satisfy the condition.
	Evaluate(props EventProperties) error
	// String renders the condition in its query-string wire form.
	String() string
}

// Kind restricts delegated events to a single event kind, e.g. "kind=1".
type Kind uint64

// CreatedBefore requires the event creation time to be strictly earlier
// than the given unix timestamp, e.g. "created_at<1679000000".
type CreatedBefore uint64

// CreatedAfter requires the event creation time to be strictly later than
// the given unix timestamp, e.g. "created_at>1676000000".
type CreatedAfter uint64

func (k Kind) Evaluate(props EventProperties) error {
	if props.Kind != uint64(k) {
		return ErrInvalidKind
	}
	return nil
}

func (k Kind) String() string {
	return kindPrefix + strconv.FormatUint(uint64(k), 10)
}

func (c CreatedBefore) Evaluate(props EventProperties) error {
	if props.CreatedAt >= uint64(c) {
		return ErrCreatedTooLate
	}
	return nil
}

func (c CreatedBefore) String() string {
	return createdBeforePrefix + strconv.FormatUint(uint64(c), 10)
}

func (c CreatedAfter) Evaluate(props EventProperties) error {
	if props.CreatedAt <= uint64(c) {
		return ErrCreatedTooEarly
	}
	return nil
}

func (c CreatedAfter) String() string {
	return createdAfterPrefix + strconv.FormatUint(uint64(c), 10)
}

// ParseCondition parses a single condition in its wire form. The prefix
// selects the condition type; the remainder must be an unsigned decimal
// number. No surrounding whitespace is tolerated.
func ParseCondition(s string) (Condition, error) {
	if num, ok := strings.CutPrefix(s, kindPrefix); ok {
		n, err := parseConditionUint(num)
		if err != nil {
			return nil, err
		}
		return Kind(n), nil
	}
	if num, ok := strings.CutPrefix(s, createdBeforePrefix); ok {
		n, err := parseConditionUint(num)
		if err != nil {
			return nil, err
		}
		return CreatedBefore(n), nil
	}
	if num, ok := strings.CutPrefix(s, createdAfterPrefix); ok {
		n, err := parseConditionUint(num)
		if err != nil {
			return nil, err
		}
		return CreatedAfter(n), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidCondition, s)
}

func parseConditionUint(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidConditionNumber, s)
	}
	return n, nil
}

// Conditions is an ordered list of conditions. Order is significant: it is
// preserved through parse/serialize round-trips and determines which failing
// condition is reported first.
type Conditions []Condition

// ParseConditions parses a "&"-separated conditions string. The empty string
// is a valid empty list. Parsing is all-or-nothing: the first malformed
// condition fails the whole parse with no partial result.
func ParseConditions(s string) (Conditions, error) {
	if s == "" {
		return Conditions{}, nil
	}
	parts := strings.Split(s, "&")
	cs := make(Conditions, 0, len(parts))
	for _, part := range parts {
		c, err := ParseCondition(part)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	return cs, nil
}

// String renders the list in its wire form, joining conditions with "&".
// An empty list renders as the empty string.
func (cs Conditions) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}
	return strings.Join(parts, "&")
}

// Evaluate checks every condition in stored order against the event
// properties. It stops at the first failing condition and returns that
// condition's failure; later conditions are not evaluated. An empty list
// always passes.
func (cs Conditions) Evaluate(props EventProperties) error {
	for _, c := range cs {
		if err := c.Evaluate(props); err != nil {
			return err
		}
	}
	return nil
}
