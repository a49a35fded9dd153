package kernel

import (
	"encoding/base32"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	trackingCodePrefix = "TRK-"
	trackingCodeLength = 10
)

// ErrTrackingCodeIsNotConstructed indicates a zero-value TrackingCode.
// Codes must be created via NewTrackingCode or TrackingCodeFromString.
var ErrTrackingCodeIsNotConstructed = errs.NewValueIsRequiredError(
	"tracking code must be created via NewTrackingCode or TrackingCodeFromString")

// trackingEncoding strips padding so generated codes are fixed-length.
var trackingEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// TrackingCode is the public, globally unique, immutable identifier of a
// delivery. It is safe to expose to unauthenticated recipients: the code
// carries no information beyond its own randomness.
//
// The format is "TRK-" followed by ten base32 characters derived from UUID
// entropy, e.g. "TRK-64S36D1N6R".
type TrackingCode struct {
	value string
}

// NewTrackingCode generates a fresh random tracking code.
func NewTrackingCode() TrackingCode {
	id := uuid.New()
	encoded := trackingEncoding.EncodeToString(id[:])
	return TrackingCode{
		value: trackingCodePrefix + strings.ToUpper(encoded[:trackingCodeLength]),
	}
}

// TrackingCodeFromString parses and validates a tracking code received from
// persistence or an external caller.
func TrackingCodeFromString(s string) (TrackingCode, error) {
	if !strings.HasPrefix(s, trackingCodePrefix) ||
		len(s) != len(trackingCodePrefix)+trackingCodeLength {
		return TrackingCode{}, errs.NewValueIsInvalidErrorWithCause("tracking code",
			fmt.Errorf("%q does not match the TRK-XXXXXXXXXX format", s))
	}

	return TrackingCode{value: s}, nil
}

// String returns the full code including the "TRK-" prefix.
func (t TrackingCode) String() string {
	return t.value
}

// IsEqual compares two tracking codes for equality.
func (t TrackingCode) IsEqual(other TrackingCode) bool {
	return t.value == other.value
}

// Validate checks that the code was produced by one of the constructors.
func (t TrackingCode) Validate() error {
	if t.value == "" {
		return ErrTrackingCodeIsNotConstructed
	}
	return nil
}
