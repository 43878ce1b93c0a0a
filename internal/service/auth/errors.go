package auth

import "errors"

// Token codec errors. The Auth Gate maps each of these to a distinct
// rejection reason, so callers should compare with errors.Is.
var (
	// ErrMalformedToken indicates the token could not be parsed or decoded,
	// or is missing a required claim.
	ErrMalformedToken = errors.New("malformed authentication token")

	// ErrInvalidSignature indicates the signature does not verify under the
	// server secret or the token was signed with an unexpected algorithm.
	ErrInvalidSignature = errors.New("invalid authentication token signature")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrWeakSecret is returned when the signing secret is too short.
	ErrWeakSecret = errors.New("jwt secret must be at least 32 characters")
)
