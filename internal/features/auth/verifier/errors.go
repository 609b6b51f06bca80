package verifier

import "errors"

var (
	ErrMissingInput      = errors.New("init data: payload and bot token are required")
	ErrMissingSignature  = errors.New("init data: hash is missing")
	ErrSignatureMismatch = errors.New("init data: signature mismatch")
	ErrExpired           = errors.New("init data: expired")

	// ErrMalformedUserField is never returned by Verify, it only shows up in
	// Result.User.Err when the signed user object could not be decoded.
	ErrMalformedUserField = errors.New("init data: malformed user field")
)
