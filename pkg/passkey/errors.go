// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey.
//
// go-passkey is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package passkey

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-passkey/pkg/codec"
)

// Sentinel errors for passkey ceremony operations.
var (
	// ErrPlatformUnsupported is returned when no credential-ceremony
	// capability is available at all.
	ErrPlatformUnsupported = errors.New("platform does not support passkeys")

	// ErrCeremonyAborted is returned when the user cancelled the platform
	// prompt or the prompt timed out. This is the most frequent failure.
	ErrCeremonyAborted = errors.New("ceremony aborted")

	// ErrDuplicateCredential is returned when attempting to re-register an
	// authenticator that is already excluded.
	ErrDuplicateCredential = errors.New("credential already registered")

	// ErrUnsupportedAlgorithm is returned when the relying party and the
	// authenticator share no acceptable signature scheme.
	ErrUnsupportedAlgorithm = errors.New("no supported signature algorithm")

	// ErrSecurityContextViolation is returned when a ceremony is attempted
	// outside a secure or matching origin context.
	ErrSecurityContextViolation = errors.New("security context violation")

	// ErrCredentialNotFound is returned when no stored credential matches
	// the presented assertion.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrChallengeInvalid is returned by finish operations when the
	// challenge is missing, already consumed, or expired.
	ErrChallengeInvalid = errors.New("challenge missing, consumed or expired")

	// ErrRequestTimeout is returned when a remote relying party does not
	// respond within the configured window.
	ErrRequestTimeout = errors.New("relying party request timed out")

	// ErrInvalidRequest is returned when a request is malformed, such as a
	// registration start with an empty username.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrMalformedEncoding is returned when text-to-byte decoding fails.
	// It aliases the codec sentinel so errors.Is matches across packages.
	ErrMalformedEncoding = codec.ErrMalformedEncoding
)

// CeremonyError wraps an error with the ceremony operation that failed.
type CeremonyError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

// Error returns the error message.
func (e *CeremonyError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CeremonyError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches.
func (e *CeremonyError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new CeremonyError with the given operation and error.
func NewError(op string, err error) error {
	return &CeremonyError{
		Op:  op,
		Err: err,
	}
}

// WrapError wraps an error with an operation name if it's not nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(op, err)
}

// IsCeremonyAborted returns true if the error indicates the user cancelled
// or the platform prompt timed out.
func IsCeremonyAborted(err error) bool {
	return errors.Is(err, ErrCeremonyAborted)
}

// IsDuplicateCredential returns true if the error indicates an attempted
// re-registration of an excluded authenticator.
func IsDuplicateCredential(err error) bool {
	return errors.Is(err, ErrDuplicateCredential)
}

// IsCredentialNotFound returns true if the error indicates no stored
// credential matched the assertion.
func IsCredentialNotFound(err error) bool {
	return errors.Is(err, ErrCredentialNotFound)
}

// IsChallengeInvalid returns true if the error indicates a missing,
// consumed or expired challenge.
func IsChallengeInvalid(err error) bool {
	return errors.Is(err, ErrChallengeInvalid)
}

// IsRequestTimeout returns true if the error indicates the remote relying
// party was unreachable within the configured window.
func IsRequestTimeout(err error) bool {
	return errors.Is(err, ErrRequestTimeout)
}

// IsMalformedEncoding returns true if the error indicates a text-to-byte
// decoding failure.
func IsMalformedEncoding(err error) bool {
	return errors.Is(err, ErrMalformedEncoding)
}
