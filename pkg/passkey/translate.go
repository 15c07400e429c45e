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

import "errors"

// User-facing messages for each ceremony failure category. All call sites
// that surface errors to a person must route them through UserMessage
// rather than displaying raw error strings.
const (
	msgPlatformUnsupported = "This device or browser does not support passkeys."
	msgCeremonyAborted     = "The passkey prompt was cancelled or timed out. Please try again."
	msgDuplicateCredential = "A passkey for this account already exists on this authenticator."
	msgUnsupportedAlg      = "This authenticator does not support a compatible signature algorithm."
	msgSecurityContext     = "Passkeys require a secure connection to the correct site."
	msgCredentialNotFound  = "No matching passkey was found for this account."
	msgChallengeInvalid    = "This sign-in attempt has expired. Please start over."
	msgMalformedEncoding   = "The server response could not be decoded."
	msgRequestTimeout      = "The server did not respond in time. Please try again."
	msgInvalidRequest      = "The request was invalid. Please check your input and try again."
	msgUnknown             = "An unknown error occurred. Please try again."
)

// UserMessage translates any ceremony failure into a stable, human-readable
// message. It never fails: unrecognized error shapes fall back to a generic
// message, and a nil error produces an empty string.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPlatformUnsupported):
		return msgPlatformUnsupported
	case errors.Is(err, ErrCeremonyAborted):
		return msgCeremonyAborted
	case errors.Is(err, ErrDuplicateCredential):
		return msgDuplicateCredential
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return msgUnsupportedAlg
	case errors.Is(err, ErrSecurityContextViolation):
		return msgSecurityContext
	case errors.Is(err, ErrCredentialNotFound):
		return msgCredentialNotFound
	case errors.Is(err, ErrChallengeInvalid):
		return msgChallengeInvalid
	case errors.Is(err, ErrMalformedEncoding):
		return msgMalformedEncoding
	case errors.Is(err, ErrRequestTimeout):
		return msgRequestTimeout
	case errors.Is(err, ErrInvalidRequest):
		return msgInvalidRequest
	default:
		return msgUnknown
	}
}
