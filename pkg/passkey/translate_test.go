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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"platform unsupported", ErrPlatformUnsupported, msgPlatformUnsupported},
		{"ceremony aborted", ErrCeremonyAborted, msgCeremonyAborted},
		{"duplicate credential", ErrDuplicateCredential, msgDuplicateCredential},
		{"unsupported algorithm", ErrUnsupportedAlgorithm, msgUnsupportedAlg},
		{"security context", ErrSecurityContextViolation, msgSecurityContext},
		{"credential not found", ErrCredentialNotFound, msgCredentialNotFound},
		{"challenge invalid", ErrChallengeInvalid, msgChallengeInvalid},
		{"malformed encoding", ErrMalformedEncoding, msgMalformedEncoding},
		{"request timeout", ErrRequestTimeout, msgRequestTimeout},
		{"invalid request", ErrInvalidRequest, msgInvalidRequest},
		{"unrecognized", errors.New("database on fire"), msgUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))

			// Wrapping with operation context never changes the message.
			if tt.err != nil {
				assert.Equal(t, tt.want, UserMessage(WrapError("some op", tt.err)))
			}
		})
	}
}

func TestUserMessage_NeverLeaksInternals(t *testing.T) {
	// Raw error text must not reach the user, only the stable message.
	err := WrapError("register finish", errors.New("pq: connection refused"))
	msg := UserMessage(err)
	assert.Equal(t, msgUnknown, msg)
	assert.NotContains(t, msg, "pq:")
}
