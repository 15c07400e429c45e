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
	"context"

	"github.com/go-webauthn/webauthn/protocol"

	"github.com/jeremyhahn/go-passkey/pkg/codec"
)

// Adapter converts relying-party wire options into platform credential API
// calls and serializes the opaque binary results back into wire form. The
// platform capability is injected so the adapter is testable without a
// real authenticator present.
type Adapter struct {
	platform Authenticator
}

// NewAdapter creates an adapter around the given platform capability.
// A nil capability means the device has no passkey support at all.
func NewAdapter(platform Authenticator) (*Adapter, error) {
	if platform == nil {
		return nil, WrapError("new adapter", ErrPlatformUnsupported)
	}
	return &Adapter{platform: platform}, nil
}

// ToPlatformCreateOptions decodes the challenge, user id and every
// excluded credential id from wire text to raw bytes. All other fields
// pass through unchanged. Attestation defaults to "none" when absent.
func ToPlatformCreateOptions(opts *CreationOptions) (*PlatformCreateOptions, error) {
	if opts == nil {
		return nil, WrapError("create options", ErrInvalidRequest)
	}

	challenge, err := codec.Decode(opts.Challenge)
	if err != nil {
		return nil, WrapError("decode challenge", err)
	}

	userID, err := codec.Decode(opts.User.ID)
	if err != nil {
		return nil, WrapError("decode user id", err)
	}

	exclude, err := decodeDescriptors(opts.ExcludeCredentials)
	if err != nil {
		return nil, WrapError("decode exclude credentials", err)
	}

	attestation := opts.Attestation
	if attestation == "" {
		attestation = string(protocol.PreferNoAttestation)
	}

	return &PlatformCreateOptions{
		RP: opts.RP,
		User: PlatformUserEntity{
			ID:          userID,
			Name:        opts.User.Name,
			DisplayName: opts.User.DisplayName,
		},
		Challenge:              challenge,
		PubKeyCredParams:       opts.PubKeyCredParams,
		Timeout:                opts.Timeout,
		ExcludeCredentials:     exclude,
		AuthenticatorSelection: opts.AuthenticatorSelection,
		Attestation:            attestation,
	}, nil
}

// ToPlatformGetOptions decodes the challenge and every allowed credential
// id. User verification defaults to "preferred" when absent. An absent or
// empty allow list signals discoverable-credential mode and is passed
// through as empty, never fabricated.
func ToPlatformGetOptions(opts *RequestOptions) (*PlatformGetOptions, error) {
	if opts == nil {
		return nil, WrapError("get options", ErrInvalidRequest)
	}

	challenge, err := codec.Decode(opts.Challenge)
	if err != nil {
		return nil, WrapError("decode challenge", err)
	}

	allow, err := decodeDescriptors(opts.AllowCredentials)
	if err != nil {
		return nil, WrapError("decode allow credentials", err)
	}

	userVerification := opts.UserVerification
	if userVerification == "" {
		userVerification = string(protocol.VerificationPreferred)
	}

	return &PlatformGetOptions{
		Challenge:        challenge,
		Timeout:          opts.Timeout,
		RPID:             opts.RPID,
		AllowCredentials: allow,
		UserVerification: userVerification,
	}, nil
}

// CreateCredential invokes the platform's credential-creation capability
// and serializes the result back into wire form. The call blocks on the
// platform's user prompt.
func (a *Adapter) CreateCredential(ctx context.Context, opts *PlatformCreateOptions) (*AttestationResult, error) {
	cred, err := a.platform.Create(ctx, opts)
	if err != nil {
		return nil, WrapError("create credential", err)
	}
	if cred == nil {
		return nil, WrapError("create credential", ErrCeremonyAborted)
	}

	id := codec.Encode(cred.RawID)
	return &AttestationResult{
		ID:                      id,
		RawID:                   id,
		Type:                    CredentialTypePublicKey,
		AuthenticatorAttachment: cred.AuthenticatorAttachment,
		Response: AttestationResponse{
			ClientDataJSON:    codec.Encode(cred.ClientDataJSON),
			AttestationObject: codec.Encode(cred.AttestationObject),
		},
		ClientExtensionResults: cred.Extensions,
	}, nil
}

// GetCredential invokes the platform's assertion capability and serializes
// the result back into wire form. The user handle is omitted, not encoded
// as empty, when the authenticator did not report one.
func (a *Adapter) GetCredential(ctx context.Context, opts *PlatformGetOptions) (*AssertionResult, error) {
	assertion, err := a.platform.Get(ctx, opts)
	if err != nil {
		return nil, WrapError("get credential", err)
	}
	if assertion == nil {
		return nil, WrapError("get credential", ErrCeremonyAborted)
	}

	id := codec.Encode(assertion.RawID)
	result := &AssertionResult{
		ID:                      id,
		RawID:                   id,
		Type:                    CredentialTypePublicKey,
		AuthenticatorAttachment: assertion.AuthenticatorAttachment,
		Response: AssertionResponse{
			ClientDataJSON:    codec.Encode(assertion.ClientDataJSON),
			AuthenticatorData: codec.Encode(assertion.AuthenticatorData),
			Signature:         codec.Encode(assertion.Signature),
		},
	}
	if len(assertion.UserHandle) > 0 {
		result.Response.UserHandle = codec.Encode(assertion.UserHandle)
	}
	return result, nil
}

// decodeDescriptors decodes the id of each wire credential descriptor.
func decodeDescriptors(descriptors []CredentialDescriptor) ([]PlatformCredentialDescriptor, error) {
	if len(descriptors) == 0 {
		return nil, nil
	}

	decoded := make([]PlatformCredentialDescriptor, len(descriptors))
	for i, d := range descriptors {
		id, err := codec.Decode(d.ID)
		if err != nil {
			return nil, err
		}
		decoded[i] = PlatformCredentialDescriptor{
			Type:       d.Type,
			ID:         id,
			Transports: d.Transports,
		}
	}
	return decoded, nil
}
