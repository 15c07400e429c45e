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

// Package mockrp implements a local, non-networked FIDO2 relying party
// emulation for development and testing. It issues single-use challenges
// with a bounded validity window, stores credentials registered against
// them, and validates assertions by credential id and user handle.
//
// The emulation is deliberately shallow where a production relying party
// is deep: attestation statements are stored raw rather than verified,
// and assertion signatures are not checked. What it does enforce is the
// ceremony protocol itself: challenge freshness and single use, credential
// uniqueness, and identity binding between the start and finish halves of
// each ceremony.
//
// Challenge and credential storage are injected through the ChallengeStore
// and CredentialStore interfaces; MemoryChallengeStore and
// MemoryCredentialStore are the in-process implementations.
package mockrp
