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

package mockrp

import (
	"fmt"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"gopkg.in/yaml.v3"
)

// Config configures the mock relying party.
type Config struct {
	// RPID is the relying party identifier, typically the domain name.
	// Example: "example.com"
	RPID string `yaml:"id" json:"id" mapstructure:"id"`

	// RPName is the human-readable name of the relying party.
	RPName string `yaml:"name" json:"name" mapstructure:"name"`

	// CeremonyTimeout is the platform prompt timeout sent in ceremony
	// options. Default: 60 seconds.
	CeremonyTimeout time.Duration `yaml:"ceremony_timeout" json:"ceremony_timeout" mapstructure:"ceremony_timeout"`

	// ChallengeTTL is the validity window of an issued challenge.
	// Enforcement lives in the challenge store: constructors must hand
	// this value to the store they inject (see NewMemoryChallengeStore),
	// otherwise the store's own window applies. Default: 5 minutes.
	ChallengeTTL time.Duration `yaml:"challenge_ttl" json:"challenge_ttl" mapstructure:"challenge_ttl"`

	// ChallengeSize is the number of random bytes per challenge.
	// Default: 32, minimum 16.
	ChallengeSize int `yaml:"challenge_size" json:"challenge_size" mapstructure:"challenge_size"`

	// UserVerification is "required", "preferred" or "discouraged".
	// Default: "preferred".
	UserVerification string `yaml:"user_verification" json:"user_verification" mapstructure:"user_verification"`

	// Attestation is the attestation conveyance preference.
	// Default: "none".
	Attestation string `yaml:"attestation" json:"attestation" mapstructure:"attestation"`

	// ResidentKey is the resident key requirement sent in registration
	// options. Default: "preferred", favoring discoverable credentials.
	ResidentKey string `yaml:"resident_key" json:"resident_key" mapstructure:"resident_key"`

	// AuthenticatorAttachment limits the type of authenticators allowed.
	// Default: "platform", favoring built-in passkey storage.
	AuthenticatorAttachment string `yaml:"authenticator_attachment" json:"authenticator_attachment" mapstructure:"authenticator_attachment"`
}

// UnmarshalYAML decodes the configuration, accepting human-readable
// duration strings ("90s", "5m") for the timeout fields. Fields absent
// from the document keep their current values, so decoding into a
// defaulted Config merges rather than resets.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain struct {
		RPID                    string `yaml:"id"`
		RPName                  string `yaml:"name"`
		CeremonyTimeout         string `yaml:"ceremony_timeout"`
		ChallengeTTL            string `yaml:"challenge_ttl"`
		ChallengeSize           int    `yaml:"challenge_size"`
		UserVerification        string `yaml:"user_verification"`
		Attestation             string `yaml:"attestation"`
		ResidentKey             string `yaml:"resident_key"`
		AuthenticatorAttachment string `yaml:"authenticator_attachment"`
	}

	p := plain{
		RPID:                    c.RPID,
		RPName:                  c.RPName,
		ChallengeSize:           c.ChallengeSize,
		UserVerification:        c.UserVerification,
		Attestation:             c.Attestation,
		ResidentKey:             c.ResidentKey,
		AuthenticatorAttachment: c.AuthenticatorAttachment,
	}
	if c.CeremonyTimeout != 0 {
		p.CeremonyTimeout = c.CeremonyTimeout.String()
	}
	if c.ChallengeTTL != 0 {
		p.ChallengeTTL = c.ChallengeTTL.String()
	}

	if err := value.Decode(&p); err != nil {
		return err
	}

	c.RPID = p.RPID
	c.RPName = p.RPName
	c.ChallengeSize = p.ChallengeSize
	c.UserVerification = p.UserVerification
	c.Attestation = p.Attestation
	c.ResidentKey = p.ResidentKey
	c.AuthenticatorAttachment = p.AuthenticatorAttachment

	if p.CeremonyTimeout != "" {
		d, err := time.ParseDuration(p.CeremonyTimeout)
		if err != nil {
			return fmt.Errorf("invalid ceremony_timeout: %w", err)
		}
		c.CeremonyTimeout = d
	}
	if p.ChallengeTTL != "" {
		d, err := time.ParseDuration(p.ChallengeTTL)
		if err != nil {
			return fmt.Errorf("invalid challenge_ttl: %w", err)
		}
		c.ChallengeTTL = d
	}

	return nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.RPID == "" {
		return fmt.Errorf("RPID is required")
	}
	if c.RPName == "" {
		return fmt.Errorf("RPName is required")
	}
	if c.ChallengeSize < 16 {
		return fmt.Errorf("challenge size must be at least 16 bytes")
	}

	switch c.UserVerification {
	case "", "required", "preferred", "discouraged":
		// Valid
	default:
		return fmt.Errorf("invalid user verification: %s", c.UserVerification)
	}

	switch c.Attestation {
	case "", "none", "indirect", "direct", "enterprise":
		// Valid
	default:
		return fmt.Errorf("invalid attestation preference: %s", c.Attestation)
	}

	switch c.ResidentKey {
	case "", "required", "preferred", "discouraged":
		// Valid
	default:
		return fmt.Errorf("invalid resident key requirement: %s", c.ResidentKey)
	}

	switch c.AuthenticatorAttachment {
	case "", "platform", "cross-platform":
		// Valid
	default:
		return fmt.Errorf("invalid authenticator attachment: %s", c.AuthenticatorAttachment)
	}

	return nil
}

// SetDefaults sets default values for unset configuration fields.
func (c *Config) SetDefaults() {
	if c.CeremonyTimeout == 0 {
		c.CeremonyTimeout = 60 * time.Second
	}
	if c.ChallengeTTL == 0 {
		c.ChallengeTTL = 5 * time.Minute
	}
	if c.ChallengeSize == 0 {
		c.ChallengeSize = 32
	}
	if c.UserVerification == "" {
		c.UserVerification = string(protocol.VerificationPreferred)
	}
	if c.Attestation == "" {
		c.Attestation = string(protocol.PreferNoAttestation)
	}
	if c.ResidentKey == "" {
		c.ResidentKey = string(protocol.ResidentKeyRequirementPreferred)
	}
	if c.AuthenticatorAttachment == "" {
		c.AuthenticatorAttachment = string(protocol.Platform)
	}
}
