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

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jeremyhahn/go-passkey/pkg/passkey"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintRegisterResult prints the outcome of a registration ceremony
func (p *Printer) PrintRegisterResult(result *passkey.RegisterResult) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(result)
	case OutputFormatText:
		if result.Success {
			fmt.Fprintf(p.writer, "Passkey registered\n")
			fmt.Fprintf(p.writer, "  Credential ID: %s\n", result.CredentialID)
		} else {
			fmt.Fprintf(p.writer, "Registration failed: %s\n", result.Message)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintAuthResult prints the outcome of an authentication ceremony
func (p *Printer) PrintAuthResult(result *passkey.AuthResult) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(result)
	case OutputFormatText:
		if result.Success {
			fmt.Fprintf(p.writer, "Signed in as %s\n", result.Username)
		} else {
			fmt.Fprintf(p.writer, "Sign-in failed: %s\n", result.Message)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error. Known ceremony errors get their
// user-facing message alongside the technical detail.
func (p *Printer) PrintError(err error) error {
	if p.format == OutputFormatJSON {
		payload := map[string]interface{}{"error": err.Error()}
		if msg := passkey.UserMessage(err); msg != "" {
			payload["message"] = msg
		}
		return p.printJSON(payload)
	}

	if msg := passkey.UserMessage(err); msg != "" {
		fmt.Fprintf(p.writer, "Error: %s\n", msg)
		fmt.Fprintf(p.writer, "  (%v)\n", err)
	} else {
		fmt.Fprintf(p.writer, "Error: %v\n", err)
	}
	return nil
}

// printJSON marshals v with indentation
func (p *Printer) printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(p.writer, string(data))
	return nil
}
