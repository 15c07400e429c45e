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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-passkey/pkg/passkey"
	"github.com/jeremyhahn/go-passkey/pkg/passkey/client"
)

// demoCmd runs a complete register-and-login cycle against the
// in-process mock, which keeps state only for this invocation.
var demoCmd = &cobra.Command{
	Use:   "demo [username]",
	Short: "Run a full ceremony cycle against the in-process mock",
	Long: `Run registration, username login and discoverable login back to back
against an in-process mock relying party. Useful for verifying the
ceremony plumbing without a server.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := "demo-user"
		if len(args) > 0 {
			username = args[0]
		}
		if err := runDemo(cmd.Context(), username); err != nil {
			handleError(err)
		}
	},
}

// runDemo drives the three ceremonies and prints each verdict.
func runDemo(ctx context.Context, username string) error {
	rp, err := newLocalRelyingParty()
	if err != nil {
		return err
	}

	facade, err := client.NewFacade(client.FacadeParams{
		Settings: &client.StaticSettings{Mock: true},
		Mock:     rp,
	})
	if err != nil {
		return err
	}

	authenticator, err := passkey.NewSoftAuthenticator("http://localhost:8080")
	if err != nil {
		return err
	}
	adapter, err := passkey.NewAdapter(authenticator)
	if err != nil {
		return err
	}

	c, err := client.NewClient(facade, adapter)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "==> Registering passkey for %s\n", username)
	registered, err := c.Register(ctx, username, username)
	if err != nil {
		return err
	}
	if !registered.Success {
		return fmt.Errorf("registration rejected: %s", registered.Message)
	}
	fmt.Fprintf(os.Stdout, "    credential %s\n", registered.CredentialID)

	fmt.Fprintf(os.Stdout, "==> Signing in as %s\n", username)
	login, err := c.Login(ctx, username)
	if err != nil {
		return err
	}
	if !login.Success {
		return fmt.Errorf("login rejected: %s", login.Message)
	}
	fmt.Fprintf(os.Stdout, "    welcome, %s\n", login.Username)

	fmt.Fprintln(os.Stdout, "==> Discoverable sign-in (no username)")
	discovered, err := c.Login(ctx, "")
	if err != nil {
		return err
	}
	if !discovered.Success {
		return fmt.Errorf("discoverable login rejected: %s", discovered.Message)
	}
	fmt.Fprintf(os.Stdout, "    resolved account: %s\n", discovered.Username)

	return nil
}
