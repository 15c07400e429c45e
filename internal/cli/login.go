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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loginCmd runs an authentication ceremony
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Sign in with a passkey",
	Long: `Sign in with a previously registered passkey. Omitting the username
runs a discoverable-credential ceremony: the authenticator picks the
credential and the relying party resolves the account from it.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var username string
		if len(args) > 0 {
			username = args[0]
		}

		c, err := buildClient()
		if err != nil {
			handleError(err)
		}

		result, err := c.Login(cmd.Context(), username)
		if err != nil {
			handleError(err)
		}

		printer := NewPrinter(viper.GetString(settingOutput), os.Stdout)
		if err := printer.PrintAuthResult(result); err != nil {
			handleError(err)
		}
		if !result.Success {
			os.Exit(1)
		}
	},
}
