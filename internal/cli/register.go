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

// registerCmd runs a registration ceremony
var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Register a new passkey",
	Long: `Register a new passkey for the given username. The ceremony runs
against the configured relying party server, or against an in-process
mock when --mock is set.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]
		displayName, _ := cmd.Flags().GetString("display-name")

		c, err := buildClient()
		if err != nil {
			handleError(err)
		}

		result, err := c.Register(cmd.Context(), username, displayName)
		if err != nil {
			handleError(err)
		}

		printer := NewPrinter(viper.GetString(settingOutput), os.Stdout)
		if err := printer.PrintRegisterResult(result); err != nil {
			handleError(err)
		}
		if !result.Success {
			os.Exit(1)
		}
	},
}

func init() {
	registerCmd.Flags().String("display-name", "", "human-readable account name (defaults to the username)")
}
