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
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the explicit config file path from --config
	cfgFile string

	// verbose enables verbose output
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "passkey",
	Short: "go-passkey CLI - Passkey ceremony tool",
	Long: `go-passkey CLI drives WebAuthn registration and authentication
ceremonies against a relying party, either a remote server over HTTP
or an in-process mock for local development and testing.

The in-process mock keeps credentials in memory, so register and login
must run in the same invocation when --mock is set (see 'passkey demo').`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initSettings)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.passkey.yaml)")
	rootCmd.PersistentFlags().String("server", "http://localhost:8080/api/passkey",
		"base URL of the relying party server")
	rootCmd.PersistentFlags().Bool("mock", false,
		"use the in-process mock relying party instead of a server")
	rootCmd.PersistentFlags().Duration("timeout", 0,
		"per-request timeout for server calls (0 uses the default)")
	rootCmd.PersistentFlags().StringP("output", "o", "text",
		"output format (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"verbose output")

	_ = viper.BindPFlag(settingServerURL, rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag(settingUseMock, rootCmd.PersistentFlags().Lookup("mock"))
	_ = viper.BindPFlag(settingTimeout, rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag(settingOutput, rootCmd.PersistentFlags().Lookup("output"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(demoCmd)
}

// initSettings wires viper to the config file and PASSKEY_* environment.
func initSettings() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".passkey")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PASSKEY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		printVerbose("Using config file: %s", viper.ConfigFileUsed())
	}
}

// handleError prints an error and exits with code 1
func handleError(err error) {
	printer := NewPrinter(viper.GetString(settingOutput), os.Stderr)
	_ = printer.PrintError(err)
	os.Exit(1)
}

// printVerbose prints a message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[VERBOSE] "+format+"\n", args...)
	}
}
