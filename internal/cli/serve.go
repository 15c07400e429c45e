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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-passkey/internal/config"
	"github.com/jeremyhahn/go-passkey/internal/server"
	"github.com/jeremyhahn/go-passkey/pkg/logging"
)

// serveCmd runs the relying party server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relying party server",
	Long: `Run the relying party HTTP server hosting the four ceremony
endpoints plus health and metrics. Configuration comes from the
--server-config YAML file with PASSKEY_* environment overrides; with no
file the server binds localhost:8080 for the localhost RP ID.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("server-config")
		if envConfig := os.Getenv("PASSKEY_CONFIG"); envConfig != "" && configPath == "" {
			configPath = envConfig
		}
		return runServe(configPath)
	},
}

func init() {
	serveCmd.Flags().String("server-config", "", "path to the server YAML configuration")
}

// runServe loads the configuration and blocks until shutdown.
func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, &cfg.Logging)
	logger.Info("Configuration loaded",
		"rp_id", cfg.RelyingParty.RPID,
		"addr", cfg.ListenAddr())

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
