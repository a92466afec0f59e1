package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mysql-backup-service/internal/app"
)

var (
	clientSecretPath string
	authListenAddr   string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Obtain a Google Drive refresh token",
	Long: `Start a local OAuth server for the one-time Google Drive
authorization flow. Open /auth/google/drive in a browser, grant access, and
copy the printed refresh token into the gdrive upload target config.`,
	Args: cobra.NoArgs,
	RunE: runAuth,
}

func init() {
	authCmd.Flags().StringVar(&clientSecretPath, "client-secret", "client_secret.json", "path to the Google OAuth client secret")
	authCmd.Flags().StringVar(&authListenAddr, "listen", ":8080", "address for the local OAuth server")
}

func runAuth(cmd *cobra.Command, args []string) error {
	application, err := newApp()
	if err != nil {
		return err
	}
	defer application.Shutdown()

	oauth, err := app.NewGoogleOAuthService(application.Logger, clientSecretPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := oauth.StartAuthServer(ctx, authListenAddr); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Visit http://localhost%s/auth/google/drive to authorize, Ctrl+C to stop\n", authListenAddr)
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return oauth.Shutdown(shutdownCtx)
}
