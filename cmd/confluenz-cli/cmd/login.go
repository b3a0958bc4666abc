package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"confluenz/internal/adapters/auth"
	"confluenz/internal/bootstrap"
	"confluenz/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize access to the wiki repository",
	Long: `Sign in with GitHub using the device flow and store the token.

Requires client_id in the config file or CONFLUENZ_CLIENT_ID. A token in
CONFLUENZ_TOKEN or GITHUB_TOKEN takes precedence over the stored one.

Example:
  confluenz-cli login`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipWiki: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.ClientID == "" {
			return fmt.Errorf("no OAuth client configured: set client_id or %s", config.EnvClientID)
		}

		login := auth.NewDeviceLogin(cfg.ClientID, cfg.AuthURL)
		tok, err := login.Run(cmd.Context(), func(r *oauth2.DeviceAuthResponse) {
			fmt.Printf("Open %s and enter the code %s\n", bold(r.VerificationURI), bold(r.UserCode))
		})
		if err != nil {
			return err
		}

		creds := bootstrap.Credentials(cfg)
		if err := creds.Save(tok); err != nil {
			return err
		}
		fmt.Println(success("Logged in; token saved to " + creds.TokenFile))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show the effective configuration",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipWiki: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := config.Format(cfg)
		if err != nil {
			return err
		}
		fmt.Println(out)

		_, origin, err := bootstrap.Credentials(cfg).Lookup()
		switch {
		case err == nil:
			fmt.Fprintln(os.Stderr, faint("token from "+origin))
		default:
			fmt.Fprintln(os.Stderr, warning("no token: "+err.Error()))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, configCmd)
}
