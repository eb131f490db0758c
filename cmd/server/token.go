package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Print a session token signed with the configured secret",
	Long:  "Mints a token the API accepts, for local development and scripted clients.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		auth := newAuthService(cfg.Server.SessionSecret)
		if !auth.enabled() {
			return eris.New("server.session_secret is not set")
		}
		fmt.Fprintln(cmd.OutOrStdout(), auth.createSessionValue(args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
