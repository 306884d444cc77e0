package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sant0-9/quill/internal/config"
	"github.com/sant0-9/quill/internal/mailbox/gmail"
)

// askCmd runs a single turn
var askCmd = &cobra.Command{
	Use:   "ask [text]",
	Short: "Run one turn and print the reply",
	Long: `Sends one line of input through the assistant and prints the reply.

Each invocation is a fresh session, so a draft created here is saved at the
mailbox but can only be sent from an interactive session.

Example:
  quill ask "what is the difference between cc and bcc?"
  quill ask summarize my inbox`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := buildAssistant(ctx, cfg, cmd.InOrStdin(), cmd.ErrOrStderr(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Handle(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Content)
	return nil
}

// configCmd shows the effective configuration with secrets masked
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		eff := effective(cfg)

		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintf(out, "# no config file at %s, showing defaults\n", eff.Path())
		} else {
			fmt.Fprintf(out, "# %s\n", eff.Path())
		}
		data, err := yaml.Marshal(eff.Masked())
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		if err != nil {
			return err
		}
		if err := eff.Validate(); err != nil {
			fmt.Fprintf(out, "# invalid: %v\n", err)
		}
		return nil
	},
}

// authCmd authorizes Gmail access once and caches the token
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize Gmail access",
	Long: `Runs the one-time OAuth flow for the Gmail mailbox and caches the token.

Download an OAuth client (Desktop app) from the Google Cloud console and save
it as ~/.config/quill/gmail_credentials.json, or set
mailbox.gmail.credentials_path.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		creds, token, err := orDefault(cfg).GmailPaths()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		if _, err := gmail.Authorize(ctx, creds, token, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nGmail authorized. Token saved to %s\n", token)
		if cfg != nil && cfg.Mailbox.Provider != config.MailboxGmail {
			fmt.Fprintln(cmd.OutOrStdout(), "Set mailbox.provider: gmail in your config to use it.")
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "quill %s\n", version)
	},
}
