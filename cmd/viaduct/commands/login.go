// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/viaduct-tools/viaduct/cmd/viaduct/cli"
	"github.com/viaduct-tools/viaduct/lib/secret"
	"github.com/viaduct-tools/viaduct/messaging"
)

// loginCommand returns the "login" command. It performs a password
// login, verifies the session via WhoAmI, and saves the credentials to
// the well-known path. Subsequent commands (update, inspect, whoami)
// load the file transparently.
func loginCommand() *cli.Command {
	var homeserverURL string
	var passwordFile string
	var outputPath string

	return &cli.Command{
		Name:    "login",
		Summary: "Authenticate and save credentials",
		Description: `Log in to a Matrix homeserver and save the session credentials locally.

After login, commands like "viaduct update" use the saved credentials
transparently. The credential file is stored at
~/.config/viaduct/credentials (or $VIADUCT_CREDENTIAL_FILE if set, or
$XDG_CONFIG_HOME/viaduct/credentials). The file is written with mode
0600 since it contains an access token.

The password is prompted interactively unless --password-file gives a
path to read it from ("-" reads from stdin).`,
		Usage: "viaduct login <username> [flags]",
		Examples: []cli.Example{
			{
				Description: "Log in interactively (prompts for password)",
				Command:     "viaduct login alice --homeserver https://matrix.example.org",
			},
			{
				Description: "Log in with password from file",
				Command:     "viaduct login alice --homeserver https://matrix.example.org --password-file /run/secrets/matrix",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flagSet.StringVar(&homeserverURL, "homeserver", "", "Matrix homeserver URL (required)")
			flagSet.StringVar(&passwordFile, "password-file", "", "path to file containing the password, or - for stdin (default: prompt)")
			flagSet.StringVar(&outputPath, "credential-file", "", "where to write the credential file (default: the well-known path)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("username is required\n\nUsage: viaduct login <username> [flags]")
			}
			username := args[0]
			if len(args) > 1 {
				return fmt.Errorf("unexpected argument: %s", args[1])
			}
			if homeserverURL == "" {
				return fmt.Errorf("--homeserver is required")
			}

			password, err := readLoginPassword(passwordFile)
			if err != nil {
				return err
			}
			defer password.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			client, err := messaging.NewClient(messaging.ClientConfig{
				HomeserverURL: homeserverURL,
			})
			if err != nil {
				return fmt.Errorf("create homeserver client: %w", err)
			}

			session, err := client.Login(ctx, username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			defer session.Close()

			// Verify the session works before saving.
			userID, err := session.WhoAmI(ctx)
			if err != nil {
				return fmt.Errorf("session verification failed: %w", err)
			}

			path := outputPath
			if path == "" {
				path = CredentialFilePath()
			}
			err = writeCredentialFile(path, map[string]string{
				credentialKeyHomeserver:  homeserverURL,
				credentialKeyUserID:      userID.String(),
				credentialKeyAccessToken: session.AccessToken(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Logged in as %s\n", userID)
			fmt.Fprintf(os.Stderr, "Credentials saved to %s\n", path)
			return nil
		},
	}
}

// readLoginPassword reads the password for the login command. An empty
// path prompts interactively on the terminal with echo disabled; "-"
// reads from stdin, which covers piped invocations.
func readLoginPassword(passwordFile string) (*secret.Buffer, error) {
	if passwordFile != "" {
		return secret.ReadFromPath(passwordFile)
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return nil, fmt.Errorf("no terminal available for interactive password prompt (use --password-file)")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	if len(passwordBytes) == 0 {
		return nil, fmt.Errorf("empty password")
	}

	buffer, err := secret.NewFromBytes(passwordBytes)
	if err != nil {
		secret.Zero(passwordBytes)
		return nil, err
	}
	return buffer, nil
}
