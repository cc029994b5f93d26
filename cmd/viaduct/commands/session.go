// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/viaduct-tools/viaduct/lib/ref"
	"github.com/viaduct-tools/viaduct/messaging"
)

// Credential file keys written by "viaduct login".
const (
	credentialKeyHomeserver  = "VIADUCT_HOMESERVER_URL"
	credentialKeyUserID      = "VIADUCT_USER_ID"
	credentialKeyAccessToken = "VIADUCT_ACCESS_TOKEN"
)

// SessionConfig holds the shared flags for connecting to a Matrix
// homeserver. Every subcommand that talks to a homeserver uses these
// flags to authenticate.
//
// The credential file is the key=value file produced by "viaduct
// login". It contains VIADUCT_HOMESERVER_URL, VIADUCT_USER_ID, and
// VIADUCT_ACCESS_TOKEN. Individual flags override file values for
// environments where the file is not available (CI secrets injected
// directly).
type SessionConfig struct {
	CredentialFile string
	HomeserverURL  string
	Token          string
	UserID         string

	logger *slog.Logger
}

// AddFlags registers --credential-file, --homeserver, --token, and
// --user-id on the given flag set.
func (c *SessionConfig) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.CredentialFile, "credential-file", "", "path to credential file from 'viaduct login' (default: the well-known path)")
	flagSet.StringVar(&c.HomeserverURL, "homeserver", "", "Matrix homeserver URL (overrides credential file)")
	flagSet.StringVar(&c.Token, "token", "", "Matrix access token (overrides credential file)")
	flagSet.StringVar(&c.UserID, "user-id", "", "Matrix user ID (overrides credential file)")
}

// Connect creates an authenticated session from the configured flags.
// Values come from the credential file first, overridden by individual
// flags. When --credential-file is not given, the well-known path is
// used if it exists.
func (c *SessionConfig) Connect(ctx context.Context, logger *slog.Logger) (*messaging.DirectSession, error) {
	homeserverURL := c.HomeserverURL
	token := c.Token
	userID := c.UserID

	path := c.CredentialFile
	if path == "" {
		wellKnown := CredentialFilePath()
		if _, err := os.Stat(wellKnown); err == nil {
			path = wellKnown
		}
	}
	if path != "" {
		credentials, err := readCredentialFile(path)
		if err != nil {
			return nil, fmt.Errorf("read credential file: %w", err)
		}
		if homeserverURL == "" {
			homeserverURL = credentials[credentialKeyHomeserver]
		}
		if token == "" {
			token = credentials[credentialKeyAccessToken]
		}
		if userID == "" {
			userID = credentials[credentialKeyUserID]
		}
	}

	if homeserverURL == "" {
		return nil, fmt.Errorf("--homeserver is required (or run 'viaduct login' first)")
	}
	if token == "" {
		return nil, fmt.Errorf("--token is required (or run 'viaduct login' first)")
	}
	if userID == "" {
		return nil, fmt.Errorf("--user-id is required (or run 'viaduct login' first)")
	}

	parsedUserID, err := ref.ParseUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID %q: %w", userID, err)
	}

	client, err := messaging.NewClient(messaging.ClientConfig{
		HomeserverURL: homeserverURL,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create homeserver client: %w", err)
	}

	session, err := client.SessionFromToken(parsedUserID, token)
	if err != nil {
		return nil, err
	}

	// Verify the token before doing any real work.
	whoami, err := session.WhoAmI(ctx)
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("verifying session: %w", err)
	}
	if whoami != parsedUserID {
		session.Close()
		return nil, fmt.Errorf("token belongs to %s, not %s", whoami, parsedUserID)
	}
	return session, nil
}

// CredentialFilePath returns the well-known credential file location:
// $VIADUCT_CREDENTIAL_FILE if set, else
// $XDG_CONFIG_HOME/viaduct/credentials, else
// ~/.config/viaduct/credentials.
func CredentialFilePath() string {
	if path := os.Getenv("VIADUCT_CREDENTIAL_FILE"); path != "" {
		return path
	}
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "viaduct", "credentials")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".viaduct-credentials")
	}
	return filepath.Join(home, ".config", "viaduct", "credentials")
}

// readCredentialFile parses a key=value credential file. Lines starting
// with "#" are comments. Empty lines are ignored. This matches the
// format written by "viaduct login".
//
// The returned map holds heap strings containing the access token. Go
// strings are immutable and cannot be zeroed; in the CLI context this
// is acceptable because the map is short-lived and the token is moved
// into a *secret.Buffer by SessionFromToken before the map goes out of
// scope.
func readCredentialFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	credentials := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d: expected KEY=VALUE, got %q", lineNumber, line)
		}
		credentials[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading credential file: %w", err)
	}

	return credentials, nil
}

// writeCredentialFile writes the key=value credential file with mode
// 0600. The parent directory is created if missing.
func writeCredentialFile(path string, credentials map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating credential directory: %w", err)
	}

	var builder strings.Builder
	builder.WriteString("# Written by 'viaduct login'. Contains an access token; keep private.\n")
	for _, key := range []string{credentialKeyHomeserver, credentialKeyUserID, credentialKeyAccessToken} {
		fmt.Fprintf(&builder, "%s=%s\n", key, credentials[key])
	}

	if err := os.WriteFile(path, []byte(builder.String()), 0o600); err != nil {
		return fmt.Errorf("writing credential file: %w", err)
	}
	return nil
}
