// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCredentialFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")

	err := writeCredentialFile(path, map[string]string{
		credentialKeyHomeserver:  "https://matrix.example.org",
		credentialKeyUserID:      "@bot:example.org",
		credentialKeyAccessToken: "syt_secret",
	})
	if err != nil {
		t.Fatalf("writeCredentialFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("credential file mode = %o, want 0600", perm)
	}

	credentials, err := readCredentialFile(path)
	if err != nil {
		t.Fatalf("readCredentialFile: %v", err)
	}
	if credentials[credentialKeyHomeserver] != "https://matrix.example.org" {
		t.Errorf("homeserver = %q", credentials[credentialKeyHomeserver])
	}
	if credentials[credentialKeyUserID] != "@bot:example.org" {
		t.Errorf("user ID = %q", credentials[credentialKeyUserID])
	}
	if credentials[credentialKeyAccessToken] != "syt_secret" {
		t.Errorf("token = %q", credentials[credentialKeyAccessToken])
	}
}

func TestReadCredentialFileIgnoresCommentsAndBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")
	content := "# comment line\n\nVIADUCT_HOMESERVER_URL=https://m.example.org\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	credentials, err := readCredentialFile(path)
	if err != nil {
		t.Fatalf("readCredentialFile: %v", err)
	}
	if len(credentials) != 1 {
		t.Errorf("got %d entries, want 1", len(credentials))
	}
	if credentials[credentialKeyHomeserver] != "https://m.example.org" {
		t.Errorf("homeserver = %q", credentials[credentialKeyHomeserver])
	}
}

func TestReadCredentialFileRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials")
	if err := os.WriteFile(path, []byte("not a key value pair\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := readCredentialFile(path); err == nil {
		t.Error("malformed line accepted")
	}
}

func TestCredentialFilePath(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv("VIADUCT_CREDENTIAL_FILE", "/custom/creds")
		if got := CredentialFilePath(); got != "/custom/creds" {
			t.Errorf("CredentialFilePath() = %q", got)
		}
	})

	t.Run("xdg config home", func(t *testing.T) {
		t.Setenv("VIADUCT_CREDENTIAL_FILE", "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		want := filepath.Join("/xdg", "viaduct", "credentials")
		if got := CredentialFilePath(); got != want {
			t.Errorf("CredentialFilePath() = %q, want %q", got, want)
		}
	})
}
