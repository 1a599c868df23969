package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"classroom-service/internal/auth"
	"classroom-service/internal/config"
	"classroom-service/internal/domain"
	"github.com/rs/zerolog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestIssueTokenCommand(t *testing.T) {
	path := writeConfig(t, "auth:\n  secret: cli-secret\n  issuer: classroom-service\n")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"issue-token", "--config", path, "--sub", "user_1", "--role", "student"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	id, err := auth.NewService("cli-secret", "classroom-service", time.Hour).Parse(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if id.Subject != "user_1" || id.Role != domain.RoleStudent {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestIssueTokenRejectsUnknownRole(t *testing.T) {
	path := writeConfig(t, "auth:\n  secret: cli-secret\n")
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"issue-token", "--config", path, "--sub", "user_1", "--role", "admin"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error for an unknown role")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	var cfg config.Config
	cfg.Log.Level = "WARN"
	if got := newLogger(cfg).GetLevel(); got != zerolog.WarnLevel {
		t.Fatalf("expected warn, got %s", got)
	}
	cfg.Log.Level = "nonsense"
	if got := newLogger(cfg).GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %s", got)
	}
}
