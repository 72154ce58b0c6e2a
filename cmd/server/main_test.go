package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAddUserAndList(t *testing.T) {
	dir := setupDataDir(t)

	out, err := run(t, "adduser", "--username", "root", "--email", "root@example.com", "--role", "Admin Access", "--password", "pw")
	if err != nil {
		t.Fatalf("adduser failed: %v", err)
	}
	if !strings.Contains(out, "User 'root' added with role 'Admin Access' and email 'root@example.com'") {
		t.Errorf("Unexpected output: %q", out)
	}

	if _, err := run(t, "adduser", "--username", "bob", "--email", "bob@example.com", "--password", "pw"); err != nil {
		t.Fatalf("adduser failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "user_data.csv"))
	if err != nil {
		t.Fatalf("Expected user table: %v", err)
	}
	if strings.Contains(string(data), ",pw\n") {
		t.Error("Expected password to be stored hashed")
	}

	out, err = run(t, "users")
	if err != nil {
		t.Fatalf("users failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header and 2 rows, got %q", out)
	}
	if !strings.HasPrefix(lines[1], "root") || !strings.Contains(lines[2], "ViewAccess") {
		t.Errorf("Unexpected listing: %q", out)
	}

	out, err = run(t, "users", "--role", "AdminAccess")
	if err != nil {
		t.Fatalf("users failed: %v", err)
	}
	if strings.Contains(out, "bob") {
		t.Errorf("Expected role filter to exclude bob: %q", out)
	}
}

func TestAddUser_Invalid(t *testing.T) {
	setupDataDir(t)

	if _, err := run(t, "adduser", "--username", "x", "--email", "not-an-email", "--password", "pw"); err == nil {
		t.Error("Expected validation error")
	}
	if _, err := run(t, "adduser", "--username", "x"); err == nil {
		t.Error("Expected missing flag error")
	}
}

func TestBootstrap_BadConfig(t *testing.T) {
	setupDataDir(t)
	t.Setenv("LOG_FORMAT", "xml")

	if _, err := run(t, "users"); err == nil {
		t.Error("Expected configuration error")
	}
}
