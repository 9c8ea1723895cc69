// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up test environments,
// running commands, and writing encrypted fixtures.
package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/PolarWolf314/capi/internal/dataset"
	logger "github.com/PolarWolf314/capi/internal/logging"
	"github.com/PolarWolf314/capi/internal/secrets"
	"github.com/spf13/cobra"
)

const testDataset = `[
  {"locationID": 3, "desc": ["Third"], "go": 1},
  {"locationID": 1, "desc": ["First"], "hitPoints": 5},
  {"locationID": 2, "desc": ["Second"], "options": [{"label": "north"}]}
]`

var (
	testRootOnce sync.Once
	testRoot     *cobra.Command
)

// rootForTest returns a root command with every subcommand attached. Cobra
// commands keep a single parent, so the root is built once per test binary.
func rootForTest() *cobra.Command {
	testRootOnce.Do(func() {
		testRoot = &cobra.Command{Use: "capi"}
		Attach(testRoot)
	})
	return testRoot
}

// setupTestEnvironment changes into a fresh temp directory and clears the
// variables capi reads, restoring everything on cleanup.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get original working directory: %v", err)
	}

	tempDir := t.TempDir()
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
	})

	for _, name := range []string{"DECRYPTION_KEY", "CAPI_API_KEY", "CAPI_API_KEY_1", "CAPI_API_KEY_2"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	return tempDir
}

// runCommand executes the root command with args and returns what it wrote
// to stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCommandContext(t, context.Background(), args...)
	return out, err
}

// runCommandContext executes the root command under ctx and returns what it
// wrote to stdout and stderr.
func runCommandContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()

	root := rootForTest()
	ResetGlobalState(root)
	t.Cleanup(func() { ResetGlobalState(root) })

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	SetLogger(logger.Logger{})
	return out.String(), errOut.String(), err
}

// writeEncryptedDataset seals testDataset into data.enc in dir and returns
// the base64 key.
func writeEncryptedDataset(t *testing.T, dir string) string {
	t.Helper()

	key, err := secrets.CreateSymmetricKey()
	if err != nil {
		t.Fatalf("Failed to create key: %v", err)
	}
	blob, err := dataset.Seal([]byte(testDataset), key, secrets.DefaultAlgorithm, false)
	if err != nil {
		t.Fatalf("Failed to seal dataset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data.enc"), blob, 0600); err != nil {
		t.Fatalf("Failed to write dataset: %v", err)
	}
	return secrets.EncodeKey(key)
}

// writeEnvFile writes a .env file in dir.
func writeEnvFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
}
