//go:build integration

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"inkwell-hq/scribe/internal/webtest"
)

// TestServerStartStop tests the server start and graceful shutdown
func TestServerStartStop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()

	configFile := filepath.Join(tmpDir, "config.yaml")
	createTestConfig(t, configFile, `
server:
  listen_address: "127.0.0.1:18090"

limits:
  enabled: true
  backend: "memory"
  per_client: 1000

cache:
  enabled: true
  backend: "memory"

telemetry:
  logging:
    level: "info"
    format: "json"
`)

	binaryPath := buildScribeBinary(t)

	// Start server in background
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binaryPath, "run", "--config", configFile)
	cmd.Dir = tmpDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	defer func() {
		if cmd.Process != nil {
			cmd.Process.Kill()
		}
	}()

	if !waitForHealthy("http://127.0.0.1:18090/health", 10*time.Second) {
		t.Fatalf("server failed to start\nStdout: %s\nStderr: %s", stdout.String(), stderr.String())
	}

	// Verify health endpoint
	resp, err := http.Get("http://127.0.0.1:18090/health")
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	// Run one real conversion through the binary
	origin := webtest.NewUpstream()
	defer origin.Close()
	origin.SetPage("/page", webtest.Page{
		Body: webtest.ArticleHTML("Binary Test", "Binary Test", "Served by the real process."),
	})

	resp, err = http.Get("http://127.0.0.1:18090/" + origin.URL() + "/page")
	if err != nil {
		t.Fatalf("conversion request failed: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("failed to read conversion body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Errorf("conversion status = %d, want 200\nBody: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "# Binary Test") {
		t.Errorf("conversion output should contain heading, got: %s", body)
	}

	// Test graceful shutdown
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		t.Errorf("failed to send SIGINT: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		// Exit code 130 is SIGINT (Ctrl+C)
		if err != nil {
			exitErr, ok := err.(*exec.ExitError)
			if !ok || exitErr.ExitCode() != 130 {
				t.Logf("shutdown output - Stdout: %s\nStderr: %s", stdout.String(), stderr.String())
				t.Errorf("unexpected shutdown error: %v", err)
			}
		}
	case <-time.After(5 * time.Second):
		t.Error("server did not shut down within 5 seconds")
	}
}

// TestCommandVersionOutput tests the version command
func TestCommandVersionOutput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	binaryPath := buildScribeBinary(t)

	cmd := exec.Command(binaryPath, "version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("version command failed: %v\nOutput: %s", err, output)
	}

	if !bytes.Contains(output, []byte("Scribe")) {
		t.Errorf("version output should contain 'Scribe', got: %s", output)
	}

	// JSON format should parse and carry the same fields
	cmd = exec.Command(binaryPath, "version", "--format", "json")
	output, err = cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("version --format json failed: %v\nOutput: %s", err, output)
	}

	var info struct {
		Version   string `json:"version"`
		GoVersion string `json:"go_version"`
	}
	if err := json.Unmarshal(output, &info); err != nil {
		t.Fatalf("failed to parse version JSON: %v\nOutput: %s", err, output)
	}
	if info.Version == "" {
		t.Error("version field should not be empty")
	}
	if info.GoVersion == "" {
		t.Error("go_version field should not be empty")
	}
}

// TestDryRunValidation tests config validation with --dry-run
func TestDryRunValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()

	t.Run("valid config", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "valid-config.yaml")
		createTestConfig(t, configFile, `
server:
  listen_address: "127.0.0.1:18091"

limits:
  backend: "memory"

cache:
  backend: "memory"
`)

		binaryPath := buildScribeBinary(t)
		cmd := exec.Command(binaryPath, "run", "--config", configFile, "--dry-run")
		cmd.Dir = tmpDir

		output, err := cmd.CombinedOutput()
		if err != nil {
			t.Errorf("dry-run should succeed with valid config: %v\nOutput: %s", err, output)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "invalid-config.yaml")
		createTestConfig(t, configFile, `
server:
  listen_address: "127.0.0.1:18092"

limits:
  enabled: true
  backend: "etcd"
`)

		binaryPath := buildScribeBinary(t)
		cmd := exec.Command(binaryPath, "run", "--config", configFile, "--dry-run")

		output, err := cmd.CombinedOutput()
		if err == nil {
			t.Errorf("dry-run should fail with invalid config\nOutput: %s", output)
		}
	})
}

// TestValidateCommand tests the standalone validate command
func TestValidateCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	binaryPath := buildScribeBinary(t)

	configFile := filepath.Join(tmpDir, "config.yaml")
	createTestConfig(t, configFile, `
server:
  listen_address: "127.0.0.1:18093"

limits:
  backend: "sqlite"
  sqlite_path: "limits.db"
`)

	cmd := exec.Command(binaryPath, "validate", "--config", configFile, "--format", "json")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("validate command failed: %v\nOutput: %s", err, output)
	}

	var report struct {
		File  string `json:"file"`
		Valid bool   `json:"valid"`
	}
	if err := json.Unmarshal(output, &report); err != nil {
		t.Fatalf("failed to parse validation JSON: %v\nOutput: %s", err, output)
	}
	if !report.Valid {
		t.Error("config should be reported valid")
	}
	if report.File != configFile {
		t.Errorf("file = %q, want %q", report.File, configFile)
	}
}

// Helper functions

// buildScribeBinary builds the scribe binary for testing
func buildScribeBinary(t *testing.T) string {
	t.Helper()

	binaryPath := "../bin/scribe"
	if _, err := os.Stat(binaryPath); err == nil {
		return binaryPath
	}

	t.Log("Building scribe binary...")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../cmd/scribe")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build scribe: %v\nOutput: %s", err, output)
	}

	return binaryPath
}

// waitForHealthy waits for a health endpoint to return 200
func waitForHealthy(url string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 1 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return true
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// createTestConfig creates a test configuration file
func createTestConfig(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}
}
