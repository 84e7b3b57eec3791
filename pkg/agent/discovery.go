package agent

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Capabilities records boolean flags scraped from an adapter binary's
// --help output, by substring presence. Grounded on
// original_source/claudecode-adapter/src/init.rs.
type Capabilities struct {
	SupportsStreamJSON        bool
	SupportsJSONSchema        bool
	SupportsSystemPrompt      bool
	SupportsAppendSystemPrompt bool
	SupportsMCP               bool
	SupportsStrictMCP         bool
	SupportsToolsFlag         bool
}

// InitReport is the result of discovering and probing an adapter binary.
type InitReport struct {
	Path         string
	Version      string
	HealthOK     bool
	HealthStdout string
	HealthStderr string
	Capabilities Capabilities
}

// Discover resolves the adapter binary path. Resolution order, first hit
// wins: explicitPath (rejected if it does not exist) -> override env var
// (adapter-specific name, must exist) -> PATH lookup for the adapter's
// canonical binary name.
func Discover(adapter Adapter, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err == nil {
			return explicitPath, nil
		}
		return "", &ExecutableNotFoundError{Detail: "explicit path does not exist: " + explicitPath}
	}

	if envPath := os.Getenv(BinEnvVar(adapter)); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	path, err := exec.LookPath(BinaryName(adapter))
	if err != nil {
		return "", &ExecutableNotFoundError{Detail: err.Error()}
	}
	return path, nil
}

// Init discovers the adapter binary and populates version, scraped
// capabilities, and an advisory health probe result. The health probe is
// never fatal -- its outcome is informational only.
func Init(ctx context.Context, adapter Adapter, explicitPath string) (*InitReport, error) {
	path, err := Discover(adapter, explicitPath)
	if err != nil {
		return nil, err
	}

	versionOut, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return nil, &VersionCheckFailedError{Detail: err.Error()}
	}

	healthOK, healthStdout, healthStderr := probeHealth(ctx, path)

	helpOut, _ := exec.CommandContext(ctx, path, "--help").Output()
	helpText := string(helpOut)

	return &InitReport{
		Path:         path,
		Version:      strings.TrimSpace(string(versionOut)),
		HealthOK:     healthOK,
		HealthStdout: healthStdout,
		HealthStderr: healthStderr,
		Capabilities: Capabilities{
			SupportsStreamJSON:         strings.Contains(helpText, "stream-json"),
			SupportsJSONSchema:         strings.Contains(helpText, "--json-schema"),
			SupportsSystemPrompt:       strings.Contains(helpText, "--system-prompt"),
			SupportsAppendSystemPrompt: strings.Contains(helpText, "--append-system-prompt"),
			SupportsMCP:                strings.Contains(helpText, "--mcp-config"),
			SupportsStrictMCP:          strings.Contains(helpText, "--strict-mcp-config"),
			SupportsToolsFlag:          strings.Contains(helpText, "--tools"),
		},
	}, nil
}

// probeHealth spawns path with piped stdin, writes a minimal prompt, and
// waits up to 5s for any output. Advisory only -- a failure here never
// propagates as an error to Init's caller.
func probeHealth(ctx context.Context, path string) (ok bool, stdout, stderr string) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, path)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return false, "", "failed to open stdin for health probe: " + err.Error()
	}

	if err := cmd.Start(); err != nil {
		return false, "", "failed to spawn health probe: " + err.Error()
	}

	_, _ = stdin.Write([]byte("respond with: ok\n"))
	_ = stdin.Close()

	waitErr := cmd.Wait()
	stdout, stderr = outBuf.String(), errBuf.String()
	success := waitErr == nil || (stdout != "" && !strings.Contains(stderr, "error"))
	return success, stdout, stderr
}
