// Package audit invokes the buildingSMART IDS-Audit-tool executable for
// supplementary compliance checking of exported IDS files.
//
// The tool is an opaque subprocess: run "ids-tool audit <file>" with a
// timeout, then fold stdout/stderr/exit code into a Result. Every
// failure mode — missing binary, timeout, invocation error — degrades
// to an invalid Result rather than an error, so validation aggregation
// treats audit problems as data.
package audit

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Timeout bounds one audit-tool invocation.
const Timeout = 30 * time.Second

// binaryNames are the executable names probed when a directory is
// given. The .exe variant covers the published Windows binaries.
var binaryNames = []string{"ids-tool", "ids-tool.exe"}

// Config controls whether and where the audit tool runs.
type Config struct {
	// Enabled gates the external call entirely.
	Enabled bool
	// Path optionally overrides auto-detection. It may point at the
	// executable itself or at a directory containing it.
	Path string
}

// Result is the parsed outcome of one audit run.
type Result struct {
	Valid    bool     `json:"valid"`
	ExitCode int      `json:"exit_code"`
	Output   string   `json:"output"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Runner executes the audit tool.
type Runner struct {
	cfg    Config
	logger *zap.Logger
}

// NewRunner creates a Runner.
func NewRunner(cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Enabled reports whether audit runs are configured on.
func (r *Runner) Enabled() bool {
	return r.cfg.Enabled
}

// ResolvePath finds the audit-tool executable: the configured override
// first (file or directory), then the default tools/ids-audit-tool/bin
// directory next to this server's own binary. Returns "" when nothing
// resolves.
func (r *Runner) ResolvePath() string {
	if r.cfg.Path != "" {
		if p := probe(r.cfg.Path); p != "" {
			return p
		}
		r.logger.Warn("IDS-Audit-tool not found at configured path", zap.String("path", r.cfg.Path))
	}

	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	dir := filepath.Join(filepath.Dir(exe), "tools", "ids-audit-tool", "bin")
	return probe(dir)
}

// probe accepts either an executable file path or a directory holding
// one of the known binary names.
func probe(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	if !info.IsDir() {
		return path
	}
	for _, name := range binaryNames {
		candidate := filepath.Join(path, name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// Run audits the IDS file at idsPath. The subprocess runs from the
// tool's own directory so it can find its runtime dependencies, under
// both the caller's context and the fixed Timeout.
func (r *Runner) Run(ctx context.Context, idsPath string) Result {
	toolPath := r.ResolvePath()
	if toolPath == "" {
		return invalidResult("IDS-Audit-tool executable not found")
	}
	if _, err := os.Stat(idsPath); err != nil {
		return invalidResult(fmt.Sprintf("IDS file not found: %s", idsPath))
	}

	runCtx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, toolPath, "audit", idsPath)
	cmd.Dir = filepath.Dir(toolPath)

	out, err := cmd.CombinedOutput()
	output := string(out)

	if runCtx.Err() == context.DeadlineExceeded {
		return invalidResult(fmt.Sprintf("audit tool execution timed out after %s", Timeout))
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return parseFailure(output, exitErr.ExitCode())
		}
		r.logger.Error("audit tool invocation failed", zap.Error(err))
		return invalidResult(fmt.Sprintf("error executing audit tool: %v", err))
	}

	// Exit code 0: presumptively valid, but the tool reports some
	// findings as warnings without failing.
	result := Result{Valid: true, ExitCode: 0, Output: output}
	if strings.Contains(strings.ToLower(output), "warning") {
		result.Warnings = append(result.Warnings, "audit tool reported warnings (see output)")
	}
	return result
}

// parseFailure extracts error and warning lines from a non-zero run.
func parseFailure(output string, exitCode int) Result {
	result := Result{Valid: false, ExitCode: exitCode, Output: output}
	for _, line := range strings.Split(output, "\n") {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "error") || strings.Contains(lower, "failed"):
			result.Errors = append(result.Errors, strings.TrimSpace(line))
		case strings.Contains(lower, "warning"):
			result.Warnings = append(result.Warnings, strings.TrimSpace(line))
		}
	}
	if len(result.Errors) == 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("audit tool exited with code %d", exitCode))
	}
	return result
}

func invalidResult(message string) Result {
	return Result{
		Valid:    false,
		ExitCode: -1,
		Output:   message,
		Errors:   []string{message},
	}
}
