package nordgo

import (
	"context"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

const (
	// unixClientBinary is the NordVPN CLI executable name on Linux and macOS.
	unixClientBinary = "nordvpn"
	// unixDaemonName is the background service the CLI talks to.
	unixDaemonName = "nordvpnd"

	// statusCheckTimeout bounds the quick status/liveness invocations.
	statusCheckTimeout = 10 * time.Second
)

// connectedToPattern scrapes the resolved server name out of connect output,
// e.g. "You are connected to Netherlands #742 (nl742.nordvpn.com)!".
var connectedToPattern = regexp.MustCompile(`(?i)connected to ([^!\r\n(]+)`)

// unixAdapter drives the NordVPN CLI on Linux and macOS. The two platforms
// share the client's command surface; only the service-manager query differs.
type unixAdapter struct {
	// platform records whether this adapter runs on linux or darwin.
	platform Platform
}

// newUnixAdapter builds the adapter for one of the Unix-family platforms.
func newUnixAdapter(platform Platform) *unixAdapter {
	return &unixAdapter{platform: platform}
}

// Platform identifies which OS family this adapter drives.
func (a *unixAdapter) Platform() Platform { return a.platform }

// CheckInstallation verifies the client binary is resolvable on the search
// path, falling back to invoking it with a version flag. A custom path wins
// when it points at an existing file.
func (a *unixAdapter) CheckInstallation(ctx context.Context, customPath string) (bool, string) {
	if customPath != "" {
		if info, err := os.Stat(customPath); err == nil && !info.IsDir() {
			return true, customPath
		}
		return false, ""
	}
	if path, err := exec.LookPath(unixClientBinary); err == nil {
		return true, path
	}
	// PATH lookup can fail in stripped-down environments even when the
	// client answers; a version probe settles it.
	result, err := runCommand(ctx, commandSpec{
		name:    unixClientBinary,
		args:    []string{"--version"},
		timeout: statusCheckTimeout,
	})
	if err == nil && result.exitCode == 0 {
		return true, unixClientBinary
	}
	return false, ""
}

// IsServiceRunning checks the background service three ways: a process-name
// search, a service-manager query, then a liveness probe of the client's own
// status subcommand. Any failure that does not mention the daemon still
// counts as evidence the service is reachable.
func (a *unixAdapter) IsServiceRunning(ctx context.Context) bool {
	if result, err := runCommand(ctx, commandSpec{
		name:    "pgrep",
		args:    []string{"-x", unixDaemonName},
		timeout: statusCheckTimeout,
	}); err == nil && result.exitCode == 0 {
		return true
	}

	if a.platform == PlatformLinux {
		if result, err := runCommand(ctx, commandSpec{
			name:    "systemctl",
			args:    []string{"is-active", "--quiet", unixDaemonName},
			timeout: statusCheckTimeout,
		}); err == nil && result.exitCode == 0 {
			return true
		}
	} else {
		if result, err := runCommand(ctx, commandSpec{
			name:    "launchctl",
			args:    []string{"list"},
			timeout: statusCheckTimeout,
		}); err == nil && result.exitCode == 0 && containsAny(result.stdout, "nordvpn") {
			return true
		}
	}

	result, err := runCommand(ctx, commandSpec{
		name:    unixClientBinary,
		args:    []string{"status"},
		timeout: statusCheckTimeout,
	})
	if err != nil || result.timedOut {
		return false
	}
	if result.exitCode == 0 {
		return true
	}
	// A status failure that does not complain about the daemon means the
	// client answered, which is all this check asks.
	return !containsAny(result.combinedOutput(), "daemon")
}

// IsConnected parses the client's own status output for the connected/
// disconnected phrases, falling back to live interface state when the
// status command is unavailable.
func (a *unixAdapter) IsConnected(ctx context.Context) bool {
	result, err := runCommand(ctx, commandSpec{
		name:    unixClientBinary,
		args:    []string{"status"},
		timeout: statusCheckTimeout,
	})
	if err == nil && !result.timedOut {
		output := strings.ToLower(result.combinedOutput())
		if strings.Contains(output, "status: connected") {
			return true
		}
		if strings.Contains(output, "disconnected") {
			return false
		}
		if strings.Contains(output, "connected") {
			return true
		}
	}
	return vpnInterfaceHasGlobalAddress()
}

// Connect issues the client's connect subcommand for the classified target
// and classifies the free-text outcome. Anything unrecognized is failure.
func (a *unixAdapter) Connect(ctx context.Context, req ConnectRequest) ConnectOutcome {
	binary := unixClientBinary
	if req.InstallPath != "" {
		binary = req.InstallPath
	}

	args := []string{"c"}
	switch req.Kind {
	case TargetQuick:
		// No argument: the client chooses the destination.
	case TargetGroup:
		args = append(args, "--group", req.Target)
	default:
		args = append(args, strings.ReplaceAll(req.Target, " ", "_"))
	}

	result, err := runCommand(ctx, commandSpec{
		name:    binary,
		args:    args,
		timeout: req.Timeout,
	})
	if err != nil {
		return ConnectOutcome{reason: err.Error()}
	}
	if result.timedOut {
		return ConnectOutcome{reason: "connect command timed out"}
	}

	output := result.combinedOutput()
	if !containsAny(output, "you are connected", "connected to", "already connected") {
		reason := strings.TrimSpace(output)
		if reason == "" {
			reason = "client reported no connection"
		}
		return ConnectOutcome{reason: reason}
	}

	return ConnectOutcome{
		success:    true,
		serverName: scrapeServerName(output, req.Target),
	}
}

// Disconnect issues the client's disconnect subcommand. Zero exit or any of
// the not-connected phrases count as success so the call stays idempotent.
func (a *unixAdapter) Disconnect(ctx context.Context, installPath string, timeout time.Duration) bool {
	binary := unixClientBinary
	if installPath != "" {
		binary = installPath
	}
	result, err := runCommand(ctx, commandSpec{
		name:    binary,
		args:    []string{"d"},
		timeout: timeout,
	})
	if err != nil || result.timedOut {
		return false
	}
	if result.exitCode == 0 {
		return true
	}
	return containsAny(result.combinedOutput(), "disconnected", "not connected", "you are not")
}

// ConnectCommand returns the base connect argument vector for this platform.
func (a *unixAdapter) ConnectCommand() []string {
	return []string{unixClientBinary, "c"}
}

// DisconnectCommand returns the base disconnect argument vector for this platform.
func (a *unixAdapter) DisconnectCommand() []string {
	return []string{unixClientBinary, "d"}
}

// scrapeServerName pulls the server name out of "connected to X" output,
// falling back to the requested target when the pattern is absent. Sentence
// punctuation around the name is stripped; "#" and digits are part of the
// names the client prints.
func scrapeServerName(output, fallback string) string {
	if m := connectedToPattern.FindStringSubmatch(output); len(m) == 2 {
		name := strings.TrimSpace(m[1])
		name = strings.TrimRight(name, ".,:;")
		if name != "" {
			return name
		}
	}
	return fallback
}
