package nordgo

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// windowsServiceName is the NordVPN background service on Windows.
	windowsServiceName = "nordvpn-service"
)

// windowsDefaultDirs are the well-known install locations checked when no
// custom path is supplied.
var windowsDefaultDirs = []string{
	`C:\Program Files\NordVPN`,
	`C:\Program Files (x86)\NordVPN`,
}

// windowsClientNames are the executable names the installer has shipped over time.
var windowsClientNames = []string{"NordVPN.exe", "nordvpn.exe"}

// windowsAdapter drives the NordVPN desktop client on Windows. Unlike the
// Unix CLI, the client is found by path rather than PATH lookup, and tunnel
// state is judged from live interface and routing state because the desktop
// client has no status subcommand.
//
// The file carries no GOOS constraint: NewPlatformAdapter hands out either
// adapter on any host, so both must compile everywhere.
type windowsAdapter struct{}

// newWindowsAdapter builds the Windows adapter.
func newWindowsAdapter() *windowsAdapter {
	return &windowsAdapter{}
}

// Platform identifies which OS family this adapter drives.
func (a *windowsAdapter) Platform() Platform { return PlatformWindows }

// CheckInstallation verifies the client executable exists at the provided
// path or at one of the well-known default install directories.
func (a *windowsAdapter) CheckInstallation(_ context.Context, customPath string) (bool, string) {
	if customPath != "" {
		if isExistingFile(customPath) {
			return true, customPath
		}
		// A custom directory is accepted too; look for the executable inside.
		for _, name := range windowsClientNames {
			candidate := filepath.Join(customPath, name)
			if isExistingFile(candidate) {
				return true, candidate
			}
		}
		return false, ""
	}
	for _, dir := range windowsDefaultDirs {
		for _, name := range windowsClientNames {
			candidate := filepath.Join(dir, name)
			if isExistingFile(candidate) {
				return true, candidate
			}
		}
	}
	return false, ""
}

// IsServiceRunning queries the service manager for the NordVPN service,
// falling back to a process-name search.
func (a *windowsAdapter) IsServiceRunning(ctx context.Context) bool {
	if result, err := runCommand(ctx, commandSpec{
		name:    "sc",
		args:    []string{"query", windowsServiceName},
		timeout: statusCheckTimeout,
	}); err == nil && result.exitCode == 0 && containsAny(result.stdout, "running") {
		return true
	}

	result, err := runCommand(ctx, commandSpec{
		name:    "tasklist",
		args:    []string{"/FI", "IMAGENAME eq NordVPN.exe"},
		timeout: statusCheckTimeout,
	})
	return err == nil && result.exitCode == 0 && containsAny(result.stdout, "nordvpn")
}

// IsConnected reports an active tunnel when either the interface the OS would
// use for outbound traffic carries a VPN-adapter name, or the active default
// route goes through a VPN-named interface with a nonzero gateway. Either
// signal alone is sufficient.
func (a *windowsAdapter) IsConnected(ctx context.Context) bool {
	if name := outboundInterfaceName(); name != "" && interfaceLooksVPN(name) {
		return true
	}
	return a.defaultRouteThroughVPN(ctx)
}

// defaultRouteThroughVPN parses the IPv4 route table for a default route
// whose gateway is nonzero and whose interface address belongs to a
// VPN-named interface.
func (a *windowsAdapter) defaultRouteThroughVPN(ctx context.Context) bool {
	result, err := runCommand(ctx, commandSpec{
		name:    "route",
		args:    []string{"print", "0.0.0.0"},
		timeout: statusCheckTimeout,
	})
	if err != nil || result.exitCode != 0 {
		return false
	}

	for _, line := range strings.Split(result.stdout, "\n") {
		fields := strings.Fields(line)
		// Network Destination, Netmask, Gateway, Interface, Metric.
		if len(fields) < 5 || fields[0] != "0.0.0.0" || fields[1] != "0.0.0.0" {
			continue
		}
		gateway, ifaceAddr := fields[2], fields[3]
		if gateway == "0.0.0.0" || strings.EqualFold(gateway, "on-link") {
			continue
		}
		ip := net.ParseIP(ifaceAddr)
		if ip == nil {
			continue
		}
		if name := interfaceNameForIP(ip); name != "" && interfaceLooksVPN(name) {
			return true
		}
	}
	return false
}

// Connect issues the desktop client binary with -c plus the target flag and
// classifies the free-text outcome. Anything unrecognized is failure.
func (a *windowsAdapter) Connect(ctx context.Context, req ConnectRequest) ConnectOutcome {
	installed, binary := a.CheckInstallation(ctx, req.InstallPath)
	if !installed {
		return ConnectOutcome{reason: "NordVPN client executable not found"}
	}

	args := []string{"-c"}
	switch req.Kind {
	case TargetQuick:
		// -c alone: the client chooses the destination.
	case TargetServer:
		args = append(args, "-n", req.Target)
	default:
		args = append(args, "-g", req.Target)
	}

	result, err := runCommand(ctx, commandSpec{
		name:    binary,
		args:    args,
		dir:     filepath.Dir(binary),
		timeout: req.Timeout,
	})
	if err != nil {
		return ConnectOutcome{reason: err.Error()}
	}
	if result.timedOut {
		return ConnectOutcome{reason: "connect command timed out"}
	}
	if result.exitCode != 0 {
		reason := strings.TrimSpace(result.combinedOutput())
		if reason == "" {
			reason = "client exited with nonzero status"
		}
		return ConnectOutcome{reason: reason}
	}

	return ConnectOutcome{
		success:    true,
		serverName: scrapeServerName(result.stdout, req.Target),
	}
}

// Disconnect issues the desktop client binary with -d. Zero exit or any of
// the not-connected phrases count as success so the call stays idempotent.
func (a *windowsAdapter) Disconnect(ctx context.Context, installPath string, timeout time.Duration) bool {
	installed, binary := a.CheckInstallation(ctx, installPath)
	if !installed {
		return false
	}
	result, err := runCommand(ctx, commandSpec{
		name:    binary,
		args:    []string{"-d"},
		dir:     filepath.Dir(binary),
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
func (a *windowsAdapter) ConnectCommand() []string {
	if installed, binary := a.CheckInstallation(context.Background(), ""); installed {
		return []string{binary, "-c"}
	}
	return []string{windowsClientNames[0], "-c"}
}

// DisconnectCommand returns the base disconnect argument vector for this platform.
func (a *windowsAdapter) DisconnectCommand() []string {
	if installed, binary := a.CheckInstallation(context.Background(), ""); installed {
		return []string{binary, "-d"}
	}
	return []string{windowsClientNames[0], "-d"}
}

// isExistingFile reports whether path names an existing regular file.
func isExistingFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
