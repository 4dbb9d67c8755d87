package nordgo

import (
	"context"
	"runtime"
	"strings"
	"time"
	"unicode"
)

// Platform identifies an operating-system family with a NordVPN client port.
type Platform string

// Platform values supported by nordgo.
const (
	// PlatformWindows drives the GUI client's nordvpn.exe command interface.
	PlatformWindows Platform = "windows"
	// PlatformLinux drives the native nordvpn CLI and nordvpnd service.
	PlatformLinux Platform = "linux"
	// PlatformDarwin drives the macOS nordvpn CLI.
	PlatformDarwin Platform = "darwin"
)

// DetectPlatform maps the host OS onto a supported Platform. The boolean is
// false when the host has no platform adapter.
func DetectPlatform() (Platform, bool) {
	switch runtime.GOOS {
	case "windows":
		return PlatformWindows, true
	case "linux":
		return PlatformLinux, true
	case "darwin":
		return PlatformDarwin, true
	default:
		return "", false
	}
}

// TargetKind classifies a rotation target string by its shape.
type TargetKind string

// TargetKind values.
const (
	// TargetQuick lets the external client choose the destination server.
	TargetQuick TargetKind = "quick"
	// TargetServer names one specific server, e.g. "nl742".
	TargetServer TargetKind = "server"
	// TargetGroup names a specialty server group, e.g. "Double VPN".
	TargetGroup TargetKind = "group"
	// TargetLocation names a country, region, or city.
	TargetLocation TargetKind = "location"
)

// ConnectOutcome reports how the external client answered a connect command.
type ConnectOutcome struct {
	// success indicates the client reported an established connection.
	success bool
	// serverName is the server name the client reported, best-effort.
	serverName string
	// reason carries the failure description when success is false.
	reason string
}

// Success reports whether the client established (or already had) a connection.
func (o ConnectOutcome) Success() bool { return o.success }

// ServerName returns the server name reported by the client, falling back to
// the requested target when the output carried none.
func (o ConnectOutcome) ServerName() string { return o.serverName }

// Reason describes why the connect failed; empty on success.
func (o ConnectOutcome) Reason() string { return o.reason }

// PlatformAdapter turns abstract connect/disconnect requests into concrete
// invocations of the externally installed NordVPN client, and interprets the
// client's free-text output. The output has no documented stable schema, so
// every classification is best-effort: unrecognized wording is treated as
// failure, never as a crash.
type PlatformAdapter interface {
	// Platform identifies which OS family this adapter drives.
	Platform() Platform
	// CheckInstallation reports whether the client is installed, preferring
	// customPath when non-empty, and returns the resolved executable path.
	CheckInstallation(ctx context.Context, customPath string) (bool, string)
	// IsServiceRunning reports whether the client's background service is reachable.
	IsServiceRunning(ctx context.Context) bool
	// IsConnected reports whether a tunnel is currently active, judged from
	// client status output and live interface/routing state.
	IsConnected(ctx context.Context) bool
	// Connect asks the client to establish a tunnel to the target. An empty
	// target requests a provider-chosen quick connection.
	Connect(ctx context.Context, req ConnectRequest) ConnectOutcome
	// Disconnect tears the tunnel down. Disconnecting an already-disconnected
	// session is success, not an error.
	Disconnect(ctx context.Context, installPath string, timeout time.Duration) bool
	// ConnectCommand returns the base argument vector used to connect; it
	// seeds the stored base command of a Settings record.
	ConnectCommand() []string
	// DisconnectCommand returns the base argument vector used to disconnect.
	DisconnectCommand() []string
}

// ConnectRequest carries everything an adapter needs to issue one connect.
type ConnectRequest struct {
	// Target is the server ID, location, or group name; empty for quick connect.
	Target string
	// Kind tells the adapter which argument form the target takes.
	Kind TargetKind
	// InstallPath optionally points at a non-default client installation.
	InstallPath string
	// Timeout bounds the external invocation's wall-clock run time.
	Timeout time.Duration
}

// NewPlatformAdapter returns the adapter for the given platform.
func NewPlatformAdapter(platform Platform) (PlatformAdapter, error) {
	switch platform {
	case PlatformWindows:
		return newWindowsAdapter(), nil
	case PlatformLinux, PlatformDarwin:
		return newUnixAdapter(platform), nil
	default:
		return nil, newError(ErrUnsupportedPlatform, "NewPlatformAdapter",
			"no NordVPN client adapter for platform "+string(platform), nil)
	}
}

// ClassifyTarget decides how a target string should be presented to the
// external client. A string is a specific server only when it is at least 3
// characters of at least 2 leading letters followed by at least 1 digit with
// nothing after the digits; anything ambiguous is a named location, or a
// group when hasGroup says a specialty group was configured. The empty string
// always means quick connect.
func ClassifyTarget(target string, hasGroup bool) TargetKind {
	if target == "" {
		return TargetQuick
	}
	if isSpecificServer(target) {
		return TargetServer
	}
	if hasGroup {
		return TargetGroup
	}
	return TargetLocation
}

// isSpecificServer reports whether target matches the server-ID shape:
// letters then digits, no letters after the first digit, no other runes.
func isSpecificServer(target string) bool {
	if len(target) < 3 {
		return false
	}
	letters, digits := 0, 0
	for _, r := range target {
		switch {
		case unicode.IsLetter(r):
			if digits > 0 {
				return false
			}
			letters++
		case unicode.IsDigit(r):
			digits++
		default:
			return false
		}
	}
	return letters >= 2 && digits >= 1
}

// containsAny reports whether haystack contains any of the needles,
// case-insensitively. Adapters use it to scan free-text client output.
func containsAny(haystack string, needles ...string) bool {
	lowered := strings.ToLower(haystack)
	for _, needle := range needles {
		if strings.Contains(lowered, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
