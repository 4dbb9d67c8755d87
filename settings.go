package nordgo

import (
	"context"
)

const (
	// opInitialize labels errors originating from Initialize.
	opInitialize = "Initialize"

	// unknownAddress stands in for the original public address when it
	// cannot be captured.
	unknownAddress = "unknown"
)

// Settings is the immutable record a rotation consumes: which platform
// adapter to use, where the client lives, what the public address was before
// any rotation, and which targets rotation may pick among. It is created once
// (by Initialize or NewSettings) and never mutated, so it is safe to share by
// reference across concurrent readers.
//
// Quick connect and a non-empty target list are mutually exclusive in
// intended use; when both are set, quick connect takes precedence and the
// list is ignored rather than rejected.
type Settings struct {
	// platform selects the adapter variant.
	platform Platform
	// installPath optionally points at a non-default client installation.
	installPath string
	// originalAddress is the public address captured before rotation,
	// unknownAddress when it could not be obtained.
	originalAddress string
	// targets are the server IDs, locations, or the single group name to
	// rotate among.
	targets []string
	// quickConnect lets the external client choose the destination.
	quickConnect bool
	// group names the configured specialty group, if any.
	group string
	// baseCommand is the platform's base connect invocation, stored for
	// callers that persist settings; the engine itself asks the adapter.
	baseCommand []string
}

// SettingsOption customizes Settings creation.
type SettingsOption func(*Settings)

// NewSettings returns a validated, immutable settings record. Unlike
// Initialize it performs no host inspection; use it when the caller already
// knows the platform and installation, or when restoring persisted settings.
func NewSettings(opts ...SettingsOption) (Settings, error) {
	s := Settings{}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return normalizeSettings(s)
}

// Platform selects the adapter variant.
func (s Settings) Platform() Platform { return s.platform }

// InstallPath optionally points at a non-default client installation.
func (s Settings) InstallPath() string { return s.installPath }

// OriginalAddress is the public address captured before rotation.
func (s Settings) OriginalAddress() string { return s.originalAddress }

// Targets returns the configured rotation targets.
func (s Settings) Targets() []string {
	if len(s.targets) == 0 {
		return nil
	}
	out := make([]string, len(s.targets))
	copy(out, s.targets)
	return out
}

// QuickConnect reports whether the external client chooses the destination.
func (s Settings) QuickConnect() bool { return s.quickConnect }

// Group names the configured specialty group, empty when none.
func (s Settings) Group() string { return s.group }

// BaseCommand returns the platform's base connect invocation.
func (s Settings) BaseCommand() []string {
	if len(s.baseCommand) == 0 {
		return nil
	}
	out := make([]string, len(s.baseCommand))
	copy(out, s.baseCommand)
	return out
}

// WithSettingsPlatform pins the platform instead of detecting it.
func WithSettingsPlatform(platform Platform) SettingsOption {
	return func(s *Settings) {
		s.platform = platform
	}
}

// WithSettingsInstallPath points at a non-default client installation.
func WithSettingsInstallPath(path string) SettingsOption {
	return func(s *Settings) {
		s.installPath = path
	}
}

// WithSettingsOriginalAddress records the pre-rotation public address.
func WithSettingsOriginalAddress(addr string) SettingsOption {
	return func(s *Settings) {
		s.originalAddress = addr
	}
}

// WithSettingsTargets sets the server IDs or locations rotation picks among.
func WithSettingsTargets(targets ...string) SettingsOption {
	targetsCopy := append([]string(nil), targets...)
	return func(s *Settings) {
		s.targets = append([]string(nil), targetsCopy...)
	}
}

// WithSettingsQuickConnect lets the external client choose the destination.
func WithSettingsQuickConnect() SettingsOption {
	return func(s *Settings) {
		s.quickConnect = true
	}
}

// WithSettingsGroup configures a specialty group (e.g. "Double VPN") as the
// rotation target.
func WithSettingsGroup(group string) SettingsOption {
	return func(s *Settings) {
		s.group = group
		if group != "" {
			s.targets = []string{group}
		}
	}
}

// normalizeSettings applies defaults and validates the given settings.
func normalizeSettings(s Settings) (Settings, error) {
	s = applySettingsDefaults(s)
	if err := validateSettings(s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// applySettingsDefaults fills empty Settings fields with defaults.
func applySettingsDefaults(s Settings) Settings {
	if s.platform == "" {
		if detected, ok := DetectPlatform(); ok {
			s.platform = detected
		}
	}
	if s.originalAddress == "" {
		s.originalAddress = unknownAddress
	}
	if len(s.baseCommand) == 0 {
		if adapter, err := NewPlatformAdapter(s.platform); err == nil {
			s.baseCommand = adapter.ConnectCommand()
		}
	}
	return s
}

// validateSettings ensures the settings name a supported platform.
func validateSettings(s Settings) error {
	switch s.platform {
	case PlatformWindows, PlatformLinux, PlatformDarwin:
		return nil
	case "":
		return newError(ErrUnsupportedPlatform, "validateSettings",
			"host platform is not supported and none was supplied. Use WithSettingsPlatform()", nil)
	default:
		return newError(ErrUnsupportedPlatform, "validateSettings",
			"unknown platform "+string(s.platform), nil)
	}
}

// Initialize inspects the host and produces the immutable Settings a rotation
// consumes. It fails fast on configuration errors — client not installed,
// service not running, unsupported platform — because retrying a
// misconfigured external client wastes time without remedy. The original
// public address is captured best-effort; when no echo endpoint answers, the
// settings carry "unknown" rather than an error.
func Initialize(ctx context.Context, opts ...SettingsOption) (Settings, error) {
	settings, err := NewSettings(opts...)
	if err != nil {
		return Settings{}, err
	}

	adapter, err := NewPlatformAdapter(settings.Platform())
	if err != nil {
		return Settings{}, err
	}

	installed, resolvedPath := adapter.CheckInstallation(ctx, settings.InstallPath())
	if !installed {
		return Settings{}, newError(ErrClientNotInstalled, opInitialize,
			"NordVPN client not found. Install it or point at it with WithSettingsInstallPath()", nil)
	}
	settings.installPath = resolvedPath

	if !adapter.IsServiceRunning(ctx) {
		return Settings{}, newError(ErrServiceNotRunning, opInitialize,
			"NordVPN background service is not reachable", nil)
	}

	settings.baseCommand = adapter.ConnectCommand()

	if settings.originalAddress == unknownAddress {
		if probe, probeErr := NewAddressProbe(ProbeConfig{}); probeErr == nil {
			if addr, ok := probe.GetAddress(ctx, FamilyIPv4, 0); ok {
				settings.originalAddress = addr
			}
		}
	}

	return settings, nil
}
