package nordgo

import (
	"errors"
	"testing"
)

func TestNewSettings(t *testing.T) {
	t.Parallel()

	t.Run("should default the original address to unknown", func(t *testing.T) {
		t.Parallel()
		settings, err := NewSettings(WithSettingsPlatform(PlatformLinux))
		if err != nil {
			t.Fatalf("NewSettings failed: %v", err)
		}
		if settings.OriginalAddress() != unknownAddress {
			t.Errorf("expected original address %q, got %q", unknownAddress, settings.OriginalAddress())
		}
	})

	t.Run("should derive the base command from the platform adapter", func(t *testing.T) {
		t.Parallel()
		settings, err := NewSettings(WithSettingsPlatform(PlatformLinux))
		if err != nil {
			t.Fatalf("NewSettings failed: %v", err)
		}
		base := settings.BaseCommand()
		if len(base) != 2 || base[0] != "nordvpn" || base[1] != "c" {
			t.Errorf("unexpected base command: %v", base)
		}
	})

	t.Run("should reject an unknown platform", func(t *testing.T) {
		t.Parallel()
		_, err := NewSettings(WithSettingsPlatform(Platform("plan9")))
		if err == nil {
			t.Fatal("expected a validation error")
		}
		if !errors.Is(err, &NordgoError{Kind: ErrUnsupportedPlatform}) {
			t.Errorf("expected unsupported-platform error, got %v", err)
		}
	})

	t.Run("should record the configured group as the sole target", func(t *testing.T) {
		t.Parallel()
		settings, err := NewSettings(
			WithSettingsPlatform(PlatformLinux),
			WithSettingsGroup("Double VPN"),
		)
		if err != nil {
			t.Fatalf("NewSettings failed: %v", err)
		}
		if settings.Group() != "Double VPN" {
			t.Errorf("expected group Double VPN, got %q", settings.Group())
		}
		targets := settings.Targets()
		if len(targets) != 1 || targets[0] != "Double VPN" {
			t.Errorf("expected targets [Double VPN], got %v", targets)
		}
	})

	t.Run("should not share the target slice with the caller", func(t *testing.T) {
		t.Parallel()
		input := []string{"nl742", "Sweden"}
		settings, err := NewSettings(
			WithSettingsPlatform(PlatformLinux),
			WithSettingsTargets(input...),
		)
		if err != nil {
			t.Fatalf("NewSettings failed: %v", err)
		}
		input[0] = "mutated"
		if targets := settings.Targets(); targets[0] != "nl742" {
			t.Errorf("settings share backing array with caller: %v", targets)
		}
		targets := settings.Targets()
		targets[1] = "mutated"
		if again := settings.Targets(); again[1] != "Sweden" {
			t.Errorf("accessor returns shared backing array: %v", again)
		}
	})

	t.Run("should return nil for empty targets", func(t *testing.T) {
		t.Parallel()
		settings, err := NewSettings(WithSettingsPlatform(PlatformLinux))
		if err != nil {
			t.Fatalf("NewSettings failed: %v", err)
		}
		if settings.Targets() != nil {
			t.Errorf("expected nil targets, got %v", settings.Targets())
		}
	})

	t.Run("should keep quick connect and targets side by side", func(t *testing.T) {
		t.Parallel()
		settings, err := NewSettings(
			WithSettingsPlatform(PlatformLinux),
			WithSettingsQuickConnect(),
			WithSettingsTargets("nl742"),
		)
		if err != nil {
			t.Fatalf("NewSettings failed: %v", err)
		}
		if !settings.QuickConnect() {
			t.Error("expected quick connect to be set")
		}
		if len(settings.Targets()) != 1 {
			t.Errorf("expected the target list to survive, got %v", settings.Targets())
		}
	})

	t.Run("should keep the supplied original address", func(t *testing.T) {
		t.Parallel()
		settings, err := NewSettings(
			WithSettingsPlatform(PlatformLinux),
			WithSettingsOriginalAddress("203.0.113.1"),
		)
		if err != nil {
			t.Fatalf("NewSettings failed: %v", err)
		}
		if settings.OriginalAddress() != "203.0.113.1" {
			t.Errorf("expected 203.0.113.1, got %q", settings.OriginalAddress())
		}
	})

	t.Run("should keep the supplied install path", func(t *testing.T) {
		t.Parallel()
		settings, err := NewSettings(
			WithSettingsPlatform(PlatformLinux),
			WithSettingsInstallPath("/opt/nordvpn/bin/nordvpn"),
		)
		if err != nil {
			t.Fatalf("NewSettings failed: %v", err)
		}
		if settings.InstallPath() != "/opt/nordvpn/bin/nordvpn" {
			t.Errorf("unexpected install path %q", settings.InstallPath())
		}
	})
}
