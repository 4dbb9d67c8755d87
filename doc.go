// Package nordgo rotates a host's public network identity by driving an
// externally installed NordVPN client and verifying the effect over the
// network.
//
// # What nordgo does
//
// The package does not speak any VPN protocol itself. Tunnel negotiation and
// key exchange are entirely delegated to the NordVPN client binary/service
// already installed on the host; nordgo treats the client as an opaque
// command-line and status-text oracle. Around that oracle it provides:
//
//   - Engine: the rotation orchestrator. It serializes rotations so at most
//     one external-client invocation is in flight system-wide, picks a target
//     from the configured settings, drives the platform adapter, and confirms
//     the new public address.
//
//   - PlatformAdapter: one capability set implemented per OS family. The
//     Windows variant locates the desktop client by install path and judges
//     tunnel state from live interface and routing state; the Linux and macOS
//     variants drive the nordvpn CLI and parse its status output. Client
//     output is free text with no stable schema, so classification is
//     best-effort: unrecognized wording is failure, never a crash.
//
//   - AddressProbe: discovers the public address by racing several
//     independent address-echo endpoints per family with per-endpoint
//     timeouts under one overall deadline. The first syntactically valid
//     answer wins. Echo services are individually unreliable and
//     rate-limit-prone; racing a short, diverse set bounds worst-case latency
//     far better than sequential retry.
//
//   - Settings: the immutable record a rotation consumes, produced by
//     Initialize (which fails fast when the client is missing or its service
//     is down) or by NewSettings when restoring persisted configuration.
//
// # Quick Start
//
// For the simplest use case (rotate to a provider-chosen server):
//
//	settings, err := nordgo.Initialize(ctx, nordgo.WithSettingsQuickConnect())
//	if err != nil {
//	    log.Fatal(err) // client not installed, service down, or unsupported OS
//	}
//
//	cfg, _ := nordgo.NewEngineConfig()
//	engine, _ := nordgo.NewEngine(cfg)
//
//	result, err := engine.Rotate(ctx, settings)
//	if err != nil {
//	    log.Fatal(err) // canceled while waiting for an in-flight rotation
//	}
//	if result.Success() {
//	    fmt.Printf("now %s via %s\n", result.NewAddress(), result.ServerName())
//	}
//
// # Error model
//
// Configuration errors — client not installed, service not running,
// unsupported platform — are returned as *NordgoError from Initialize and
// NewEngine and are fatal to that call. Everything encountered during an
// in-progress rotation becomes a field of RotationResult instead, so batch
// callers can inspect failures and continue. Address-probe misses are normal
// outcomes, not errors.
//
// Tunnel verification is best-effort: when the client reports a
// successful connect but no echo endpoint confirms an address within the
// polling budget, the result still reports success with VerifiedPlaceholder
// as the address.
//
// # Concurrency
//
// Engine.Rotate and Engine.Disconnect share one engine-owned single-flight
// lock: no two external-client invocations ever overlap, and the lock wait is
// cancellable through the caller's context. Settings values are immutable and
// safe to share across goroutines. Independent Engine instances do not
// contend with each other.
//
// All configurations use the functional options pattern for flexibility and
// immutability.
package nordgo
