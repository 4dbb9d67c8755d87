package nordgo

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// maxEchoBody caps how much of an echo response is read. The services
	// return a bare address, so anything past a few bytes is garbage.
	maxEchoBody = 4 << 10

	// probeUserAgent mimics a browser because some echo services serve an
	// HTML page to clients they classify as bots.
	probeUserAgent = "Mozilla/5.0 (X11; Linux x86_64) Gecko/20100101 Firefox/128.0"
)

// AddressFamily selects which public address family a probe queries.
type AddressFamily string

const (
	// FamilyIPv4 queries IPv4-only echo endpoints.
	FamilyIPv4 AddressFamily = "ipv4"
	// FamilyIPv6 queries IPv6-only echo endpoints.
	FamilyIPv6 AddressFamily = "ipv6"
)

// defaultEndpointsV4 and defaultEndpointsV6 are small, diverse sets of
// independent echo services that return a bare address as plain text. Racing
// them bounds worst-case latency far better than sequential retry while
// tolerating individual outages and rate limits.
var (
	defaultEndpointsV4 = []string{
		"https://api.ipify.org",
		"https://ipv4.icanhazip.com",
		"https://ipv4.seeip.org",
	}
	defaultEndpointsV6 = []string{
		"https://api6.ipify.org",
		"https://ipv6.icanhazip.com",
		"https://ipv6.seeip.org",
	}
)

// ProbeAddresses carries the results of the combined-family race. Either
// family may be absent; absence is a normal outcome, not an error.
type ProbeAddresses struct {
	// v4 is the public IPv4 address, empty when none was found.
	v4 string
	// v6 is the public IPv6 address, empty when none was found.
	v6 string
}

// V4 returns the public IPv4 address and whether one was found.
func (a ProbeAddresses) V4() (string, bool) { return a.v4, a.v4 != "" }

// V6 returns the public IPv6 address and whether one was found.
func (a ProbeAddresses) V6() (string, bool) { return a.v6, a.v6 != "" }

// probeOutcome records one endpoint's answer for debug logging. It is not
// retained past the probing call.
type probeOutcome struct {
	// endpoint is the queried URL.
	endpoint string
	// text is the trimmed response body.
	text string
	// valid reports whether text passed address-syntax validation.
	valid bool
	// elapsed is how long the request took.
	elapsed time.Duration
}

// AddressProbe discovers the host's public address by racing several
// independent address-echo endpoints per family. The first syntactically
// valid answer wins and all other in-flight requests are canceled.
//
// Echo services are individually unreliable: they rate-limit, go down, and
// occasionally answer with HTML. The probe therefore treats every
// network-level failure as a normal miss and only distinguishes "found an
// address" from "found none".
type AddressProbe struct {
	// cfg stores the normalized probe configuration.
	cfg ProbeConfig
	// clientV4 issues requests pinned to IPv4 transports.
	clientV4 *http.Client
	// clientV6 issues requests pinned to IPv6 transports.
	clientV6 *http.Client
}

// NewAddressProbe builds an AddressProbe from the given configuration.
func NewAddressProbe(cfg ProbeConfig) (*AddressProbe, error) {
	cfg, err := normalizeProbeConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &AddressProbe{
		cfg:      cfg,
		clientV4: newEchoClient("tcp4", cfg.EndpointTimeout()),
		clientV6: newEchoClient("tcp6", cfg.EndpointTimeout()),
	}, nil
}

// GetAddress races the endpoints of one family and returns the first
// syntactically valid public address, or ok=false when the overall timeout
// elapses or every endpoint fails. Network-level failure is an expected
// outcome and is never surfaced as an error.
func (p *AddressProbe) GetAddress(ctx context.Context, family AddressFamily, overallTimeout time.Duration) (string, bool) {
	if overallTimeout <= 0 {
		overallTimeout = p.cfg.OverallTimeout()
	}
	raceCtx, cancel := context.WithTimeout(ctx, overallTimeout)
	defer cancel()

	endpoints := p.cfg.EndpointsV4()
	client := p.clientV4
	validate := isValidIPv4
	if family == FamilyIPv6 {
		endpoints = p.cfg.EndpointsV6()
		client = p.clientV6
		validate = isValidIPv6
	}

	logger := p.cfg.Logger()
	outcomes := make(chan probeOutcome, len(endpoints))
	for _, endpoint := range endpoints {
		endpoint := endpoint
		go func() {
			outcomes <- p.queryEndpoint(raceCtx, client, endpoint, validate)
		}()
	}

	for remaining := len(endpoints); remaining > 0; remaining-- {
		select {
		case <-raceCtx.Done():
			logger.Log("debug", "address race deadline elapsed", "family", string(family))
			return "", false
		case outcome := <-outcomes:
			logger.Log("debug", "echo endpoint answered",
				"endpoint", outcome.endpoint, "valid", outcome.valid, "elapsed", outcome.elapsed)
			if outcome.valid {
				// Winner: cancel the losers immediately.
				cancel()
				return outcome.text, true
			}
		}
	}
	return "", false
}

// GetAddresses runs the v4 and v6 races concurrently under one shared
// deadline and returns both results independently. Either may be absent.
func (p *AddressProbe) GetAddresses(ctx context.Context, overallTimeout time.Duration) ProbeAddresses {
	if overallTimeout <= 0 {
		overallTimeout = p.cfg.OverallTimeout()
	}
	raceCtx, cancel := context.WithTimeout(ctx, overallTimeout)
	defer cancel()

	var addrs ProbeAddresses
	g, gctx := errgroup.WithContext(raceCtx)
	g.Go(func() error {
		if v4, ok := p.GetAddress(gctx, FamilyIPv4, overallTimeout); ok {
			addrs.v4 = v4
		}
		return nil
	})
	g.Go(func() error {
		if v6, ok := p.GetAddress(gctx, FamilyIPv6, overallTimeout); ok {
			addrs.v6 = v6
		}
		return nil
	})
	_ = g.Wait() // both goroutines absorb failures; nothing to propagate
	return addrs
}

// queryEndpoint issues one GET with its own per-endpoint timeout layered
// under the shared race context and validates the trimmed response body.
func (p *AddressProbe) queryEndpoint(ctx context.Context, client *http.Client, endpoint string, validate func(string) bool) probeOutcome {
	start := time.Now()
	outcome := probeOutcome{endpoint: endpoint}

	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.EndpointTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		outcome.elapsed = time.Since(start)
		return outcome
	}
	req.Header.Set("User-Agent", probeUserAgent)
	req.Header.Set("Accept", "text/plain, */*")

	resp, err := client.Do(req)
	if err != nil {
		outcome.elapsed = time.Since(start)
		return outcome
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEchoBody))
	outcome.elapsed = time.Since(start)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode > 299 {
		return outcome
	}

	outcome.text = strings.TrimSpace(string(body))
	outcome.valid = validate(outcome.text)
	return outcome
}

// newEchoClient builds an HTTP client whose dials are pinned to one address
// family so a v4 endpoint cannot accidentally answer over v6 and vice versa.
func newEchoClient(network string, dialTimeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: 15 * time.Second,
	}
	return &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, addr string) (net.Conn, error) {
				return dialer.DialContext(ctx, network, addr)
			},
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
			TLSHandshakeTimeout: dialTimeout,
		},
	}
}

// isValidIPv4 reports whether s is a dotted-quad IPv4 literal with exactly
// four decimal octets in [0,255].
func isValidIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		if part == "" || len(part) > 3 {
			return false
		}
		for _, c := range part {
			if c < '0' || c > '9' {
				return false
			}
		}
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return false
		}
	}
	return true
}

// isValidIPv6 reports whether s looks like an IPv6 literal: colon-separated
// with at least three groups, plausible total length, and hex-only groups.
// This is a syntactic plausibility check, not full RFC 4291 validation; echo
// services return either a bare address or garbage, never near-misses.
func isValidIPv6(s string) bool {
	if len(s) < 3 || len(s) > 45 {
		return false
	}
	groups := strings.Split(s, ":")
	if len(groups) < 3 {
		return false
	}
	for i, group := range groups {
		if group == "" {
			continue // empty group inside "::"
		}
		// A trailing dotted-quad is allowed (IPv4-mapped form).
		if i == len(groups)-1 && strings.Contains(group, ".") {
			if !isValidIPv4(group) {
				return false
			}
			continue
		}
		if len(group) > 4 {
			return false
		}
		for _, c := range group {
			if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
				return false
			}
		}
	}
	return true
}
