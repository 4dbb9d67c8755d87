package nordgo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	// opServerDirectory labels errors originating from server-directory fetches.
	opServerDirectory = "ServerDirectory"

	// DefaultServerDirectoryURL is the provider endpoint returning the
	// current server descriptors.
	DefaultServerDirectoryURL = "https://api.nordvpn.com/v1/servers/recommendations"

	// standardGroupTitle marks the plain servers usable as rotation targets.
	standardGroupTitle = "Standard VPN servers"

	// maxDirectoryBody caps how much of the directory response is read.
	// The full server list runs to a few megabytes.
	maxDirectoryBody = 32 << 20
)

// ServerInfo describes one server from the provider directory. Only the
// fields the rotation engine consumes are retained: hostname, display name,
// load, and whether the server belongs to the standard group.
type ServerInfo struct {
	// hostname is the server's DNS name, e.g. "nl742.nordvpn.com".
	hostname string
	// name is the display name, e.g. "Netherlands #742".
	name string
	// load is the provider-reported load percentage.
	load int
	// standard reports membership in the standard servers group.
	standard bool
}

// Hostname returns the server's DNS name.
func (s ServerInfo) Hostname() string { return s.hostname }

// Name returns the server's display name.
func (s ServerInfo) Name() string { return s.name }

// Load returns the provider-reported load percentage.
func (s ServerInfo) Load() int { return s.load }

// IsStandard reports whether the server belongs to the standard group.
func (s ServerInfo) IsStandard() bool { return s.standard }

// serverDescriptor mirrors the directory response shape. All other response
// fields are irrelevant to the engine and left undecoded.
type serverDescriptor struct {
	Hostname string `json:"hostname"`
	Name     string `json:"name"`
	Load     int    `json:"load"`
	Groups   []struct {
		Title string `json:"title"`
	} `json:"groups"`
}

// FetchServers retrieves the provider's server directory and returns the
// descriptors the engine cares about. A nil client falls back to
// http.DefaultClient; an empty url falls back to DefaultServerDirectoryURL.
func FetchServers(ctx context.Context, client *http.Client, url string) ([]ServerInfo, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = DefaultServerDirectoryURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newError(ErrHTTPFailed, opServerDirectory, "failed to build request", err)
	}
	req.Header.Set("User-Agent", probeUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, newError(ErrHTTPFailed, opServerDirectory, "directory request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDirectoryBody))
	if err != nil {
		return nil, newError(ErrIO, opServerDirectory, "failed to read directory response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(ErrHTTPFailed, opServerDirectory,
			fmt.Sprintf("directory returned http status %d", resp.StatusCode), nil)
	}

	var descriptors []serverDescriptor
	if err := json.Unmarshal(body, &descriptors); err != nil {
		return nil, newError(ErrHTTPFailed, opServerDirectory, "failed to decode directory response", err)
	}

	servers := make([]ServerInfo, 0, len(descriptors))
	for _, d := range descriptors {
		info := ServerInfo{
			hostname: d.Hostname,
			name:     d.Name,
			load:     d.Load,
		}
		for _, g := range d.Groups {
			if g.Title == standardGroupTitle {
				info.standard = true
				break
			}
		}
		servers = append(servers, info)
	}
	return servers, nil
}

// RecommendedServer fetches the directory and returns the least-loaded
// standard server. The boolean is false when the directory holds none.
func RecommendedServer(ctx context.Context, client *http.Client, url string) (ServerInfo, bool, error) {
	servers, err := FetchServers(ctx, client, url)
	if err != nil {
		return ServerInfo{}, false, err
	}

	var best ServerInfo
	found := false
	for _, s := range servers {
		if !s.IsStandard() {
			continue
		}
		if !found || s.Load() < best.Load() {
			best = s
			found = true
		}
	}
	return best, found, nil
}
