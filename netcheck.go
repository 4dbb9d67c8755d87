package nordgo

import (
	"net"
	"strings"
)

// vpnInterfaceSubstrings match the adapter names the NordVPN ports create.
// Lowercase; comparisons are case-insensitive.
var vpnInterfaceSubstrings = []string{"nordlynx", "nordvpn", "nordtun", "tun", "tap", "utun"}

// probeRouteAddr is a well-known external address used only to ask the OS
// which interface it would route outbound traffic through. UDP "dialing"
// sends no packets.
const probeRouteAddr = "1.1.1.1:53"

// interfaceLooksVPN reports whether an interface name matches a known
// VPN-adapter naming pattern.
func interfaceLooksVPN(name string) bool {
	lowered := strings.ToLower(name)
	for _, sub := range vpnInterfaceSubstrings {
		if strings.Contains(lowered, sub) {
			return true
		}
	}
	return false
}

// outboundInterfaceName asks the OS which network interface would be chosen
// to reach a known external address and returns its name. Empty when the
// route or interface cannot be resolved.
func outboundInterfaceName() string {
	conn, err := net.Dial("udp", probeRouteAddr)
	if err != nil {
		return ""
	}
	defer func() { _ = conn.Close() }()

	localAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || localAddr.IP == nil {
		return ""
	}
	return interfaceNameForIP(localAddr.IP)
}

// interfaceNameForIP finds the up interface holding the given address.
func interfaceNameForIP(ip net.IP) string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if addrIP := addrToIP(a); addrIP != nil && addrIP.Equal(ip) {
				return iface.Name
			}
		}
	}
	return ""
}

// vpnInterfaceHasGlobalAddress reports whether any up, VPN-pattern-named
// interface carries an address usable for tunneled traffic: not loopback,
// not link-local, not multicast, not unspecified.
func vpnInterfaceHasGlobalAddress() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || !interfaceLooksVPN(iface.Name) {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ip := addrToIP(a)
			if ip == nil {
				continue
			}
			if ip.IsUnspecified() || ip.IsLoopback() {
				continue
			}
			if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast() {
				continue
			}
			return true
		}
	}
	return false
}

// addrToIP extracts the IP from a net.Addr returned by Interface.Addrs.
func addrToIP(a net.Addr) net.IP {
	switch v := a.(type) {
	case *net.IPNet:
		return v.IP
	case *net.IPAddr:
		return v.IP
	default:
		return nil
	}
}
