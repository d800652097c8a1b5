// File: internal/backend/sockaddr_unix.go
//go:build unix

// License: Apache-2.0
//
// net.Addr <-> unix.Sockaddr conversions. The accept path copies the raw
// peer address into a fresh net.Addr value owned by the callback.

package backend

import (
	"net"

	"golang.org/x/sys/unix"
)

// toSockaddr converts a caller-supplied bind address. TCP and UDP inet
// addresses and unix-domain paths are supported.
func toSockaddr(addr net.Addr) (unix.Sockaddr, error) {
	var ip net.IP
	var port int
	var zone string
	switch a := addr.(type) {
	case *net.TCPAddr:
		ip, port, zone = a.IP, a.Port, a.Zone
	case *net.UDPAddr:
		ip, port, zone = a.IP, a.Port, a.Zone
	case *net.UnixAddr:
		return &unix.SockaddrUnix{Name: a.Name}, nil
	default:
		return nil, unix.EAFNOSUPPORT
	}
	if len(ip) == 0 {
		// Nil IP is the conventional wildcard bind (INADDR_ANY).
		return &unix.SockaddrInet4{Port: port}, nil
	}
	if ip4 := ip.To4(); ip4 != nil {
		sa := &unix.SockaddrInet4{Port: port}
		copy(sa.Addr[:], ip4)
		return sa, nil
	}
	if ip16 := ip.To16(); ip16 != nil {
		sa := &unix.SockaddrInet6{Port: port}
		copy(sa.Addr[:], ip16)
		if zone != "" {
			if ifi, err := net.InterfaceByName(zone); err == nil {
				sa.ZoneId = uint32(ifi.Index)
			}
		}
		return sa, nil
	}
	return nil, unix.EINVAL
}

// fromSockaddr copies an accepted peer address into caller-owned form.
// Accepted connections are stream sockets, so inet peers come back as
// *net.TCPAddr.
func fromSockaddr(sa unix.Sockaddr) net.Addr {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		ip := make(net.IP, net.IPv4len)
		copy(ip, a.Addr[:])
		return &net.TCPAddr{IP: ip, Port: a.Port}
	case *unix.SockaddrInet6:
		ip := make(net.IP, net.IPv6len)
		copy(ip, a.Addr[:])
		return &net.TCPAddr{IP: ip, Port: a.Port}
	case *unix.SockaddrUnix:
		return &net.UnixAddr{Name: a.Name, Net: "unix"}
	default:
		return nil
	}
}
