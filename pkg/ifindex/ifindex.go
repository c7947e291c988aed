// Package ifindex maps network interface names to their numeric indexes
// and back.
//
// Every lookup issues a fresh ioctl against the OS; nothing is cached.
// Interfaces can appear and disappear at any time (hot-plug, netns
// moves), so a successfully resolved name or index may already be stale
// when the caller uses it. Guarding against that race is the caller's
// responsibility.
package ifindex

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var (
	// ErrNotFound means no interface currently matches the given name or
	// index.
	ErrNotFound = errors.New("no such network interface")

	// ErrNameTooLong means the name cannot fit an ifreq and was rejected
	// before any OS call.
	ErrNameTooLong = errors.New("interface name too long")
)

// NameToIndex returns the index of the interface with the given name.
func NameToIndex(name string) (uint32, error) {
	if len(name) >= unix.IFNAMSIZ {
		return 0, fmt.Errorf("%q exceeds %d bytes: %w", name, unix.IFNAMSIZ-1, ErrNameTooLong)
	}
	ifr, err := unix.NewIfreq(name)
	if err != nil {
		return 0, fmt.Errorf("cannot build ifreq for %q: %w", name, err)
	}
	fd, err := querySocket()
	if err != nil {
		return 0, err
	}
	defer unix.Close(fd)
	if err := unix.IoctlIfreq(fd, unix.SIOCGIFINDEX, ifr); err != nil {
		if errors.Is(err, unix.ENODEV) {
			return 0, fmt.Errorf("%q: %w", name, ErrNotFound)
		}
		return 0, fmt.Errorf("SIOCGIFINDEX %q failed: %w", name, err)
	}
	return ifr.Uint32(), nil
}

// IndexToName returns the name of the interface with the given index.
// Index 0 never names an interface and fails without an OS call.
func IndexToName(index uint32) (string, error) {
	if index == 0 {
		return "", fmt.Errorf("index 0: %w", ErrNotFound)
	}
	ifr, err := unix.NewIfreq("")
	if err != nil {
		return "", fmt.Errorf("cannot build ifreq: %w", err)
	}
	ifr.SetUint32(index)
	fd, err := querySocket()
	if err != nil {
		return "", err
	}
	defer unix.Close(fd)
	if err := unix.IoctlIfreq(fd, unix.SIOCGIFNAME, ifr); err != nil {
		if errors.Is(err, unix.ENODEV) {
			return "", fmt.Errorf("index %d: %w", index, ErrNotFound)
		}
		return "", fmt.Errorf("SIOCGIFNAME %d failed: %w", index, err)
	}
	return ifr.Name(), nil
}

// querySocket opens a throwaway datagram socket to issue the interface
// ioctls against. The socket carries no traffic.
func querySocket() (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("cannot open query socket: %w", err)
	}
	return fd, nil
}
