// Package iproute2 reads interface addresses through the iproute2 JSON
// output. It answers the same question as pkg/ifaddrs through an
// entirely separate path, which makes it useful for cross-checking
// enumeration results against an independent source.
package iproute2

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

type AddrInfo struct {
	Family            string `json:"family"`
	Local             string `json:"local"`
	PrefixLen         int    `json:"prefixlen"`
	Broadcast         string `json:"broadcast"`
	Scope             string `json:"scope"`
	Label             string `json:"label"`
	ValidLifeTime     int    `json:"valid_life_time"`
	PreferredLifeTime int    `json:"preferred_life_time"`
}

type Interface struct {
	IfIndex   int        `json:"ifindex"`
	IfName    string     `json:"ifname"`
	Flags     []string   `json:"flags"`
	Mtu       int        `json:"mtu"`
	Qdisc     string     `json:"qdisc"`
	Operstate string     `json:"operstate"`
	Group     string     `json:"group"`
	TxQLen    int        `json:"txqlen"`
	LinkType  string     `json:"link_type"`
	Address   string     `json:"address"`
	Broadcast string     `json:"broadcast"`
	AddrInfos []AddrInfo `json:"addr_info"`
}

type Addresses []Interface

func UnmarshalAddress(jsonAddrs []byte) (Addresses, error) {
	var addrs = Addresses{}

	err := json.Unmarshal(jsonAddrs, &addrs)
	if err != nil {
		return nil, err
	}

	return addrs, nil
}

// GetAddresses runs `ip -j addr show` and parses its output.
func GetAddresses(ctx context.Context) (Addresses, error) {
	ip, err := exec.LookPath("ip")
	if err != nil {
		return nil, err
	}
	cmd := exec.CommandContext(ctx, ip, "-j", "addr", "show")
	stdout, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to run %v: %w", cmd.Args, err)
	}
	addrs, err := UnmarshalAddress(stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	return addrs, nil
}

// FindByName returns the interface with the given name, or nil.
func (addrs Addresses) FindByName(name string) *Interface {
	for i := range addrs {
		if addrs[i].IfName == name {
			return &addrs[i]
		}
	}
	return nil
}
