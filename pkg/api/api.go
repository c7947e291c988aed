package api

// Interface is the wire form of one enumerated network interface.
type Interface struct {
	Name      string `json:"name"`
	Index     uint32 `json:"index"`
	Flags     uint32 `json:"flags"`
	Up        bool   `json:"up"`
	Loopback  bool   `json:"loopback"`
	Multicast bool   `json:"multicast"`
	Addrs     []Addr `json:"addrs"`
}

// Addr is one address configuration of an interface. Optional fields
// are omitted when the OS did not report them.
type Addr struct {
	IP        string `json:"ip"`
	Netmask   string `json:"netmask,omitempty"`
	Broadcast string `json:"broadcast,omitempty"`
	Peer      string `json:"peer,omitempty"`
}

// ResolveResult is the answer to a name or index lookup.
type ResolveResult struct {
	Name  string `json:"name"`
	Index uint32 `json:"index"`
}

type ErrorJSON struct {
	Message string `json:"message"`
}
