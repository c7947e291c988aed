package iproute2

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJson = `
[
   {
      "ifindex":1,
      "ifname":"lo",
      "flags":[
         "LOOPBACK",
         "UP",
         "LOWER_UP"
      ],
      "mtu":65536,
      "qdisc":"noqueue",
      "operstate":"UNKNOWN",
      "group":"default",
      "txqlen":1000,
      "link_type":"loopback",
      "address":"00:00:00:00:00:00",
      "broadcast":"00:00:00:00:00:00",
      "addr_info":[
         {
            "family":"inet",
            "local":"127.0.0.1",
            "prefixlen":8,
            "scope":"host",
            "label":"lo",
            "valid_life_time":4294967295,
            "preferred_life_time":4294967295
         },
         {
            "family":"inet6",
            "local":"::1",
            "prefixlen":128,
            "scope":"host",
            "valid_life_time":4294967295,
            "preferred_life_time":4294967295
         }
      ]
   },
   {
      "ifindex":2,
      "ifname":"enp1s0",
      "flags":[
         "BROADCAST",
         "MULTICAST",
         "UP",
         "LOWER_UP"
      ],
      "mtu":1500,
      "qdisc":"fq_codel",
      "operstate":"UP",
      "group":"default",
      "txqlen":1000,
      "link_type":"ether",
      "address":"52:54:00:c3:92:b6",
      "broadcast":"ff:ff:ff:ff:ff:ff",
      "addr_info":[
         {
            "family":"inet",
            "local":"192.168.1.155",
            "prefixlen":24,
            "broadcast":"192.168.1.255",
            "scope":"global",
            "label":"enp1s0",
            "valid_life_time":4294967295,
            "preferred_life_time":4294967295
         },
         {
            "family":"inet6",
            "local":"fe80::5054:ff:fec3:92b6",
            "prefixlen":64,
            "scope":"link",
            "valid_life_time":4294967295,
            "preferred_life_time":4294967295
         }
      ]
   },
   {
      "ifindex":71,
      "link_index":70,
      "ifname":"veth71db11e7",
      "flags":[
         "BROADCAST",
         "MULTICAST",
         "UP",
         "LOWER_UP"
      ],
      "mtu":1500,
      "qdisc":"noqueue",
      "master":"lxdbr0",
      "operstate":"UP",
      "group":"default",
      "txqlen":1000,
      "link_type":"ether",
      "address":"da:83:f0:97:c7:14",
      "broadcast":"ff:ff:ff:ff:ff:ff",
      "link_netnsid":0,
      "addr_info":[

      ]
   }
]
`

func TestUnmarshalAddress(t *testing.T) {
	addrs, err := UnmarshalAddress([]byte(testJson))
	require.NoError(t, err)
	require.Equal(t, 3, len(addrs))

	intf := addrs[1]
	assert.Equal(t, "UP", intf.Operstate)
	assert.Equal(t, "ether", intf.LinkType)
	assert.Equal(t, "fq_codel", intf.Qdisc)
	require.Equal(t, 2, len(intf.AddrInfos))

	addr := intf.AddrInfos[0]
	assert.Equal(t, "inet", addr.Family)
	assert.Equal(t, "192.168.1.155", addr.Local)
	addrIp, addrCidr, err := net.ParseCIDR(fmt.Sprintf("%s/%d", addr.Local, addr.PrefixLen))
	require.NoError(t, err)
	addrCidr.IP = addrIp
	assert.Equal(t, "192.168.1.155/24", addrCidr.String())

	addr2 := intf.AddrInfos[1]
	assert.Equal(t, "inet6", addr2.Family)
	assert.Equal(t, "fe80::5054:ff:fec3:92b6", addr2.Local)
}

func TestFindByName(t *testing.T) {
	addrs, err := UnmarshalAddress([]byte(testJson))
	require.NoError(t, err)

	lo := addrs.FindByName("lo")
	require.NotNil(t, lo)
	assert.Equal(t, 1, lo.IfIndex)
	assert.Equal(t, 2, len(lo.AddrInfos))

	assert.Nil(t, addrs.FindByName("eth9"))
}
