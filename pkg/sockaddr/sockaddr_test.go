package sockaddr

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestFromBytesSockaddr4(t *testing.T) {
	buf := make([]byte, unix.SizeofSockaddrInet4)
	endian.PutUint16(buf[0:2], unix.AF_INET)
	binary.BigEndian.PutUint16(buf[2:4], 8080)
	copy(buf[4:8], []byte{127, 0, 0, 1})

	sa, err := FromBytes(buf)
	require.NoError(t, err)
	assert.True(t, sa.Is4())
	assert.Equal(t, "127.0.0.1", sa.IP.String())
	assert.Equal(t, uint16(8080), sa.Port)
	assert.Equal(t, "127.0.0.1:8080", sa.String())
}

func TestFromBytesSockaddr6(t *testing.T) {
	buf := make([]byte, unix.SizeofSockaddrInet6)
	endian.PutUint16(buf[0:2], unix.AF_INET6)
	binary.BigEndian.PutUint16(buf[2:4], 443)
	buf[23] = 1 // ::1, flowinfo and scope id left zero-filled

	sa, err := FromBytes(buf)
	require.NoError(t, err)
	assert.True(t, sa.Is6())
	assert.Equal(t, "::1", sa.IP.String())
	assert.Equal(t, uint16(443), sa.Port)
	assert.Equal(t, uint32(0), sa.Flowinfo)
	assert.Equal(t, uint32(0), sa.ScopeID)
}

func TestFromBytesShortBuffer(t *testing.T) {
	buf := make([]byte, unix.SizeofSockaddrInet4)
	endian.PutUint16(buf[0:2], unix.AF_INET)

	for _, n := range []int{0, 1, 2, 4, unix.SizeofSockaddrInet4 - 1} {
		_, err := FromBytes(buf[:n])
		assert.ErrorIs(t, err, ErrInvalidAddressLength, "length %d", n)
	}
}

func TestFromBytesUnsupportedFamily(t *testing.T) {
	for _, family := range []uint16{unix.AF_UNIX, unix.AF_PACKET, unix.AF_NETLINK} {
		buf := make([]byte, unix.SizeofSockaddrAny)
		endian.PutUint16(buf[0:2], family)

		_, err := FromBytes(buf)
		assert.ErrorIs(t, err, ErrFamilyNotSupported, "family %d", family)
	}
}

func TestSerializeDeserializeSockaddr4(t *testing.T) {
	sa := Sockaddr{
		Family: unix.AF_INET,
		IP:     net.ParseIP("192.168.1.100"),
		Port:   12345,
	}

	saBytes, err := sa.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, unix.SizeofSockaddrInet4, len(saBytes))

	sa2, err := FromBytes(saBytes)
	require.NoError(t, err)
	assert.Equal(t, sa.IP.String(), sa2.IP.String())
	assert.Equal(t, sa.Port, sa2.Port)
}

func TestSerializeDeserializeSockaddr6(t *testing.T) {
	sa := Sockaddr{
		Family:   unix.AF_INET6,
		IP:       net.ParseIP("2001:0db8::1:0:0:1"),
		Port:     12345,
		Flowinfo: 0x12345678,
		ScopeID:  0x9abcdef0,
	}

	saBytes, err := sa.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, unix.SizeofSockaddrInet6, len(saBytes))

	sa2, err := FromBytes(saBytes)
	require.NoError(t, err)
	assert.Equal(t, sa.IP.String(), sa2.IP.String())
	assert.Equal(t, sa.Port, sa2.Port)
	assert.Equal(t, sa.Flowinfo, sa2.Flowinfo)
	assert.Equal(t, sa.ScopeID, sa2.ScopeID)
}
