package router

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/net-utils/ifaddrs/pkg/api"
	"github.com/net-utils/ifaddrs/pkg/ifaddrs"
	"github.com/net-utils/ifaddrs/pkg/ifindex"
	"github.com/net-utils/ifaddrs/pkg/sockaddr"
)

type stubQuerier struct {
	ifs []ifaddrs.Interface
}

func (s stubQuerier) ListInterfaces() ([]ifaddrs.Interface, error) {
	return s.ifs, nil
}

func (s stubQuerier) NameToIndex(name string) (uint32, error) {
	for _, ifi := range s.ifs {
		if ifi.Name == name {
			return ifi.Index, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", name, ifindex.ErrNotFound)
}

func (s stubQuerier) IndexToName(index uint32) (string, error) {
	for _, ifi := range s.ifs {
		if ifi.Index == index {
			return ifi.Name, nil
		}
	}
	return "", fmt.Errorf("index %d: %w", index, ifindex.ErrNotFound)
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	lo := ifaddrs.Interface{
		Name:  "lo",
		Index: 1,
		Flags: unix.IFF_UP | unix.IFF_LOOPBACK,
		Addrs: []ifaddrs.Addr{
			{
				Addr:    &sockaddr.Sockaddr{Family: unix.AF_INET, IP: net.IPv4(127, 0, 0, 1).To4()},
				Netmask: &sockaddr.Sockaddr{Family: unix.AF_INET, IP: net.IPv4(255, 0, 0, 0).To4()},
			},
		},
	}
	r := mux.NewRouter()
	AddRoutes(r, &Backend{Querier: stubQuerier{ifs: []ifaddrs.Interface{lo}}})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestGetInterfaces(t *testing.T) {
	srv := testServer(t)

	var ifs []api.Interface
	code := getJSON(t, srv.URL+"/v1/interfaces", &ifs)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, ifs, 1)
	assert.Equal(t, "lo", ifs[0].Name)
	assert.Equal(t, uint32(1), ifs[0].Index)
	assert.True(t, ifs[0].Up)
	assert.True(t, ifs[0].Loopback)
	require.Len(t, ifs[0].Addrs, 1)
	assert.Equal(t, "127.0.0.1", ifs[0].Addrs[0].IP)
	assert.Equal(t, "255.0.0.0", ifs[0].Addrs[0].Netmask)
}

func TestGetInterfaceByName(t *testing.T) {
	srv := testServer(t)

	var ifi api.Interface
	code := getJSON(t, srv.URL+"/v1/interfaces/lo", &ifi)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "lo", ifi.Name)

	code = getJSON(t, srv.URL+"/v1/interfaces/eth9", &ifi)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestResolveName(t *testing.T) {
	srv := testServer(t)

	var res api.ResolveResult
	code := getJSON(t, srv.URL+"/v1/resolve/name/lo", &res)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, uint32(1), res.Index)

	code = getJSON(t, srv.URL+"/v1/resolve/name/eth9", &res)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestResolveIndex(t *testing.T) {
	srv := testServer(t)

	var res api.ResolveResult
	code := getJSON(t, srv.URL+"/v1/resolve/index/1", &res)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "lo", res.Name)

	code = getJSON(t, srv.URL+"/v1/resolve/index/42", &res)
	assert.Equal(t, http.StatusNotFound, code)

	code = getJSON(t, srv.URL+"/v1/resolve/index/notanumber", &res)
	assert.Equal(t, http.StatusBadRequest, code)
}
