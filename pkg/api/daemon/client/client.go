// This code is copied from https://github.com/rootless-containers/rootlesskit/blob/master/pkg/api/client/client.go v0.14.6
// The code is licensed under Apache-2.0

// Package client talks to the ifaddrsd API over its UNIX socket.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"

	"github.com/net-utils/ifaddrs/pkg/api"
)

type Client interface {
	HTTPClient() *http.Client
	HostQuery() *HostQuery
}

// New creates a client.
// socketPath is a path to the UNIX socket, without unix:// prefix.
func New(socketPath string) (Client, error) {
	if _, err := os.Stat(socketPath); err != nil {
		return nil, err
	}
	hc := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", socketPath)
			},
		},
	}
	return NewWithHTTPClient(hc), nil
}

func NewWithHTTPClient(hc *http.Client) Client {
	return &client{
		Client:    hc,
		version:   "v1",
		dummyHost: "ifaddrsd",
	}
}

type client struct {
	*http.Client
	// version is always "v1"
	version   string
	dummyHost string
}

func (c *client) HTTPClient() *http.Client {
	return c.Client
}

func (c *client) HostQuery() *HostQuery {
	return &HostQuery{
		client: c,
	}
}

func readAtMost(r io.Reader, maxBytes int) ([]byte, error) {
	lr := &io.LimitedReader{
		R: r,
		N: int64(maxBytes),
	}
	b, err := io.ReadAll(lr)
	if err != nil {
		return b, err
	}
	if lr.N == 0 {
		return b, fmt.Errorf("expected at most %d bytes, got more", maxBytes)
	}
	return b, nil
}

// HTTPStatusErrorBodyMaxLength specifies the maximum length of HTTPStatusError.Body
const HTTPStatusErrorBodyMaxLength = 64 * 1024

// HTTPStatusError is created from non-2XX HTTP response
type HTTPStatusError struct {
	// StatusCode is non-2XX status code
	StatusCode int
	// Body is at most HTTPStatusErrorBodyMaxLength
	Body string
}

// Error implements error.
// If e.Body is a marshalled string of api.ErrorJSON, Error returns ErrorJSON.Message .
// Otherwise Error returns a human-readable string that contains e.StatusCode and e.Body.
func (e *HTTPStatusError) Error() string {
	if e.Body != "" && len(e.Body) < HTTPStatusErrorBodyMaxLength {
		var ej api.ErrorJSON
		if json.Unmarshal([]byte(e.Body), &ej) == nil {
			return ej.Message
		}
	}
	return fmt.Sprintf("unexpected HTTP status %s, body=%q", http.StatusText(e.StatusCode), e.Body)
}

func successful(resp *http.Response) error {
	if resp == nil {
		return errors.New("nil response")
	}
	if resp.StatusCode/100 != 2 {
		b, _ := readAtMost(resp.Body, HTTPStatusErrorBodyMaxLength)
		return &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(b),
		}
	}
	return nil
}

// HostQuery wraps the interface and resolver endpoints.
type HostQuery struct {
	*client
}

func (hq *HostQuery) get(ctx context.Context, path string, out interface{}) error {
	u := fmt.Sprintf("http://%s/%s%s", hq.client.dummyHost, hq.client.version, path)
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return err
	}
	req = req.WithContext(ctx)
	resp, err := hq.client.HTTPClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := successful(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ListInterfaces fetches the full interface snapshot.
func (hq *HostQuery) ListInterfaces(ctx context.Context) ([]api.Interface, error) {
	var ifs []api.Interface
	if err := hq.get(ctx, "/interfaces", &ifs); err != nil {
		return nil, err
	}
	return ifs, nil
}

// GetInterface fetches a single interface by name.
func (hq *HostQuery) GetInterface(ctx context.Context, name string) (*api.Interface, error) {
	var ifi api.Interface
	if err := hq.get(ctx, "/interfaces/"+name, &ifi); err != nil {
		return nil, err
	}
	return &ifi, nil
}

// ResolveName maps an interface name to its index.
func (hq *HostQuery) ResolveName(ctx context.Context, name string) (*api.ResolveResult, error) {
	var res api.ResolveResult
	if err := hq.get(ctx, "/resolve/name/"+name, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ResolveIndex maps an interface index to its name.
func (hq *HostQuery) ResolveIndex(ctx context.Context, index uint32) (*api.ResolveResult, error) {
	var res api.ResolveResult
	if err := hq.get(ctx, fmt.Sprintf("/resolve/index/%d", index), &res); err != nil {
		return nil, err
	}
	return &res, nil
}
