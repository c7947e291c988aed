package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/net-utils/ifaddrs/pkg/api"
	"github.com/net-utils/ifaddrs/pkg/api/daemon/client"
	"github.com/net-utils/ifaddrs/pkg/ifaddrs"
	"github.com/net-utils/ifaddrs/pkg/ifindex"
	pkgversion "github.com/net-utils/ifaddrs/pkg/version"
)

var (
	socketFile   string
	resolveName  string
	resolveIndex uint32
)

func main() {
	flag.StringVar(&socketFile, "socket", "", "Query a running ifaddrsd on this socket instead of the local host")
	flag.StringVar(&resolveName, "resolve-name", "", "Resolve an interface name to its index and exit")
	flag.Uint32Var(&resolveIndex, "resolve-index", 0, "Resolve an interface index to its name and exit")
	jsonOut := flag.Bool("json", false, "Output JSON")
	version := flag.Bool("version", false, "Show version")

	// Parse arguments
	flag.Parse()
	if flag.NArg() > 0 {
		flag.PrintDefaults()
		logrus.Fatal("Invalid command")
	}

	if *version {
		fmt.Printf("ifaddrs version %s\n", strings.TrimPrefix(pkgversion.Version, "v"))
		os.Exit(0)
	}

	if resolveName != "" || resolveIndex != 0 {
		res, err := resolve()
		if err != nil {
			logrus.Fatalf("resolve failed: %s", err)
		}
		printResult(res, *jsonOut)
		return
	}

	ifs, err := listInterfaces()
	if err != nil {
		logrus.Fatalf("cannot list interfaces: %s", err)
	}
	if *jsonOut {
		printJSON(ifs)
		return
	}
	for _, ifi := range ifs {
		printInterface(ifi)
	}
}

func listInterfaces() ([]api.Interface, error) {
	if socketFile != "" {
		c, err := client.New(socketFile)
		if err != nil {
			return nil, err
		}
		return c.HostQuery().ListInterfaces(context.Background())
	}
	ifs, err := ifaddrs.List()
	if err != nil {
		return nil, err
	}
	out := make([]api.Interface, 0, len(ifs))
	for _, ifi := range ifs {
		out = append(out, api.NewInterface(ifi))
	}
	return out, nil
}

func resolve() (*api.ResolveResult, error) {
	if socketFile != "" {
		c, err := client.New(socketFile)
		if err != nil {
			return nil, err
		}
		hq := c.HostQuery()
		if resolveName != "" {
			return hq.ResolveName(context.Background(), resolveName)
		}
		return hq.ResolveIndex(context.Background(), resolveIndex)
	}
	if resolveName != "" {
		index, err := ifindex.NameToIndex(resolveName)
		if err != nil {
			return nil, err
		}
		return &api.ResolveResult{Name: resolveName, Index: index}, nil
	}
	name, err := ifindex.IndexToName(resolveIndex)
	if err != nil {
		return nil, err
	}
	return &api.ResolveResult{Name: name, Index: resolveIndex}, nil
}

func printResult(res *api.ResolveResult, jsonOut bool) {
	if jsonOut {
		printJSON(res)
		return
	}
	fmt.Printf("%s %d\n", res.Name, res.Index)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logrus.Fatalf("cannot encode output: %s", err)
	}
}

func printInterface(ifi api.Interface) {
	var attrs []string
	if ifi.Up {
		attrs = append(attrs, "up")
	}
	if ifi.Loopback {
		attrs = append(attrs, "loopback")
	}
	if ifi.Multicast {
		attrs = append(attrs, "multicast")
	}
	fmt.Printf("%s: index=%d <%s>\n", ifi.Name, ifi.Index, strings.Join(attrs, ","))
	for _, a := range ifi.Addrs {
		line := "    " + a.IP
		if a.Netmask != "" {
			line += " netmask " + a.Netmask
		}
		if a.Broadcast != "" {
			line += " broadcast " + a.Broadcast
		}
		if a.Peer != "" {
			line += " peer " + a.Peer
		}
		fmt.Println(line)
	}
}
