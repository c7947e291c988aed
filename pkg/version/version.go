package version

// Version is expected to be set at build time:
// go build -ldflags "-X github.com/net-utils/ifaddrs/pkg/version.Version=v0.1.0"
var Version = "v0.0.0-unknown"
