package transport

// ServerName is the implementation name reported to MCP clients.
const ServerName = "easy-fixture-scrubber"

// Version is the current build version, injected at build time via ldflags:
//
//	-X github.com/Easy-Infra-Ltd/easy-fixture-scrubber/src/transport.Version=<tag>
//
// Defaults to "dev" when built without ldflags (local development).
var Version = "dev"
