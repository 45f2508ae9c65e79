package config

// Version is injected at build time via ldflags.
//
// Build with:
//
//	go build -ldflags "-X 'github.com/slipstream/tvrage/internal/config.Version=0.2'"
var Version = "0.1"
