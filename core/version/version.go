package version

// Version is set at build time with -ldflags "-X github.com/c12i/scaffolding/core/version.Version=...".
var Version = "dev"
