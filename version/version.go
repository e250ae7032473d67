package version

// Version is overridden at build time with -ldflags "-X worktrack/version.Version=...".
var Version = "dev"
