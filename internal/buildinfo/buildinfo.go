// Package buildinfo carries build-time metadata reported at startup.
package buildinfo

// Version is overridden at build time via
// -ldflags "-X github.com/dmitrijs2005/sftpwriter/internal/buildinfo.Version=...".
var Version = "dev"
