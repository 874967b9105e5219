// Package buildinfo provides build information for VoltKV.
//
// Version, commit, and build time are injected at build time via
// ldflags and exposed through Get() and the version CLI flags.
package buildinfo
