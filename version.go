package graft

// Version is the release of the module. It is overridden at build time with
// -ldflags "-X github.com/aretw0/graft.Version=...".
var Version = "0.1.0"
