package common

// Set at build time with -ldflags "-X tarediiran-industries.com/simrail-edr/internal/common.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
)
