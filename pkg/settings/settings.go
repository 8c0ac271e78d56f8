// Package settings provides build metadata and per-run configuration shared
// by the whichcmd CLI and its internal packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "whichcmd"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds configuration for a single execution of the builder: logging,
// config file location, layout, and output behavior.
type Run struct {
	MinLogLevel int8
	ConfigPath  string
	Height      int
	NoColor     bool

	// PrintImmediateTag prefixes the output with the immediate marker when
	// the terminal node requests execution, so shell widgets can tell
	// "run this" from "insert this".
	PrintImmediateTag bool
}

// DefaultHeight is the content height of the TUI when no --height flag or
// terminal probe overrides it. Shell widgets reserve this many rows.
const DefaultHeight = 10

// ImmediateTag is prepended to stdout when --immediate is set and the
// finalized node requested execution. Shell widgets strip it and run the
// remainder instead of inserting it into the edit buffer.
const ImmediateTag = "__IMMEDIATE__"

// NewCliParams returns the default run parameters for CLI invocations.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel:       0,
		Height:            DefaultHeight,
		NoColor:           false,
		PrintImmediateTag: false,
	}
}
