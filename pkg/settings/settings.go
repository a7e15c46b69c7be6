// Package settings provides build metadata, per-run configuration and context
// helpers shared by the statelens command and its UI.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "statelens"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// EntryPointSettings records where the session document comes from. An empty Path
// means stdin.
type EntryPointSettings struct {
	FromAPI bool
	FromCli bool
	Path    string
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the settings of a single invocation.
type Run struct {
	MinLogLevel        int8
	LogFile            string
	EntryPointSettings EntryPointSettings

	// Inspector behaviour.
	Expanded  bool
	CanEdit   bool
	Highlight string
	Expand    []string
	Decode    bool
	Expr      string

	// Presentation.
	Interactive bool
	Snapshot    bool
	Width       int
	Height      int
	Theme       string
	ConfigFile  string

	// Write is the file the edited state is saved to on exit.
	Write string

	IsQuiet     bool
	NoColor     bool
	ExitOnError bool
}

// Source returns a display name for the input: the file path or "stdin".
func (r *Run) Source() string {
	if r == nil || r.EntryPointSettings.Path == "" {
		return "stdin"
	}
	return r.EntryPointSettings.Path
}

// NewCliParams returns the defaults used by the command line entry point.
func NewCliParams() *Run {
	return &Run{
		EntryPointSettings: EntryPointSettings{
			FromCli: true,
		},
		Expanded:    true,
		ExitOnError: true,
	}
}
