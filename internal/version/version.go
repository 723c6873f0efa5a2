package version

import "runtime/debug"

// Version is the leavebot release string, normally injected with
// -ldflags at build time. When left unset it falls back to the module
// version recorded by go install.
var Version = "dev"

func init() {
	if Version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}
