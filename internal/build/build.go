package build

import (
	"runtime"

	"github.com/loozhengyuan/grench/build"
)

const App = "djtmpl"

// Overridden at link time, e.g.
// -ldflags "-X github.com/loozhengyuan/djtmpl/internal/build.Version=v1.2.3".
var (
	Version    = "v0.0.0"
	CommitHash = "dev"
	Timestamp  = "1970-01-01T00:00:00Z"
)

func Info() build.Info {
	return build.Info{
		App:       App,
		System:    runtime.GOOS,
		Arch:      runtime.GOARCH,
		Version:   Version,
		Commit:    CommitHash,
		Timestamp: Timestamp,
	}
}
