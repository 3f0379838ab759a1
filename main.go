// Command zoomport lays ZOOM handheld recorder takes out on a session
// timeline: one track per recorder channel, one item per take file, every
// take's channels starting together.
package main

import "github.com/zjrosen/zoomport/cmd"

// Injected via -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cmd.Execute(version, commit)
}
