/*
vcdplayer - A playback engine for Video CD and Super Video CD disc images.
*/
package main

import (
	"github.com/hansbonini/vcdplayer/cmd"
)

// Version information (injected at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cmd.SetVersion(Version, BuildTime, GitCommit)
	cmd.Execute()
}
