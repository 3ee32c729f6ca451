package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Track   bool
	Resolve bool
	Live    bool
	Watch   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Track = boolEnv("ATTACH_DEBUG_TRACK")
	d.Resolve = boolEnv("ATTACH_DEBUG_RESOLVE")
	d.Live = boolEnv("ATTACH_DEBUG_LIVE")
	d.Watch = boolEnv("ATTACH_DEBUG_WATCH")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Track() bool {
	return d.Track
}
func Resolve() bool {
	return d.Resolve
}
func Live() bool {
	return d.Live
}
func Watch() bool {
	return d.Watch
}
