// Package devinfo assembles the device_info bundle sent with registration.
package devinfo

import (
	"fmt"
	"os"
	"runtime"
)

// Version is stamped into the reported user agent.
const Version = "1.4.0"

// Info describes the registering device to the server.
type Info struct {
	UserAgent string
	Platform  string
	Hostname  string
}

// Collect gathers the device description for the current process.
func Collect() Info {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return Info{
		UserAgent: fmt.Sprintf("hotel-staff-agent/%s (%s; %s)", Version, runtime.GOOS, runtime.GOARCH),
		Platform:  classifyPlatform(runtime.GOOS),
		Hostname:  hostname,
	}
}

// classifyPlatform folds operating systems into the three client classes the
// service distinguishes.
func classifyPlatform(goos string) string {
	switch goos {
	case "android":
		return "android"
	case "ios":
		return "ios"
	default:
		return "desktop"
	}
}
