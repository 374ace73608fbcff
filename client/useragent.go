package client

import "fmt"

// UserAgent describes this client and the host it runs on as
// "requests/<version> <os-name>/<os-release>", e.g.
// "requests/0.1 Linux/6.8.0-45-generic".
// POST and PUT requests carry it unless overridden via [WithUserAgent].
func UserAgent() string {
	name, release := hostOS()
	return fmt.Sprintf("%s/%s %s/%s", Product, Version, name, release)
}
