//go:build !unix

package client

import "runtime"

func hostOS() (name, release string) {
	return runtime.GOOS, "unknown"
}
