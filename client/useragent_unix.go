//go:build unix

package client

import (
	"runtime"

	"golang.org/x/sys/unix"
)

func hostOS() (name, release string) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return runtime.GOOS, "unknown"
	}

	return unix.ByteSliceToString(uts.Sysname[:]), unix.ByteSliceToString(uts.Release[:])
}
