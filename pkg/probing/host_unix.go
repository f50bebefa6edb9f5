//go:build linux || darwin || freebsd

package probing

import "golang.org/x/sys/unix"

func kernelInfo() (release, machine string) {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return "", ""
	}
	return unix.ByteSliceToString(uname.Release[:]), unix.ByteSliceToString(uname.Machine[:])
}
