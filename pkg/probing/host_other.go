//go:build !linux && !darwin && !freebsd

package probing

func kernelInfo() (release, machine string) { return "", "" }
