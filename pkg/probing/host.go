package probing

import (
	"os"
	"runtime"
)

// Host describes the machine the dashboard is running on.
type Host struct {
	Hostname    string `json:"hostname"`
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	Kernel      string `json:"kernel,omitempty"`
	Machine     string `json:"machine,omitempty"`
	LogicalCPUs int    `json:"logical_cpus"`
}

// HostInfo collects static host identification. It never fails; fields the
// platform can't provide are left empty.
func HostInfo() Host {
	h := Host{
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		LogicalCPUs: runtime.NumCPU(),
	}
	if name, err := os.Hostname(); err == nil {
		h.Hostname = name
	} else {
		h.Hostname = "unknown"
	}
	h.Kernel, h.Machine = kernelInfo()
	return h
}
