//go:build !linux

package thread

import (
	"errors"
	"runtime"
)

var errUnsupported = errors.New("cpu affinity not supported on " + runtime.GOOS)

func setAffinity(cpu int) error {
	return errUnsupported
}

// AllowedCPUs is not available off Linux.
func AllowedCPUs() ([]int, error) {
	return nil, errUnsupported
}
