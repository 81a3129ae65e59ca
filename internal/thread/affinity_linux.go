//go:build linux

package thread

import (
	"golang.org/x/sys/unix"
)

// setAffinity pins the calling OS thread to cpu.
func setAffinity(cpu int) error {
	if cpu < 0 {
		return unix.EINVAL
	}
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	// pid 0 is the calling thread
	return unix.SchedSetaffinity(0, &set)
}

// AllowedCPUs returns the CPUs the current thread may run on.
func AllowedCPUs() ([]int, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return nil, err
	}
	var cpus []int
	for i := 0; len(cpus) < set.Count(); i++ {
		if set.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus, nil
}
