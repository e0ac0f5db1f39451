package system

import (
	"os"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a point-in-time view of process and host memory.
type Stats struct {
	ProcessRSS    uint64
	HostTotal     uint64
	HostAvailable uint64
	HostUsedPct   float64
	LogicalCPUs   int
}

// Snapshot collects Stats. Fields that cannot be read on this platform stay zero;
// the error reports the first failure.
func Snapshot() (Stats, error) {
	s := Stats{LogicalCPUs: DefaultWorkers()}
	var firstErr error

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			s.ProcessRSS = mi.RSS
		} else {
			firstErr = err
		}
	} else {
		firstErr = err
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		s.HostTotal = vm.Total
		s.HostAvailable = vm.Available
		s.HostUsedPct = vm.UsedPercent
	} else if firstErr == nil {
		firstErr = err
	}

	return s, firstErr
}
