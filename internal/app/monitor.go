package app

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"
)

// ProcessStats is the latest resource snapshot of the service.
type ProcessStats struct {
	CPUPercent       float64   `json:"cpu_percent"`
	RSSMB            uint64    `json:"rss_mb"`
	Goroutines       int       `json:"goroutines"`
	SystemCPUPercent float64   `json:"system_cpu_percent"`
	SystemMemPercent float64   `json:"system_mem_percent"`
	CollectedAt      time.Time `json:"collected_at"`
}

type processMonitor struct {
	mu   sync.RWMutex
	last ProcessStats
}

// SchedProcessMonitorTask samples process and host usage.
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	st := ProcessStats{Goroutines: runtime.NumGoroutine(), CollectedAt: time.Now()}

	if p, err := process.NewProcess(int32(os.Getpid())); err == nil { //nolint:gosec // pid fits in int32
		if v, err := p.CPUPercent(); err == nil {
			st.CPUPercent = v
		}
		if m, err := p.MemoryInfo(); err == nil {
			st.RSSMB = m.RSS / 1024 / 1024
		}
	}
	if v, err := cpu.Percent(0, false); err == nil && len(v) > 0 {
		st.SystemCPUPercent = v[0]
	}
	if m, err := mem.VirtualMemory(); err == nil {
		st.SystemMemPercent = m.UsedPercent
	}

	a.monitor.mu.Lock()
	a.monitor.last = st
	a.monitor.mu.Unlock()

	zap.L().Debug("process stats",
		zap.Float64("cpu", st.CPUPercent),
		zap.Uint64("rss_mb", st.RSSMB),
		zap.Int("goroutines", st.Goroutines))
}

// ProcessStats returns the last sample; CollectedAt is zero before the
// first run.
func (a *Application) ProcessStats() ProcessStats {
	a.monitor.mu.RLock()
	defer a.monitor.mu.RUnlock()
	return a.monitor.last
}
