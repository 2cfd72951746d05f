package services

import (
	"nigraan/internal/models"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

const gb = 1024 * 1024 * 1024

// GetHostStatus reports the health of the machine running the backend, for
// the dashboard's status panel.
func GetHostStatus() (*models.HostStatus, error) {
	percentage, err := cpu.Percent(0, false)
	if err != nil {
		return nil, err
	}

	virtualMemory, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}

	uptime, err := host.Uptime()
	if err != nil {
		uptime = 0
	}

	return &models.HostStatus{
		CPUPercent:    percentage[0],
		MemoryUsedGB:  float64(virtualMemory.Used) / gb,
		MemoryTotalGB: float64(virtualMemory.Total) / gb,
		MemoryPercent: virtualMemory.UsedPercent,
		UptimeSeconds: uptime,
	}, nil
}
