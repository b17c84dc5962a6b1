// Package sampler implements the probes behind the metric catalog.
//
// Most probes ride gopsutil; the rest read procfs and sysfs directly.
// One probe may feed several catalog entries (network counters, memory
// breakdowns, process states), mirroring how the kernel exposes the data.
package sampler

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	gopsnet "github.com/shirou/gopsutil/v4/net"

	"github.com/hostpulse/monitor/internal/catalog"
	"github.com/hostpulse/monitor/internal/config"
)

const bytesPerMB = 1024 * 1024

// DefaultCatalog builds the full metric catalog wired to real probes.
func DefaultCatalog(cfg config.ProbesConfig) (*catalog.Catalog, error) {
	network := catalog.SamplerFunc(networkProbe(cfg.NetworkInterface))
	diskIO := catalog.SamplerFunc(diskStatsProbe())
	memory := catalog.SamplerFunc(memoryProbe())
	procStates := catalog.SamplerFunc(processStatesProbe(cfg.ProcPath))

	return catalog.New([]catalog.Entry{
		{Name: "rx_bytes_total", Help: "Total received bytes", Sampler: network},
		{Name: "tx_bytes_total", Help: "Total transmitted bytes", Sampler: network},
		{Name: "rx_errors_total", Help: "Total receive errors", Sampler: network},
		{Name: "tx_errors_total", Help: "Total transmit errors", Sampler: network},
		{Name: "dropped_packets_total", Help: "Total dropped packets", Sampler: network},
		{Name: "io_time_ms", Help: "Time spent on I/O in milliseconds", Sampler: diskIO},
		{Name: "writes_completed_total", Help: "Total writes completed", Sampler: diskIO},
		{Name: "reads_completed_total", Help: "Total reads completed", Sampler: diskIO},
		{Name: "total_memory_mb", Help: "Total memory in MB", Sampler: memory},
		{Name: "used_memory_mb", Help: "Used memory in MB", Sampler: memory},
		{Name: "available_memory_mb", Help: "Available memory in MB", Sampler: memory},
		{Name: "context_switches", Help: "Context switches", Sampler: catalog.SingleSampler("context_switches", contextSwitches)},
		{Name: "cpu_usage_percentage", Help: "CPU usage in percentage", Sampler: catalog.SingleSampler("cpu_usage_percentage", cpuUsage)},
		{Name: "memory_usage_percentage", Help: "Memory usage in percentage", Sampler: catalog.SingleSampler("memory_usage_percentage", memoryUsage)},
		{Name: "disk_usage_percentage", Help: "Disk usage in percentage", Sampler: catalog.SingleSampler("disk_usage_percentage", diskUsage(cfg.DiskMount))},
		{Name: "running_processes_total", Help: "Total running processes", Sampler: catalog.SingleSampler("running_processes_total", runningProcesses)},
		{Name: "cpu_temperature_celsius", Help: "CPU temperature in Celsius", Sampler: catalog.SingleSampler("cpu_temperature_celsius", cpuTemperature(cfg.CPUTempPath))},
		{Name: "battery_voltage_volts", Help: "Battery voltage in volts", Sampler: catalog.SingleSampler("battery_voltage_volts", sysfsReader(cfg.BatteryVoltagePath, 1000))},
		{Name: "battery_current_amperes", Help: "Battery current in amperes", Sampler: catalog.SingleSampler("battery_current_amperes", sysfsReader(cfg.BatteryCurrentPath, 1000))},
		{Name: "cpu_frequency_megahertz", Help: "CPU frequency in MHz", Sampler: catalog.SingleSampler("cpu_frequency_megahertz", sysfsReader(cfg.CPUFreqPath, 1000))},
		{Name: "cpu_fan_speed_rpm", Help: "CPU fan speed in RPM", Sampler: catalog.SingleSampler("cpu_fan_speed_rpm", sysfsReader(cfg.CPUFanPath, 1))},
		{Name: "gpu_fan_speed_rpm", Help: "GPU fan speed in RPM", Sampler: catalog.SingleSampler("gpu_fan_speed_rpm", sysfsReader(cfg.GPUFanPath, 1))},
		{Name: "total_processes", Help: "Total number of processes", Sampler: procStates},
		{Name: "suspended_processes", Help: "Suspended processes", Sampler: procStates},
		{Name: "ready_processes", Help: "Ready processes", Sampler: procStates},
		{Name: "blocked_processes", Help: "Blocked processes", Sampler: procStates},
	})
}

// networkProbe reads interface counters. An empty iface aggregates all
// interfaces; otherwise only the named one is reported.
func networkProbe(iface string) func() (map[string]float64, error) {
	return func() (map[string]float64, error) {
		pernic := iface != ""
		counters, err := gopsnet.IOCounters(pernic)
		if err != nil {
			return nil, fmt.Errorf("reading network counters: %w", err)
		}
		for _, c := range counters {
			if pernic && c.Name != iface {
				continue
			}
			return map[string]float64{
				"rx_bytes_total":        float64(c.BytesRecv),
				"tx_bytes_total":        float64(c.BytesSent),
				"rx_errors_total":       float64(c.Errin),
				"tx_errors_total":       float64(c.Errout),
				"dropped_packets_total": float64(c.Dropin + c.Dropout),
			}, nil
		}
		return nil, fmt.Errorf("network interface %q not found", iface)
	}
}

// diskStatsProbe sums I/O counters over all block devices, matching the
// whole-table aggregation of /proc/diskstats.
func diskStatsProbe() func() (map[string]float64, error) {
	return func() (map[string]float64, error) {
		counters, err := disk.IOCounters()
		if err != nil {
			return nil, fmt.Errorf("reading disk counters: %w", err)
		}
		var ioTime, writes, reads uint64
		for _, c := range counters {
			ioTime += c.IoTime
			writes += c.WriteCount
			reads += c.ReadCount
		}
		return map[string]float64{
			"io_time_ms":             float64(ioTime),
			"writes_completed_total": float64(writes),
			"reads_completed_total":  float64(reads),
		}, nil
	}
}

func memoryProbe() func() (map[string]float64, error) {
	return func() (map[string]float64, error) {
		vm, err := mem.VirtualMemory()
		if err != nil {
			return nil, fmt.Errorf("reading memory stats: %w", err)
		}
		return map[string]float64{
			"total_memory_mb":     float64(vm.Total) / bytesPerMB,
			"used_memory_mb":      float64(vm.Used) / bytesPerMB,
			"available_memory_mb": float64(vm.Available) / bytesPerMB,
		}, nil
	}
}

// cpuUsage reports utilization since the previous call, so the first
// sample of a run covers the interval from process start.
func cpuUsage() (float64, error) {
	percents, err := cpu.Percent(0, false)
	if err != nil {
		return 0, fmt.Errorf("reading cpu usage: %w", err)
	}
	if len(percents) == 0 {
		return 0, fmt.Errorf("no cpu usage reading available")
	}
	return percents[0], nil
}

func memoryUsage() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("reading memory stats: %w", err)
	}
	return vm.UsedPercent, nil
}

func diskUsage(mount string) func() (float64, error) {
	return func() (float64, error) {
		usage, err := disk.Usage(mount)
		if err != nil {
			return 0, fmt.Errorf("reading disk usage for %s: %w", mount, err)
		}
		return usage.UsedPercent, nil
	}
}

func contextSwitches() (float64, error) {
	misc, err := load.Misc()
	if err != nil {
		return 0, fmt.Errorf("reading kernel counters: %w", err)
	}
	return float64(misc.Ctxt), nil
}

func runningProcesses() (float64, error) {
	misc, err := load.Misc()
	if err != nil {
		return 0, fmt.Errorf("reading kernel counters: %w", err)
	}
	return float64(misc.ProcsRunning), nil
}
