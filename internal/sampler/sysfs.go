package sampler

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/sensors"

	internalerrors "github.com/hostpulse/monitor/internal/errors"
)

// sysfsReader reads a single integer from a sysfs file and divides it by
// scale. Hwmon files report millidegrees, millivolts and kHz; fan inputs
// are plain RPM (scale 1).
func sysfsReader(path string, scale float64) func() (float64, error) {
	return func() (float64, error) {
		if path == "" {
			return 0, internalerrors.ErrSensorUnavailable
		}
		raw, err := readSysfsValue(path)
		if err != nil {
			return 0, err
		}
		return raw / scale, nil
	}
}

func readSysfsValue(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", internalerrors.ErrSensorUnavailable, path)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return value, nil
}

// cpuTempSensorKeys are hwmon sensor names commonly carrying the package
// temperature, in preference order.
var cpuTempSensorKeys = []string{"coretemp", "k10temp", "cpu_thermal", "acpitz"}

// cpuTemperature prefers an explicitly configured sysfs file and falls
// back to hwmon autodetection.
func cpuTemperature(path string) func() (float64, error) {
	return func() (float64, error) {
		if path != "" {
			return sysfsReader(path, 1000)()
		}
		readings, err := sensors.SensorsTemperatures()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", internalerrors.ErrSensorUnavailable, err)
		}
		for _, key := range cpuTempSensorKeys {
			for _, r := range readings {
				if strings.Contains(r.SensorKey, key) {
					return r.Temperature, nil
				}
			}
		}
		if len(readings) > 0 {
			return readings[0].Temperature, nil
		}
		return 0, internalerrors.ErrSensorUnavailable
	}
}
