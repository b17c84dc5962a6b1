// Package config handles configuration for the monitor.
//
// Values are resolved in layers: built-in defaults, then an optional YAML
// file, then environment variables, with command-line flags applied last.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML files can use human-readable
// strings like "1s" or "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all monitor configuration.
type Config struct {
	// Address is the listen address of the exposition endpoint.
	Address string `yaml:"address"`

	// FIFOPath is the named pipe the selection message arrives on.
	FIFOPath string `yaml:"fifo_path"`

	// StatusFile receives one-line lifecycle status strings.
	StatusFile string `yaml:"status_file"`

	// StatusURL, when set, mirrors status events to an HTTP endpoint.
	StatusURL string `yaml:"status_url"`

	// MetricsFile receives the catalog listing on a list request.
	MetricsFile string `yaml:"metrics_file"`

	// CollectInterval is the sampling cadence.
	CollectInterval Duration `yaml:"collect_interval"`

	// ExpositionRequired controls whether a failure to start the HTTP
	// endpoint stops the run. When false the monitor keeps collecting
	// without exposition.
	ExpositionRequired bool `yaml:"exposition_required"`

	Probes ProbesConfig `yaml:"probes"`
}

// ProbesConfig holds kernel-interface locations used by the samplers.
type ProbesConfig struct {
	// NetworkInterface limits network counters to one interface.
	// Empty means all interfaces aggregated.
	NetworkInterface string `yaml:"network_interface"`

	// DiskMount is the mount point measured for disk usage.
	DiskMount string `yaml:"disk_mount"`

	// ProcPath is the procfs root, overridable in tests.
	ProcPath string `yaml:"proc_path"`

	// Sysfs sensor files. Empty paths disable the sysfs fallback and
	// let the sampler rely on autodetection where one exists.
	CPUTempPath        string `yaml:"cpu_temp_path"`
	BatteryVoltagePath string `yaml:"battery_voltage_path"`
	BatteryCurrentPath string `yaml:"battery_current_path"`
	CPUFreqPath        string `yaml:"cpu_freq_path"`
	CPUFanPath         string `yaml:"cpu_fan_path"`
	GPUFanPath         string `yaml:"gpu_fan_path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:            ":8000",
		FIFOPath:           "/tmp/monitor_fifo",
		StatusFile:         "/tmp/monitor_status",
		MetricsFile:        "/tmp/monitor_metrics",
		CollectInterval:    Duration{1 * time.Second},
		ExpositionRequired: true,
		Probes: ProbesConfig{
			DiskMount:          "/",
			ProcPath:           "/proc",
			BatteryVoltagePath: "/sys/class/hwmon/hwmon2/in0_input",
			BatteryCurrentPath: "/sys/class/hwmon/hwmon2/curr1_input",
			CPUFreqPath:        "/sys/devices/system/cpu/cpu0/cpufreq/scaling_cur_freq",
			CPUFanPath:         "/sys/class/hwmon/hwmon5/fan1_input",
			GPUFanPath:         "/sys/class/hwmon/hwmon5/fan2_input",
		},
	}
}

// LoadFromBytes parses YAML configuration and merges it with defaults,
// then applies environment variable overrides.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration from a YAML file and merges it with defaults.
// A missing file is not an error; defaults and environment overrides apply.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromBytes(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		return LoadFromBytes(nil)
	}
	return LoadFromBytes(data)
}

// NewConfig builds the configuration for the monitor binary: defaults,
// optional YAML file, environment, then command-line flags.
func NewConfig() (*Config, error) {
	configPath := flag.String("c", "", "path to YAML config file")
	address := flag.String("a", "", "listen address of the exposition endpoint")
	fifoPath := flag.String("f", "", "path to the selection fifo")
	statusFile := flag.String("s", "", "path to the status file")
	metricsFile := flag.String("m", "", "path to the metrics listing file")
	interval := flag.Duration("i", 0, "collect interval")
	flag.Parse()

	cfg, err := Load(*configPath)
	if err != nil {
		return nil, err
	}

	flagVars := map[string]*string{
		"a": address,
		"f": fifoPath,
		"s": statusFile,
		"m": metricsFile,
	}
	targets := map[string]*string{
		"a": &cfg.Address,
		"f": &cfg.FIFOPath,
		"s": &cfg.StatusFile,
		"m": &cfg.MetricsFile,
	}
	for name, value := range flagVars {
		if *value != "" {
			*targets[name] = *value
		}
	}
	if *interval > 0 {
		cfg.CollectInterval = Duration{*interval}
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variables onto the configuration.
func applyEnvOverrides(cfg *Config) error {
	envVars := map[string]*string{
		"ADDRESS":      &cfg.Address,
		"FIFO_PATH":    &cfg.FIFOPath,
		"STATUS_FILE":  &cfg.StatusFile,
		"STATUS_URL":   &cfg.StatusURL,
		"METRICS_FILE": &cfg.MetricsFile,
	}
	for envVar, target := range envVars {
		if envValue := os.Getenv(envVar); envValue != "" {
			*target = envValue
		}
	}

	if envInterval := os.Getenv("COLLECT_INTERVAL"); envInterval != "" {
		parsed, err := time.ParseDuration(envInterval)
		if err != nil {
			return fmt.Errorf("invalid COLLECT_INTERVAL value %q: %w", envInterval, err)
		}
		cfg.CollectInterval = Duration{parsed}
	}

	if envIface := os.Getenv("NETWORK_INTERFACE"); envIface != "" {
		cfg.Probes.NetworkInterface = envIface
	}
	return nil
}
