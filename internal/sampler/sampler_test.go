package sampler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostpulse/monitor/internal/config"
	internalerrors "github.com/hostpulse/monitor/internal/errors"
)

func TestDefaultCatalogContents(t *testing.T) {
	cat, err := DefaultCatalog(config.DefaultConfig().Probes)
	require.NoError(t, err)

	assert.Equal(t, 26, cat.Len())

	// A few spot checks on names and help strings.
	entry, ok := cat.Lookup("cpu_usage_percentage")
	require.True(t, ok)
	assert.Equal(t, "CPU usage in percentage", entry.Help)

	_, ok = cat.Lookup("no_such_metric")
	assert.False(t, ok)
}

func TestDefaultCatalogSharedSamplers(t *testing.T) {
	cat, err := DefaultCatalog(config.DefaultConfig().Probes)
	require.NoError(t, err)

	sampler := func(name string) interface{} {
		entry, ok := cat.Lookup(name)
		require.True(t, ok)
		return entry.Sampler
	}

	// Entries fed by one kernel interface share one sampler so the probe
	// runs once per cycle.
	assert.Same(t, sampler("rx_bytes_total"), sampler("tx_bytes_total"))
	assert.Same(t, sampler("rx_bytes_total"), sampler("dropped_packets_total"))
	assert.Same(t, sampler("io_time_ms"), sampler("reads_completed_total"))
	assert.Same(t, sampler("total_memory_mb"), sampler("available_memory_mb"))
	assert.Same(t, sampler("total_processes"), sampler("blocked_processes"))

	assert.NotSame(t, sampler("cpu_usage_percentage"), sampler("memory_usage_percentage"))
}

func writeProcStat(t *testing.T, root, pid, comm string, state byte) {
	t.Helper()
	dir := filepath.Join(root, pid)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	line := pid + " (" + comm + ") " + string(state) + " 1 1 1 0 -1 4194304 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stat"), []byte(line), 0o644))
}

func TestProcessStatesProbe(t *testing.T) {
	root := t.TempDir()
	writeProcStat(t, root, "1", "init", 'S')
	writeProcStat(t, root, "2", "kthreadd", 'S')
	writeProcStat(t, root, "42", "worker", 'R')
	writeProcStat(t, root, "77", "flush (md)", 'D')
	writeProcStat(t, root, "99", "idle", 'I')

	// Non-process entries must be ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sys"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "uptime"), []byte("1 1\n"), 0o644))

	// A pid directory without a readable stat file is skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "123"), 0o755))

	values, err := processStatesProbe(root)()
	require.NoError(t, err)

	assert.Equal(t, 5.0, values["total_processes"])
	assert.Equal(t, 2.0, values["suspended_processes"])
	assert.Equal(t, 1.0, values["ready_processes"])
	assert.Equal(t, 1.0, values["blocked_processes"])
}

func TestProcessStatesProbeMissingRoot(t *testing.T) {
	_, err := processStatesProbe(filepath.Join(t.TempDir(), "absent"))()
	require.Error(t, err)
}

func TestStatState(t *testing.T) {
	tests := []struct {
		name string
		line string
		want byte
		ok   bool
	}{
		{name: "plain comm", line: "1 (init) S 0 1", want: 'S', ok: true},
		{name: "comm with spaces", line: "2 (migration/0) R 0 2", want: 'R', ok: true},
		{name: "comm with parens", line: "3 (a) evil) D 0 3", want: 'D', ok: true},
		{name: "no comm", line: "4 x", ok: false},
		{name: "truncated", line: "5 (cut)", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, ok := statState(tt.line)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, state)
			}
		})
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, isNumeric("1234"))
	assert.False(t, isNumeric(""))
	assert.False(t, isNumeric("12a4"))
	assert.False(t, isNumeric("self"))
}

func TestSysfsReaderScales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp1_input")
	require.NoError(t, os.WriteFile(path, []byte("42000\n"), 0o644))

	value, err := sysfsReader(path, 1000)()
	require.NoError(t, err)
	assert.Equal(t, 42.0, value)

	rpm, err := sysfsReader(path, 1)()
	require.NoError(t, err)
	assert.Equal(t, 42000.0, rpm)
}

func TestSysfsReaderUnavailable(t *testing.T) {
	_, err := sysfsReader("", 1000)()
	assert.ErrorIs(t, err, internalerrors.ErrSensorUnavailable)

	_, err = sysfsReader(filepath.Join(t.TempDir(), "absent"), 1000)()
	assert.ErrorIs(t, err, internalerrors.ErrSensorUnavailable)
}

func TestSysfsReaderMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fan1_input")
	require.NoError(t, os.WriteFile(path, []byte("spinning\n"), 0o644))

	_, err := sysfsReader(path, 1)()
	require.Error(t, err)
	assert.NotErrorIs(t, err, internalerrors.ErrSensorUnavailable)
}

func TestCPUTemperatureFromConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp1_input")
	require.NoError(t, os.WriteFile(path, []byte("55500"), 0o644))

	value, err := cpuTemperature(path)()
	require.NoError(t, err)
	assert.Equal(t, 55.5, value)
}
