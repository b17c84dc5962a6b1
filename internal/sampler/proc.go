package sampler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// processStatesProbe scans procRoot for per-process stat files and counts
// processes by scheduler state: S (suspended), R (ready), D (blocked).
// Processes that disappear mid-scan are skipped.
func processStatesProbe(procRoot string) func() (map[string]float64, error) {
	return func() (map[string]float64, error) {
		dirEntries, err := os.ReadDir(procRoot)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", procRoot, err)
		}

		var total, suspended, ready, blocked float64
		for _, entry := range dirEntries {
			if !entry.IsDir() || !isNumeric(entry.Name()) {
				continue
			}
			data, err := os.ReadFile(filepath.Join(procRoot, entry.Name(), "stat"))
			if err != nil {
				continue
			}
			state, ok := statState(string(data))
			if !ok {
				continue
			}
			total++
			switch state {
			case 'S':
				suspended++
			case 'R':
				ready++
			case 'D':
				blocked++
			}
		}
		return map[string]float64{
			"total_processes":     total,
			"suspended_processes": suspended,
			"ready_processes":     ready,
			"blocked_processes":   blocked,
		}, nil
	}
}

// statState extracts the state field from a /proc/<pid>/stat line.
// The comm field is parenthesized and may itself contain spaces or
// parentheses, so the state is located after the last ')'.
func statState(line string) (byte, bool) {
	idx := strings.LastIndexByte(line, ')')
	if idx < 0 || idx+2 >= len(line) {
		return 0, false
	}
	rest := strings.TrimSpace(line[idx+1:])
	if rest == "" {
		return 0, false
	}
	return rest[0], true
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
