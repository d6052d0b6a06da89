package commands

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ParseLogFile reads the last N lines from the log file and extracts the
// time and conversion count of the most recent watch pass
func ParseLogFile(logPath string, maxLines int) ([]string, time.Time, int) {
	content, err := os.ReadFile(logPath)
	if err != nil {
		return []string{"Unable to read log file"}, time.Time{}, 0
	}

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")

	// Get last N lines
	startIdx := 0
	if len(lines) > maxLines {
		startIdx = len(lines) - maxLines
	}
	recentLines := lines[startIdx:]

	var lastPass time.Time
	processed := 0

	for i := len(recentLines) - 1; i >= 0; i-- {
		line := recentLines[i]
		if strings.Contains(line, "watch pass completed") {
			// Format: 2025-11-27 14:11:57 INFO watch pass completed processed=2 ...
			if len(line) > 19 {
				if t, err := time.ParseInLocation(time.DateTime, line[:19], time.Local); err == nil {
					lastPass = t
				}
			}

			if idx := strings.Index(line, "processed="); idx != -1 {
				_, _ = fmt.Sscanf(line[idx:], "processed=%d", &processed) //nolint:errcheck // best effort parsing
			}
			break
		}
	}

	return recentLines, lastPass, processed
}
