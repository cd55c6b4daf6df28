package utils

import (
	"bufio"
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type LogEntry struct {
	Timestamp time.Time `json:"time"`
	Level     string    `json:"level"`
	Tool      string    `json:"msg"`
	Program   string    `json:"PROGRAM"`
	Sample    string    `json:"SAMPLE"`
	Status    string    `json:"STATUS"`
	Cmd       string    `json:"CMD"`
	Run       string    `json:"RUN"`
	Error     string    `json:"ERROR"`
}

// ParseLogFile reads a journal written through NewLogger. Lines that are not
// wrapper status records are ignored. A missing journal yields no entries.
func ParseLogFile(logFilePath string) ([]LogEntry, error) {
	file, err := os.Open(logFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "opening journal %s", logFilePath)
	}
	defer file.Close()

	var entries []LogEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry LogEntry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue
		}
		if entry.Tool != JournalMsg || entry.Program == "" {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return entries, errors.Wrapf(err, "scanning journal %s", logFilePath)
	}
	return entries, nil
}

// StageHasCompleted reports whether the most recent record for program and
// sample says the output is in place.
func StageHasCompleted(entries []LogEntry, program, sample string) bool {
	last := ""
	for _, e := range entries {
		if e.Program == program && e.Sample == sample {
			last = e.Status
		}
	}
	return last == StatusCompleted || last == StatusSkipped
}

// LatestByStage keeps the last record of every (program, sample) pair,
// ordered by program then sample.
func LatestByStage(entries []LogEntry) []LogEntry {
	groups := lo.GroupBy(entries, func(e LogEntry) string {
		return e.Program + "\t" + e.Sample
	})
	latest := lo.MapToSlice(groups, func(_ string, es []LogEntry) LogEntry {
		return es[len(es)-1]
	})
	sort.Slice(latest, func(i, j int) bool {
		if latest[i].Program != latest[j].Program {
			return latest[i].Program < latest[j].Program
		}
		return latest[i].Sample < latest[j].Sample
	})
	return latest
}
