package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"voxelwalk.ai/internal/sim/world"
)

// ReadTickEntries decodes every events-*.jsonl.zst file under dir in
// filename (hour) order, yielding entries to fn until it returns false.
func ReadTickEntries(dir string, fn func(world.TickLogEntry) bool) error {
	names, err := listEventFiles(dir)
	if err != nil {
		return err
	}
	for _, name := range names {
		stop, err := readOne(filepath.Join(dir, name), fn)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if stop {
			return nil
		}
	}
	return nil
}

func listEventFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), "events-") && strings.HasSuffix(e.Name(), ".jsonl.zst") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func readOne(path string, fn func(world.TickLogEntry) bool) (stop bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return false, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry world.TickLogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return false, err
		}
		if !fn(entry) {
			return true, nil
		}
	}
	return false, sc.Err()
}
