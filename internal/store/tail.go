package store

import (
	"bytes"
	"fmt"
	"os"
)

// tailLines returns up to n of the last non-empty lines of the file at
// path, reading backwards in chunks so the window cost is independent of
// log size. A missing file yields no lines.
func tailLines(path string, n int) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}
	size := info.Size()
	if size == 0 {
		return nil, nil
	}

	const chunk = 4096
	var buf []byte
	var read int64
	for read < size {
		step := int64(chunk)
		if step > size-read {
			step = size - read
		}
		read += step
		part := make([]byte, step)
		if _, err := f.ReadAt(part, size-read); err != nil {
			return nil, fmt.Errorf("read data file tail: %w", err)
		}
		buf = append(part, buf...)
		// Strictly more than n records buffered: even after dropping a
		// possibly-partial first line the window is still full.
		if countRecords(buf) > n {
			break
		}
	}

	lines := bytes.Split(buf, []byte{'\n'})
	if read < size && len(lines) > 0 {
		// The first line of a partial read may be truncated mid-record.
		lines = lines[1:]
	}

	// Blank lines and the trailing empty split element are not records and
	// must not consume window slots.
	out := make([][]byte, 0, len(lines))
	for _, line := range lines {
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			out = append(out, line)
		}
	}
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out, nil
}

// countRecords counts the non-blank lines in buf.
func countRecords(buf []byte) int {
	count := 0
	for _, line := range bytes.Split(buf, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) > 0 {
			count++
		}
	}
	return count
}
