//go:build windows

package store

import (
	"os"
	"sync"
)

// Windows has no flock(2); appenders are serialized within the process
// instead. Cross-process exclusion on Windows deployments is not
// supported.
var appendMu sync.Mutex

func lockFile(_ *os.File) error {
	appendMu.Lock()
	return nil
}

func unlockFile(_ *os.File) error {
	appendMu.Unlock()
	return nil
}
