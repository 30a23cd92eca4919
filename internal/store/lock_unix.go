//go:build unix

package store

import (
	"os"
	"syscall"
)

// lockFile takes an exclusive advisory flock(2) lock, blocking until it is
// available. Each Append opens its own descriptor, so the lock excludes
// concurrent appenders in this process as well as other processes.
func lockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX)
}

func unlockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
