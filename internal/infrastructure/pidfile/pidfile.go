package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// PIDFile enforces a single running pricer instance per host. Two pricers
// repricing the same machines would fight each other's updates.
type PIDFile struct {
	path string
}

// New creates a PIDFile manager.
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Acquire writes the current PID, failing if another live instance holds
// the file. Stale or corrupt PID files are removed and overwritten.
func (p *PIDFile) Acquire() error {
	if data, err := os.ReadFile(p.path); err == nil {
		pid, convErr := strconv.Atoi(strings.TrimSpace(string(data)))
		if convErr == nil && isRunning(pid) {
			return fmt.Errorf("pricer is already running (PID %d)", pid)
		}
		_ = os.Remove(p.path)
	}
	return os.WriteFile(p.path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0o644)
}

// Release removes the PID file.
func (p *PIDFile) Release() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func isRunning(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
