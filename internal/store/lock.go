package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	batchLockDirName   = ".batch.lock"
	batchLockOwnerFile = "owner.json"
)

// BatchLock guards a state directory so two batch runs never interleave
// archive writes. It is a mkdir-based lock: mkdir is atomic on every
// platform we care about.
type BatchLock struct {
	lockDir string
}

type batchLockOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

func AcquireBatchLock(stateDir string) (BatchLock, error) {
	target := strings.TrimSpace(stateDir)
	if target == "" {
		return BatchLock{}, fmt.Errorf("state directory is required")
	}

	lockDir := filepath.Join(target, batchLockDirName)
	if err := os.Mkdir(lockDir, 0o755); err != nil {
		if os.IsExist(err) {
			ownerPath := filepath.Join(lockDir, batchLockOwnerFile)
			var owner batchLockOwner
			if readErr := ReadJSON(ownerPath, &owner); readErr == nil && owner.PID > 0 && owner.CreatedAt != "" {
				return BatchLock{}, fmt.Errorf(
					"another batch is running in %s (pid=%d created_at=%s host=%s)",
					target, owner.PID, owner.CreatedAt, owner.Hostname,
				)
			}
			return BatchLock{}, fmt.Errorf("another batch is running in %s", target)
		}
		return BatchLock{}, fmt.Errorf("acquire batch lock for %s: %w", target, err)
	}

	owner := batchLockOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	ownerPath := filepath.Join(lockDir, batchLockOwnerFile)
	if err := WriteJSON(ownerPath, owner); err != nil {
		_ = os.Remove(lockDir)
		return BatchLock{}, fmt.Errorf("write batch lock owner for %s: %w", target, err)
	}

	return BatchLock{lockDir: lockDir}, nil
}

func (l BatchLock) Release() error {
	if strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, batchLockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release batch lock %s: %w", l.lockDir, err)
	}
	return nil
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}
