// Package filex provisions the on-disk storage location for the captlog
// database.
package filex

import (
	"fmt"
	"os"

	"github.com/dmitrijs2005/captlog/internal/common"
)

// EnsureDir creates dir (and parents) if missing and proves it is a
// writable directory by creating and removing a probe file. Failures are
// reported as common.ErrConfig.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("unable to create directory %s: %w", dir, common.ErrConfig)
	}

	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", dir, common.ErrConfig)
	}

	probe, err := os.CreateTemp(dir, ".captlog-probe-*")
	if err != nil {
		return fmt.Errorf("%s is not a writable directory: %w", dir, common.ErrConfig)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return nil
}

// CheckStoreFile verifies that an existing store is a regular file opened
// for both reading and writing. Failures are reported as common.ErrConfig.
func CheckStoreFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file: %w", path, common.ErrConfig)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("%s not readable and writable: %w", path, common.ErrConfig)
	}
	_ = f.Close()

	return nil
}
