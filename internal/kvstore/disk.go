package kvstore

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/peterbourgon/diskv/v3"
)

// Disk keeps one file per key under a base directory.
type Disk struct {
	d *diskv.Diskv
}

// NewDisk returns a Disk store rooted at basePath. Reads always hit the
// file: other processes write the same directory.
func NewDisk(basePath string) *Disk {
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 0,
	})}
}

func (d *Disk) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	val, err := d.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return string(val), true, nil
}

func (d *Disk) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := d.d.Write(key, []byte(value)); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (d *Disk) Close() error { return nil }
