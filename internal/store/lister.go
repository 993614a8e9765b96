package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is one directory member as seen by backup cleanup.
type Entry struct {
	Name    string
	ModTime time.Time
}

// Lister abstracts the directory scan and file removal that backup retention
// needs, so cleanup logic is testable without touching a real disk.
type Lister interface {
	List(dir string) ([]Entry, error)
	Remove(path string) error
}

// osLister is the production Lister backed by the real filesystem.
type osLister struct{}

// OSLister returns a Lister backed by os.ReadDir and os.Remove.
func OSLister() Lister {
	return osLister{}
}

func (osLister) List(dir string) ([]Entry, error) {
	members, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing directory %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(members))
	for _, m := range members {
		if m.IsDir() {
			continue
		}
		info, err := m.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", filepath.Join(dir, m.Name()), err)
		}
		entries = append(entries, Entry{Name: m.Name(), ModTime: info.ModTime()})
	}
	return entries, nil
}

func (osLister) Remove(path string) error {
	return os.Remove(path)
}
