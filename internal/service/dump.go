package service

import (
	"fmt"
	"os"
	"sync"

	"github.com/voyagen/tvgrab/internal/fetcher"
)

// Dumper appends undecodable payloads to a debug file. The file is only
// ever appended to.
type Dumper struct {
	path string
	mu   sync.Mutex
}

// NewDumper returns a Dumper writing to path.
func NewDumper(path string) *Dumper {
	return &Dumper{path: path}
}

// Path returns the dump file path.
func (d *Dumper) Path() string { return d.path }

// Dump appends the source URL, the decoder error and the repaired payload.
func (d *Dumper) Dump(de *fetcher.DecodeError) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := os.OpenFile(d.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open dump: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%s\n%v\n%s\n", de.Request.URL, de.Err, de.Payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("write dump: %w", err)
	}
	return f.Close()
}
