// Package registry holds the user's channel selection and its on-disk form.
//
// The selection file has one directive per line:
//
//	channel 1 TV1
//	#channel 2 TV2
//
// Commented-out channels are inactive. Unrecognised lines are ignored.
package registry

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/voyagen/tvgrab/internal/models"
)

var reChannelLine = regexp.MustCompile(`^channel (\d+) (.*)$`)

// ConfigError means the selection file could not be read at all.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("read configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Registry is an ordered set of channels keyed by provider channel id.
type Registry struct {
	channels []models.Channel
	index    map[int]int
}

// New returns a registry holding channels in the given order.
// A repeated id replaces the earlier entry in place.
func New(channels ...models.Channel) *Registry {
	r := &Registry{index: make(map[int]int)}
	for _, ch := range channels {
		r.put(ch)
	}
	return r
}

func (r *Registry) put(ch models.Channel) {
	if i, ok := r.index[ch.ID]; ok {
		r.channels[i] = ch
		return
	}
	r.index[ch.ID] = len(r.channels)
	r.channels = append(r.channels, ch)
}

// LoadFile reads the active channels from the selection file at path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()
	r, err := Load(f)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return r, nil
}

// Load parses a selection file. Only active "channel" lines are kept.
func Load(rd io.Reader) (*Registry, error) {
	r := New()
	scanner := bufio.NewScanner(rd)
	for scanner.Scan() {
		m := reChannelLine.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil || id <= 0 {
			continue
		}
		r.put(models.Channel{ID: id, Name: m[2], Active: true})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// Write emits the selection file form of r, active and inactive channels alike.
func (r *Registry) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, ch := range r.channels {
		prefix := "channel"
		if !ch.Active {
			prefix = "#channel"
		}
		if _, err := fmt.Fprintf(bw, "%s %d %s\n", prefix, ch.ID, ch.Name); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveFile writes r to path, creating the parent directory if needed.
func (r *Registry) SaveFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := r.Write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// All returns every channel in registry order.
func (r *Registry) All() []models.Channel {
	return append([]models.Channel(nil), r.channels...)
}

// Active returns the active channels in registry order.
func (r *Registry) Active() []models.Channel {
	var out []models.Channel
	for _, ch := range r.channels {
		if ch.Active {
			out = append(out, ch)
		}
	}
	return out
}

// ActiveIDs returns the set of active channel ids.
func (r *Registry) ActiveIDs() map[int]bool {
	ids := make(map[int]bool)
	for _, ch := range r.channels {
		if ch.Active {
			ids[ch.ID] = true
		}
	}
	return ids
}

// Get returns the channel with the given id.
func (r *Registry) Get(id int) (models.Channel, bool) {
	i, ok := r.index[id]
	if !ok {
		return models.Channel{}, false
	}
	return r.channels[i], true
}

// Len returns the number of channels, active or not.
func (r *Registry) Len() int { return len(r.channels) }
