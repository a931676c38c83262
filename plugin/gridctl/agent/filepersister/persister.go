// SPDX-License-Identifier: GPL-3.0-or-later

package filepersister

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"

	"github.com/netdata/netdata/go/datagrid/logger"
	"github.com/netdata/netdata/go/datagrid/pkg/gridstate"
)

// Data is the content persisted to a file.
type Data interface {
	Bytes() ([]byte, error)
	Updated() <-chan struct{}
}

// New returns a persister writing to path. Writes hold the exclusive lock
// readers of the state file take a shared lock on.
func New(path string) *Persister {
	return &Persister{
		Logger: logger.New().With(
			slog.String("component", "state persister"),
			slog.String("file", path),
		),
		FlushEvery: time.Second * 5,
		filepath:   path,
		lock:       flock.New(gridstate.LockPath(path)),
		flushCh:    make(chan struct{}, 1),
	}
}

// Persister writes Data to its file at most once per FlushEvery after each
// update, and once more on exit. Content equal to what the file holds is not
// rewritten.
type Persister struct {
	*logger.Logger

	FlushEvery time.Duration

	data     Data
	filepath string
	lock     *flock.Flock
	flushCh  chan struct{}
	last     []byte
}

func (p *Persister) Run(ctx context.Context, data Data) {
	p.Info("instance is started")
	defer func() { p.Info("instance is stopped") }()

	p.data = data
	p.last, _ = os.ReadFile(p.filepath)

	tk := time.NewTicker(p.FlushEvery)
	defer tk.Stop()
	defer func() {
		if err := p.Flush(); err != nil {
			p.Warning(err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.data.Updated():
			p.triggerFlush()
		case <-tk.C:
			p.tryFlush()
		}
	}
}

func (p *Persister) triggerFlush() {
	select {
	case p.flushCh <- struct{}{}:
	default:
		// already has a pending flush
	}
}

func (p *Persister) tryFlush() {
	select {
	case <-p.flushCh:
		if err := p.Flush(); err != nil {
			p.Warning(err)
		}
	default:
		// no pending flush
	}
}

// Flush writes the data now. Unchanged content is not rewritten.
func (p *Persister) Flush() error {
	bs, err := p.data.Bytes()
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	if p.last != nil && string(bs) == string(p.last) {
		return nil
	}

	if err := p.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock '%s': %w", p.lock.Path(), err)
	}
	defer func() { _ = p.lock.Unlock() }()

	if err := os.WriteFile(p.filepath, bs, 0644); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	p.last = bs

	p.Debug("file persisted successfully")

	return nil
}
