// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package request drives remote.State transitions for fetches. It owns the
// ordering the remote package leaves to callers: a target is NotAsked until a
// slot is available, Loading while it is read, then Success or Failure.
package request

import (
	"context"
	"errors"
	"os"
	"runtime"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gopkg.microglot.org/remote.go/internal/exc"
	"gopkg.microglot.org/remote.go/internal/fs"
	"gopkg.microglot.org/remote.go/remote"
)

type Option func(c *Controller) error

func OptionWithSource(src fs.Source) Option {
	return func(c *Controller) error {
		c.Source = src
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *Controller) error {
		c.LookupENV = lookupEnv
		return nil
	}
}

func OptionWithMaxConcurrency(n int) Option {
	return func(c *Controller) error {
		if n < 0 {
			return exc.New(exc.CodeUnsupportedOperation, "max concurrency must not be negative")
		}
		c.MaxConcurrency = n
		return nil
	}
}

// OptionWithTimeout bounds each individual fetch. Zero disables the bound.
func OptionWithTimeout(d time.Duration) Option {
	return func(c *Controller) error {
		if d < 0 {
			return exc.New(exc.CodeUnsupportedOperation, "timeout must not be negative")
		}
		c.Timeout = d
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *Controller) error {
		c.Reporter = reporter
		return nil
	}
}

func OptionWithLogger(logger *zap.Logger) Option {
	return func(c *Controller) error {
		c.Logger = logger
		return nil
	}
}

func OptionWithClock(clock clockwork.Clock) Option {
	return func(c *Controller) error {
		c.Clock = clock
		return nil
	}
}

// Controller fetches targets from a Source and publishes each outcome as a
// remote.State in a Cell.
type Controller struct {
	LookupENV      func(string) (string, bool)
	Source         fs.Source
	MaxConcurrency int
	Timeout        time.Duration
	Semaphore      *semaphore
	Reporter       exc.Reporter
	Logger         *zap.Logger
	Clock          clockwork.Clock
}

func New(opts ...Option) (*Controller, error) {
	c := &Controller{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.LookupENV == nil {
		c.LookupENV = os.LookupEnv
	}
	if c.Source == nil {
		src, err := fs.NewDefaultSource(c.LookupENV)
		if err != nil {
			return nil, err
		}
		c.Source = src
	}
	if c.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		c.MaxConcurrency = max
	}
	if c.Semaphore == nil {
		c.Semaphore = newSemaphore(c.MaxConcurrency)
	}
	if c.Reporter == nil {
		c.Reporter = exc.NewReporter(nil)
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return c, nil
}

// Fetch reads a single target and returns its Cell once the fetch has
// completed.
func (self *Controller) Fetch(ctx context.Context, target string) *Cell[[]byte] {
	cell := NewCell[[]byte](target, self.Clock)
	self.Run(ctx, cell)
	return cell
}

// FetchAll reads every target concurrently, bounded by MaxConcurrency. The
// returned cells are in the same order as targets. Individual failures are
// recorded in their cells. The returned error is set only when ctx ended
// before every target completed; targets still queued at that point fail as
// canceled.
func (self *Controller) FetchAll(ctx context.Context, targets []string) ([]*Cell[[]byte], error) {
	cells := make([]*Cell[[]byte], 0, len(targets))
	for _, t := range targets {
		cells = append(cells, NewCell[[]byte](t, self.Clock))
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(self.MaxConcurrency)
	for _, cell := range cells {
		cell := cell
		g.Go(func() error {
			s := self.Run(gctx, cell)
			if _, failed := s.Err(); failed {
				return gctx.Err()
			}
			return nil
		})
	}
	return cells, g.Wait()
}

// Run drives cell through one fetch of its target. The caller must be the
// only writer of cell for the duration of the call.
func (self *Controller) Run(ctx context.Context, cell *Cell[[]byte]) remote.State[[]byte] {
	if err := self.Semaphore.Lock(ctx); err != nil {
		return self.publish(cell, remote.Failure[[]byte](self.report(cell.Target(), err)))
	}
	defer self.Semaphore.Unlock()

	self.publish(cell, remote.Loading[[]byte]())
	if self.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, self.Timeout)
		defer cancel()
	}
	b, err := self.Source.Read(ctx, cell.Target())
	if err != nil {
		return self.publish(cell, remote.Failure[[]byte](self.report(cell.Target(), err)))
	}
	return self.publish(cell, remote.Success(b))
}

func (self *Controller) report(target string, err error) exc.Exception {
	e := exc.FromContext(target, err)
	if e.Detail() == "" {
		e = exc.Wrap(e.Code(), target, e)
	}
	self.Reporter.Report(e)
	return e
}

func (self *Controller) publish(cell *Cell[[]byte], s remote.State[[]byte]) remote.State[[]byte] {
	prev := cell.Current()
	snap := cell.Set(s)
	fields := []zap.Field{
		zap.String("target", cell.Target()),
		zap.Stringer("from", prev.State.Tag()),
		zap.Stringer("to", s.Tag()),
		zap.Duration("elapsed", snap.At.Sub(prev.At)),
	}
	if err, ok := s.Err(); ok {
		var e exc.Exception
		if errors.As(err, &e) {
			fields = append(fields, zap.String("code", e.Code()))
		}
		fields = append(fields, zap.Error(err))
	}
	self.Logger.Debug("state transition", fields...)
	return s
}
