package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// SignalContext is cancelled by the first shutdown signal and remembers it.
type SignalContext struct {
	context.Context
	Cancel context.CancelFunc
	sig    atomic.Pointer[os.Signal]
}

// NewSignalContext works like signal.NotifyContext but keeps the received
// signal. Without sigs it listens for SIGINT and SIGTERM.
func NewSignalContext(parent context.Context, sigs ...os.Signal) *SignalContext {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			sc.sig.Store(&sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	if p := sc.sig.Load(); p != nil {
		return *p
	}
	return nil
}

// Wrap annotates err with the received signal, if any.
func (sc *SignalContext) Wrap(err error) error {
	sig := sc.Signal()
	if err == nil || sig == nil {
		return err
	}
	return fmt.Errorf("interrupted by %s: %w", sig, err)
}
