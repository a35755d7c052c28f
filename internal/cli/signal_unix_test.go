//go:build !windows

package cli_test

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/aretw0/graft/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalContext(t *testing.T) {
	sc := cli.NewSignalContext(context.Background())
	defer sc.Cancel()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGTERM))
	select {
	case <-sc.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled by SIGTERM")
	}
	assert.Equal(t, syscall.SIGTERM, sc.Signal())

	err := sc.Wrap(context.Canceled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "interrupted by terminated")
}

func TestSignalContext_CustomSignals(t *testing.T) {
	sc := cli.NewSignalContext(context.Background(), syscall.SIGUSR1)
	defer sc.Cancel()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGUSR1))
	select {
	case <-sc.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled by SIGUSR1")
	}
	assert.Equal(t, syscall.SIGUSR1, sc.Signal())
}

func TestSignalContext_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	sc := cli.NewSignalContext(parent)
	cancel()

	<-sc.Done()
	assert.Nil(t, sc.Signal())
	assert.NoError(t, sc.Wrap(nil))
	assert.Same(t, context.Canceled, sc.Wrap(context.Canceled), "errors pass through without a signal")
}
