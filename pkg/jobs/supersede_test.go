package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReturnsFnResult(t *testing.T) {
	s := NewSuperseder(nil)

	sentinel := errors.New("boom")
	err := s.Run(context.Background(), "k", func(context.Context) error { return sentinel })
	assert.Equal(t, sentinel, err)

	err = s.Run(context.Background(), "k", func(context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestNewTaskCancelsInflightSameKey(t *testing.T) {
	s := NewSuperseder(nil)

	started := make(chan struct{})
	var firstErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = s.Run(context.Background(), "username", func(ctx context.Context) error {
			close(started)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return errors.New("was not superseded")
			}
		})
	}()

	<-started
	err := s.Run(context.Background(), "username", func(context.Context) error { return nil })
	require.NoError(t, err)

	wg.Wait()
	assert.ErrorIs(t, firstErr, context.Canceled)
}

func TestDifferentKeysDoNotInterfere(t *testing.T) {
	s := NewSuperseder(nil)

	started := make(chan struct{})
	release := make(chan struct{})
	var firstErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = s.Run(context.Background(), "username", func(ctx context.Context) error {
			close(started)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-release:
				return nil
			}
		})
	}()

	<-started
	err := s.Run(context.Background(), "email", func(context.Context) error { return nil })
	require.NoError(t, err)

	close(release)
	wg.Wait()
	assert.NoError(t, firstErr)
}
