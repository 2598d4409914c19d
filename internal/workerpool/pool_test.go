package workerpool

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsAllSubmittedTasks(t *testing.T) {
	p := New(4)
	defer p.Close()

	var count int64
	const n = 1000
	for i := 0; i < n; i++ {
		p.Go(func() { atomic.AddInt64(&count, 1) })
	}
	p.Wait()

	assert.EqualValues(t, n, atomic.LoadInt64(&count))
	stats := p.Stats()
	assert.EqualValues(t, n, stats.Submitted)
	assert.EqualValues(t, n, stats.Completed)
}

func TestPool_ReusableAcrossRounds(t *testing.T) {
	p := New(2)
	defer p.Close()

	for round := 0; round < 3; round++ {
		var count int64
		for i := 0; i < 50; i++ {
			p.Go(func() { atomic.AddInt64(&count, 1) })
		}
		p.Wait()
		require.EqualValues(t, 50, count, "round %d", round)
	}
}

func TestPool_RecoversPanickingTask(t *testing.T) {
	p := New(2)
	defer p.Close()

	p.Go(func() { panic("boom") })
	var ran int64
	p.Go(func() { atomic.AddInt64(&ran, 1) })
	p.Wait()

	assert.EqualValues(t, 1, ran, "sibling tasks must still run after a panic")
	assert.EqualValues(t, 1, p.Stats().Panicked)
}

func TestPool_DefaultsWorkerCount(t *testing.T) {
	p := New(0)
	defer p.Close()
	p.Go(func() {})
	p.Wait()
	assert.EqualValues(t, 1, p.Stats().Completed)
}
