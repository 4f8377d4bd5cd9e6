package shard

import (
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/traverse"
	"github.com/rchauvaud/md2collide/collision"
	"github.com/rchauvaud/md2collide/ttable"
	"github.com/stretchr/testify/assert"
)

// Seed case 1/3: k=2, single shard, canonical count 141, every recovered
// message pair validates against the MD2 oracle.
func TestRunK2SingleThreaded(t *testing.T) {
	c, err := Run(2, 1)
	assert.NoError(t, err)
	assert.Equal(t, 141, c.Count())

	s, err := ttable.Prefill(2)
	assert.NoError(t, err)
	assert.NoError(t, collision.Validate(s, 2, c))
}

// Same search, requested with the default worker pool, must reproduce the
// same count: for k=2 Run clamps the pool to the single shard.
func TestRunK2DefaultWorkers(t *testing.T) {
	c, err := Run(2, 0)
	assert.NoError(t, err)
	assert.Equal(t, 141, c.Count())
}

// Seed case 2/4: k=3, 256 shards, canonical count 32784, all recovered
// messages validate. This enumerates the full 256^3 trial space, so it's
// skipped in -short runs.
func TestRunK3Sharded(t *testing.T) {
	if testing.Short() {
		t.Skip("enumerates 256^3 trials")
	}

	c, err := Run(3, DefaultWorkers)
	assert.NoError(t, err)
	assert.Equal(t, 32784, c.Count())

	s, err := ttable.Prefill(3)
	assert.NoError(t, err)
	assert.NoError(t, collision.Validate(s, 3, c))
}

func TestRunRejectsOutOfRangeK(t *testing.T) {
	_, err := Run(0, 1)
	assert.Error(t, err)
	if e, ok := err.(*errors.Error); assert.True(t, ok, "expected *errors.Error, got %T", err) {
		assert.Equal(t, errors.Invalid, e.Kind)
	}

	_, err = Run(15, 1)
	assert.Error(t, err)
}

// The requested worker count should not change the result: the same k=2
// search requested with 1 worker and with 4 workers must agree (k=2 is a
// single shard, so Run clamps both to one worker).
func TestRunCountIndependentOfWorkerCount(t *testing.T) {
	c1, err := Run(2, 1)
	assert.NoError(t, err)
	c2, err := Run(2, 4)
	assert.NoError(t, err)
	assert.Equal(t, c1.Count(), c2.Count())
}

// Run's worker closure recovers any panic and turns it into an
// errors.Internal-kind error rather than crashing the process; there is no
// retry. This exercises that same recover-and-classify shape directly.
func TestWorkerPanicBecomesPanicError(t *testing.T) {
	err := traverse.Each(4, func(jobIdx int) (workerErr error) {
		defer func() {
			if r := recover(); r != nil {
				workerErr = errors.E(errors.Internal, "worker panicked")
			}
		}()
		if jobIdx == 2 {
			panic("boom")
		}
		return nil
	})

	assert.Error(t, err)
	if e, ok := err.(*errors.Error); assert.True(t, ok, "expected *errors.Error, got %T", err) {
		assert.Equal(t, errors.Internal, e.Kind)
	}
}
