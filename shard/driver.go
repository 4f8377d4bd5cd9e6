// Package shard splits a k-byte trial space across a fixed-size worker
// pool, runs each shard's candidate walk against a private copy of the
// prefilled T-table, and merges every shard's collector into one.
package shard

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/rchauvaud/md2collide/collision"
	"github.com/rchauvaud/md2collide/ttable"
)

// DefaultWorkers is the worker pool size used when the caller doesn't pick
// one: enough to keep a handful of cores busy on the 256-shard k>=3 searches
// without oversubscribing the single-shard k<=2 case.
const DefaultWorkers = 8

// shardedK is the smallest k at which the search space is split across
// shards by fixing one free byte; below it, a single shard covers the full
// space, since splitting a trial space that's already cheap to enumerate
// single-threaded would only add scheduling overhead.
const shardedK = 3

// Run builds the prefilled state for k, searches the full k-byte trial
// space across `workers` jobs, and returns the merged collector. A workers
// value <= 0 uses DefaultWorkers, and workers is capped at the shard count.
//
// For k <= 2 the search runs as a single shard over the whole 256^k trial
// space. For k >= 3, the space is split into 256 shards, one per value of
// the first free byte (mirrored into T2 and T3); each shard enumerates only
// the remaining k-1 free bytes. A shard that fixed the same byte but still
// enumerated all k bytes would redo the whole k-byte space in every one of
// the 256 shards instead of partitioning it, inflating total work 256x.
func Run(k, workers int) (*collision.Collector, error) {
	if k < ttable.MinK || k > ttable.MaxK {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("shard: k must be in [%d, %d], got %d", ttable.MinK, ttable.MaxK, k))
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}

	prefilled, err := ttable.Prefill(k)
	if err != nil {
		return nil, err
	}
	log.Printf("shard: prefilled T-table for k=%d (rows=%d)", k, ttable.Rows(k))

	nShards := 1
	if k >= shardedK {
		nShards = 256
	}
	if workers > nShards {
		workers = nShards
	}

	partials := make([]*collision.Collector, workers)
	log.Printf("shard: searching %d shard(s) across %d worker(s)", nShards, workers)
	err = traverse.Each(workers, func(jobIdx int) (workerErr error) {
		defer func() {
			if r := recover(); r != nil {
				workerErr = errors.E(errors.Internal, fmt.Sprintf("shard: worker %d panicked: %v", jobIdx, r))
			}
		}()

		startIdx := (jobIdx * nShards) / workers
		endIdx := ((jobIdx + 1) * nShards) / workers

		local := collision.New()
		for shardIdx := startIdx; shardIdx < endIdx; shardIdx++ {
			searchShard(local, prefilled, k, nShards, shardIdx)
		}
		partials[jobIdx] = local
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("shard: all shards merged")

	out := collision.New()
	for _, p := range partials {
		if p != nil {
			out.Merge(p)
		}
	}
	return out, nil
}

// searchShard enumerates one shard's trials into collector c. When nShards
// is 1, the shard covers the entire k-byte space. Otherwise, it fixes the
// first free byte to shardIdx and enumerates the remaining k-1 bytes.
func searchShard(c *collision.Collector, prefilled ttable.State, k, nShards, shardIdx int) {
	fixed := nShards > 1
	tailLen := k
	if fixed {
		tailLen = k - 1
	}

	counter := ttable.NewCounter(tailLen)
	trial := make([]byte, k)
	if fixed {
		trial[0] = byte(shardIdx)
	}

	for {
		tail, ok := counter.Next()
		if !ok {
			break
		}
		if fixed {
			copy(trial[1:], tail)
		} else {
			copy(trial, tail)
		}

		fp := ttable.Walk(prefilled, k, trial)
		c.Add(fp, trial)
	}
}
