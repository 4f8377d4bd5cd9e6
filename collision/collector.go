// Package collision implements the collision collector: a fingerprint ->
// ordered-trial-list map, built to be merged cheaply across shard workers
// and to validate its own buckets against the MD2 oracle.
package collision

import (
	"fmt"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
	"github.com/rchauvaud/md2collide/md2"
	"github.com/rchauvaud/md2collide/ttable"
)

// numShards physically partitions the bucket map the same way
// fusion/kmer_index.go shards a kmer->genelist map: the high bits of a fast
// hash of the key pick one of numShards inner maps, which keeps any single
// Go map from growing past a size where its rehashing dominates Add. This is
// purely an implementation detail: callers only ever see fingerprint ->
// bucket semantics through Add/Merge/Count/Collisions.
const numShards = 256

// Collector maps a fingerprint to the ordered list of trial byte strings
// that produced it. A bucket with two or more trials is a confirmed
// collision. Collector is not safe for concurrent Add calls; the shard
// driver gives each worker its own Collector and Merges them afterward.
type Collector struct {
	shards [numShards]map[string][][]byte
}

// New returns an empty Collector with its internal shards preallocated.
func New() *Collector {
	c := &Collector{}
	for i := range c.shards {
		c.shards[i] = make(map[string][][]byte)
	}
	return c
}

func shardIndex(fingerprint []byte) int {
	h := farm.Hash64(fingerprint)
	return int(h >> 56) // top 8 bits of the hash select one of 256 shards.
}

// Add appends trial to the bucket for fingerprint, creating the bucket if
// this is its first entry. trial is copied; the caller's slice may be
// reused.
func (c *Collector) Add(fingerprint, trial []byte) {
	idx := shardIndex(fingerprint)
	key := string(fingerprint)
	owned := append([]byte(nil), trial...)
	c.shards[idx][key] = append(c.shards[idx][key], owned)
}

// Merge concatenates other's buckets onto c, creating buckets that don't yet
// exist in c. Merge is associative and commutative on bucket contents up to
// intra-bucket ordering: repeated merges in any order yield the same Count.
func (c *Collector) Merge(other *Collector) {
	for i := range c.shards {
		for key, trials := range other.shards[i] {
			c.shards[i][key] = append(c.shards[i][key], trials...)
		}
	}
}

// Count returns the total number of "extra" messages that collide with some
// earlier message: sum over buckets of max(0, len(bucket)-1).
func (c *Collector) Count() int {
	total := 0
	for _, shard := range c.shards {
		for _, trials := range shard {
			if n := len(trials) - 1; n > 0 {
				total += n
			}
		}
	}
	return total
}

// Bucket is one fingerprint's group of colliding trial byte strings.
type Bucket struct {
	Fingerprint []byte
	Trials      [][]byte
}

// Collisions returns every bucket with two or more trials. Bucket order
// across calls, and across differently-scheduled merges, is unspecified.
func (c *Collector) Collisions() []Bucket {
	var out []Bucket
	for _, shard := range c.shards {
		for key, trials := range shard {
			if len(trials) < 2 {
				continue
			}
			out = append(out, Bucket{Fingerprint: []byte(key), Trials: trials})
		}
	}
	return out
}

// Validate recovers the original message for every trial in every collision
// bucket and confirms, via the MD2 oracle, that they all compress to the
// same value from the all-zero initial state. It is a correctness check for
// tests and the CLI's -verify pass, never consulted by the search itself.
func Validate(s ttable.State, k int, c *Collector) error {
	var zero [16]byte
	for _, bucket := range c.Collisions() {
		var want [16]byte
		for i, trial := range bucket.Trials {
			msg := ttable.Recover(s, k, trial)
			got := md2.Compress(zero, msg)
			if i == 0 {
				want = got
				continue
			}
			if got != want {
				return errors.E(fmt.Sprintf(
					"collision/validate: trials in the same bucket do not hash equal: fingerprint=%v",
					bucket.Fingerprint))
			}
		}
	}
	return nil
}
