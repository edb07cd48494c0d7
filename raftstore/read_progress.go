// Copyright 2019-present PingCAP, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package raftstore

import (
	"sync"

	"github.com/pingcap/log"
	"github.com/uber-go/atomic"
)

// ReadState is a (applied index, safe ts) pair handed back to a reader
// that needs to know which safe timestamp is now backed by consensus at a
// given log position.
type ReadState struct {
	ApplyIndex uint64
	SafeTs     uint64
}

// pendingItem is one entry of the core's pending deque: a safe ts that
// will become visible once apply_index has actually been applied.
type pendingItem struct {
	applyIndex uint64
	safeTs     uint64
}

// RegionReadProgress tracks, for one region, the newest timestamp at or
// before which it is safe to serve a stale (follower) read. safeTs is
// published through an atomic word so the fast path (a reader just wants
// the current value) never takes the mutex; updates that reorder apply
// index and safe ts relative to each other go through the mutex-guarded
// core and its pending deque.
type RegionReadProgress struct {
	safeTs atomic.Uint64

	mu   sync.Mutex
	core regionReadProgressCore
}

type regionReadProgressCore struct {
	appliedIndex uint64
	pending      []pendingItem
	cap          int
	paused       bool
}

// NewRegionReadProgress constructs a RegionReadProgress with the given
// pending-deque capacity (spec default 128, see Config.RegionReadProgressCap).
func NewRegionReadProgress(appliedIndex uint64, cap int) *RegionReadProgress {
	if cap <= 0 {
		cap = 128
	}
	return &RegionReadProgress{
		core: regionReadProgressCore{appliedIndex: appliedIndex, cap: cap},
	}
}

// SafeTs returns the current published safe timestamp without taking the
// mutex.
func (p *RegionReadProgress) SafeTs() uint64 {
	return p.safeTs.Load()
}

// ReadState returns the most future-looking claim known: the back of the
// pending deque if it is non-empty (the furthest-ahead observation not yet
// backed by applied state), else the current applied index paired with the
// currently published safe ts.
func (p *RegionReadProgress) ReadState() ReadState {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.core.pending); n > 0 {
		tail := p.core.pending[n-1]
		return ReadState{ApplyIndex: tail.applyIndex, SafeTs: tail.safeTs}
	}
	return ReadState{ApplyIndex: p.core.appliedIndex, SafeTs: p.safeTs.Load()}
}

// UpdateApplied advances the applied index and resolves any pending safe
// ts entries whose apply index has now been reached, publishing the
// newest resolved one. It is a no-op (besides bookkeeping) if appliedIndex
// does not advance past any pending entry.
func (p *RegionReadProgress) UpdateApplied(appliedIndex uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.core.paused {
		return
	}
	if appliedIndex < p.core.appliedIndex {
		log.S().Warnf("applied index moved backwards, %d -> %d", p.core.appliedIndex, appliedIndex)
		return
	}
	p.core.appliedIndex = appliedIndex

	resolved := p.safeTs.Load()
	i := 0
	for ; i < len(p.core.pending); i++ {
		if p.core.pending[i].applyIndex > appliedIndex {
			break
		}
		if p.core.pending[i].safeTs > resolved {
			resolved = p.core.pending[i].safeTs
		}
	}
	if i > 0 {
		p.core.pending = p.core.pending[i:]
		if resolved > p.safeTs.Load() {
			p.safeTs.Store(resolved)
		}
	}
}

// UpdateSafeTs records that safeTs becomes valid once appliedIndex is
// reached. A zero appliedIndex or zero safeTs is silently ignored. If
// appliedIndex has already been applied, safeTs is published immediately
// on the fast path (when it improves on the current published value);
// otherwise the observation is merged onto the tail of the pending deque.
func (p *RegionReadProgress) UpdateSafeTs(appliedIndex, safeTs uint64) {
	if appliedIndex == 0 || safeTs == 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.core.paused {
		return
	}
	if appliedIndex <= p.core.appliedIndex {
		if safeTs > p.safeTs.Load() {
			p.safeTs.Store(safeTs)
		}
		return
	}
	p.core.pushBack(pendingItem{applyIndex: appliedIndex, safeTs: safeTs})
}

// pushBack merges item onto the tail of the pending deque:
//
//   - if the tail's ts already dominates (>=) item's ts, item is dropped —
//     it asks for no more apply progress than what's already promised.
//   - else if the tail's apply index already covers item's (>= item's),
//     the tail's ts is upgraded in place to item's larger ts.
//   - otherwise item genuinely advances both dimensions and is appended.
//
// Only the append branch can grow the deque, so only it checks capacity:
// on overflow the deque is decimated by keeping every other element
// (indices 0, 2, 4, ...) rather than collapsing to only the newest entries.
// The oldest entry is always kept; the newest is kept when cap is even
// (the deque then holds an odd cap+1 entries) and dropped when cap is odd.
func (c *regionReadProgressCore) pushBack(item pendingItem) {
	if n := len(c.pending); n > 0 {
		tail := &c.pending[n-1]
		if tail.safeTs >= item.safeTs {
			return
		}
		if tail.applyIndex >= item.applyIndex {
			tail.safeTs = item.safeTs
			return
		}
	}
	c.pending = append(c.pending, item)
	if len(c.pending) <= c.cap {
		return
	}
	decimated := c.pending[:0:0]
	for i := 0; i < len(c.pending); i += 2 {
		decimated = append(decimated, c.pending[i])
	}
	c.pending = decimated
}

// Clear resets the pending deque, zeroes the published safe ts, and pauses
// further updates until the caller calls Resume, used when a region is
// about to be destroyed or re-created (e.g. across a split/merge): stale
// pending entries must not leak into the new incarnation, and a reader
// checking SafeTs on the lock-free fast path must not keep observing the
// old incarnation's value once its state has been reset.
func (p *RegionReadProgress) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.core.pending = nil
	p.core.paused = true
	p.safeTs.Store(0)
}

// Resume re-enables updates after Clear, re-seeding the applied index.
func (p *RegionReadProgress) Resume(appliedIndex uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.core.appliedIndex = appliedIndex
	p.core.paused = false
}
