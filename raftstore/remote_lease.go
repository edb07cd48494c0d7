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
	"time"

	"github.com/uber-go/atomic"
)

// LeaseState is the three-way state a Lease or RemoteLease can be
// inspected into.
type LeaseState int

const (
	// LeaseStateNone means the lease has not been acquired yet, e.g. the
	// peer just won an election and has not renewed a lease.
	LeaseStateNone LeaseState = iota
	// LeaseStateSuspect means the lease's safety can no longer be trusted
	// without a round of consensus, e.g. across an election or a
	// transferred leadership.
	LeaseStateSuspect
	// LeaseStateExpired means the lease's declared expiry has passed.
	LeaseStateExpired
	// LeaseStateValid means the lease may be trusted for a local read.
	LeaseStateValid
)

// remoteExpiredLeaseWord is the sentinel RemoteLease.expiredTime value
// published when the owning Lease moves to Suspect: any reader observing
// it must treat the lease as expired, never as "not yet set".
const remoteExpiredLeaseWord uint64 = 0

// RemoteLease is a read-only, lock-free handle to a Lease's expiry that
// may be shared with reader goroutines serving local (ReadLocal) requests.
// expiredTime is the only mutable field and is always accessed through
// atomic load/store so readers never need to take a lock in the read hot
// path. term is fixed at construction: a RemoteLease is scoped to exactly
// one raft term and is discarded, never mutated, across a term change.
type RemoteLease struct {
	expiredTime atomic.Uint64
	term        uint64
}

// NewRemoteLease constructs a RemoteLease for the given term with the
// given initial expiry word (see PackMonotonicTime).
func NewRemoteLease(term uint64, expiredWord uint64) *RemoteLease {
	r := &RemoteLease{term: term}
	r.expiredTime.Store(expiredWord)
	return r
}

// Term returns the raft term this remote lease was issued for.
func (r *RemoteLease) Term() uint64 {
	return r.term
}

// Renew publishes a new expiry word, used by the owning Lease to push a
// renewed deadline out to readers.
func (r *RemoteLease) Renew(expiredWord uint64) {
	r.expiredTime.Store(expiredWord)
}

// Expire immediately invalidates the remote lease so readers stop trusting
// it, without waiting for its natural expiry time to pass.
func (r *RemoteLease) Expire() {
	r.expiredTime.Store(remoteExpiredLeaseWord)
}

// Inspect reports the lease state as of now, comparing now against the
// published expiry word. now may be nil, in which case a fresh monotonic
// clock reading is used — the same "now=None means read the clock" contract
// Lease.Inspect follows. A RemoteLease never reports LeaseStateSuspect:
// that transition only exists on the owning Lease, which publishes Expired
// to its remotes instead (see Lease.Suspect).
func (r *RemoteLease) Inspect(now *time.Time) LeaseState {
	word := r.expiredTime.Load()
	if word == remoteExpiredLeaseWord {
		return LeaseStateExpired
	}
	t := time.Now()
	if now != nil {
		t = *now
	}
	if PackMonotonicTime(t) >= word {
		return LeaseStateExpired
	}
	return LeaseStateValid
}
