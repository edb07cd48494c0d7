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
	"time"

	"github.com/pingcap/log"
)

// maxDriftFactor bounds how much earlier than max_lease a remote lease is
// allowed to be republished on a bare Renew: renewing too eagerly relative
// to the last publish would make RemoteLease readers trust a window wider
// than max_lease actually allows once clock drift between replicas is
// taken into account.
const maxDriftFactor = 3

// Lease is a leader's local view of how long it may answer reads without
// another round of consensus. It is owned by exactly one goroutine (the
// peer's raft processing loop); RemoteLease handles derived from it via
// MaybeNewRemoteLease may be read concurrently by reader goroutines.
type Lease struct {
	mu sync.Mutex

	maxLease   time.Duration
	maxDrift   time.Duration
	bound      *time.Time // latest time this lease is known good until
	state      LeaseState
	remote     *RemoteLease
	lastUpdate time.Time
}

// NewLease constructs a Lease with the given max duration. maxDrift is
// derived as maxLease/3, the same ratio the original implementation uses
// to bound how stale a remote's last published deadline may be allowed to
// drift from a fresh renewal before the remote is republished.
func NewLease(maxLease time.Duration) *Lease {
	return &Lease{
		maxLease: maxLease,
		maxDrift: maxLease / maxDriftFactor,
		state:    LeaseStateNone,
	}
}

// NextExpiredTime returns the instant this lease would be considered
// expired if renewed at sendTime, i.e. sendTime + maxLease.
func (l *Lease) NextExpiredTime(sendTime time.Time) time.Time {
	return sendTime.Add(l.maxLease)
}

// Renew extends the lease's bound to sendTime + maxLease whenever the
// existing bound — whether currently tagged Suspect or Valid — is no later
// than the new one, becoming (or staying) Valid; a later existing bound is
// left untouched, including its tag, so a Suspect lease with a bound past
// the new one stays Suspect rather than being dragged back to Valid. Only
// once the stored bound ends up Valid is the remote lease considered for
// republishing, and only when doing so would meaningfully extend what it
// already advertises (more than maxDrift past its last publish). sendTime
// should be the time the triggering proposal was sent, not the time it was
// applied, so the bound accounts for in-flight replication latency.
func (l *Lease) Renew(sendTime time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bound := l.NextExpiredTime(sendTime)
	if l.bound == nil || !l.bound.After(bound) {
		l.bound = &bound
		l.state = LeaseStateValid
	}

	if l.state == LeaseStateValid && l.bound != nil && l.bound.Sub(l.lastUpdate) > l.maxDrift {
		l.lastUpdate = *l.bound
		if l.remote != nil {
			l.remote.Renew(PackMonotonicTime(*l.bound))
		}
	}
}

// Suspect marks the lease untrustworthy as of sendTime — used across an
// election or a leadership transfer, where the new leader cannot assume
// the old bound is still safe without a fresh round of consensus. Any
// live remote lease is immediately told it is expired rather than merely
// suspect: RemoteLease has no Suspect state of its own, so reporting it as
// Expired is the conservative, safe publication. A later Renew may still
// pull the lease back to Valid if the Suspect bound turns out to be no
// later than the newly requested one.
func (l *Lease) Suspect(sendTime time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expireRemoteLeaseLocked()
	l.state = LeaseStateSuspect
	bound := l.NextExpiredTime(sendTime)
	l.bound = &bound
}

// Expire invalidates the lease immediately, independent of its bound.
func (l *Lease) Expire() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expireLocked()
}

func (l *Lease) expireLocked() {
	l.state = LeaseStateExpired
	l.bound = nil
	l.expireRemoteLeaseLocked()
}

// ExpireRemoteLease immediately invalidates any live remote lease without
// otherwise touching this Lease's own state, used when a peer learns its
// term has advanced but has not yet decided whether it remains leader.
func (l *Lease) ExpireRemoteLease() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expireRemoteLeaseLocked()
}

func (l *Lease) expireRemoteLeaseLocked() {
	if l.remote != nil {
		l.remote.Expire()
		l.remote = nil
	}
}

// Inspect reports the lease state as of now, resolving a bound that has
// passed into LeaseStateExpired without needing an explicit Expire call. now
// may be nil, in which case a fresh monotonic clock reading is used. A
// lease that was never renewed, or was explicitly Expired, reports
// LeaseStateExpired — LeaseStateNone is an internal bookkeeping value only
// and is never returned here.
func (l *Lease) Inspect(now *time.Time) LeaseState {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := time.Now()
	if now != nil {
		t = *now
	}

	switch l.state {
	case LeaseStateSuspect:
		return LeaseStateSuspect
	case LeaseStateValid:
		if l.bound != nil && t.Before(*l.bound) {
			return LeaseStateValid
		}
		return LeaseStateExpired
	default: // LeaseStateNone, LeaseStateExpired
		return LeaseStateExpired
	}
}

// MaybeNewRemoteLease returns a fresh RemoteLease scoped to term, or nil if
// a remote lease for that exact term is already live — at most one
// connected RemoteLease exists per term, so a second request for the same
// term is a caller asking again for something it already has. A request
// for any other term while a remote lease is still attached is a caller
// bug: every path that moves this Lease to a new term must call
// ExpireRemoteLease first, so finding one still attached here means that
// didn't happen, serious enough to abort rather than hand back a handle
// that could let two terms answer reads concurrently.
func (l *Lease) MaybeNewRemoteLease(term uint64) *RemoteLease {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.remote != nil {
		if l.remote.Term() == term {
			return nil
		}
		log.S().Fatalf("lease term changed from %d to %d without expiring the old remote lease first", l.remote.Term(), term)
	}

	var word uint64
	if l.bound != nil && l.state == LeaseStateValid {
		word = PackMonotonicTime(*l.bound)
	}
	l.remote = NewRemoteLease(term, word)
	return l.remote
}
