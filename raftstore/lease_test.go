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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestLeaseStartsExpired(t *testing.T) {
	l := NewLease(time.Second)
	assert.Equal(t, LeaseStateExpired, l.Inspect(timePtr(time.Now())))
}

func TestLeaseInspectDefaultsToNow(t *testing.T) {
	l := NewLease(time.Second)
	l.Renew(time.Now())
	assert.Equal(t, LeaseStateValid, l.Inspect(nil))
}

func TestLeaseRenewBecomesValid(t *testing.T) {
	l := NewLease(time.Second)
	now := time.Now()
	l.Renew(now)
	assert.Equal(t, LeaseStateValid, l.Inspect(timePtr(now)))
	assert.Equal(t, LeaseStateValid, l.Inspect(timePtr(now.Add(500*time.Millisecond))))
}

func TestLeaseExpiresAfterMaxLease(t *testing.T) {
	l := NewLease(time.Second)
	now := time.Now()
	l.Renew(now)
	assert.Equal(t, LeaseStateExpired, l.Inspect(timePtr(now.Add(2*time.Second))))
}

func TestLeaseSuspectStaysSuspectWhileBoundIsLater(t *testing.T) {
	l := NewLease(time.Second)
	now := time.Now()
	l.Renew(now)
	l.Suspect(now)
	assert.Equal(t, LeaseStateSuspect, l.Inspect(timePtr(now)))

	// The Suspect bound (now+1s) is later than this renewal's bound
	// (now-500ms+1s = now+500ms), so the lease stays Suspect rather than
	// being pulled back to Valid.
	l.Renew(now.Add(-500 * time.Millisecond))
	assert.Equal(t, LeaseStateSuspect, l.Inspect(timePtr(now)))
}

func TestLeaseSuspectCanBeRenewedBackToValid(t *testing.T) {
	l := NewLease(time.Second)
	now := time.Now()
	l.Renew(now)
	l.Suspect(now)
	assert.Equal(t, LeaseStateSuspect, l.Inspect(timePtr(now)))

	// A renewal whose bound is no earlier than the Suspect bound pulls the
	// lease back to Valid.
	later := now.Add(100 * time.Millisecond)
	l.Renew(later)
	assert.Equal(t, LeaseStateValid, l.Inspect(timePtr(later)))
}

func TestLeaseExpireIsImmediate(t *testing.T) {
	l := NewLease(time.Second)
	now := time.Now()
	l.Renew(now)
	l.Expire()
	assert.Equal(t, LeaseStateExpired, l.Inspect(timePtr(now)))
}

func TestMaybeNewRemoteLeaseSameTermReturnsNil(t *testing.T) {
	l := NewLease(time.Second)
	now := time.Now()
	l.Renew(now)
	r1 := l.MaybeNewRemoteLease(7)
	assert.NotNil(t, r1)
	r2 := l.MaybeNewRemoteLease(7)
	assert.Nil(t, r2)
}

func TestMaybeNewRemoteLeaseMintsFreshHandleAfterExpire(t *testing.T) {
	l := NewLease(time.Second)
	now := time.Now()
	l.Renew(now)
	r1 := l.MaybeNewRemoteLease(7)
	assert.EqualValues(t, 7, r1.Term())

	l.ExpireRemoteLease()
	r2 := l.MaybeNewRemoteLease(8)
	assert.NotSame(t, r1, r2)
	assert.EqualValues(t, 8, r2.Term())
}

func TestSuspectExpiresRemoteLease(t *testing.T) {
	l := NewLease(time.Second)
	now := time.Now()
	l.Renew(now)
	remote := l.MaybeNewRemoteLease(1)
	assert.Equal(t, LeaseStateValid, remote.Inspect(timePtr(now)))
	l.Suspect(now)
	assert.Equal(t, LeaseStateExpired, remote.Inspect(timePtr(now)))
}

// TestLeaseLifeScenario reproduces the spec's S3 scenario exactly.
func TestLeaseLifeScenario(t *testing.T) {
	l := NewLease(1500 * time.Millisecond)
	assert.Equal(t, LeaseStateExpired, l.Inspect(timePtr(time.Now())))

	t0 := time.Now()
	l.Renew(t0)
	assert.Equal(t, LeaseStateValid, l.Inspect(timePtr(t0.Add(time.Second))))
	assert.Equal(t, LeaseStateExpired, l.Inspect(timePtr(t0.Add(2*time.Second))))

	remoteBeforeExpire := l.MaybeNewRemoteLease(1)

	l.Suspect(t0.Add(2 * time.Second))
	assert.Equal(t, LeaseStateSuspect, l.Inspect(timePtr(t0)))
	assert.Equal(t, LeaseStateSuspect, l.Inspect(timePtr(t0.Add(10*time.Second))))

	l.Expire()
	assert.Equal(t, LeaseStateExpired, l.Inspect(timePtr(t0)))

	assert.Equal(t, LeaseStateExpired, remoteBeforeExpire.Inspect(timePtr(t0)))
	assert.Equal(t, LeaseStateExpired, remoteBeforeExpire.Inspect(timePtr(t0.Add(time.Hour))))
}

func TestRenewPropagatesToRemoteLease(t *testing.T) {
	l := NewLease(time.Second)
	now := time.Now()
	l.Renew(now)
	remote := l.MaybeNewRemoteLease(1)

	later := now.Add(500 * time.Millisecond)
	l.Renew(later)
	assert.Equal(t, LeaseStateValid, remote.Inspect(timePtr(later.Add(900*time.Millisecond))))
}

// TestRenewBoundIsMonotoneAcrossArbitrarySendTimes reproduces testable
// property 3: the Valid bound never moves backwards no matter what order
// of send_ts values a sequence of Renew calls is fed.
func TestRenewBoundIsMonotoneAcrossArbitrarySendTimes(t *testing.T) {
	l := NewLease(time.Second)
	base := time.Now()

	sendTimes := []time.Duration{
		0, 200 * time.Millisecond, 100 * time.Millisecond, 400 * time.Millisecond,
		50 * time.Millisecond, 900 * time.Millisecond, 300 * time.Millisecond,
	}

	var prevBound time.Time
	for _, d := range sendTimes {
		l.Renew(base.Add(d))
		l.mu.Lock()
		bound := *l.bound
		l.mu.Unlock()
		assert.False(t, bound.Before(prevBound), "bound moved backwards: %v -> %v", prevBound, bound)
		prevBound = bound
	}
}
