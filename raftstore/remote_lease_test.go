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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemoteLeaseInspect(t *testing.T) {
	now := time.Now()
	r := NewRemoteLease(3, PackMonotonicTime(now.Add(time.Second)))
	assert.Equal(t, LeaseStateValid, r.Inspect(timePtr(now)))
	assert.Equal(t, LeaseStateExpired, r.Inspect(timePtr(now.Add(2*time.Second))))
}

func TestRemoteLeaseInspectDefaultsToNow(t *testing.T) {
	r := NewRemoteLease(3, PackMonotonicTime(time.Now().Add(time.Second)))
	assert.Equal(t, LeaseStateValid, r.Inspect(nil))
}

func TestRemoteLeaseExpire(t *testing.T) {
	now := time.Now()
	r := NewRemoteLease(3, PackMonotonicTime(now.Add(time.Second)))
	r.Expire()
	assert.Equal(t, LeaseStateExpired, r.Inspect(timePtr(now)))
}

// TestRemoteLeaseConcurrentReaders exercises the lock-free fast path from
// many goroutines while a single writer renews it, the way a leader peer
// renews while readers concurrently Inspect.
func TestRemoteLeaseConcurrentReaders(t *testing.T) {
	now := time.Now()
	r := NewRemoteLease(1, PackMonotonicTime(now.Add(time.Second)))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					r.Inspect(nil)
				}
			}
		}()
	}

	for i := 0; i < 100; i++ {
		r.Renew(PackMonotonicTime(time.Now().Add(time.Second)))
	}
	close(stop)
	wg.Wait()
}
