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

func TestPackUnpackRoundTrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 123_000_000)
	word := PackMonotonicTime(now)
	got := UnpackMonotonicTime(word)
	assert.False(t, got.After(now), "unpack(pack(t)) must never exceed t")
	assert.WithinDuration(t, now, got, time.Millisecond)
}

func TestPackTruncatesSubMillisecond(t *testing.T) {
	now := time.Unix(100, 999_999_999)
	word := PackMonotonicTime(now)
	got := UnpackMonotonicTime(word)
	assert.True(t, got.Before(now) || got.Equal(now))
}

func TestPackOrderingPreserved(t *testing.T) {
	t1 := time.Unix(1000, 0)
	t2 := time.Unix(1000, 500_000_000)
	assert.Less(t, PackMonotonicTime(t1), PackMonotonicTime(t2))
}
