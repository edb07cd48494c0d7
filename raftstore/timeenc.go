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

	"github.com/pingcap/log"
)

// Monotonic time is packed into a single uint64 word so it can be stored
// and loaded with a single atomic operation: the high 46 bits hold whole
// seconds, the low 18 bits hold milliseconds within that second (up to
// 999, which fits in 10 bits, but the wider field matches the original
// packing and leaves room to spare). Packing rounds down to millisecond
// resolution, so unpack(pack(t)) <= t always holds, never >.
const (
	timeSecShift  = 18
	timeMsecMask  = (1 << timeSecShift) - 1
	nanosPerMilli = int64(time.Millisecond)
)

// PackMonotonicTime encodes t (which must come from a monotonic clock
// reading, e.g. time.Now()) into a single uint64 word. It aborts the
// process via a fatal log if t predates the Unix epoch or carries a negative Nanosecond
// component, both of which indicate the caller passed a non-monotonic or
// corrupt timestamp — a condition the original implementation also treats
// as an unrecoverable invariant violation rather than something to return
// as an error.
func PackMonotonicTime(t time.Time) uint64 {
	sec := t.Unix()
	nsec := int64(t.Nanosecond())
	if sec < 0 {
		log.S().Fatalf("time %v has negative seconds since epoch", t)
	}
	if nsec < 0 {
		log.S().Fatalf("time %v has negative nanoseconds", t)
	}
	msec := nsec / nanosPerMilli
	return uint64(sec)<<timeSecShift | uint64(msec)&timeMsecMask
}

// UnpackMonotonicTime decodes a word produced by PackMonotonicTime back
// into a time.Time truncated to millisecond resolution.
func UnpackMonotonicTime(word uint64) time.Time {
	sec := int64(word >> timeSecShift)
	msec := int64(word & timeMsecMask)
	return time.Unix(sec, msec*nanosPerMilli)
}
