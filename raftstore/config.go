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

import "time"

// Config carries the tunables this package needs. It is built with
// defaults and never parses a file or flag set itself — wiring it up to a
// config file format is left to whatever binary embeds this package.
type Config struct {
	// RaftStoreMaxLeaderLease bounds how long a leader may serve local
	// reads after its last heartbeat round without reconfirming via
	// consensus.
	RaftStoreMaxLeaderLease time.Duration
	// RegionReadProgressCap bounds the pending deque each
	// RegionReadProgress keeps for out-of-order safe-ts updates.
	RegionReadProgressCap int
}

// DefaultConfig returns the defaults used across the rest of the corpus:
// a 9 second max leader lease and a pending-deque capacity of 128.
func DefaultConfig() *Config {
	return &Config{
		RaftStoreMaxLeaderLease: 9 * time.Second,
		RegionReadProgressCap:   128,
	}
}
