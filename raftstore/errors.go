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
	"fmt"

	"github.com/pingcap/errors"
	"github.com/pingcap/kvproto/pkg/errorpb"
	"github.com/pingcap/kvproto/pkg/metapb"
)

// ErrKeyNotInRegion is returned when a key falls outside a region's range.
type ErrKeyNotInRegion struct {
	Key    []byte
	Region *metapb.Region
}

func (e *ErrKeyNotInRegion) Error() string {
	return fmt.Sprintf("key %x not in region %v", e.Key, e.Region)
}

// ErrStoreNotMatch is returned when a command's header addresses a store
// other than the one handling it.
type ErrStoreNotMatch struct {
	ToStoreID uint64
	MyStoreID uint64
}

func (e *ErrStoreNotMatch) Error() string {
	return fmt.Sprintf("store not match, to store id %v, mine %v", e.ToStoreID, e.MyStoreID)
}

// ErrStaleCommand is returned when a command's term trails the current
// term by more than one, meaning the leader may have changed since the
// command was issued.
type ErrStaleCommand struct{}

func (e *ErrStaleCommand) Error() string {
	return "stale command"
}

// ErrEpochNotMatch is returned when a command's region epoch does not
// equal the region's current epoch on a checked field. AffectedRegions is
// optionally populated with the region's current descriptor so the caller
// can refresh its route cache.
type ErrEpochNotMatch struct {
	Message         string
	AffectedRegions []*metapb.Region
}

func (e *ErrEpochNotMatch) Error() string {
	return fmt.Sprintf("epoch not match, %s", e.Message)
}

// ErrMissingEpoch is returned when a command's epoch policy (admin or
// normal request) requires an epoch check but the header carries no region
// epoch at all.
type ErrMissingEpoch struct{}

func (e *ErrMissingEpoch) Error() string {
	return "missing epoch"
}

// ErrMismatchPeerID is returned when a command's header peer id does not
// match the peer handling it.
type ErrMismatchPeerID struct {
	HeaderPeerID uint64
	ExpectPeerID uint64
}

func (e *ErrMismatchPeerID) Error() string {
	return fmt.Sprintf("mismatch peer id %v != %v", e.HeaderPeerID, e.ExpectPeerID)
}

// ErrToPbError converts an internal error into the wire errorpb.Error
// envelope returned to a client or routing layer. Errors outside the
// taxonomy below are reported as a generic message, matching the
// teacher's fallback in its own ErrToPbError. Validation errors are
// constructed with errors.WithStack so a stack trace survives up to
// whichever caller logs the rejection; errors.Cause unwraps that before
// the type switch below, which only ever needs the original concrete type.
func ErrToPbError(err error) *errorpb.Error {
	e := &errorpb.Error{Message: err.Error()}
	switch inner := errors.Cause(err).(type) {
	case *ErrKeyNotInRegion:
		e.KeyNotInRegion = &errorpb.KeyNotInRegion{
			Key:      inner.Key,
			RegionId: inner.Region.GetId(),
			StartKey: inner.Region.GetStartKey(),
			EndKey:   inner.Region.GetEndKey(),
		}
	case *ErrStoreNotMatch:
		e.StoreNotMatch = &errorpb.StoreNotMatch{
			RequestStoreId: inner.ToStoreID,
			ActualStoreId:  inner.MyStoreID,
		}
	case *ErrStaleCommand:
		e.StaleCommand = &errorpb.StaleCommand{}
	case *ErrEpochNotMatch:
		e.EpochNotMatch = &errorpb.EpochNotMatch{
			CurrentRegions: inner.AffectedRegions,
		}
	case *ErrMissingEpoch, *ErrMismatchPeerID:
		// No dedicated wire field; the message alone carries the reason.
	}
	return e
}
