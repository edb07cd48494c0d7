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
	"bytes"

	"github.com/pingcap/kvproto/pkg/metapb"
)

// FindPeer returns the peer of region pinned to storeID, or nil.
func FindPeer(region *metapb.Region, storeID uint64) *metapb.Peer {
	for _, p := range region.GetPeers() {
		if p.GetStoreId() == storeID {
			return p
		}
	}
	return nil
}

// IsRegionInitialized reports whether the region has any peers yet.
func IsRegionInitialized(region *metapb.Region) bool {
	return len(region.GetPeers()) != 0
}

// CheckKeyInRegion checks key is in region range [start_key, end_key).
func CheckKeyInRegion(key []byte, region *metapb.Region) error {
	if KeyInRegion(key, region) {
		return nil
	}
	return &ErrKeyNotInRegion{Key: key, Region: region}
}

// CheckKeyInRegionInclusive checks key is in region range [start_key, end_key].
func CheckKeyInRegionInclusive(key []byte, region *metapb.Region) error {
	if KeyInRegionInclusive(key, region) {
		return nil
	}
	return &ErrKeyNotInRegion{Key: key, Region: region}
}

// CheckKeyInRegionExclusive checks key is in region range (start_key, end_key).
func CheckKeyInRegionExclusive(key []byte, region *metapb.Region) error {
	if KeyInRegionExclusive(key, region) {
		return nil
	}
	return &ErrKeyNotInRegion{Key: key, Region: region}
}

// KeyInRegion reports whether start_key <= key < end_key. An empty
// end_key denotes +∞.
func KeyInRegion(key []byte, region *metapb.Region) bool {
	startKey, endKey := region.GetStartKey(), region.GetEndKey()
	return bytes.Compare(key, startKey) >= 0 && (len(endKey) == 0 || bytes.Compare(key, endKey) < 0)
}

// KeyInRegionInclusive reports whether start_key <= key <= end_key.
func KeyInRegionInclusive(key []byte, region *metapb.Region) bool {
	startKey, endKey := region.GetStartKey(), region.GetEndKey()
	return bytes.Compare(key, startKey) >= 0 && (len(endKey) == 0 || bytes.Compare(key, endKey) <= 0)
}

// KeyInRegionExclusive reports whether start_key < key < end_key.
func KeyInRegionExclusive(key []byte, region *metapb.Region) bool {
	startKey, endKey := region.GetStartKey(), region.GetEndKey()
	return bytes.Compare(key, startKey) > 0 && (len(endKey) == 0 || bytes.Compare(key, endKey) < 0)
}

// IsSiblingRegions reports whether lhs and rhs share a border and don't
// overlap: one's end_key equals the other's start_key, and that shared
// key is non-empty (neither region is the rightmost one).
func IsSiblingRegions(lhs, rhs *metapb.Region) bool {
	if lhs.GetId() == rhs.GetId() {
		return false
	}
	if len(rhs.GetEndKey()) != 0 && bytes.Equal(lhs.GetStartKey(), rhs.GetEndKey()) {
		return true
	}
	if len(lhs.GetEndKey()) != 0 && bytes.Equal(lhs.GetEndKey(), rhs.GetStartKey()) {
		return true
	}
	return false
}

// RegionOnSameStores reports whether lhs and rhs have peers with equal
// (store_id, role) sets, i.e. the two regions are replicated on the same
// stores.
func RegionOnSameStores(lhs, rhs *metapb.Region) bool {
	if len(lhs.GetPeers()) != len(rhs.GetPeers()) {
		return false
	}
	for _, lp := range lhs.GetPeers() {
		found := false
		for _, rp := range rhs.GetPeers() {
			if rp.GetStoreId() == lp.GetStoreId() && rp.GetRole() == lp.GetRole() {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
