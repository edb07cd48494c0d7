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
	"github.com/pingcap/kvproto/pkg/metapb"
	"github.com/pingcap/log"

	"github.com/coocood/regioncore/raftstore/raftlog"
)

// CheckStoreID checks that the command was addressed to myStoreID.
func CheckStoreID(log raftlog.RaftLog, myStoreID uint64) error {
	if log.StoreID() != myStoreID {
		return errors.WithStack(&ErrStoreNotMatch{ToStoreID: log.StoreID(), MyStoreID: myStoreID})
	}
	return nil
}

// CheckPeerID checks that the command's header peer matches the peer
// handling it.
func CheckPeerID(log raftlog.RaftLog, myPeerID uint64) error {
	if log.PeerID() != myPeerID {
		return errors.WithStack(&ErrMismatchPeerID{HeaderPeerID: log.PeerID(), ExpectPeerID: myPeerID})
	}
	return nil
}

// CheckTerm checks that the command's term does not trail the current term
// by more than one. A term exactly one behind is tolerated because the
// leader may have just been elected and not yet told the proposer.
func CheckTerm(log raftlog.RaftLog, currentTerm uint64) error {
	if log.Term() == 0 || log.Term()+1 >= currentTerm {
		return nil
	}
	return errors.WithStack(&ErrStaleCommand{})
}

// CompareRegionEpoch validates fromEpoch (the command header's epoch)
// against region's current epoch according to the policy in
// AdminCmdEpochState, which fields must be checked and, for informational
// purposes, which ones the command itself is allowed to change. includeRegion
// attaches the current region descriptor to the returned ErrEpochNotMatch so
// a routing layer can refresh its cache from a single failed request.
func CompareRegionEpoch(
	fromEpoch *metapb.RegionEpoch,
	region *metapb.Region,
	state AdminCmdEpochState,
	includeRegion bool,
) error {
	// phase check: a command proposed before a conf change that bumped
	// conf_ver must not apply after the change, and vice versa. Each checked
	// field must be equal; ChangeVer/ChangeConfVer are not consulted here.
	if (state.CheckConfVer && fromEpoch.GetConfVer() != region.GetRegionEpoch().GetConfVer()) ||
		(state.CheckVer && fromEpoch.GetVersion() != region.GetRegionEpoch().GetVersion()) {
		log.S().Debugf("epoch not match, region id %d, from epoch %s, current epoch %s",
			region.GetId(), fromEpoch, region.GetRegionEpoch())
		var affected []*metapb.Region
		if includeRegion {
			affected = []*metapb.Region{region}
		}
		return errors.WithStack(&ErrEpochNotMatch{
			Message: fmt.Sprintf(
				"current epoch of region %d is %s, but you sent %s",
				region.GetId(), region.GetRegionEpoch(), fromEpoch,
			),
			AffectedRegions: affected,
		})
	}
	return nil
}

// CheckRegionEpoch is the entry point used by request handling: it derives
// the check state from whether the command is an admin command (and which
// one) or a normal read/write, then delegates to CompareRegionEpoch.
// Non-epoch-bearing commands (log.HasEpoch() == false) are only permitted
// for admin types that don't check any epoch field; everything else must
// present an epoch.
func CheckRegionEpoch(log raftlog.RaftLog, region *metapb.Region, includeRegion bool) error {
	var state AdminCmdEpochState
	if log.IsAdmin() {
		state = GetAdminCmdEpochState(log.AdminCmdType())
	} else {
		state = newAdminCmdEpochState(NormalReqCheckVer, NormalReqCheckConfVer, false, false)
	}
	if !log.HasEpoch() {
		if !state.CheckVer && !state.CheckConfVer {
			return nil
		}
		return errors.WithStack(&ErrMissingEpoch{})
	}
	fromEpoch := &metapb.RegionEpoch{Version: log.Epoch().Ver, ConfVer: log.Epoch().ConfVer}
	return CompareRegionEpoch(fromEpoch, region, state, includeRegion)
}

// ValidateRequest runs the full request validation pipeline: store id,
// peer id, term, then region epoch, in that order, short-circuiting on the
// first failure. This is the sequence the teacher's leaderChecker.IsLeader
// and isExpired apply before trusting a local read.
func ValidateRequest(log raftlog.RaftLog, region *metapb.Region, myStoreID, myPeerID, currentTerm uint64, includeRegion bool) error {
	if err := CheckStoreID(log, myStoreID); err != nil {
		return err
	}
	if err := CheckPeerID(log, myPeerID); err != nil {
		return err
	}
	if err := CheckTerm(log, currentTerm); err != nil {
		return err
	}
	return CheckRegionEpoch(log, region, includeRegion)
}
