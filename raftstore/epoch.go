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
	"github.com/pingcap/kvproto/pkg/metapb"
	"github.com/pingcap/kvproto/pkg/raft_cmdpb"
)

// AdminCmdEpochState describes, for one admin command type, which epoch
// fields a proposal must match against the current region epoch before it
// is allowed to apply, and which epoch fields the command itself advances
// once applied. This table must never be changed casually: every entry
// encodes a correctness argument about which concurrent admin commands are
// safe to interleave.
type AdminCmdEpochState struct {
	CheckVer     bool
	CheckConfVer bool
	ChangeVer    bool
	ChangeConfVer bool
}

func newAdminCmdEpochState(checkVer, checkConfVer, changeVer, changeConfVer bool) AdminCmdEpochState {
	return AdminCmdEpochState{
		CheckVer:      checkVer,
		CheckConfVer:  checkConfVer,
		ChangeVer:     changeVer,
		ChangeConfVer: changeConfVer,
	}
}

// AdminCmdEpochLookup is the fixed policy table mapping an AdminCmdType to
// its AdminCmdEpochState. Entries not present default to checking both
// version and conf_ver and changing neither, the same default the original
// admin_cmd_epoch_lookup table uses for commands with no special handling.
var AdminCmdEpochLookup = map[raft_cmdpb.AdminCmdType]AdminCmdEpochState{
	raft_cmdpb.AdminCmdType_InvalidAdmin:      newAdminCmdEpochState(false, false, false, false),
	raft_cmdpb.AdminCmdType_CompactLog:        newAdminCmdEpochState(false, false, false, false),
	raft_cmdpb.AdminCmdType_ComputeHash:       newAdminCmdEpochState(false, false, false, false),
	raft_cmdpb.AdminCmdType_VerifyHash:        newAdminCmdEpochState(false, false, false, false),
	raft_cmdpb.AdminCmdType_TransferLeader:    newAdminCmdEpochState(true, true, false, false),
	raft_cmdpb.AdminCmdType_ChangePeer:        newAdminCmdEpochState(false, true, false, true),
	raft_cmdpb.AdminCmdType_ChangePeerV2:      newAdminCmdEpochState(false, true, false, true),
	raft_cmdpb.AdminCmdType_Split:             newAdminCmdEpochState(true, true, true, false),
	raft_cmdpb.AdminCmdType_BatchSplit:        newAdminCmdEpochState(true, true, true, false),
	raft_cmdpb.AdminCmdType_PrepareMerge:      newAdminCmdEpochState(true, true, true, true),
	raft_cmdpb.AdminCmdType_CommitMerge:       newAdminCmdEpochState(true, true, true, false),
	raft_cmdpb.AdminCmdType_RollbackMerge:     newAdminCmdEpochState(true, true, true, false),
}

// GetAdminCmdEpochState looks up the policy for an admin command type,
// falling back to checking both fields and changing neither when the type
// has no table entry.
func GetAdminCmdEpochState(cmdType raft_cmdpb.AdminCmdType) AdminCmdEpochState {
	if state, ok := AdminCmdEpochLookup[cmdType]; ok {
		return state
	}
	return newAdminCmdEpochState(true, true, false, false)
}

// Normal (non-admin) requests only check version; conf_ver changes (adding
// or removing a peer) never invalidate an in-flight data request.
const (
	NormalReqCheckVer     = true
	NormalReqCheckConfVer = false
)

// IsEpochStale reports whether epoch trails checkEpoch on either counter.
// Unlike CompareRegionEpoch, this does not flag an epoch that is ahead of
// checkEpoch and ignores which specific field is stale — it is used to decide whether a
// cached route is stale, not whether a proposal may apply.
func IsEpochStale(epoch, checkEpoch *metapb.RegionEpoch) bool {
	return epoch.GetVersion() < checkEpoch.GetVersion() ||
		epoch.GetConfVer() < checkEpoch.GetConfVer()
}
