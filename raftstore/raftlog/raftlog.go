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

// Package raftlog abstracts a replicated command header so request
// validation can be driven by either a wire RaftCmdRequest or a
// hand-built descriptor in tests.
package raftlog

import "github.com/pingcap/kvproto/pkg/raft_cmdpb"

// Epoch is the pair of monotone counters carried by a region and by a
// replicated command's header.
type Epoch struct {
	Ver     uint64
	ConfVer uint64
}

// RaftLog defines the raft log interface.
type RaftLog interface {
	RegionID() uint64
	// HasEpoch reports whether the command header carries a region epoch at all.
	HasEpoch() bool
	Epoch() Epoch
	PeerID() uint64
	StoreID() uint64
	Term() uint64
	AdminCmdType() raft_cmdpb.AdminCmdType
	IsAdmin() bool
	Marshal() []byte
	GetRaftCmdRequest() *raft_cmdpb.RaftCmdRequest
}

// request adapts a *raft_cmdpb.RaftCmdRequest to the RaftLog interface.
type request struct {
	cmd *raft_cmdpb.RaftCmdRequest
}

// NewRequest wraps a raw RaftCmdRequest as a RaftLog.
func NewRequest(cmd *raft_cmdpb.RaftCmdRequest) RaftLog {
	return &request{cmd: cmd}
}

func (r *request) RegionID() uint64 {
	return r.cmd.GetHeader().GetRegionId()
}

func (r *request) HasEpoch() bool {
	return r.cmd.GetHeader().GetRegionEpoch() != nil
}

func (r *request) Epoch() Epoch {
	e := r.cmd.GetHeader().GetRegionEpoch()
	return Epoch{Ver: e.GetVersion(), ConfVer: e.GetConfVer()}
}

func (r *request) PeerID() uint64 {
	return r.cmd.GetHeader().GetPeer().GetId()
}

func (r *request) StoreID() uint64 {
	return r.cmd.GetHeader().GetPeer().GetStoreId()
}

func (r *request) Term() uint64 {
	return r.cmd.GetHeader().GetTerm()
}

func (r *request) IsAdmin() bool {
	return r.cmd.GetAdminRequest() != nil
}

func (r *request) AdminCmdType() raft_cmdpb.AdminCmdType {
	return r.cmd.GetAdminRequest().GetCmdType()
}

func (r *request) Marshal() []byte {
	data, err := r.cmd.Marshal()
	if err != nil {
		panic(err)
	}
	return data
}

func (r *request) GetRaftCmdRequest() *raft_cmdpb.RaftCmdRequest {
	return r.cmd
}
