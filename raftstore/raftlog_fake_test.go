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
	"github.com/pingcap/kvproto/pkg/raft_cmdpb"

	"github.com/coocood/regioncore/raftstore/raftlog"
)

// fakeRaftLog is a minimal raftlog.RaftLog used by tests so they don't
// need to build a full protobuf RaftCmdRequest just to drive validation.
type fakeRaftLog struct {
	regionID uint64
	hasEpoch bool
	epoch    raftlog.Epoch
	peerID   uint64
	storeID  uint64
	term     uint64
	admin    raft_cmdpb.AdminCmdType
	isAdmin  bool
}

func (f *fakeRaftLog) RegionID() uint64 { return f.regionID }
func (f *fakeRaftLog) HasEpoch() bool   { return f.hasEpoch }
func (f *fakeRaftLog) Epoch() raftlog.Epoch { return f.epoch }
func (f *fakeRaftLog) PeerID() uint64   { return f.peerID }
func (f *fakeRaftLog) StoreID() uint64  { return f.storeID }
func (f *fakeRaftLog) Term() uint64     { return f.term }
func (f *fakeRaftLog) IsAdmin() bool    { return f.isAdmin }
func (f *fakeRaftLog) AdminCmdType() raft_cmdpb.AdminCmdType { return f.admin }
func (f *fakeRaftLog) Marshal() []byte  { return nil }
func (f *fakeRaftLog) GetRaftCmdRequest() *raft_cmdpb.RaftCmdRequest { return nil }
