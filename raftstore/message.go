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

import "github.com/pingcap/kvproto/pkg/eraftpb"

// Constants describing an uninitialized raft log, used to recognize the
// very first messages a peer ever sends or receives.
const (
	RaftInitLogTerm  = 5
	RaftInitLogIndex = 5
	InvalidIndex     = 0
)

// IsVoteMsg reports whether a message is a vote request, pre-vote or
// otherwise.
func IsVoteMsg(msg *eraftpb.Message) bool {
	t := msg.GetMsgType()
	return t == eraftpb.MessageType_MsgRequestVote || t == eraftpb.MessageType_MsgRequestPreVote
}

// IsFirstVoteMsg reports whether msg is a vote request sent by a candidate
// that has never applied any log entry, identified by it still carrying
// the term immediately after the initial one. A peer receiving one of
// these knows the candidate was only just created (e.g. by a split or a
// new replica add) and may need to be woken up to participate rather than
// ignored as a stray message for an unknown region.
func IsFirstVoteMsg(msg *eraftpb.Message) bool {
	return IsVoteMsg(msg) && msg.GetTerm() == RaftInitLogTerm+1
}

// IsFirstAppendEntry reports whether msg is the first append-entries
// message a freshly added peer would receive: a single, empty entry at
// the index immediately after the initial one.
func IsFirstAppendEntry(msg *eraftpb.Message) bool {
	if msg.GetMsgType() != eraftpb.MessageType_MsgAppend {
		return false
	}
	entries := msg.GetEntries()
	return len(entries) == 1 &&
		len(entries[0].GetData()) == 0 &&
		entries[0].GetIndex() == RaftInitLogIndex+1
}

// IsInitialMsg reports whether msg is one that a peer which does not yet
// exist locally should still respond to by creating itself: any vote
// request, or a heartbeat carrying a commit of InvalidIndex (meaning the
// sender itself has no real log yet either).
func IsInitialMsg(msg *eraftpb.Message) bool {
	t := msg.GetMsgType()
	return IsVoteMsg(msg) ||
		(t == eraftpb.MessageType_MsgHeartbeat && msg.GetCommit() == InvalidIndex)
}
