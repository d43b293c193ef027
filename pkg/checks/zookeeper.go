// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package checks

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/NVIDIA/triage/pkg/check"
	"github.com/NVIDIA/triage/pkg/node"
	"github.com/NVIDIA/triage/pkg/report"
)

const (
	nameZKFsync      = "zk-fsync"
	nameZKDiskSpace  = "zk-disk-space"
	nameZKConnection = "zk-connection"
	nameZKLeader     = "zk-leader"
)

var (
	slowFsync     = regexp.MustCompile(`fsync-ing the write ahead log in SyncThread:\d+ took\s(\d+)ms`)
	peerException = regexp.MustCompile(`Unexpected exception, tries=3, connecting to /(\d{1,3}(?:\.\d{1,3}){3}):2888`)
	zkLeading     = regexp.MustCompile(`\d+-\d+-\d+\D.*\d+:\d+:\d+\.\d+ .*LEADING$`)
)

// runZKFsync counts slow transaction log syncs per control plane and keeps
// the longest ones.
func runZKFsync(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	t := report.NewTable("Slow ZooKeeper fsync", "IP", "Warnings", "Longest (ms)")
	for _, n := range in.ControlPlanes() {
		if _, err := scanArtifact(ctx, nameZKFsync, n, exhibitorLog, func(line string) error {
			if !strings.Contains(line, "fsync-ing") {
				return nil
			}
			m := slowFsync.FindStringSubmatch(line)
			if m == nil {
				return nil
			}
			ms, err := strconv.Atoi(m[1])
			if err != nil {
				return nil
			}
			n.IncSyncWarnings()
			n.SlowSyncs.Add(time.Duration(ms) * time.Millisecond)
			return nil
		}); err != nil {
			return nil, err
		}
		if c := n.SyncWarnings(); c > 0 {
			t.AddRow(n.Address, strconv.Itoa(c), formatMillis(n.SlowSyncs.Values()))
		}
	}
	check.SortByCountDesc(t, 1)
	return tables(t), nil
}

func formatMillis(values []time.Duration) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strconv.FormatInt(v.Milliseconds(), 10))
	}
	return strings.Join(parts, ", ")
}

// runZKDiskSpace lists control planes where ZooKeeper ran out of disk.
func runZKDiskSpace(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	t := report.NewTable("ZooKeeper out of disk space", "IP")
	for _, n := range in.ControlPlanes() {
		found, _, err := containsLine(ctx, nameZKDiskSpace, n, exhibitorLog, "No space left on device")
		if err != nil {
			return nil, err
		}
		if found {
			t.AddRow(n.Address)
		}
	}
	check.SortByAddress(t, 0)
	return tables(t), nil
}

// runZKConnection counts failed quorum connections by node and peer.
func runZKConnection(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	counter := node.NewFrequencyCounter()
	for _, n := range in.ControlPlanes() {
		if _, err := scanArtifact(ctx, nameZKConnection, n, exhibitorLog, func(line string) error {
			if !strings.Contains(line, "Unexpected exception") {
				return nil
			}
			if m := peerException.FindStringSubmatch(line); m != nil {
				counter.Inc(fmt.Sprintf("%s --> %s", n.Address, m[1]))
			}
			return nil
		}); err != nil {
			return nil, err
		}
	}

	t := report.NewTable("ZooKeeper connection exceptions", "Connection", "Count")
	for _, c := range counter.Top(counter.Len()) {
		t.AddRow(c.Key, strconv.Itoa(c.Count))
	}
	return tables(t), nil
}

// runZKLeader lists the times each control plane became ZooKeeper leader.
func runZKLeader(ctx context.Context, in *check.Input) ([]*report.Table, error) {
	events, err := scanEvents(ctx, nameZKLeader, in.ControlPlanes(), exhibitorLog, "LEADING", zkLeading)
	if err != nil {
		return nil, err
	}
	return tables(check.EventTable("ZooKeeper leader changes", "New Leader", events)), nil
}
