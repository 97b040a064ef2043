package main

import "testing"

func TestResumeFrom(t *testing.T) {
	cases := []struct {
		name          string
		explicitBlock uint64
		explicitTime  uint64
		resolved      uint64
		checkpoint    uint64
		hasCheckpoint bool
		want          uint64
	}{
		{name: "no checkpoint, no bounds", resolved: 0, want: 0},
		{name: "checkpoint resumes at next block", resolved: 0, checkpoint: 499, hasCheckpoint: true, want: 500},
		{name: "explicit from wins over higher checkpoint", explicitBlock: 100, resolved: 100, checkpoint: 900, hasCheckpoint: true, want: 100},
		{name: "explicit from-time wins over checkpoint", explicitTime: 1700000000, resolved: 120, checkpoint: 900, hasCheckpoint: true, want: 120},
		{name: "explicit from without checkpoint", explicitBlock: 42, resolved: 42, want: 42},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resumeFrom(tc.explicitBlock, tc.explicitTime, tc.resolved, tc.checkpoint, tc.hasCheckpoint)
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}
