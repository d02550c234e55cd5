package server

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFormatTrace(t *testing.T) {
	lines := strings.Split(FormatTrace(sampleRecord()), "\n")
	if len(lines) != 13 {
		t.Fatalf("got %d lines, want 13", len(lines))
	}
	if lines[0] != "2701" || lines[1] != "4 7" || lines[2] != "70 30" {
		t.Fatalf("unexpected header %q", lines[:3])
	}
	// 第 8 名球员是客队 9 号，队内序号 2
	if got, want := lines[3+7], "2 68 30 70 30 1 1 24 0 32"; got != want {
		t.Fatalf("player line = %q, want %q", got, want)
	}
	if got, want := lines[3], "0 0 0 0 0 0 0 -1 -1 -1"; got != want {
		t.Fatalf("idle player line = %q, want %q", got, want)
	}
}

func TestTraceSinkPrefixesMatchID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewTraceSink(zap.New(core))

	sink.Record(sampleRecord())
	sink.ForMatch("m-1").Record(sampleRecord())

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if !strings.HasPrefix(entries[0].Message, "2701\n") {
		t.Fatalf("unscoped block %q", entries[0].Message)
	}
	if !strings.HasPrefix(entries[1].Message, "match m-1\n2701\n") {
		t.Fatalf("scoped block %q", entries[1].Message)
	}
}

func TestSessionsScopeSharedTrace(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	shared := NewTraceSink(zap.New(core))
	a := NewSession(SessionOptions{}, shared)
	b := NewSession(SessionOptions{}, shared)

	a.trace.Record(sampleRecord())
	b.trace.Record(sampleRecord())

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	for i, s := range []*Session{a, b} {
		if want := "match " + s.ID + "\n"; !strings.HasPrefix(entries[i].Message, want) {
			t.Fatalf("block %d = %q, want prefix %q", i, entries[i].Message, want)
		}
	}
}
