package server

import (
	"strings"
	"testing"

	"soccermatch/match"
)

func sampleRecord() match.RoundRecord {
	rec := match.RoundRecord{
		Round:     2701,
		Score:     [2]int{4, 7},
		BallStart: match.Point{X: 70, Y: 30},
		BallEnd:   match.Center,
		Owner:     match.HalfRight,
		Outcome: match.ChallengeOutcome{
			Winner:     9,
			Shooter:    9,
			ShotTarget: match.Point{X: 0, Y: 32},
			Ball:       match.Center,
			Points:     3,
			Team:       match.TeamAway,
			Round:      2701,
		},
	}
	for i := range rec.Players {
		id := match.FirstPlayer + i
		rec.Players[i] = match.PlayerTrace{ID: id, Shot: match.NoPoint, Challenge: match.NoChallenge, Round: 2701}
	}
	rec.Players[7] = match.PlayerTrace{
		ID: 9, Prev: match.Point{X: 68, Y: 30}, Pos: match.Point{X: 70, Y: 30},
		Reached: true, Won: true, Challenge: 24, Shot: match.Point{X: 0, Y: 32}, Round: 2701,
	}
	return rec
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatJSON, "json": FormatJSON, "msgpack": FormatMsgpack}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestEncodeDecodeRoundFrame(t *testing.T) {
	rec := sampleRecord()
	for _, f := range []Format{FormatJSON, FormatMsgpack} {
		b, err := Encode(f, MsgRound, rec)
		if err != nil {
			t.Fatalf("%s encode: %v", f, err)
		}
		typ, got, err := Decode[match.RoundRecord](f, b)
		if err != nil {
			t.Fatalf("%s decode: %v", f, err)
		}
		if typ != MsgRound {
			t.Fatalf("%s type = %q", f, typ)
		}
		if got != rec {
			t.Fatalf("%s payload mismatch:\n got %+v\nwant %+v", f, got, rec)
		}
	}
}

func TestEncodeJSONEnvelopeShape(t *testing.T) {
	b, err := Encode(FormatJSON, MsgFinal, FinalMessage{Match: "m1", State: StateFinished, Result: match.Result{Rounds: 5400}})
	if err != nil {
		t.Fatal(err)
	}
	s := string(b)
	if !strings.HasPrefix(s, `{"t":"final","p":{`) || !strings.Contains(s, `"rounds":5400`) {
		t.Fatalf("unexpected envelope %s", s)
	}
}

func TestEncodeRejectsEmptyEnvelope(t *testing.T) {
	if _, err := Encode(FormatJSON, "", 1); err == nil {
		t.Fatalf("expected error for empty type")
	}
	if _, err := Encode(FormatMsgpack, MsgRound, nil); err == nil {
		t.Fatalf("expected error for nil payload")
	}
	if _, _, err := Decode[match.RoundRecord](FormatJSON, nil); err == nil {
		t.Fatalf("expected error for empty frame")
	}
}
