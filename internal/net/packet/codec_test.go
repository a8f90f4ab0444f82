package packet

import (
	"reflect"
	"strings"
	"testing"
)

func TestEncodeWireFormat(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{
			name: "AddArena",
			msg:  &AddArena{Arena: "duel", NumPlayers: 2},
			want: "1,1,4,duel,2",
		},
		{
			name: "RemoveArena",
			msg:  &RemoveArena{Arena: "duel"},
			want: "1,2,4,duel",
		},
		{
			name: "AddPlayer",
			msg:  &AddPlayer{Arena: "duel", Player: "p1", Rank: 10, Length: 2, InitRankDiff: 0, Speed: 1},
			want: "1,3,4,duel,2,p1,10,2,0,1",
		},
		{
			name: "RemovePlayer",
			msg:  &RemovePlayer{Arena: "duel", Player: "p1"},
			want: "1,4,4,duel,2,p1",
		},
		{
			name: "GetOrSubscribeState",
			msg:  &GetOrSubscribeState{Period: 5},
			want: "1,5,5",
		},
		{
			name: "ConnectionState",
			msg: &ConnectionState{Players: []PlayerState{
				{Player: "p1", Arena: "duel", Coverage: 4},
			}},
			want: "1,6,1,2,p1,4,duel,4",
		},
		{
			name: "MatchSuccess",
			msg: &MatchSuccess{Arena: "duel", StageRequestID: 77, Players: []PlayerSeat{
				{Player: "p1", Length: 2},
				{Player: "p2", Length: 2},
			}},
			want: "1,7,4,duel,77,2,2,p1,2,2,p2,2",
		},
		{
			name: "MatchFailure",
			msg: &MatchFailure{Arena: "duel", ErrorID: 42, ErrorMsg: "boom", Players: []PlayerSeat{
				{Player: "p1", Length: 1},
			}},
			want: "1,8,4,duel,42,4,boom,1,2,p1,1",
		},
		{
			name: "FormatError",
			msg:  &FormatError{Error: "bad"},
			want: "1,9,3,bad",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.msg); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	msgs := []Message{
		&AddArena{Arena: "ranked-3v3", NumPlayers: 6},
		&RemoveArena{Arena: "ranked-3v3"},
		&AddPlayer{Arena: "duel", Player: "p1", Rank: 1500, Length: 3, InitRankDiff: 25, Speed: 10},
		&RemovePlayer{Arena: "duel", Player: "p1"},
		&GetOrSubscribeState{Period: 30},
		&ConnectionState{Players: []PlayerState{
			{Player: "p1", Arena: "duel", Coverage: 4},
			{Player: "p2", Arena: "ranked", Coverage: 0},
		}},
		&MatchSuccess{Arena: "duel", StageRequestID: 901, Players: []PlayerSeat{
			{Player: "p1", Length: 1},
			{Player: "p2", Length: 1},
		}},
		&MatchFailure{Arena: "duel", ErrorID: 9001, ErrorMsg: "cannot reach central server: refused", Players: []PlayerSeat{
			{Player: "p1", Length: 2},
		}},
		&FormatError{Error: "unknown message type 99"},
	}
	for _, msg := range msgs {
		t.Run(msg.Type().String(), func(t *testing.T) {
			got, err := Decode(Encode(msg))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, msg) {
				t.Errorf("Decode() = %+v, want %+v", got, msg)
			}
		})
	}
}

func TestStringFieldsKeepCommas(t *testing.T) {
	msg := &AddPlayer{Arena: "a,b", Player: "x,y,z", Rank: 1, Length: 1}
	got, err := Decode(Encode(msg))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !reflect.DeepEqual(got, msg) {
		t.Errorf("Decode() = %+v, want %+v", got, msg)
	}
}

func TestReaderLenientNumbers(t *testing.T) {
	r := NewReader("abc42;x7")
	if got := r.ReadNumber(); got != 42 {
		t.Errorf("first ReadNumber() = %d, want 42", got)
	}
	if got := r.ReadNumber(); got != 7 {
		t.Errorf("second ReadNumber() = %d, want 7", got)
	}
	if got := r.ReadNumber(); got != 0 {
		t.Errorf("exhausted ReadNumber() = %d, want 0", got)
	}
}

func TestDecodeLenientDelimiters(t *testing.T) {
	// Junk between number fields is skipped, same as the reference client.
	got, err := Decode("1,x2x,4,duel")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	m, ok := got.(*RemoveArena)
	if !ok {
		t.Fatalf("Decode() type = %T, want *RemoveArena", got)
	}
	if m.Arena != "duel" {
		t.Errorf("Arena = %q, want %q", m.Arena, "duel")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		frame   string
		wantSub string
	}{
		{"bad version", "2,1,4,duel,2", "unsupported protocol version"},
		{"unknown type", "1,99", "unknown message type"},
		{"truncated string", "1,2,10,du", "string length out of range"},
		{"seat count exceeds frame", "1,7,4,duel,77,999", "exceeds frame size"},
		{"state count exceeds frame", "1,6,999", "exceeds frame size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.frame)
			if err == nil {
				t.Fatalf("Decode(%q) expected error", tt.frame)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Decode(%q) error = %q, want substring %q", tt.frame, err, tt.wantSub)
			}
		})
	}
}
