package packet

import (
	"errors"
	"fmt"
)

const protocolVersion = 1

var errStringRange = errors.New("string length out of range")

// MessageType identifies one packet kind in protocol v1.
type MessageType uint64

const (
	MsgAddArena            MessageType = 1 // client → server
	MsgRemoveArena         MessageType = 2 // client → server
	MsgAddPlayer           MessageType = 3 // client → server
	MsgRemovePlayer        MessageType = 4 // client → server
	MsgGetOrSubscribeState MessageType = 5 // client → server
	MsgConnectionState     MessageType = 6 // server → client
	MsgMatchSuccess        MessageType = 7 // server → client
	MsgMatchFailure        MessageType = 8 // server → client
	MsgFormatError         MessageType = 9 // server → client
)

func (t MessageType) String() string {
	switch t {
	case MsgAddArena:
		return "AddArena"
	case MsgRemoveArena:
		return "RemoveArena"
	case MsgAddPlayer:
		return "AddPlayer"
	case MsgRemovePlayer:
		return "RemovePlayer"
	case MsgGetOrSubscribeState:
		return "GetOrSubscribeState"
	case MsgConnectionState:
		return "ConnectionState"
	case MsgMatchSuccess:
		return "MatchSuccess"
	case MsgMatchFailure:
		return "MatchFailure"
	case MsgFormatError:
		return "FormatError"
	default:
		return fmt.Sprintf("Unknown(%d)", uint64(t))
	}
}

// Message is one protocol packet, server-bound or client-bound.
type Message interface {
	Type() MessageType
	encode(w *Writer)
	decode(r *Reader) error
}

// Encode renders m as one v1 text frame.
func Encode(m Message) string {
	w := NewWriter(m.Type())
	m.encode(w)
	return w.String()
}

// Decode parses one text frame. All nine message types decode, including
// the client-bound ones, so both ends of the protocol can share the codec.
func Decode(text string) (Message, error) {
	r := NewReader(text)
	if v := r.ReadNumber(); v != protocolVersion {
		return nil, fmt.Errorf("unsupported protocol version %d", v)
	}
	t := MessageType(r.ReadNumber())
	var m Message
	switch t {
	case MsgAddArena:
		m = &AddArena{}
	case MsgRemoveArena:
		m = &RemoveArena{}
	case MsgAddPlayer:
		m = &AddPlayer{}
	case MsgRemovePlayer:
		m = &RemovePlayer{}
	case MsgGetOrSubscribeState:
		m = &GetOrSubscribeState{}
	case MsgConnectionState:
		m = &ConnectionState{}
	case MsgMatchSuccess:
		m = &MatchSuccess{}
	case MsgMatchFailure:
		m = &MatchFailure{}
	case MsgFormatError:
		m = &FormatError{}
	default:
		return nil, fmt.Errorf("unknown message type %d", uint64(t))
	}
	if err := m.decode(r); err != nil {
		return nil, fmt.Errorf("decode %s: %w", t, err)
	}
	return m, nil
}

// PlayerSeat pairs a player id with the seat count it occupies
// (1 for a solo player, N for a party led by that id).
type PlayerSeat struct {
	Player string
	Length uint64
}

// PlayerState reports one player's arena and best observed coverage.
type PlayerState struct {
	Player   string
	Arena    string
	Coverage uint64
}

// AddArena registers a matchmaking pool. A match fires once the pool can
// seat exactly NumPlayers.
type AddArena struct {
	Arena      string
	NumPlayers uint64
}

func (m *AddArena) Type() MessageType { return MsgAddArena }

func (m *AddArena) encode(w *Writer) {
	w.WriteString(m.Arena)
	w.WriteNumber(m.NumPlayers)
}

func (m *AddArena) decode(r *Reader) error {
	m.Arena = r.ReadString()
	m.NumPlayers = r.ReadNumber()
	return r.Err()
}

// RemoveArena deletes a pool; any players inside are discarded with it.
type RemoveArena struct {
	Arena string
}

func (m *RemoveArena) Type() MessageType { return MsgRemoveArena }

func (m *RemoveArena) encode(w *Writer) {
	w.WriteString(m.Arena)
}

func (m *RemoveArena) decode(r *Reader) error {
	m.Arena = r.ReadString()
	return r.Err()
}

// AddPlayer enters a player (or a party of Length seats led by one id)
// into an arena. The initial acceptance window is Rank ∓ InitRankDiff and
// widens by Speed on every matching tick.
type AddPlayer struct {
	Arena        string
	Player       string
	Rank         uint64
	Length       uint64
	InitRankDiff uint64
	Speed        uint64
}

func (m *AddPlayer) Type() MessageType { return MsgAddPlayer }

func (m *AddPlayer) encode(w *Writer) {
	w.WriteString(m.Arena)
	w.WriteString(m.Player)
	w.WriteNumber(m.Rank)
	w.WriteNumber(m.Length)
	w.WriteNumber(m.InitRankDiff)
	w.WriteNumber(m.Speed)
}

func (m *AddPlayer) decode(r *Reader) error {
	m.Arena = r.ReadString()
	m.Player = r.ReadString()
	m.Rank = r.ReadNumber()
	m.Length = r.ReadNumber()
	m.InitRankDiff = r.ReadNumber()
	m.Speed = r.ReadNumber()
	return r.Err()
}

// RemovePlayer withdraws a player from an arena.
type RemovePlayer struct {
	Arena  string
	Player string
}

func (m *RemovePlayer) Type() MessageType { return MsgRemovePlayer }

func (m *RemovePlayer) encode(w *Writer) {
	w.WriteString(m.Arena)
	w.WriteString(m.Player)
}

func (m *RemovePlayer) decode(r *Reader) error {
	m.Arena = r.ReadString()
	m.Player = r.ReadString()
	return r.Err()
}

// GetOrSubscribeState sets the state-feedback period in seconds.
// Period 0 pauses the feedback.
type GetOrSubscribeState struct {
	Period uint64
}

func (m *GetOrSubscribeState) Type() MessageType { return MsgGetOrSubscribeState }

func (m *GetOrSubscribeState) encode(w *Writer) {
	w.WriteNumber(m.Period)
}

func (m *GetOrSubscribeState) decode(r *Reader) error {
	m.Period = r.ReadNumber()
	return r.Err()
}

// ConnectionState carries the periodic coverage report for every player
// visible to the matcher.
type ConnectionState struct {
	Players []PlayerState
}

func (m *ConnectionState) Type() MessageType { return MsgConnectionState }

func (m *ConnectionState) encode(w *Writer) {
	w.WriteNumber(uint64(len(m.Players)))
	for _, p := range m.Players {
		w.WriteString(p.Player)
		w.WriteString(p.Arena)
		w.WriteNumber(p.Coverage)
	}
}

func (m *ConnectionState) decode(r *Reader) error {
	n := r.ReadNumber()
	if n > uint64(r.Remaining()) {
		return fmt.Errorf("player count %d exceeds frame size", n)
	}
	m.Players = make([]PlayerState, 0, n)
	for i := uint64(0); i < n; i++ {
		var p PlayerState
		p.Player = r.ReadString()
		p.Arena = r.ReadString()
		p.Coverage = r.ReadNumber()
		m.Players = append(m.Players, p)
	}
	return r.Err()
}

// MatchSuccess returns a completed match with the room id assigned by the
// central server.
type MatchSuccess struct {
	Arena          string
	StageRequestID uint64
	Players        []PlayerSeat
}

func (m *MatchSuccess) Type() MessageType { return MsgMatchSuccess }

func (m *MatchSuccess) encode(w *Writer) {
	w.WriteString(m.Arena)
	w.WriteNumber(m.StageRequestID)
	writeSeats(w, m.Players)
}

func (m *MatchSuccess) decode(r *Reader) (err error) {
	m.Arena = r.ReadString()
	m.StageRequestID = r.ReadNumber()
	m.Players, err = readSeats(r)
	return err
}

// MatchFailure reports a match whose room creation failed upstream.
type MatchFailure struct {
	Arena    string
	ErrorID  uint64
	ErrorMsg string
	Players  []PlayerSeat
}

func (m *MatchFailure) Type() MessageType { return MsgMatchFailure }

func (m *MatchFailure) encode(w *Writer) {
	w.WriteString(m.Arena)
	w.WriteNumber(m.ErrorID)
	w.WriteString(m.ErrorMsg)
	writeSeats(w, m.Players)
}

func (m *MatchFailure) decode(r *Reader) (err error) {
	m.Arena = r.ReadString()
	m.ErrorID = r.ReadNumber()
	m.ErrorMsg = r.ReadString()
	m.Players, err = readSeats(r)
	return err
}

// FormatError tells the client its last frame could not be parsed.
type FormatError struct {
	Error string
}

func (m *FormatError) Type() MessageType { return MsgFormatError }

func (m *FormatError) encode(w *Writer) {
	w.WriteString(m.Error)
}

func (m *FormatError) decode(r *Reader) error {
	m.Error = r.ReadString()
	return r.Err()
}

func writeSeats(w *Writer, seats []PlayerSeat) {
	w.WriteNumber(uint64(len(seats)))
	for _, s := range seats {
		w.WriteString(s.Player)
		w.WriteNumber(s.Length)
	}
}

func readSeats(r *Reader) ([]PlayerSeat, error) {
	n := r.ReadNumber()
	if n > uint64(r.Remaining()) {
		return nil, fmt.Errorf("player count %d exceeds frame size", n)
	}
	seats := make([]PlayerSeat, 0, n)
	for i := uint64(0); i < n; i++ {
		var s PlayerSeat
		s.Player = r.ReadString()
		s.Length = r.ReadNumber()
		seats = append(seats, s)
	}
	return seats, r.Err()
}
