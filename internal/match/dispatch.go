package match

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"

	"go.uber.org/zap"

	"github.com/rankmatch/server/internal/net/packet"
	"github.com/rankmatch/server/internal/world"
)

// Synthetic error ids for failures produced on this side of the API,
// outside the central server's own error id space.
const (
	errIDInvalidJSON = 9000
	errIDUnreachable = 9001
)

type createStageRequest struct {
	Game     string `json:"game"`
	Matching string `json:"matching"`
}

// createStageResponse covers both reply shapes of the room-creation
// API; exactly one of RequestID and ErrorID is present.
type createStageResponse struct {
	RequestID *uint64 `json:"request_id"`
	ErrorID   *uint64 `json:"error_id"`
	ErrorMsg  string  `json:"error_msg"`
}

// Dispatcher calls the room-creation API once per completed match and
// fans the outcome back to the owning sessions as MatchSuccess or
// MatchFailure.
type Dispatcher struct {
	url    string
	client *http.Client
	state  *world.State
	log    *zap.Logger
}

func NewDispatcher(url string, client *http.Client, state *world.State, log *zap.Logger) *Dispatcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Dispatcher{url: url, client: client, state: state, log: log}
}

// Dispatch runs the full request cycle for one match. The winners are
// already out of the pool when this is called, so every outcome,
// including transport failure, must reach the lobby servers or the
// players are lost; delivery failures are logged and not retried.
func (d *Dispatcher) Dispatch(arenaName string, groups map[string][]packet.PlayerSeat) {
	req := createStageRequest{
		Game:     arenaName,
		Matching: fmt.Sprintf("Rank#%d", rand.Uint32()),
	}
	body, err := json.Marshal(req)
	if err != nil {
		d.log.Error("stage request marshal failed", zap.Error(err))
		return
	}

	d.log.Debug("creating stage",
		zap.String("arena", arenaName),
		zap.String("matching", req.Matching),
		zap.Int("sessions", len(groups)),
	)

	resp, err := d.client.Post(d.url, "application/json", bytes.NewReader(body))
	if err != nil {
		d.log.Error("central server unreachable",
			zap.String("arena", arenaName),
			zap.Error(err),
		)
		d.fail(arenaName, groups, errIDUnreachable, "cannot reach central server: "+err.Error())
		return
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		d.fail(arenaName, groups, errIDInvalidJSON, "invalid JSON: "+err.Error())
		return
	}

	var cr createStageResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		d.log.Error("stage response not JSON",
			zap.String("arena", arenaName),
			zap.Error(err),
		)
		d.fail(arenaName, groups, errIDInvalidJSON, "invalid JSON: "+err.Error())
		return
	}

	switch {
	case cr.RequestID != nil:
		d.log.Info("stage created",
			zap.String("arena", arenaName),
			zap.Uint64("stage_request_id", *cr.RequestID),
		)
		d.fanout(groups, func(players []packet.PlayerSeat) packet.Message {
			return &packet.MatchSuccess{
				Arena:          arenaName,
				StageRequestID: *cr.RequestID,
				Players:        players,
			}
		})
	case cr.ErrorID != nil:
		d.log.Warn("stage creation rejected",
			zap.String("arena", arenaName),
			zap.Uint64("error_id", *cr.ErrorID),
			zap.String("error_msg", cr.ErrorMsg),
		)
		d.fail(arenaName, groups, *cr.ErrorID, cr.ErrorMsg)
	default:
		d.fail(arenaName, groups, errIDInvalidJSON, "invalid JSON: neither request_id nor error_id present")
	}
}

func (d *Dispatcher) fail(arenaName string, groups map[string][]packet.PlayerSeat, errorID uint64, errorMsg string) {
	d.fanout(groups, func(players []packet.PlayerSeat) packet.Message {
		return &packet.MatchFailure{
			Arena:    arenaName,
			ErrorID:  errorID,
			ErrorMsg: errorMsg,
			Players:  players,
		}
	})
}

func (d *Dispatcher) fanout(groups map[string][]packet.PlayerSeat, build func(players []packet.PlayerSeat) packet.Message) {
	for addr, players := range groups {
		peer, ok := d.state.Peer(addr)
		if !ok {
			d.log.Warn("session vanished before match delivery", zap.String("addr", addr))
			continue
		}
		if err := peer.Send(packet.Encode(build(players))); err != nil {
			d.log.Warn("match delivery failed",
				zap.String("addr", addr),
				zap.Error(err),
			)
		}
	}
}
