package ws

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	"titan-siege/server/internal/gamemode"
	"titan-siege/server/internal/geom"
	"titan-siege/server/internal/session"
	"titan-siege/server/internal/sim"
	"titan-siege/server/internal/telemetry"
)

// Intake stages commands for the simulation goroutine.
type Intake interface {
	Enqueue(cmd sim.Command) (bool, string)
}

type HandlerConfig struct {
	Logger telemetry.Logger
	// AuthorityPeer names the remote participant that owns round state on a
	// mirroring server. Empty when this process is the authority.
	AuthorityPeer string
}

// Handler runs one websocket session per participant.
type Handler struct {
	hub           *Hub
	room          *session.Room
	intake        Intake
	logger        telemetry.Logger
	authorityPeer string
	upgrader      websocket.Upgrader
}

func NewHandler(hub *Hub, room *session.Room, intake Intake, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}
	return &Handler{
		hub:           hub,
		room:          room,
		intake:        intake,
		logger:        logger,
		authorityPeer: cfg.AuthorityPeer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

// Handle upgrades the request, joins the participant to the room and spawns
// its hero, then relays client messages until the connection drops.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		nethttp.Error(w, "missing name", nethttp.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("[ws] upgrade failed for %s: %v", name, err)
		return
	}

	participant := h.room.Join(name)
	if h.authorityPeer != "" && name == h.authorityPeer {
		h.room.SetAuthority(participant.ID)
	}
	sub := h.hub.Subscribe(participant.ID, conn)
	defer h.disconnect(participant.ID, conn)

	welcome := welcomeMessage{
		Ver:         ProtocolVersion,
		Type:        "welcome",
		Participant: participant.ID,
		Offline:     h.room.IsOfflineMode(),
	}
	if !writeJSON(h.logger, sub, welcome) {
		return
	}
	h.intake.Enqueue(sim.Command{Participant: participant.ID, Type: sim.CommandSpawnHero, IssuedAt: time.Now()})

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("[ws] discarding malformed message from %d: %v", participant.ID, err)
			continue
		}

		if msg.Type == "broadcast" {
			if participant.ID != h.room.Authority() {
				h.logger.Printf("[ws] dropping %s broadcast from non-authority %d", msg.Event, participant.ID)
				continue
			}
			h.room.Deliver(r.Context(), session.Message{Event: msg.Event, Payload: msg.Score, From: participant.ID})
			continue
		}

		cmd, ok := commandFor(participant.ID, msg)
		if !ok {
			h.logger.Printf("[ws] unknown message type %q from %d", msg.Type, participant.ID)
			continue
		}

		seq := uint64(0)
		if msg.CommandSeq != nil {
			seq = *msg.CommandSeq
		}
		if seq > 0 {
			if last := sub.LastCommandSeq(); last > 0 && seq <= last {
				if !writeJSON(h.logger, sub, commandAckMessage{Ver: ProtocolVersion, Type: "commandAck", Seq: seq}) {
					return
				}
				continue
			}
		}

		accepted, reason := h.intake.Enqueue(cmd)
		if seq == 0 {
			continue
		}
		if accepted {
			if !writeJSON(h.logger, sub, commandAckMessage{Ver: ProtocolVersion, Type: "commandAck", Seq: seq}) {
				return
			}
			sub.StoreLastCommandSeq(seq)
			continue
		}
		reject := commandRejectMessage{
			Ver:    ProtocolVersion,
			Type:   "commandReject",
			Seq:    seq,
			Reason: reason,
			Retry:  reason == sim.CommandRejectQueueLimit,
		}
		if !writeJSON(h.logger, sub, reject) {
			return
		}
	}
}

func (h *Handler) disconnect(participant int, conn *websocket.Conn) {
	conn.Close()
	if !h.hub.Unsubscribe(participant, conn) {
		return
	}
	h.room.Leave(participant)
	h.intake.Enqueue(sim.Command{Participant: participant, Type: sim.CommandLeave, IssuedAt: time.Now()})
}

func commandFor(participant int, msg clientMessage) (sim.Command, bool) {
	cmd := sim.Command{Participant: participant, IssuedAt: time.Now()}
	switch msg.Type {
	case "move":
		cmd.Type = sim.CommandMoveHero
		cmd.Hero = &sim.HeroCommand{Position: geom.Vec3{X: msg.X, Y: msg.Y, Z: msg.Z}}
	case "respawn":
		cmd.Type = sim.CommandSpawnHero
	case "died":
		cmd.Type = sim.CommandHeroKilled
	case "killTitan":
		cmd.Type = sim.CommandKillTitan
		cmd.Titan = &sim.TitanCommand{TitanID: msg.TitanID}
	case "spawnTitans":
		cmd.Type = sim.CommandSpawnTitans
		cmd.Titan = &sim.TitanCommand{Amount: msg.Amount}
	case "restart":
		cmd.Type = sim.CommandRestart
	default:
		return sim.Command{}, false
	}
	return cmd, true
}

func writeJSON(logger telemetry.Logger, sub *subscriber, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Printf("[ws] failed to marshal response: %v", err)
		return true
	}
	return sub.WriteMessage(websocket.TextMessage, data) == nil
}

// Receiver turns score and restart broadcasts arriving from the authority
// into simulation commands.
func Receiver(intake Intake) session.Receiver {
	return func(_ context.Context, msg session.Message) {
		cmd := sim.Command{Participant: msg.From, IssuedAt: time.Now()}
		switch msg.Event {
		case gamemode.EventNetGameWin:
			cmd.Type = sim.CommandNetGameWin
		case gamemode.EventNetGameLose:
			cmd.Type = sim.CommandNetGameLose
		case gamemode.EventNetRestart:
			intake.Enqueue(sim.Command{Participant: msg.From, Type: sim.CommandNetRestart, IssuedAt: cmd.IssuedAt})
			return
		default:
			return
		}
		score, ok := msg.Payload.(int)
		if !ok {
			return
		}
		cmd.Score = &sim.ScoreCommand{Score: score}
		intake.Enqueue(cmd)
	}
}
