package server

import (
	"context"
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/pokerparty/internal/game"
	"github.com/lox/pokerparty/internal/protocol"
)

// command pairs an inbound envelope with the connection that sent it
type command struct {
	conn *Connection
	env  protocol.Envelope
}

// joinRequest asks the room to seat a connection under the given name
type joinRequest struct {
	conn *Connection
	name string
}

// Room is the session host for one table: it owns one game state, applies
// actions to it strictly one at a time in arrival order, and rebroadcasts
// a per-recipient view after every processed action. All state access
// happens on the room's own goroutine, so the reducer needs no locking.
type Room struct {
	id      string
	logger  *log.Logger
	reducer *game.Reducer
	state   game.State

	join    chan joinRequest
	leave   chan *Connection
	actions chan command
	done    chan struct{}
	conns   map[*Connection]string

	startingBalance int
	onEmpty         func(*Room)
}

// NewRoom creates a room with its own reducer. The RNG must be exclusive
// to this room; concurrent rooms never share one.
func NewRoom(id string, clock quartz.Clock, rng *rand.Rand, cfg GameSettings, logger *log.Logger, onEmpty func(*Room)) *Room {
	reducer := game.NewReducer(clock, rng, cfg.LogSize, logger)
	return &Room{
		id:              id,
		logger:          logger.WithPrefix("room").With("room", id),
		reducer:         reducer,
		state:           reducer.NewState(),
		join:            make(chan joinRequest),
		leave:           make(chan *Connection),
		actions:         make(chan command, 64),
		done:            make(chan struct{}),
		conns:           make(map[*Connection]string),
		startingBalance: cfg.StartingBalance,
		onEmpty:         onEmpty,
	}
}

// Run processes the room's events until the context is cancelled. The done
// channel closes when the loop exits, so senders can tell a dead room from
// a busy one.
func (rm *Room) Run(ctx context.Context) {
	defer close(rm.done)
	rm.logger.Info("Room opened")
	for {
		select {
		case req := <-rm.join:
			rm.handleJoin(req)
		case conn := <-rm.leave:
			rm.handleLeave(conn)
		case cmd := <-rm.actions:
			rm.handleCommand(cmd)
		case <-ctx.Done():
			rm.logger.Info("Room closed")
			for conn := range rm.conns {
				_ = conn.Close()
			}
			return
		}
	}
}

// Submit queues an inbound envelope for processing in arrival order. When
// the queue is full the sender gets an error frame back rather than a
// silently vanished action.
func (rm *Room) Submit(conn *Connection, env protocol.Envelope) {
	select {
	case rm.actions <- command{conn: conn, env: env}:
	default:
		rm.logger.Warn("Room action queue full, dropping action", "type", env.Type)
		_ = conn.Send(protocol.NewErrorMessage("room_busy", "Room is busy, action dropped: "+env.Type))
	}
}

func (rm *Room) handleJoin(req joinRequest) {
	id := rm.uniqueName(req.name)
	rm.conns[req.conn] = id

	rm.logger.Info("Participant joined", "user", id, "total", len(rm.conns))
	rm.apply(game.UserEntered{User: game.Participant{
		ID:      id,
		Balance: rm.startingBalance,
	}})
}

func (rm *Room) handleLeave(conn *Connection) {
	id, ok := rm.conns[conn]
	if !ok {
		return
	}
	delete(rm.conns, conn)
	_ = conn.Close()

	rm.logger.Info("Participant left", "user", id, "total", len(rm.conns))
	rm.apply(game.UserExit{UserID: id})

	if len(rm.conns) == 0 && rm.onEmpty != nil {
		rm.onEmpty(rm)
	}
}

func (rm *Room) handleCommand(cmd command) {
	id, ok := rm.conns[cmd.conn]
	if !ok {
		return // raced with a disconnect
	}

	action, ok := toAction(cmd.env, id)
	if !ok {
		rm.logger.Debug("Unrecognized action type", "type", cmd.env.Type, "user", id)
		_ = cmd.conn.Send(protocol.NewErrorMessage("unknown_action", "Unknown action type: "+cmd.env.Type))
		return
	}

	rm.logger.Debug("Applying action", "type", cmd.env.Type, "user", id)
	rm.apply(action)
}

// apply advances the state through the reducer and rebroadcasts
func (rm *Room) apply(action game.Action) {
	rm.state = rm.reducer.Apply(action, rm.state)
	rm.broadcast()
}

// broadcast delivers each connected participant their own view of the
// state. Views are built per recipient, which is what keeps see-hand log
// entries and other participants' hole cards private.
func (rm *Room) broadcast() {
	for conn, id := range rm.conns {
		if err := conn.Send(protocol.NewStateMessage(rm.state.ViewFor(id))); err != nil {
			rm.logger.Error("Failed to send state", "error", err, "user", id)
		}
	}
}

// uniqueName disambiguates a requested name against the seated participants
func (rm *Room) uniqueName(name string) string {
	taken := make(map[string]bool, len(rm.conns))
	for _, id := range rm.conns {
		taken[id] = true
	}
	if !taken[name] {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", name, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// toAction translates a wire envelope into a game action for the resolved
// actor. Unknown types are rejected here; the reducer never sees them.
func toAction(env protocol.Envelope, actor string) (game.Action, bool) {
	switch env.Type {
	case protocol.ActionDeal:
		return game.Deal{UserID: actor, Ante: env.Ante}, true
	case protocol.ActionBet:
		return game.Bet{UserID: actor, Amount: env.Amount}, true
	case protocol.ActionCall:
		return game.Call{UserID: actor}, true
	case protocol.ActionRaise:
		return game.Raise{UserID: actor, Amount: env.Amount}, true
	case protocol.ActionFold:
		return game.Fold{UserID: actor}, true
	case protocol.ActionAllIn:
		return game.AllIn{UserID: actor}, true
	case protocol.ActionAdvance:
		return game.Advance{UserID: actor}, true
	case protocol.ActionSeeHand:
		return game.SeeHand{UserID: actor}, true
	default:
		return nil, false
	}
}
