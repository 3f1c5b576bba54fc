package mcp

import (
	"sync"

	"github.com/peterkuimelis/lendas/internal/game"
	"github.com/peterkuimelis/lendas/internal/log"
	"github.com/peterkuimelis/lendas/internal/net"
)

// eventRecorder is the duel's event logger for an agent session. It keeps the
// full record and buffers what the agent has not seen yet, from the agent's
// point of view.
type eventRecorder struct {
	log.EventLogger
	player game.PlayerID

	mu      sync.Mutex
	pending []net.EventView
}

func newEventRecorder(base log.EventLogger, player game.PlayerID) *eventRecorder {
	return &eventRecorder{EventLogger: base, player: player}
}

func (r *eventRecorder) Log(event log.GameEvent) {
	r.EventLogger.Log(event)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, *net.NewEventView(net.RedactFor(event, r.player)))
}

// drain returns the buffered events and clears the buffer. It never returns nil.
func (r *eventRecorder) drain() []net.EventView {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := r.pending
	r.pending = nil
	if events == nil {
		events = []net.EventView{}
	}
	return events
}
