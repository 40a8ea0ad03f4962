package world

import (
	"guildsim.ai/internal/protocol"
	"guildsim.ai/internal/sim/seq"
)

// Step applies one command: validate, apply on a clone, verify invariants,
// emit. It is total and single-threaded; the only side effect is the draw
// counter of src. Rejected commands return the input state value untouched
// (revision included) plus exactly one rejection event.
//
// Only the ADVANCE_DAY handler consumes the sequence source; every other
// handler is draw-free, so replaying a command journal through a single
// source stays aligned with the original run.
func (s *Sim) Step(st State, cmd protocol.Command, src *seq.Source) (State, []protocol.Event) {
	if v := s.CanApply(st, cmd); !v.OK {
		return st, []protocol.Event{{
			Type:      protocol.EvCommandRejected,
			Day:       st.Meta.Day,
			Revision:  st.Meta.Revision,
			CommandID: cmd.CommandID,
			Seq:       1,
			Reason:    v.Reason,
			Detail:    v.Detail,
		}}
	}

	next := st.Clone()
	next.Meta.Revision++

	em := &emitter{day: next.Meta.Day, revision: next.Meta.Revision, commandID: cmd.CommandID}

	switch cmd.Type {
	case protocol.CmdAdvanceDay:
		s.applyAdvanceDay(&next, src, em)
	case protocol.CmdCreateContract:
		s.applyCreateContract(&next, cmd, em)
	case protocol.CmdPostContract:
		s.applyPostContract(&next, cmd, em)
	case protocol.CmdCancelContract:
		s.applyCancelContract(&next, cmd, em)
	case protocol.CmdUpdateTerms:
		s.applyUpdateTerms(&next, cmd, em)
	case protocol.CmdCloseReturn:
		s.applyCloseReturn(&next, cmd, em)
	case protocol.CmdSellTrophies:
		s.applySellTrophies(&next, cmd, em)
	case protocol.CmdPayTax:
		s.applyPayTax(&next, cmd, em)
	case protocol.CmdSetProofPolicy:
		s.applySetProofPolicy(&next, cmd, em)
	}

	return next, em.finish(VerifyInvariants(next))
}

// emitter accumulates the events of one step. Violations slot in after the
// command's own events but before the terminal event; sequence numbers are
// assigned once the final order is known.
type emitter struct {
	day       int
	revision  uint64
	commandID string

	events   []protocol.Event
	terminal *protocol.Event
}

func (e *emitter) emit(ev protocol.Event) {
	ev.Day = e.day
	ev.Revision = e.revision
	ev.CommandID = e.commandID
	e.events = append(e.events, ev)
}

// setTerminal records the step's closing event (the DAY_ENDED summary).
func (e *emitter) setTerminal(ev protocol.Event) {
	ev.Day = e.day
	ev.Revision = e.revision
	ev.CommandID = e.commandID
	e.terminal = &ev
}

func (e *emitter) finish(violations []Violation) []protocol.Event {
	out := e.events
	for _, v := range violations {
		out = append(out, protocol.Event{
			Type:        protocol.EvInvariantViolated,
			Day:         e.day,
			Revision:    e.revision,
			CommandID:   e.commandID,
			ViolationID: v.ID,
			Detail:      v.Detail,
		})
	}
	if e.terminal != nil {
		out = append(out, *e.terminal)
	}
	for i := range out {
		out[i].Seq = i + 1
	}
	return out
}
