package world

import (
	"reflect"
	"testing"

	"guildsim.ai/internal/protocol"
	"guildsim.ai/internal/sim/seq"
)

func TestStepRejectionLeavesStateUntouched(t *testing.T) {
	s := testSim()
	st := s.NewState(1)
	src := seq.New(1)

	before := HashState(st)
	c := cmd(protocol.CmdPostContract)
	c.DraftID = "D999999"

	next, events := s.Step(st, c, src)

	if got := HashState(next); got != before {
		t.Fatalf("rejected command changed state: %s != %s", got, before)
	}
	if next.Meta.Revision != st.Meta.Revision {
		t.Fatalf("rejected command bumped revision to %d", next.Meta.Revision)
	}
	if len(events) != 1 {
		t.Fatalf("want exactly one event, got %v", eventTypes(events))
	}
	ev := events[0]
	if ev.Type != protocol.EvCommandRejected || ev.Reason != protocol.ReasonNotFound {
		t.Fatalf("want COMMAND_REJECTED/NOT_FOUND, got %s/%s", ev.Type, ev.Reason)
	}
	if ev.Seq != 1 || ev.CommandID != c.CommandID {
		t.Fatalf("bad rejection envelope: seq=%d command_id=%q", ev.Seq, ev.CommandID)
	}
	if src.Draws() != 0 {
		t.Fatalf("rejection consumed %d draws", src.Draws())
	}
}

func TestStepUnknownCommandRejected(t *testing.T) {
	s := testSim()
	st := s.NewState(1)

	c := cmd("FROBNICATE")
	_, events := s.Step(st, c, seq.New(1))
	if len(events) != 1 || events[0].Reason != protocol.ReasonInvalidArgument {
		t.Fatalf("want INVALID_ARGUMENT rejection, got %+v", events)
	}
}

func TestStepMissingCommandIDRejected(t *testing.T) {
	s := testSim()
	st := s.NewState(1)

	_, events := s.Step(st, protocol.Command{Type: protocol.CmdAdvanceDay}, seq.New(1))
	if len(events) != 1 || events[0].Reason != protocol.ReasonInvalidArgument {
		t.Fatalf("want INVALID_ARGUMENT rejection, got %+v", events)
	}
}

func TestStepRevisionAndSeqAssignment(t *testing.T) {
	s := testSim()
	st := s.NewState(42)
	src := seq.New(42)

	next, events := s.Step(st, cmd(protocol.CmdAdvanceDay), src)

	if next.Meta.Revision != st.Meta.Revision+1 {
		t.Fatalf("revision: got %d want %d", next.Meta.Revision, st.Meta.Revision+1)
	}
	if len(events) == 0 {
		t.Fatal("no events emitted")
	}
	for i, ev := range events {
		if ev.Seq != i+1 {
			t.Fatalf("event %d has seq %d, want contiguous 1..N", i, ev.Seq)
		}
		if ev.Revision != next.Meta.Revision {
			t.Fatalf("event %d carries revision %d, want %d", i, ev.Revision, next.Meta.Revision)
		}
		if !protocol.IsKnownEvent(ev.Type) {
			t.Fatalf("event %d has unknown type %q", i, ev.Type)
		}
	}
	if events[0].Type != protocol.EvDayStarted {
		t.Fatalf("first event %s, want DAY_STARTED", events[0].Type)
	}
	if events[len(events)-1].Type != protocol.EvDayEnded {
		t.Fatalf("last event %s, want DAY_ENDED", events[len(events)-1].Type)
	}
}

func TestStepDoesNotAliasInputState(t *testing.T) {
	s := testSim()
	st := s.NewState(9)
	src := seq.New(9)

	snapshot := st.Clone()
	s.Step(st, cmd(protocol.CmdAdvanceDay), src)

	if !reflect.DeepEqual(st, snapshot) {
		t.Fatal("Step mutated its input state")
	}
}

// Every declared command type must be dispatched by Step: a type that
// validates but falls through the apply switch would leave revision bumped
// with no effect.
func TestStepHandlesEveryCommandType(t *testing.T) {
	s := testSim()
	for _, typ := range protocol.CommandTypes() {
		st := s.NewState(5)
		src := seq.New(5)

		c := cmd(typ)
		switch typ {
		case protocol.CmdCreateContract:
			c.Title = "Guard the Assay Office"
			c.Difficulty = 2
			c.Payout = 60
			c.Deposit = 10
		case protocol.CmdPostContract:
			st.Contracts.Drafts = append(st.Contracts.Drafts, Draft{
				ID: st.mintDraftID(), Title: "Cull the Fen Wolves",
				Difficulty: 1, Payout: 50, Fee: 50, Salvage: SalvageGuild,
			})
			c.DraftID = "D000001"
		case protocol.CmdCancelContract, protocol.CmdUpdateTerms:
			st.Contracts.Drafts = append(st.Contracts.Drafts, Draft{
				ID: st.mintDraftID(), Title: "Cull the Fen Wolves",
				Difficulty: 1, Payout: 50, Fee: 50, Salvage: SalvageGuild,
			})
			c.ContractID = "D000001"
			c.Fee = feeOf(40)
		case protocol.CmdCloseReturn:
			_, st = returnFixture(OutcomeSuccess, 2, QualityGood, false, 80)
			c.ActiveID = st.Contracts.Active[0].ID
			c.Decision = DecisionAccept
		case protocol.CmdSellTrophies:
			st.Economy.Stock = 3
			c.Amount = 2
		case protocol.CmdPayTax:
			c.Amount = 10
		case protocol.CmdSetProofPolicy:
			c.Policy = string(PolicyStrict)
		}

		next, events := s.Step(st, c, src)
		if next.Meta.Revision != st.Meta.Revision+1 {
			t.Fatalf("%s: revision not bumped", typ)
		}
		if rej, ok := findEvent(events, protocol.EvCommandRejected); ok {
			t.Fatalf("%s: unexpectedly rejected: %s (%s)", typ, rej.Reason, rej.Detail)
		}
	}
}

func TestStepEmitsViolationsBeforeTerminalEvent(t *testing.T) {
	s := testSim()
	st := s.NewState(3)
	// Poison the clamp range so the day pipeline reports it.
	st.Region.Stability = 250

	_, events := s.Step(st, cmd(protocol.CmdAdvanceDay), seq.New(3))

	vi := -1
	for i, ev := range events {
		if ev.Type == protocol.EvInvariantViolated {
			vi = i
			if ev.ViolationID != InvStabilityRange {
				t.Fatalf("violation id %s, want %s", ev.ViolationID, InvStabilityRange)
			}
		}
	}
	if vi < 0 {
		t.Fatalf("no violation emitted: %v", eventTypes(events))
	}
	if events[len(events)-1].Type != protocol.EvDayEnded {
		t.Fatalf("terminal event %s, want DAY_ENDED after violations", events[len(events)-1].Type)
	}
	if vi > len(events)-2 {
		t.Fatal("violation emitted after the terminal event")
	}
}
