package world

import (
	"testing"

	"guildsim.ai/internal/protocol"
)

func TestHashStateEqualStatesEqualDigests(t *testing.T) {
	_, a := returnFixture(OutcomeSuccess, 2, QualityGood, false, 80)
	_, b := returnFixture(OutcomeSuccess, 2, QualityGood, false, 80)

	if HashState(a) != HashState(b) {
		t.Fatal("structurally equal states hash differently")
	}
	if HashState(a) != HashState(a.Clone()) {
		t.Fatal("clone hashes differently from its source")
	}
}

func TestHashStateSensitivity(t *testing.T) {
	s := testSim()
	base := s.NewState(1)
	baseDigest := HashState(base)

	mutations := []struct {
		name   string
		mutate func(*State)
	}{
		{"day", func(st *State) { st.Meta.Day++ }},
		{"revision", func(st *State) { st.Meta.Revision++ }},
		{"funds", func(st *State) { st.Economy.Funds++ }},
		{"escrow", func(st *State) { st.Economy.Escrow++ }},
		{"stock", func(st *State) { st.Economy.Stock++ }},
		{"stability", func(st *State) { st.Region.Stability++ }},
		{"reputation", func(st *State) { st.Guild.Reputation++ }},
		{"policy", func(st *State) { st.Guild.ProofPolicy = PolicyStrict }},
		{"counter", func(st *State) { st.Meta.Counters.NextDraft++ }},
		{"draft", func(st *State) {
			st.Contracts.Drafts = append(st.Contracts.Drafts, Draft{ID: "D000001"})
		}},
		{"hero", func(st *State) {
			st.Heroes.Roster = append(st.Heroes.Roster, Hero{ID: "H000001"})
		}},
		{"arrival", func(st *State) {
			st.Heroes.Arrivals = append(st.Heroes.Arrivals, Hero{ID: "H000001"})
		}},
	}
	for _, m := range mutations {
		st := base.Clone()
		m.mutate(&st)
		if HashState(st) == baseDigest {
			t.Errorf("%s mutation did not change the digest", m.name)
		}
	}
}

func TestHashStateOrderSensitive(t *testing.T) {
	s := testSim()
	a := s.NewState(1)
	a.Contracts.Drafts = []Draft{{ID: "D000001"}, {ID: "D000002"}}
	a.Meta.Counters.NextDraft = 3

	b := a.Clone()
	b.Contracts.Drafts[0], b.Contracts.Drafts[1] = b.Contracts.Drafts[1], b.Contracts.Drafts[0]

	if HashState(a) == HashState(b) {
		t.Fatal("slice order must be part of the digest")
	}
}

func TestHashEvents(t *testing.T) {
	a := []protocol.Event{
		{Type: protocol.EvDayStarted, Day: 1, Revision: 1, CommandID: "c-1", Seq: 1},
		{Type: protocol.EvDayEnded, Day: 1, Revision: 1, CommandID: "c-1", Seq: 2},
	}
	b := []protocol.Event{
		{Type: protocol.EvDayStarted, Day: 1, Revision: 1, CommandID: "c-1", Seq: 1},
		{Type: protocol.EvDayEnded, Day: 1, Revision: 1, CommandID: "c-1", Seq: 2},
	}
	if HashEvents(a) != HashEvents(b) {
		t.Fatal("equal event lists hash differently")
	}

	b[1].Funds = 1
	if HashEvents(a) == HashEvents(b) {
		t.Fatal("payload change did not change the digest")
	}

	if HashEvents(nil) == HashEvents(a) {
		t.Fatal("empty list collides with a non-empty one")
	}
	if HashEvents(a[:1]) == HashEvents(a) {
		t.Fatal("prefix collides with the full list")
	}
}
