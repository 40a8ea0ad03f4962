package world

import (
	"fmt"

	"guildsim.ai/internal/protocol"
	"guildsim.ai/internal/sim/catalogs"
	"guildsim.ai/internal/sim/tuning"
)

// Shared test fixtures. Pools are fixed so draws are reproducible without
// touching the filesystem.

func testCatalogs() *catalogs.Catalogs {
	return &catalogs.Catalogs{
		HeroNames: []string{
			"Aldric", "Brenna", "Cassia", "Doran", "Edric", "Fenna", "Garrick", "Hale",
		},
		ContractTitles: []string{
			"Clear the Millpond Nest", "Escort the Salt Caravan",
			"Cull the Fen Wolves", "Seal the Barrow Door",
			"Hunt the Marsh Stalker", "Reclaim the Ferry Crossing",
		},
	}
}

func testSim() *Sim {
	return New(tuning.Default(), testCatalogs())
}

var cmdCounter int

// cmd builds a command with a fresh id.
func cmd(typ string) protocol.Command {
	cmdCounter++
	return protocol.Command{Type: typ, CommandID: fmt.Sprintf("c-%04d", cmdCounter)}
}

func feeOf(v int64) *int64 { return &v }

// eventTypes projects the Type column of an event list.
func eventTypes(events []protocol.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func findEvent(events []protocol.Event, typ string) (protocol.Event, bool) {
	for _, e := range events {
		if e.Type == typ {
			return e, true
		}
	}
	return protocol.Event{}, false
}

func countEvents(events []protocol.Event, typ string) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// postedFixture returns a state with one OPEN posted contract and sane
// counters, plus the sim that owns the tuning.
func postedFixture(fee int64) (*Sim, State) {
	s := testSim()
	st := s.NewState(7)
	st.Meta.Day = 3
	st.Economy.escrow(fee)
	st.Contracts.Board = append(st.Contracts.Board, Posted{
		ID:         st.mintPostedID(),
		DraftID:    "D000001",
		Title:      "Cull the Fen Wolves",
		Difficulty: 2,
		Fee:        fee,
		Deposit:    10,
		Escrowed:   fee,
		Salvage:    SalvageGuild,
		Status:     PostedOpen,
		PostedDay:  3,
	})
	st.Meta.Counters.NextDraft = 2
	return s, st
}

// returnFixture builds a state holding one RETURN_READY active with a
// pending return of the given outcome, plus its LOCKED posting and the hero.
func returnFixture(outcome Outcome, trophies int, quality Quality, theft bool, settledFee int64) (*Sim, State) {
	s, st := postedFixture(100)
	p := &st.Contracts.Board[0]
	p.Status = PostedLocked

	hero := Hero{ID: st.mintHeroID(), Name: "Brenna", Status: HeroOnMission, ArrivedDay: 1}
	st.Heroes.Roster = append(st.Heroes.Roster, hero)

	a := Active{
		ID:         st.mintActiveID(),
		PostedID:   p.ID,
		HeroID:     hero.ID,
		Status:     ActiveReturnReady,
		StartedDay: 2,
	}
	st.Contracts.Active = append(st.Contracts.Active, a)

	st.Contracts.Returns = append(st.Contracts.Returns, Return{
		ID:             st.mintReturnID(),
		ActiveID:       a.ID,
		PostedID:       p.ID,
		HeroID:         hero.ID,
		Outcome:        outcome,
		Trophies:       trophies,
		Quality:        quality,
		TheftSuspected: theft,
		ManualClose:    true,
		SettledFee:     settledFee,
		CreatedDay:     3,
	})
	return s, st
}
