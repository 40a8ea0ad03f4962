package world

import "testing"

func violationIDs(vs []Violation) map[string]bool {
	out := make(map[string]bool, len(vs))
	for _, v := range vs {
		out[v.ID] = true
	}
	return out
}

func TestVerifyInvariantsCleanState(t *testing.T) {
	s := testSim()
	if vs := VerifyInvariants(s.NewState(1)); len(vs) != 0 {
		t.Fatalf("fresh state has violations: %+v", vs)
	}

	_, st := returnFixture(OutcomeSuccess, 2, QualityGood, false, 100)
	if vs := VerifyInvariants(st); len(vs) != 0 {
		t.Fatalf("fixture state has violations: %+v", vs)
	}
}

func TestVerifyInvariantsEconomy(t *testing.T) {
	s := testSim()

	st := s.NewState(1)
	st.Economy.Funds = -1
	if !violationIDs(VerifyInvariants(st))[InvFundsNonNegative] {
		t.Fatal("negative funds not reported")
	}

	st = s.NewState(1)
	st.Economy.Escrow = st.Economy.Funds + 1
	if !violationIDs(VerifyInvariants(st))[InvEscrowBounds] {
		t.Fatal("escrow above funds not reported")
	}

	st = s.NewState(1)
	st.Economy.Escrow = -5
	if !violationIDs(VerifyInvariants(st))[InvEscrowBounds] {
		t.Fatal("negative escrow not reported")
	}

	st = s.NewState(1)
	st.Economy.Stock = -1
	if !violationIDs(VerifyInvariants(st))[InvStockNonNegative] {
		t.Fatal("negative stock not reported")
	}
}

func TestVerifyInvariantsRanges(t *testing.T) {
	s := testSim()

	st := s.NewState(1)
	st.Region.Stability = 101
	if !violationIDs(VerifyInvariants(st))[InvStabilityRange] {
		t.Fatal("stability above 100 not reported")
	}

	st = s.NewState(1)
	st.Guild.Reputation = -1
	if !violationIDs(VerifyInvariants(st))[InvReputationRange] {
		t.Fatal("negative reputation not reported")
	}
}

func TestVerifyInvariantsCounters(t *testing.T) {
	s := testSim()

	st := s.NewState(1)
	st.Contracts.Drafts = append(st.Contracts.Drafts, Draft{
		ID: "D000007", Title: "x", Difficulty: 1, Salvage: SalvageGuild,
	})
	// NextDraft is still 1, below the live id.
	if !violationIDs(VerifyInvariants(st))[InvIDCounters] {
		t.Fatal("stale draft counter not reported")
	}

	st.Meta.Counters.NextDraft = 8
	if violationIDs(VerifyInvariants(st))[InvIDCounters] {
		t.Fatal("correct counter reported as stale")
	}

	st.Meta.Counters.NextHero = 0
	if !violationIDs(VerifyInvariants(st))[InvIDCounters] {
		t.Fatal("zero counter not reported")
	}
}

func TestVerifyInvariantsStructure(t *testing.T) {
	// Return pointing at a missing active.
	_, st := returnFixture(OutcomeSuccess, 1, QualityGood, false, 10)
	st.Contracts.Active = nil
	ids := violationIDs(VerifyInvariants(st))
	if !ids[InvReturnReference] {
		t.Fatal("dangling return reference not reported")
	}
	// The LOCKED posting also lost its active.
	if !ids[InvLockedHasActive] {
		t.Fatal("LOCKED posting without active not reported")
	}

	// WIP active with out-of-range work days.
	_, st = returnFixture(OutcomeSuccess, 1, QualityGood, false, 10)
	st.Contracts.Returns = nil
	st.Contracts.Active[0].Status = ActiveWIP
	st.Contracts.Active[0].WorkDaysLeft = 9
	if !violationIDs(VerifyInvariants(st))[InvActiveWorkDays] {
		t.Fatal("out-of-range work days not reported")
	}
}
