package world

import (
	"guildsim.ai/internal/protocol"
	"guildsim.ai/internal/sim/seq"
)

// resolveOutcome samples the mission result for an active contract whose
// work reached zero. SUCCESS and PARTIAL produce a return awaiting manual
// closure; FAIL produces a zero-fee return (the hero still came back and
// the paperwork still needs closing); DEATH and MISSING remove the hero and
// force-close the pair on the spot.
func (s *Sim) resolveOutcome(st *State, activeID string, src *seq.Source, em *emitter) {
	ai := st.Contracts.activeIndex(activeID)
	a := &st.Contracts.Active[ai]
	pi := st.Contracts.postedIndex(a.PostedID)
	p := st.Contracts.Board[pi]

	outcomes := []Outcome{OutcomeSuccess, OutcomePartial, OutcomeFail, OutcomeDeath, OutcomeMissing}
	weights := []int{
		s.tun.SuccessWeight,
		s.tun.PartialWeight,
		s.tun.FailWeight,
		s.tun.DeathWeight,
		s.tun.MissingWeight,
	}
	outcome := outcomes[src.Bucket(weights)]

	switch outcome {
	case OutcomeDeath, OutcomeMissing:
		s.forceClose(st, activeID, outcome, em)
		return
	}

	r := Return{
		ID:          st.mintReturnID(),
		ActiveID:    a.ID,
		PostedID:    p.ID,
		HeroID:      a.HeroID,
		Outcome:     outcome,
		ManualClose: true,
		CreatedDay:  st.Meta.Day,
	}
	switch outcome {
	case OutcomeSuccess:
		r.Trophies = src.Range(s.tun.TrophyMin, s.tun.TrophyMax)
		r.Quality = s.drawQuality(src)
		r.TheftSuspected = s.drawTheft(src)
		r.SettledFee = p.Fee
	case OutcomePartial:
		r.Trophies = src.Range(s.tun.TrophyMin, s.tun.TrophyMax)
		r.Quality = s.drawQuality(src)
		r.TheftSuspected = s.drawTheft(src)
		r.SettledFee, r.PartialApplied = settlePartial(p.Fee)
	case OutcomeFail:
		// No trophies, no fee; three draws saved as well.
	}

	a.Status = ActiveReturnReady
	st.Contracts.Returns = append(st.Contracts.Returns, r)

	em.emit(protocol.Event{
		Type:           protocol.EvReturnReady,
		ReturnID:       r.ID,
		ActiveID:       r.ActiveID,
		ContractID:     r.PostedID,
		HeroID:         r.HeroID,
		Outcome:        string(r.Outcome),
		Trophies:       r.Trophies,
		Quality:        string(r.Quality),
		TheftSuspected: r.TheftSuspected,
		PartialApplied: r.PartialApplied,
		SettledFee:     r.SettledFee,
	})
}

func (s *Sim) drawQuality(src *seq.Source) Quality {
	if src.Bucket([]int{s.tun.DegradedPerMil, 1000 - s.tun.DegradedPerMil}) == 0 {
		return QualityDegraded
	}
	return QualityGood
}

func (s *Sim) drawTheft(src *seq.Source) bool {
	return src.Bucket([]int{s.tun.TheftPerMil, 1000 - s.tun.TheftPerMil}) == 0
}

// settlePartial computes the settled amount for a partially successful
// mission: half the normal value, floored toward zero. The flag marks that
// the partial rule was applied.
func settlePartial(fee int64) (int64, bool) {
	return fee / 2, true
}

// forceClose terminates an active contract whose hero died or went missing:
// no fee, no trophies, escrow released, hero struck from the roster, the
// posting archived. No return survives, so no manual closure is needed.
func (s *Sim) forceClose(st *State, activeID string, outcome Outcome, em *emitter) {
	ai := st.Contracts.activeIndex(activeID)
	a := st.Contracts.Active[ai]

	if hi := st.Heroes.heroIndex(a.HeroID); hi >= 0 {
		hero := st.Heroes.Roster[hi]
		st.Heroes.Roster = append(st.Heroes.Roster[:hi], st.Heroes.Roster[hi+1:]...)
		em.emit(protocol.Event{
			Type:     protocol.EvHeroLost,
			HeroID:   hero.ID,
			HeroName: hero.Name,
			Outcome:  string(outcome),
			ActiveID: a.ID,
		})
	}

	st.Guild.Reputation = clampPercent(st.Guild.Reputation - s.tun.RepLoss)
	em.emit(protocol.Event{
		Type:       protocol.EvReputationChanged,
		Delta:      -s.tun.RepLoss,
		Reputation: st.Guild.Reputation,
	})

	st.Contracts.Active[ai].Status = ActiveClosed
	s.closeOutActive(st, activeID, outcome, em)
}

// closeOutActive removes a CLOSED active, releases the posting's escrow and
// archives the posting once no non-closed active references it. Shared by
// force-closure and both manual closure paths.
func (s *Sim) closeOutActive(st *State, activeID string, outcome Outcome, em *emitter) {
	ai := st.Contracts.activeIndex(activeID)
	a := st.Contracts.Active[ai]
	st.Contracts.Active = append(st.Contracts.Active[:ai], st.Contracts.Active[ai+1:]...)

	pi := st.Contracts.postedIndex(a.PostedID)
	if pi < 0 {
		return
	}
	p := st.Contracts.Board[pi]

	for i := range st.Contracts.Active {
		if st.Contracts.Active[i].PostedID == p.ID && st.Contracts.Active[i].Status != ActiveClosed {
			return
		}
	}

	st.Economy.release(p.Escrowed)
	em.emit(protocol.Event{
		Type:       protocol.EvEscrowReleased,
		ContractID: p.ID,
		Amount:     p.Escrowed,
		Escrow:     st.Economy.Escrow,
	})

	st.Contracts.Board = append(st.Contracts.Board[:pi], st.Contracts.Board[pi+1:]...)
	arc := Archived{
		ID:        p.ID,
		PostedID:  p.ID,
		Title:     p.Title,
		Fee:       p.Fee,
		Status:    PostedCompleted,
		Outcome:   outcome,
		ClosedDay: st.Meta.Day,
	}
	st.Contracts.Archive = append(st.Contracts.Archive, arc)
	em.emit(protocol.Event{
		Type:       protocol.EvContractArchived,
		ContractID: p.ID,
		Title:      p.Title,
		Outcome:    string(outcome),
	})
}
