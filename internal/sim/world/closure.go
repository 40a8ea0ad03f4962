package world

import "guildsim.ai/internal/protocol"

// Return-closure decision subsystem. Closure is gated by the guild's proof
// policy: LENIENT closes under any condition (an absent decision defaults
// to acceptance, the legacy behavior), STRICT refuses to accept degraded or
// theft-suspected returns and demands an explicit decision. A policy block
// is a domain event on an accepted command, not a rejection.

// closureBlocked reports whether the strict policy forbids accepting r, and
// the detail string for the CLOSURE_BLOCKED event.
func closureBlocked(policy ProofPolicy, r Return) (string, bool) {
	if policy != PolicyStrict {
		return "", false
	}
	if r.TheftSuspected {
		return "theft suspected on returned trophies", true
	}
	if r.Quality == QualityDegraded {
		return "trophy quality degraded below proof standard", true
	}
	return "", false
}

func (s *Sim) applyCloseReturn(st *State, cmd protocol.Command, em *emitter) {
	ri := st.Contracts.returnByActive(cmd.ActiveID)
	r := st.Contracts.Returns[ri]

	if cmd.Decision == DecisionReject {
		s.rejectReturn(st, ri, em)
		return
	}

	if detail, blocked := closureBlocked(st.Guild.ProofPolicy, r); blocked {
		em.emit(protocol.Event{
			Type:     protocol.EvClosureBlocked,
			ReturnID: r.ID,
			ActiveID: r.ActiveID,
			Policy:   string(st.Guild.ProofPolicy),
			Detail:   detail,
		})
		return
	}

	s.acceptReturn(st, ri, em)
}

// acceptReturn settles the return: fee debit, salvage credit, completion
// and rank bookkeeping, then the shared close-out (escrow release and
// archival). Never draws from the sequence source.
func (s *Sim) acceptReturn(st *State, ri int, em *emitter) {
	r := st.Contracts.Returns[ri]
	st.Contracts.Returns = append(st.Contracts.Returns[:ri], st.Contracts.Returns[ri+1:]...)

	em.emit(protocol.Event{
		Type:           protocol.EvReturnAccepted,
		ReturnID:       r.ID,
		ActiveID:       r.ActiveID,
		ContractID:     r.PostedID,
		Outcome:        string(r.Outcome),
		Trophies:       r.Trophies,
		PartialApplied: r.PartialApplied,
		SettledFee:     r.SettledFee,
	})

	if r.SettledFee > 0 {
		st.Economy.debit(r.SettledFee)
		em.emit(protocol.Event{
			Type:           protocol.EvFeeSettled,
			ContractID:     r.PostedID,
			Amount:         r.SettledFee,
			PartialApplied: r.PartialApplied,
			Funds:          st.Economy.Funds,
		})
	}

	if pi := st.Contracts.postedIndex(r.PostedID); pi >= 0 && r.Trophies > 0 {
		share := guildShare(st.Contracts.Board[pi].Salvage, r.Trophies)
		if share > 0 {
			st.Economy.Stock += share
			em.emit(protocol.Event{
				Type:       protocol.EvStockCredited,
				ContractID: r.PostedID,
				Amount:     share,
				Stock:      st.Economy.Stock,
			})
		}
	}

	st.Guild.Completed++
	st.Guild.ToNextRank--
	if st.Guild.ToNextRank <= 0 {
		st.Guild.Rank++
		st.Guild.ToNextRank = s.tun.RankThreshold
		em.emit(protocol.Event{Type: protocol.EvGuildRankUp, Rank: st.Guild.Rank})
	}

	repDelta := s.tun.RepSuccess
	if r.Outcome == OutcomeFail {
		repDelta = -s.tun.RepFail
	}
	st.Guild.Reputation = clampPercent(st.Guild.Reputation + repDelta)
	em.emit(protocol.Event{
		Type:       protocol.EvReputationChanged,
		Delta:      repDelta,
		Reputation: st.Guild.Reputation,
	})

	s.releaseHero(st, r.HeroID)
	s.markClosed(st, r.ActiveID)
	s.closeOutActive(st, r.ActiveID, r.Outcome, em)
}

// rejectReturn terminates the pair without settlement: no draws, no fee, no
// trophies, no completion credit. Escrow still comes free and the hero is
// available again.
func (s *Sim) rejectReturn(st *State, ri int, em *emitter) {
	r := st.Contracts.Returns[ri]
	st.Contracts.Returns = append(st.Contracts.Returns[:ri], st.Contracts.Returns[ri+1:]...)

	em.emit(protocol.Event{
		Type:       protocol.EvReturnRejected,
		ReturnID:   r.ID,
		ActiveID:   r.ActiveID,
		ContractID: r.PostedID,
		Outcome:    string(r.Outcome),
	})

	s.releaseHero(st, r.HeroID)
	s.markClosed(st, r.ActiveID)
	s.closeOutActive(st, r.ActiveID, r.Outcome, em)
}

func (s *Sim) releaseHero(st *State, heroID string) {
	if hi := st.Heroes.heroIndex(heroID); hi >= 0 {
		st.Heroes.Roster[hi].Status = HeroAvailable
	}
}

func (s *Sim) markClosed(st *State, activeID string) {
	if ai := st.Contracts.activeIndex(activeID); ai >= 0 {
		st.Contracts.Active[ai].Status = ActiveClosed
	}
}
