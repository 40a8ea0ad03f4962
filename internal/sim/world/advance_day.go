package world

import (
	"guildsim.ai/internal/protocol"
	"guildsim.ai/internal/sim/seq"
)

// applyAdvanceDay runs the composite day pipeline. It is the only handler
// that consumes the sequence source; the draw order below is a replay
// contract and must not be reordered:
//
//	per generated draft:   title, difficulty, payout, deposit
//	per arriving hero:     name
//	per due draft (inbox order): resolution bucket
//	per OPEN posting with candidates (board order): hero index, work days
//	per resolving active (active order): outcome bucket,
//	    then for SUCCESS/PARTIAL: trophy count, quality bucket, theft draw
func (s *Sim) applyAdvanceDay(st *State, src *seq.Source, em *emitter) {
	st.Meta.Day++
	em.day = st.Meta.Day

	em.emit(protocol.Event{Type: protocol.EvDayStarted})

	// Yesterday's arrivals expire; today's are appended below.
	st.Heroes.Arrivals = nil

	s.generateDrafts(st, src, em)
	s.arriveHeroes(st, src, em)
	s.autoResolveDrafts(st, src, em)
	s.takeContracts(st, src, em)
	s.advanceWork(st, src, em)

	em.setTerminal(protocol.Event{
		Type:       protocol.EvDayEnded,
		Funds:      st.Economy.Funds,
		Escrow:     st.Economy.Escrow,
		Stock:      st.Economy.Stock,
		Stability:  st.Region.Stability,
		Reputation: st.Guild.Reputation,
		Drafts:     len(st.Contracts.Drafts),
		Board:      len(st.Contracts.Board),
		Active:     len(st.Contracts.Active),
		Returns:    len(st.Contracts.Returns),
		Archive:    len(st.Contracts.Archive),
		Roster:     len(st.Heroes.Roster),
	})
}

func (s *Sim) generateDrafts(st *State, src *seq.Source, em *emitter) {
	for i := 0; i < s.tun.DraftsPerDay; i++ {
		title := s.cats.ContractTitles[src.IntN(len(s.cats.ContractTitles))]
		difficulty := src.Range(s.tun.DifficultyMin, s.tun.DifficultyMax)
		payout := int64(src.Range(s.tun.PayoutMin, s.tun.PayoutMax))
		deposit := int64(src.Range(s.tun.DepositMin, s.tun.DepositMax))

		d := Draft{
			ID:           st.mintDraftID(),
			Title:        title,
			Difficulty:   difficulty,
			Payout:       payout,
			Deposit:      deposit,
			Fee:          payout,
			Salvage:      SalvageGuild,
			CreatedDay:   st.Meta.Day,
			ResolveByDay: st.Meta.Day + s.tun.DraftDeadlineDays,
		}
		st.Contracts.Drafts = append(st.Contracts.Drafts, d)
		em.emit(protocol.Event{
			Type:       protocol.EvDraftCreated,
			DraftID:    d.ID,
			Title:      d.Title,
			Difficulty: d.Difficulty,
			Payout:     d.Payout,
			Deposit:    d.Deposit,
			Fee:        d.Fee,
		})
	}
}

func (s *Sim) arriveHeroes(st *State, src *seq.Source, em *emitter) {
	for i := 0; i < s.tun.HeroesPerDay; i++ {
		h := Hero{
			ID:         st.mintHeroID(),
			Name:       s.cats.HeroNames[src.IntN(len(s.cats.HeroNames))],
			Status:     HeroAvailable,
			ArrivedDay: st.Meta.Day,
		}
		st.Heroes.Roster = append(st.Heroes.Roster, h)
		st.Heroes.Arrivals = append(st.Heroes.Arrivals, h)
		em.emit(protocol.Event{Type: protocol.EvHeroArrived, HeroID: h.ID, HeroName: h.Name})
	}
}

// autoResolveDrafts force-resolves every inbox draft past its deadline, one
// resolution per draft per day, in inbox order. Board and active contracts
// are untouched.
func (s *Sim) autoResolveDrafts(st *State, src *seq.Source, em *emitter) {
	kept := st.Contracts.Drafts[:0]
	for _, d := range st.Contracts.Drafts {
		if st.Meta.Day <= d.ResolveByDay {
			kept = append(kept, d)
			continue
		}
		weights := []int{s.tun.ResolveGoodWeight, s.tun.ResolveNeutralWeight, s.tun.ResolveBadWeight}
		switch src.Bucket(weights) {
		case 0: // GOOD: the client found help elsewhere; drop without penalty.
			em.emit(protocol.Event{Type: protocol.EvDraftAutoResolved, DraftID: d.ID, Bucket: "GOOD"})
		case 1: // NEUTRAL: keep waiting another deadline window.
			d.ResolveByDay += s.tun.DraftDeadlineDays
			kept = append(kept, d)
			em.emit(protocol.Event{Type: protocol.EvDraftAutoResolved, DraftID: d.ID, Bucket: "NEUTRAL"})
		default: // BAD: the ignored problem festers.
			st.Region.Stability = clampPercent(st.Region.Stability - s.tun.BadStabilityPenalty)
			em.emit(protocol.Event{Type: protocol.EvDraftAutoResolved, DraftID: d.ID, Bucket: "BAD"})
			em.emit(protocol.Event{
				Type:      protocol.EvStabilityChanged,
				Delta:     -s.tun.BadStabilityPenalty,
				Stability: st.Region.Stability,
			})
		}
	}
	st.Contracts.Drafts = kept
}

// takeContracts matches available heroes to OPEN postings, at most one
// Active per posting per day. The tie-break among contending heroes is a
// single draw over the candidates in roster order.
func (s *Sim) takeContracts(st *State, src *seq.Source, em *emitter) {
	for bi := range st.Contracts.Board {
		p := &st.Contracts.Board[bi]
		if p.Status != PostedOpen {
			continue
		}
		candidates := make([]int, 0, len(st.Heroes.Roster))
		for hi := range st.Heroes.Roster {
			if st.Heroes.Roster[hi].Status == HeroAvailable {
				candidates = append(candidates, hi)
			}
		}
		if len(candidates) == 0 {
			// No hero frees up during this phase, but later postings must
			// still be visited if that ever changes.
			continue
		}
		hi := candidates[src.IntN(len(candidates))]
		hero := &st.Heroes.Roster[hi]
		workDays := src.Range(s.tun.WorkDaysMin, s.tun.WorkDaysMax)

		a := Active{
			ID:           st.mintActiveID(),
			PostedID:     p.ID,
			HeroID:       hero.ID,
			Status:       ActiveWIP,
			WorkDaysLeft: workDays,
			StartedDay:   st.Meta.Day,
		}
		hero.Status = HeroOnMission
		p.Status = PostedLocked
		st.Contracts.Active = append(st.Contracts.Active, a)

		em.emit(protocol.Event{
			Type:         protocol.EvContractTaken,
			ContractID:   p.ID,
			ActiveID:     a.ID,
			HeroID:       hero.ID,
			HeroName:     hero.Name,
			WorkDaysLeft: workDays,
		})
	}
}

// advanceWork decrements WIP actives in order and resolves the ones that
// reach zero.
func (s *Sim) advanceWork(st *State, src *seq.Source, em *emitter) {
	// Resolution can remove actives (DEATH/MISSING force-close), so walk a
	// snapshot of ids instead of the live slice.
	ids := make([]string, 0, len(st.Contracts.Active))
	for i := range st.Contracts.Active {
		if st.Contracts.Active[i].Status == ActiveWIP {
			ids = append(ids, st.Contracts.Active[i].ID)
		}
	}
	for _, id := range ids {
		ai := st.Contracts.activeIndex(id)
		a := &st.Contracts.Active[ai]
		a.WorkDaysLeft--
		em.emit(protocol.Event{
			Type:         protocol.EvWorkAdvanced,
			ActiveID:     a.ID,
			ContractID:   a.PostedID,
			WorkDaysLeft: a.WorkDaysLeft,
		})
		if a.WorkDaysLeft <= 0 {
			s.resolveOutcome(st, id, src, em)
		}
	}
}
