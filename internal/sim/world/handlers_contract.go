package world

import "guildsim.ai/internal/protocol"

// Draft and board command handlers. All of them are draw-free; validation
// has already passed when they run.

func (s *Sim) applyCreateContract(st *State, cmd protocol.Command, em *emitter) {
	salvage := SalvagePolicy(cmd.Salvage)
	if salvage == "" {
		salvage = SalvageGuild
	}
	d := Draft{
		ID:           st.mintDraftID(),
		Title:        cmd.Title,
		Difficulty:   cmd.Difficulty,
		Payout:       cmd.Payout,
		Deposit:      cmd.Deposit,
		Fee:          cmd.Payout,
		Salvage:      salvage,
		CreatedDay:   st.Meta.Day,
		ResolveByDay: st.Meta.Day + s.tun.DraftDeadlineDays,
	}
	if cmd.Fee != nil {
		d.Fee = *cmd.Fee
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

func (s *Sim) applyPostContract(st *State, cmd protocol.Command, em *emitter) {
	i := st.Contracts.draftIndex(cmd.DraftID)
	d := st.Contracts.Drafts[i]

	fee := d.Fee
	if cmd.Fee != nil {
		fee = *cmd.Fee
	}
	salvage := d.Salvage
	if cmd.Salvage != "" {
		salvage = SalvagePolicy(cmd.Salvage)
	}

	p := Posted{
		ID:         st.mintPostedID(),
		DraftID:    d.ID,
		Title:      d.Title,
		Difficulty: d.Difficulty,
		Fee:        fee,
		Deposit:    d.Deposit,
		Escrowed:   fee,
		Salvage:    salvage,
		Status:     PostedOpen,
		PostedDay:  st.Meta.Day,
	}
	st.Economy.escrow(fee)
	st.Contracts.Drafts = append(st.Contracts.Drafts[:i], st.Contracts.Drafts[i+1:]...)
	st.Contracts.Board = append(st.Contracts.Board, p)

	em.emit(protocol.Event{
		Type:       protocol.EvContractPosted,
		ContractID: p.ID,
		DraftID:    d.ID,
		Title:      p.Title,
		Fee:        p.Fee,
		Salvage:    string(p.Salvage),
		Escrow:     st.Economy.Escrow,
	})
}

func (s *Sim) applyCancelContract(st *State, cmd protocol.Command, em *emitter) {
	if i := st.Contracts.draftIndex(cmd.ContractID); i >= 0 {
		// Drafts carry no escrow; removal is the whole effect.
		st.Contracts.Drafts = append(st.Contracts.Drafts[:i], st.Contracts.Drafts[i+1:]...)
		em.emit(protocol.Event{Type: protocol.EvContractCancelled, DraftID: cmd.ContractID})
		return
	}

	i := st.Contracts.postedIndex(cmd.ContractID)
	p := st.Contracts.Board[i]
	st.Economy.release(p.Escrowed)
	st.Contracts.Board = append(st.Contracts.Board[:i], st.Contracts.Board[i+1:]...)
	em.emit(protocol.Event{
		Type:       protocol.EvEscrowReleased,
		ContractID: p.ID,
		Amount:     p.Escrowed,
		Escrow:     st.Economy.Escrow,
	})
	em.emit(protocol.Event{Type: protocol.EvContractCancelled, ContractID: p.ID})
}

func (s *Sim) applyUpdateTerms(st *State, cmd protocol.Command, em *emitter) {
	if i := st.Contracts.draftIndex(cmd.ContractID); i >= 0 {
		d := &st.Contracts.Drafts[i]
		if cmd.Fee != nil {
			d.Fee = *cmd.Fee
		}
		if cmd.Salvage != "" {
			d.Salvage = SalvagePolicy(cmd.Salvage)
		}
		em.emit(protocol.Event{
			Type:    protocol.EvTermsUpdated,
			DraftID: d.ID,
			Fee:     d.Fee,
			Salvage: string(d.Salvage),
		})
		return
	}

	i := st.Contracts.postedIndex(cmd.ContractID)
	p := &st.Contracts.Board[i]
	if cmd.Fee != nil {
		// Escrow tracks the fee by construction: adjust both by the delta.
		delta := *cmd.Fee - p.Escrowed
		st.Economy.escrow(delta)
		p.Fee = *cmd.Fee
		p.Escrowed = *cmd.Fee
	}
	if cmd.Salvage != "" {
		p.Salvage = SalvagePolicy(cmd.Salvage)
	}
	em.emit(protocol.Event{
		Type:       protocol.EvTermsUpdated,
		ContractID: p.ID,
		Fee:        p.Fee,
		Salvage:    string(p.Salvage),
		Escrow:     st.Economy.Escrow,
	})
}
