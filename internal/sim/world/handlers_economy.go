package world

import "guildsim.ai/internal/protocol"

// applySellTrophies liquidates salvage stock 1:1 into funds. Amount zero or
// negative means "sell everything". Selling with an empty stock is a silent
// no-op: the command is accepted (revision moves) but no event is emitted.
func (s *Sim) applySellTrophies(st *State, cmd protocol.Command, em *emitter) {
	if st.Economy.Stock == 0 {
		return
	}
	sold := cmd.Amount
	if sold <= 0 {
		sold = st.Economy.Stock
	}
	st.Economy.Stock -= sold
	st.Economy.credit(sold)
	em.emit(protocol.Event{
		Type:   protocol.EvStockSold,
		Amount: sold,
		Funds:  st.Economy.Funds,
		Stock:  st.Economy.Stock,
	})
}

// applyPayTax remits part of the available funds to the regional authority,
// which props up stability a little.
func (s *Sim) applyPayTax(st *State, cmd protocol.Command, em *emitter) {
	st.Economy.debit(cmd.Amount)
	em.emit(protocol.Event{
		Type:   protocol.EvTaxPaid,
		Amount: cmd.Amount,
		Funds:  st.Economy.Funds,
	})
	if s.tun.StabilityTaxBonus != 0 {
		st.Region.Stability = clampPercent(st.Region.Stability + s.tun.StabilityTaxBonus)
		em.emit(protocol.Event{
			Type:      protocol.EvStabilityChanged,
			Delta:     s.tun.StabilityTaxBonus,
			Stability: st.Region.Stability,
		})
	}
}

func (s *Sim) applySetProofPolicy(st *State, cmd protocol.Command, em *emitter) {
	st.Guild.ProofPolicy = ProofPolicy(cmd.Policy)
	em.emit(protocol.Event{Type: protocol.EvPolicySet, Policy: cmd.Policy})
}
