package world

import (
	"fmt"

	"guildsim.ai/internal/protocol"
)

// Verdict is the result of command validation. A zero Reason means valid.
type Verdict struct {
	OK     bool
	Reason string
	Detail string
}

func valid() Verdict { return Verdict{OK: true} }

func rejected(reason, format string, args ...any) Verdict {
	return Verdict{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// CanApply reports whether cmd is applicable to st. It is pure and
// side-effect free; Step re-runs it internally so callers probing validity
// and callers stepping always agree.
func (s *Sim) CanApply(st State, cmd protocol.Command) Verdict {
	if cmd.CommandID == "" {
		return rejected(protocol.ReasonInvalidArgument, "missing command id")
	}
	if !protocol.IsKnownCommand(cmd.Type) {
		return rejected(protocol.ReasonInvalidArgument, "unknown command type %q", cmd.Type)
	}

	switch cmd.Type {
	case protocol.CmdAdvanceDay:
		return valid()

	case protocol.CmdCreateContract:
		if cmd.Title == "" {
			return rejected(protocol.ReasonInvalidArgument, "contract title is required")
		}
		if cmd.Difficulty < s.tun.DifficultyMin || cmd.Difficulty > s.tun.DifficultyMax {
			return rejected(protocol.ReasonInvalidArgument, "difficulty %d outside [%d,%d]", cmd.Difficulty, s.tun.DifficultyMin, s.tun.DifficultyMax)
		}
		if cmd.Payout < 0 || cmd.Deposit < 0 {
			return rejected(protocol.ReasonInvalidArgument, "payout and deposit must be non-negative")
		}
		if cmd.Fee != nil && *cmd.Fee < 0 {
			return rejected(protocol.ReasonInvalidArgument, "fee must be non-negative")
		}
		if cmd.Salvage != "" && !validSalvage(cmd.Salvage) {
			return rejected(protocol.ReasonInvalidArgument, "unknown salvage policy %q", cmd.Salvage)
		}
		return valid()

	case protocol.CmdPostContract:
		i := st.Contracts.draftIndex(cmd.DraftID)
		if i < 0 {
			return rejected(protocol.ReasonNotFound, "draft %s not found", cmd.DraftID)
		}
		fee := st.Contracts.Drafts[i].Fee
		if cmd.Fee != nil {
			fee = *cmd.Fee
		}
		if fee < 0 {
			return rejected(protocol.ReasonInvalidArgument, "fee must be non-negative")
		}
		if cmd.Salvage != "" && !validSalvage(cmd.Salvage) {
			return rejected(protocol.ReasonInvalidArgument, "unknown salvage policy %q", cmd.Salvage)
		}
		if fee > st.Economy.available() {
			return rejected(protocol.ReasonInvalidState, "insufficient available funds: need %d, available %d", fee, st.Economy.available())
		}
		return valid()

	case protocol.CmdCancelContract:
		if i := st.Contracts.draftIndex(cmd.ContractID); i >= 0 {
			return valid()
		}
		if i := st.Contracts.postedIndex(cmd.ContractID); i >= 0 {
			if st.Contracts.Board[i].Status != PostedOpen {
				return rejected(protocol.ReasonInvalidState, "contract %s is %s, only OPEN contracts can be cancelled", cmd.ContractID, st.Contracts.Board[i].Status)
			}
			return valid()
		}
		return rejected(protocol.ReasonNotFound, "contract %s not found", cmd.ContractID)

	case protocol.CmdUpdateTerms:
		if cmd.Fee == nil && cmd.Salvage == "" {
			return rejected(protocol.ReasonInvalidArgument, "no term changes supplied")
		}
		if cmd.Fee != nil && *cmd.Fee < 0 {
			return rejected(protocol.ReasonInvalidArgument, "fee must be non-negative")
		}
		if cmd.Salvage != "" && !validSalvage(cmd.Salvage) {
			return rejected(protocol.ReasonInvalidArgument, "unknown salvage policy %q", cmd.Salvage)
		}
		if i := st.Contracts.draftIndex(cmd.ContractID); i >= 0 {
			return valid()
		}
		if i := st.Contracts.postedIndex(cmd.ContractID); i >= 0 {
			p := st.Contracts.Board[i]
			if p.Status != PostedOpen {
				return rejected(protocol.ReasonInvalidState, "contract %s is %s, only OPEN contracts accept term updates", cmd.ContractID, p.Status)
			}
			if cmd.Fee != nil {
				delta := *cmd.Fee - p.Escrowed
				if delta > 0 && st.Economy.Escrow+delta > st.Economy.Funds {
					return rejected(protocol.ReasonInvalidState, "fee increase of %d exceeds available funds", delta)
				}
			}
			return valid()
		}
		return rejected(protocol.ReasonNotFound, "contract %s not found", cmd.ContractID)

	case protocol.CmdCloseReturn:
		ri := st.Contracts.returnByActive(cmd.ActiveID)
		if ri < 0 {
			return rejected(protocol.ReasonNotFound, "no pending return for active contract %s", cmd.ActiveID)
		}
		switch cmd.Decision {
		case "", DecisionAccept, DecisionReject:
		default:
			return rejected(protocol.ReasonInvalidArgument, "unknown decision %q", cmd.Decision)
		}
		if cmd.Decision == "" && st.Guild.ProofPolicy == PolicyStrict {
			return rejected(protocol.ReasonInvalidArgument, "strict proof policy requires an explicit decision")
		}
		if cmd.Decision != DecisionReject {
			// Acceptance settles the fee from funds.
			if st.Contracts.Returns[ri].SettledFee > st.Economy.Funds {
				return rejected(protocol.ReasonInvalidState, "insufficient funds to settle fee %d", st.Contracts.Returns[ri].SettledFee)
			}
		}
		return valid()

	case protocol.CmdSellTrophies:
		if cmd.Amount > st.Economy.Stock {
			return rejected(protocol.ReasonInvalidState, "cannot sell %d trophies, stock is %d", cmd.Amount, st.Economy.Stock)
		}
		return valid()

	case protocol.CmdPayTax:
		if cmd.Amount <= 0 {
			return rejected(protocol.ReasonInvalidArgument, "tax amount must be positive")
		}
		if cmd.Amount > st.Economy.available() {
			return rejected(protocol.ReasonInvalidState, "tax %d exceeds available funds %d", cmd.Amount, st.Economy.available())
		}
		return valid()

	case protocol.CmdSetProofPolicy:
		switch ProofPolicy(cmd.Policy) {
		case PolicyLenient, PolicyStrict:
			return valid()
		}
		return rejected(protocol.ReasonInvalidArgument, "unknown proof policy %q", cmd.Policy)
	}

	return rejected(protocol.ReasonInvalidArgument, "unhandled command type %q", cmd.Type)
}

func validSalvage(v string) bool {
	switch SalvagePolicy(v) {
	case SalvageGuild, SalvageHero, SalvageSplit:
		return true
	}
	return false
}
