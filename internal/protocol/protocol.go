// Package protocol defines the closed command and event surface of the
// simulation core. Commands and events are flat tagged structs routed by
// their Type field; unknown types are rejected at validation time.
package protocol

import "encoding/json"

const Version = "1.0"

// Command types.
const (
	CmdAdvanceDay     = "ADVANCE_DAY"
	CmdCreateContract = "CREATE_CONTRACT"
	CmdPostContract   = "POST_CONTRACT"
	CmdCancelContract = "CANCEL_CONTRACT"
	CmdUpdateTerms    = "UPDATE_CONTRACT_TERMS"
	CmdCloseReturn    = "CLOSE_RETURN"
	CmdSellTrophies   = "SELL_TROPHIES"
	CmdPayTax         = "PAY_TAX"
	CmdSetProofPolicy = "SET_PROOF_POLICY"
)

// CommandTypes lists every command variant in dispatch order. Exhaustive
// handling is pinned by a test against this table.
func CommandTypes() []string {
	return []string{
		CmdAdvanceDay,
		CmdCreateContract,
		CmdPostContract,
		CmdCancelContract,
		CmdUpdateTerms,
		CmdCloseReturn,
		CmdSellTrophies,
		CmdPayTax,
		CmdSetProofPolicy,
	}
}

var knownCommands = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, t := range CommandTypes() {
		m[t] = struct{}{}
	}
	return m
}()

func IsKnownCommand(t string) bool {
	_, ok := knownCommands[t]
	return ok
}

// Command is the single wire shape for all command variants. Fields beyond
// the Type/CommandID prefix are variant-specific and omitted when unused.
type Command struct {
	Type      string `json:"type"`
	CommandID string `json:"command_id"`

	// CREATE_CONTRACT
	Title      string `json:"title,omitempty"`
	Difficulty int    `json:"difficulty,omitempty"`
	Payout     int64  `json:"payout,omitempty"`
	Deposit    int64  `json:"deposit,omitempty"`

	// POST_CONTRACT, UPDATE_CONTRACT_TERMS. Fee is a pointer so "no fee
	// change" and "fee zero" stay distinguishable.
	DraftID string `json:"draft_id,omitempty"`
	Fee     *int64 `json:"fee,omitempty"`
	Salvage string `json:"salvage,omitempty"`

	// CANCEL_CONTRACT, UPDATE_CONTRACT_TERMS (board target).
	ContractID string `json:"contract_id,omitempty"`

	// CLOSE_RETURN
	ActiveID string `json:"active_id,omitempty"`
	Decision string `json:"decision,omitempty"`

	// SELL_TROPHIES, PAY_TAX
	Amount int64 `json:"amount,omitempty"`

	// SET_PROOF_POLICY
	Policy string `json:"policy,omitempty"`
}

func DecodeCommand(b []byte) (Command, error) {
	var c Command
	err := json.Unmarshal(b, &c)
	return c, err
}
