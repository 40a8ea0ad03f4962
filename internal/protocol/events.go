package protocol

// Event types. The set is closed; every event carries the common prefix
// {type, day, revision, command_id, seq} in fixed field order.
const (
	EvDayStarted        = "DAY_STARTED"
	EvDraftCreated      = "DRAFT_CREATED"
	EvHeroArrived       = "HERO_ARRIVED"
	EvDraftAutoResolved = "DRAFT_AUTO_RESOLVED"
	EvStabilityChanged  = "STABILITY_CHANGED"
	EvContractPosted    = "CONTRACT_POSTED"
	EvContractCancelled = "CONTRACT_CANCELLED"
	EvTermsUpdated      = "TERMS_UPDATED"
	EvContractTaken     = "CONTRACT_TAKEN"
	EvWorkAdvanced      = "WORK_ADVANCED"
	EvReturnReady       = "RETURN_READY"
	EvHeroLost          = "HERO_LOST"
	EvReturnAccepted    = "RETURN_ACCEPTED"
	EvReturnRejected    = "RETURN_REJECTED"
	EvClosureBlocked    = "CLOSURE_BLOCKED"
	EvEscrowReleased    = "ESCROW_RELEASED"
	EvFeeSettled        = "FEE_SETTLED"
	EvStockCredited     = "STOCK_CREDITED"
	EvContractArchived  = "CONTRACT_ARCHIVED"
	EvGuildRankUp       = "GUILD_RANK_UP"
	EvReputationChanged = "REPUTATION_CHANGED"
	EvStockSold         = "STOCK_SOLD"
	EvTaxPaid           = "TAX_PAID"
	EvPolicySet         = "POLICY_SET"
	EvDayEnded          = "DAY_ENDED"
	EvCommandRejected   = "COMMAND_REJECTED"
	EvInvariantViolated = "INVARIANT_VIOLATION"
)

// EventTypes lists every event variant.
func EventTypes() []string {
	return []string{
		EvDayStarted, EvDraftCreated, EvHeroArrived, EvDraftAutoResolved,
		EvStabilityChanged, EvContractPosted, EvContractCancelled,
		EvTermsUpdated, EvContractTaken, EvWorkAdvanced, EvReturnReady,
		EvHeroLost, EvReturnAccepted, EvReturnRejected, EvClosureBlocked,
		EvEscrowReleased, EvFeeSettled, EvStockCredited, EvContractArchived,
		EvGuildRankUp, EvReputationChanged, EvStockSold, EvTaxPaid,
		EvPolicySet, EvDayEnded, EvCommandRejected, EvInvariantViolated,
	}
}

var knownEvents = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, t := range EventTypes() {
		m[t] = struct{}{}
	}
	return m
}()

func IsKnownEvent(t string) bool {
	_, ok := knownEvents[t]
	return ok
}

// Event is a domain event emitted by the reducer. The first five fields are
// the fixed common prefix; the remainder are variant-specific.
type Event struct {
	Type      string `json:"type"`
	Day       int    `json:"day"`
	Revision  uint64 `json:"revision"`
	CommandID string `json:"command_id"`
	Seq       int    `json:"seq"`

	// Entity references.
	DraftID    string `json:"draft_id,omitempty"`
	ContractID string `json:"contract_id,omitempty"`
	ActiveID   string `json:"active_id,omitempty"`
	ReturnID   string `json:"return_id,omitempty"`
	HeroID     string `json:"hero_id,omitempty"`

	// Contract fields.
	Title        string `json:"title,omitempty"`
	Difficulty   int    `json:"difficulty,omitempty"`
	Fee          int64  `json:"fee,omitempty"`
	Payout       int64  `json:"payout,omitempty"`
	Deposit      int64  `json:"deposit,omitempty"`
	Salvage      string `json:"salvage,omitempty"`
	WorkDaysLeft int    `json:"work_days_left,omitempty"`

	// Hero fields.
	HeroName string `json:"hero_name,omitempty"`

	// Resolution fields.
	Outcome        string `json:"outcome,omitempty"`
	Trophies       int    `json:"trophies,omitempty"`
	Quality        string `json:"quality,omitempty"`
	TheftSuspected bool   `json:"theft_suspected,omitempty"`
	PartialApplied bool   `json:"partial_applied,omitempty"`
	SettledFee     int64  `json:"settled_fee,omitempty"`
	Bucket         string `json:"bucket,omitempty"`

	// Economy fields.
	Amount int64 `json:"amount,omitempty"`
	Funds  int64 `json:"funds,omitempty"`
	Escrow int64 `json:"escrow,omitempty"`
	Stock  int64 `json:"stock,omitempty"`

	// Guild / region fields.
	Policy     string `json:"policy,omitempty"`
	Rank       int    `json:"rank,omitempty"`
	Reputation int    `json:"reputation,omitempty"`
	Completed  int    `json:"completed,omitempty"`
	Stability  int    `json:"stability,omitempty"`
	Delta      int    `json:"delta,omitempty"`

	// DAY_ENDED collection sizes.
	Drafts  int `json:"drafts,omitempty"`
	Board   int `json:"board,omitempty"`
	Active  int `json:"active,omitempty"`
	Returns int `json:"returns,omitempty"`
	Archive int `json:"archive,omitempty"`
	Roster  int `json:"roster,omitempty"`

	// COMMAND_REJECTED.
	Reason string `json:"reason,omitempty"`
	Detail string `json:"detail,omitempty"`

	// INVARIANT_VIOLATION.
	ViolationID string `json:"violation_id,omitempty"`
}
