package world

// Ledger primitives. Callers validate before mutating; these helpers keep
// the three scalars moving together so the escrow bound cannot be broken by
// a half-applied settlement.

// escrow reserves amount against open commitments.
func (e *Economy) escrow(amount int64) {
	e.Escrow += amount
}

// release frees a previously escrowed amount.
func (e *Economy) release(amount int64) {
	e.Escrow -= amount
}

// debit pays amount out of total funds.
func (e *Economy) debit(amount int64) {
	e.Funds -= amount
}

// credit adds amount to total funds.
func (e *Economy) credit(amount int64) {
	e.Funds += amount
}

// available is the unreserved share of funds.
func (e *Economy) available() int64 {
	return e.Funds - e.Escrow
}

// guildShare returns the portion of trophies kept as guild stock under the
// given salvage policy. SPLIT floors toward the hero.
func guildShare(policy SalvagePolicy, trophies int) int64 {
	switch policy {
	case SalvageHero:
		return 0
	case SalvageSplit:
		return int64(trophies / 2)
	default:
		return int64(trophies)
	}
}
