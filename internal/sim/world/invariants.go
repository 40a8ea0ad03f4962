package world

import (
	"fmt"
	"strconv"
	"strings"
)

// Violation is one failed structural or economic property of a state.
type Violation struct {
	ID     string
	Detail string
}

// Invariant identifiers.
const (
	InvFundsNonNegative = "ECON_FUNDS_NON_NEGATIVE"
	InvEscrowBounds     = "ECON_ESCROW_BOUNDS"
	InvStockNonNegative = "ECON_STOCK_NON_NEGATIVE"
	InvStabilityRange   = "RANGE_STABILITY"
	InvReputationRange  = "RANGE_REPUTATION"
	InvIDCounters       = "ID_COUNTERS_MONOTONIC"
	InvActiveWorkDays   = "ACTIVE_WORK_DAYS"
	InvReturnReference  = "RETURN_ACTIVE_REFERENCE"
	InvLockedHasActive  = "LOCKED_POSTING_HAS_ACTIVE"
)

// invariantTable is the fixed catalog. New invariants are rows here, not
// new call sites; each predicate yields at most one violation.
var invariantTable = []struct {
	id    string
	check func(st *State) (string, bool)
}{
	{InvFundsNonNegative, func(st *State) (string, bool) {
		if st.Economy.Funds < 0 {
			return fmt.Sprintf("funds=%d", st.Economy.Funds), true
		}
		return "", false
	}},
	{InvEscrowBounds, func(st *State) (string, bool) {
		if st.Economy.Escrow < 0 || st.Economy.Escrow > st.Economy.Funds {
			return fmt.Sprintf("escrow=%d funds=%d", st.Economy.Escrow, st.Economy.Funds), true
		}
		return "", false
	}},
	{InvStockNonNegative, func(st *State) (string, bool) {
		if st.Economy.Stock < 0 {
			return fmt.Sprintf("stock=%d", st.Economy.Stock), true
		}
		return "", false
	}},
	{InvStabilityRange, func(st *State) (string, bool) {
		if st.Region.Stability < 0 || st.Region.Stability > 100 {
			return fmt.Sprintf("stability=%d", st.Region.Stability), true
		}
		return "", false
	}},
	{InvReputationRange, func(st *State) (string, bool) {
		if st.Guild.Reputation < 0 || st.Guild.Reputation > 100 {
			return fmt.Sprintf("reputation=%d", st.Guild.Reputation), true
		}
		return "", false
	}},
	{InvIDCounters, checkIDCounters},
	{InvActiveWorkDays, func(st *State) (string, bool) {
		for i := range st.Contracts.Active {
			a := &st.Contracts.Active[i]
			if a.WorkDaysLeft < 0 {
				return fmt.Sprintf("%s work_days_left=%d", a.ID, a.WorkDaysLeft), true
			}
			if a.Status == ActiveWIP && (a.WorkDaysLeft < 1 || a.WorkDaysLeft > 2) {
				return fmt.Sprintf("%s WIP work_days_left=%d", a.ID, a.WorkDaysLeft), true
			}
		}
		return "", false
	}},
	{InvReturnReference, func(st *State) (string, bool) {
		for i := range st.Contracts.Returns {
			r := &st.Contracts.Returns[i]
			ai := st.Contracts.activeIndex(r.ActiveID)
			if ai < 0 {
				return fmt.Sprintf("%s references missing active %s", r.ID, r.ActiveID), true
			}
			if st.Contracts.Active[ai].Status != ActiveReturnReady {
				return fmt.Sprintf("%s references active %s in status %s", r.ID, r.ActiveID, st.Contracts.Active[ai].Status), true
			}
		}
		return "", false
	}},
	{InvLockedHasActive, func(st *State) (string, bool) {
		for i := range st.Contracts.Board {
			p := &st.Contracts.Board[i]
			if p.Status != PostedLocked {
				continue
			}
			open := false
			for j := range st.Contracts.Active {
				if st.Contracts.Active[j].PostedID == p.ID && st.Contracts.Active[j].Status != ActiveClosed {
					open = true
					break
				}
			}
			if !open {
				return fmt.Sprintf("%s is LOCKED with no non-closed active", p.ID), true
			}
		}
		return "", false
	}},
}

// VerifyInvariants evaluates the full catalog against st. It is pure, never
// mutates and never halts: findings are diagnostics, not failures.
func VerifyInvariants(st State) []Violation {
	var out []Violation
	for _, inv := range invariantTable {
		if detail, bad := inv.check(&st); bad {
			out = append(out, Violation{ID: inv.id, Detail: detail})
		}
	}
	return out
}

func checkIDCounters(st *State) (string, bool) {
	type family struct {
		name string
		next uint64
		max  uint64
	}
	fams := []family{
		{"draft", st.Meta.Counters.NextDraft, maxNumeric(draftIDs(st))},
		{"posted", st.Meta.Counters.NextPosted, maxNumeric(postedIDs(st))},
		{"active", st.Meta.Counters.NextActive, maxNumeric(activeIDs(st))},
		{"return", st.Meta.Counters.NextReturn, maxNumeric(returnIDs(st))},
		{"hero", st.Meta.Counters.NextHero, maxNumeric(heroIDs(st))},
	}
	for _, f := range fams {
		if f.next == 0 {
			return fmt.Sprintf("%s counter is zero", f.name), true
		}
		if f.next <= f.max {
			return fmt.Sprintf("%s counter %d not above max live id %d", f.name, f.next, f.max), true
		}
	}
	return "", false
}

func draftIDs(st *State) []string {
	out := make([]string, 0, len(st.Contracts.Drafts))
	for i := range st.Contracts.Drafts {
		out = append(out, st.Contracts.Drafts[i].ID)
	}
	return out
}

func postedIDs(st *State) []string {
	out := make([]string, 0, len(st.Contracts.Board)+len(st.Contracts.Archive))
	for i := range st.Contracts.Board {
		out = append(out, st.Contracts.Board[i].ID)
	}
	for i := range st.Contracts.Archive {
		out = append(out, st.Contracts.Archive[i].PostedID)
	}
	return out
}

func activeIDs(st *State) []string {
	out := make([]string, 0, len(st.Contracts.Active))
	for i := range st.Contracts.Active {
		out = append(out, st.Contracts.Active[i].ID)
	}
	return out
}

func returnIDs(st *State) []string {
	out := make([]string, 0, len(st.Contracts.Returns))
	for i := range st.Contracts.Returns {
		out = append(out, st.Contracts.Returns[i].ID)
	}
	return out
}

func heroIDs(st *State) []string {
	out := make([]string, 0, len(st.Heroes.Roster))
	for i := range st.Heroes.Roster {
		out = append(out, st.Heroes.Roster[i].ID)
	}
	return out
}

// maxNumeric extracts the numeric suffix of ids like "D000042" and returns
// the maximum, or zero for an empty family.
func maxNumeric(ids []string) uint64 {
	var max uint64
	for _, id := range ids {
		trimmed := strings.TrimLeft(id, "DPARH")
		n, err := strconv.ParseUint(trimmed, 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}
