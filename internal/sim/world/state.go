// Package world implements the deterministic guild simulation core: a pure
// reducer over a persistent world state, the contract lifecycle machine,
// the escrow ledger, the return-closure policy gate and the invariant
// engine. One Step call owns its state value exclusively; every accepted
// command yields a wholly new state.
package world

import "fmt"

const FormatVersion = 1

// Posted contract status.
type PostedStatus string

const (
	PostedOpen      PostedStatus = "OPEN"
	PostedLocked    PostedStatus = "LOCKED"
	PostedCompleted PostedStatus = "COMPLETED"
)

// Active contract status.
type ActiveStatus string

const (
	ActiveWIP         ActiveStatus = "WIP"
	ActiveReturnReady ActiveStatus = "RETURN_READY"
	ActiveClosed      ActiveStatus = "CLOSED"
)

// Hero status.
type HeroStatus string

const (
	HeroAvailable HeroStatus = "AVAILABLE"
	HeroOnMission HeroStatus = "ON_MISSION"
)

// Mission outcome.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomePartial Outcome = "PARTIAL"
	OutcomeFail    Outcome = "FAIL"
	OutcomeDeath   Outcome = "DEATH"
	OutcomeMissing Outcome = "MISSING"
)

// Trophy quality.
type Quality string

const (
	QualityGood     Quality = "GOOD"
	QualityDegraded Quality = "DEGRADED"
)

// Salvage policy: how trophy yield splits between guild stock and hero.
type SalvagePolicy string

const (
	SalvageGuild SalvagePolicy = "GUILD"
	SalvageHero  SalvagePolicy = "HERO"
	SalvageSplit SalvagePolicy = "SPLIT"
)

// Proof policy: world-level strictness gating manual return closure.
type ProofPolicy string

const (
	PolicyLenient ProofPolicy = "LENIENT"
	PolicyStrict  ProofPolicy = "STRICT"
)

// Closure decision carried by the close-return command.
const (
	DecisionAccept = "ACCEPT"
	DecisionReject = "REJECT"
)

// State is the world root. It is treated as a persistent value: Step clones
// it before mutating and nothing reachable from a prior step's result is
// ever written to.
type State struct {
	Meta    Meta
	Guild   Guild
	Region  Region
	Economy Economy

	Contracts Contracts
	Heroes    Heroes
}

type Meta struct {
	Version  int
	Seed     int64
	Day      int
	Revision uint64
	Counters Counters
}

// Counters are the per-family id mints. Each stays strictly above every
// live id in its family.
type Counters struct {
	NextDraft  uint64
	NextPosted uint64
	NextActive uint64
	NextReturn uint64
	NextHero   uint64
}

type Guild struct {
	Rank        int
	Reputation  int
	Completed   int
	ToNextRank  int
	ProofPolicy ProofPolicy
}

type Region struct {
	Stability int
}

// Economy tracks total funds, the escrowed share and the salvage stock.
// Invariant: 0 <= Escrow <= Funds, Stock >= 0.
type Economy struct {
	Funds  int64
	Escrow int64
	Stock  int64
}

// Contracts holds the five lifecycle families in insertion order. Slices,
// not maps: iteration order is part of the deterministic contract.
type Contracts struct {
	Drafts  []Draft
	Board   []Posted
	Active  []Active
	Returns []Return
	Archive []Archived
}

type Heroes struct {
	Roster   []Hero
	Arrivals []Hero // today's arrivals; reset on every day advance
}

// Draft is an unposted proposal in the inbox. After ResolveByDay it is
// force-resolved during day advance.
type Draft struct {
	ID           string
	Title        string
	Difficulty   int
	Payout       int64
	Deposit      int64
	Fee          int64 // proposed posting fee, editable until posted
	Salvage      SalvagePolicy
	CreatedDay   int
	ResolveByDay int
}

// Posted is a contract published to the board. Escrowed records the amount
// reserved for it so releases always match reservations exactly.
type Posted struct {
	ID         string
	DraftID    string
	Title      string
	Difficulty int
	Fee        int64
	Deposit    int64
	Escrowed   int64
	Salvage    SalvagePolicy
	Status     PostedStatus
	PostedDay  int
}

type Active struct {
	ID           string
	PostedID     string
	HeroID       string
	Status       ActiveStatus
	WorkDaysLeft int
	StartedDay   int
}

// Return is the result package pending settlement. Destroyed exactly once
// by a successful closure.
type Return struct {
	ID             string
	ActiveID       string
	PostedID       string
	HeroID         string
	Outcome        Outcome
	Trophies       int
	Quality        Quality
	TheftSuspected bool
	ManualClose    bool
	PartialApplied bool
	SettledFee     int64
	CreatedDay     int
}

// Archived is the terminal, append-only record of a completed posting.
type Archived struct {
	ID        string
	PostedID  string
	Title     string
	Fee       int64
	Status    PostedStatus
	Outcome   Outcome
	ClosedDay int
}

type Hero struct {
	ID         string
	Name       string
	Status     HeroStatus
	ArrivedDay int
}

// Clone returns a deep copy sharing nothing mutable with the receiver.
func (s State) Clone() State {
	out := s
	out.Contracts.Drafts = append([]Draft(nil), s.Contracts.Drafts...)
	out.Contracts.Board = append([]Posted(nil), s.Contracts.Board...)
	out.Contracts.Active = append([]Active(nil), s.Contracts.Active...)
	out.Contracts.Returns = append([]Return(nil), s.Contracts.Returns...)
	out.Contracts.Archive = append([]Archived(nil), s.Contracts.Archive...)
	out.Heroes.Roster = append([]Hero(nil), s.Heroes.Roster...)
	out.Heroes.Arrivals = append([]Hero(nil), s.Heroes.Arrivals...)
	return out
}

func mintID(prefix string, n *uint64) string {
	id := fmt.Sprintf("%s%06d", prefix, *n)
	*n++
	return id
}

func (s *State) mintDraftID() string  { return mintID("D", &s.Meta.Counters.NextDraft) }
func (s *State) mintPostedID() string { return mintID("P", &s.Meta.Counters.NextPosted) }
func (s *State) mintActiveID() string { return mintID("A", &s.Meta.Counters.NextActive) }
func (s *State) mintReturnID() string { return mintID("R", &s.Meta.Counters.NextReturn) }
func (s *State) mintHeroID() string   { return mintID("H", &s.Meta.Counters.NextHero) }

// Lookup helpers. Indexes are into the live slices; -1 means absent.

func (c *Contracts) draftIndex(id string) int {
	for i := range c.Drafts {
		if c.Drafts[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Contracts) postedIndex(id string) int {
	for i := range c.Board {
		if c.Board[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Contracts) activeIndex(id string) int {
	for i := range c.Active {
		if c.Active[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Contracts) returnByActive(activeID string) int {
	for i := range c.Returns {
		if c.Returns[i].ActiveID == activeID {
			return i
		}
	}
	return -1
}

func (h *Heroes) heroIndex(id string) int {
	for i := range h.Roster {
		if h.Roster[i].ID == id {
			return i
		}
	}
	return -1
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
