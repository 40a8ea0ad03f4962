package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"hash"

	"guildsim.ai/internal/protocol"
)

// Canonical, order-sensitive hashing for replay auditing. HashState walks
// every field in declaration order with length-prefixed writes; two states
// hash equal iff they are structurally equal. HashEvents hashes the compact
// JSON encoding of each event in list order (struct field order makes the
// encoding canonical).

func HashState(st State) string {
	h := sha256.New()
	var tmp [8]byte

	digestU64(h, &tmp, uint64(st.Meta.Version))
	digestU64(h, &tmp, uint64(st.Meta.Seed))
	digestU64(h, &tmp, uint64(st.Meta.Day))
	digestU64(h, &tmp, st.Meta.Revision)
	digestU64(h, &tmp, st.Meta.Counters.NextDraft)
	digestU64(h, &tmp, st.Meta.Counters.NextPosted)
	digestU64(h, &tmp, st.Meta.Counters.NextActive)
	digestU64(h, &tmp, st.Meta.Counters.NextReturn)
	digestU64(h, &tmp, st.Meta.Counters.NextHero)

	digestU64(h, &tmp, uint64(st.Guild.Rank))
	digestU64(h, &tmp, uint64(st.Guild.Reputation))
	digestU64(h, &tmp, uint64(st.Guild.Completed))
	digestU64(h, &tmp, uint64(st.Guild.ToNextRank))
	digestStr(h, &tmp, string(st.Guild.ProofPolicy))

	digestU64(h, &tmp, uint64(st.Region.Stability))

	digestU64(h, &tmp, uint64(st.Economy.Funds))
	digestU64(h, &tmp, uint64(st.Economy.Escrow))
	digestU64(h, &tmp, uint64(st.Economy.Stock))

	digestU64(h, &tmp, uint64(len(st.Contracts.Drafts)))
	for i := range st.Contracts.Drafts {
		d := &st.Contracts.Drafts[i]
		digestStr(h, &tmp, d.ID)
		digestStr(h, &tmp, d.Title)
		digestU64(h, &tmp, uint64(d.Difficulty))
		digestU64(h, &tmp, uint64(d.Payout))
		digestU64(h, &tmp, uint64(d.Deposit))
		digestU64(h, &tmp, uint64(d.Fee))
		digestStr(h, &tmp, string(d.Salvage))
		digestU64(h, &tmp, uint64(d.CreatedDay))
		digestU64(h, &tmp, uint64(d.ResolveByDay))
	}

	digestU64(h, &tmp, uint64(len(st.Contracts.Board)))
	for i := range st.Contracts.Board {
		p := &st.Contracts.Board[i]
		digestStr(h, &tmp, p.ID)
		digestStr(h, &tmp, p.DraftID)
		digestStr(h, &tmp, p.Title)
		digestU64(h, &tmp, uint64(p.Difficulty))
		digestU64(h, &tmp, uint64(p.Fee))
		digestU64(h, &tmp, uint64(p.Deposit))
		digestU64(h, &tmp, uint64(p.Escrowed))
		digestStr(h, &tmp, string(p.Salvage))
		digestStr(h, &tmp, string(p.Status))
		digestU64(h, &tmp, uint64(p.PostedDay))
	}

	digestU64(h, &tmp, uint64(len(st.Contracts.Active)))
	for i := range st.Contracts.Active {
		a := &st.Contracts.Active[i]
		digestStr(h, &tmp, a.ID)
		digestStr(h, &tmp, a.PostedID)
		digestStr(h, &tmp, a.HeroID)
		digestStr(h, &tmp, string(a.Status))
		digestU64(h, &tmp, uint64(a.WorkDaysLeft))
		digestU64(h, &tmp, uint64(a.StartedDay))
	}

	digestU64(h, &tmp, uint64(len(st.Contracts.Returns)))
	for i := range st.Contracts.Returns {
		r := &st.Contracts.Returns[i]
		digestStr(h, &tmp, r.ID)
		digestStr(h, &tmp, r.ActiveID)
		digestStr(h, &tmp, r.PostedID)
		digestStr(h, &tmp, r.HeroID)
		digestStr(h, &tmp, string(r.Outcome))
		digestU64(h, &tmp, uint64(r.Trophies))
		digestStr(h, &tmp, string(r.Quality))
		digestBool(h, r.TheftSuspected)
		digestBool(h, r.ManualClose)
		digestBool(h, r.PartialApplied)
		digestU64(h, &tmp, uint64(r.SettledFee))
		digestU64(h, &tmp, uint64(r.CreatedDay))
	}

	digestU64(h, &tmp, uint64(len(st.Contracts.Archive)))
	for i := range st.Contracts.Archive {
		a := &st.Contracts.Archive[i]
		digestStr(h, &tmp, a.ID)
		digestStr(h, &tmp, a.PostedID)
		digestStr(h, &tmp, a.Title)
		digestU64(h, &tmp, uint64(a.Fee))
		digestStr(h, &tmp, string(a.Status))
		digestStr(h, &tmp, string(a.Outcome))
		digestU64(h, &tmp, uint64(a.ClosedDay))
	}

	digestU64(h, &tmp, uint64(len(st.Heroes.Roster)))
	for i := range st.Heroes.Roster {
		digestHero(h, &tmp, &st.Heroes.Roster[i])
	}
	digestU64(h, &tmp, uint64(len(st.Heroes.Arrivals)))
	for i := range st.Heroes.Arrivals {
		digestHero(h, &tmp, &st.Heroes.Arrivals[i])
	}

	return hex.EncodeToString(h.Sum(nil))
}

func HashEvents(events []protocol.Event) string {
	h := sha256.New()
	var tmp [8]byte
	digestU64(h, &tmp, uint64(len(events)))
	for i := range events {
		b, _ := json.Marshal(events[i])
		digestU64(h, &tmp, uint64(len(b)))
		h.Write(b)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func digestHero(h hash.Hash, tmp *[8]byte, hero *Hero) {
	digestStr(h, tmp, hero.ID)
	digestStr(h, tmp, hero.Name)
	digestStr(h, tmp, string(hero.Status))
	digestU64(h, tmp, uint64(hero.ArrivedDay))
}

func digestU64(h hash.Hash, tmp *[8]byte, v uint64) {
	binary.LittleEndian.PutUint64(tmp[:], v)
	h.Write(tmp[:])
}

func digestStr(h hash.Hash, tmp *[8]byte, s string) {
	digestU64(h, tmp, uint64(len(s)))
	h.Write([]byte(s))
}

func digestBool(h hash.Hash, b bool) {
	if b {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
}
