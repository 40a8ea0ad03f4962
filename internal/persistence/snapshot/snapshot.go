// Package snapshot implements the versioned save-file codec: a one-line
// JSON header followed by the compact JSON body, zstd-compressed. Loading
// rejects unknown format versions and malformed input. Today's hero
// arrivals are deliberately not round-tripped; they reset on load.
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"guildsim.ai/internal/sim/world"
)

const FormatVersion = 1

type Header struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Day     int   `json:"day"`
}

type SaveV1 struct {
	Header Header `json:"header"`

	Revision uint64     `json:"revision"`
	Counters CountersV1 `json:"counters"`

	Guild   GuildV1   `json:"guild"`
	Region  RegionV1  `json:"region"`
	Economy EconomyV1 `json:"economy"`

	Drafts  []DraftV1    `json:"drafts"`
	Board   []PostedV1   `json:"board"`
	Active  []ActiveV1   `json:"active"`
	Returns []ReturnV1   `json:"returns"`
	Archive []ArchivedV1 `json:"archive"`

	Heroes []HeroV1 `json:"heroes"`
}

type CountersV1 struct {
	NextDraft  uint64 `json:"next_draft"`
	NextPosted uint64 `json:"next_posted"`
	NextActive uint64 `json:"next_active"`
	NextReturn uint64 `json:"next_return"`
	NextHero   uint64 `json:"next_hero"`
}

type GuildV1 struct {
	Rank        int    `json:"rank"`
	Reputation  int    `json:"reputation"`
	Completed   int    `json:"completed"`
	ToNextRank  int    `json:"to_next_rank"`
	ProofPolicy string `json:"proof_policy"`
}

type RegionV1 struct {
	Stability int `json:"stability"`
}

type EconomyV1 struct {
	Funds  int64 `json:"funds"`
	Escrow int64 `json:"escrow"`
	Stock  int64 `json:"stock"`
}

type DraftV1 struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Difficulty   int    `json:"difficulty"`
	Payout       int64  `json:"payout"`
	Deposit      int64  `json:"deposit"`
	Fee          int64  `json:"fee"`
	Salvage      string `json:"salvage"`
	CreatedDay   int    `json:"created_day"`
	ResolveByDay int    `json:"resolve_by_day"`
}

type PostedV1 struct {
	ID         string `json:"id"`
	DraftID    string `json:"draft_id"`
	Title      string `json:"title"`
	Difficulty int    `json:"difficulty"`
	Fee        int64  `json:"fee"`
	Deposit    int64  `json:"deposit"`
	Escrowed   int64  `json:"escrowed"`
	Salvage    string `json:"salvage"`
	Status     string `json:"status"`
	PostedDay  int    `json:"posted_day"`
}

type ActiveV1 struct {
	ID           string `json:"id"`
	PostedID     string `json:"posted_id"`
	HeroID       string `json:"hero_id"`
	Status       string `json:"status"`
	WorkDaysLeft int    `json:"work_days_left"`
	StartedDay   int    `json:"started_day"`
}

type ReturnV1 struct {
	ID             string `json:"id"`
	ActiveID       string `json:"active_id"`
	PostedID       string `json:"posted_id"`
	HeroID         string `json:"hero_id"`
	Outcome        string `json:"outcome"`
	Trophies       int    `json:"trophies"`
	Quality        string `json:"quality,omitempty"`
	TheftSuspected bool   `json:"theft_suspected,omitempty"`
	ManualClose    bool   `json:"manual_close"`
	PartialApplied bool   `json:"partial_applied,omitempty"`
	SettledFee     int64  `json:"settled_fee"`
	CreatedDay     int    `json:"created_day"`
}

type ArchivedV1 struct {
	ID        string `json:"id"`
	PostedID  string `json:"posted_id"`
	Title     string `json:"title"`
	Fee       int64  `json:"fee"`
	Status    string `json:"status"`
	Outcome   string `json:"outcome"`
	ClosedDay int    `json:"closed_day"`
}

type HeroV1 struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	ArrivedDay int    `json:"arrived_day"`
}

// Export captures st as a save value. Arrivals are dropped here rather
// than on load so the on-disk format never carries them.
func Export(st world.State) SaveV1 {
	save := SaveV1{
		Header:   Header{Version: FormatVersion, Seed: st.Meta.Seed, Day: st.Meta.Day},
		Revision: st.Meta.Revision,
		Counters: CountersV1{
			NextDraft:  st.Meta.Counters.NextDraft,
			NextPosted: st.Meta.Counters.NextPosted,
			NextActive: st.Meta.Counters.NextActive,
			NextReturn: st.Meta.Counters.NextReturn,
			NextHero:   st.Meta.Counters.NextHero,
		},
		Guild: GuildV1{
			Rank:        st.Guild.Rank,
			Reputation:  st.Guild.Reputation,
			Completed:   st.Guild.Completed,
			ToNextRank:  st.Guild.ToNextRank,
			ProofPolicy: string(st.Guild.ProofPolicy),
		},
		Region:  RegionV1{Stability: st.Region.Stability},
		Economy: EconomyV1{Funds: st.Economy.Funds, Escrow: st.Economy.Escrow, Stock: st.Economy.Stock},
	}
	for _, d := range st.Contracts.Drafts {
		save.Drafts = append(save.Drafts, DraftV1{
			ID: d.ID, Title: d.Title, Difficulty: d.Difficulty,
			Payout: d.Payout, Deposit: d.Deposit, Fee: d.Fee,
			Salvage: string(d.Salvage), CreatedDay: d.CreatedDay, ResolveByDay: d.ResolveByDay,
		})
	}
	for _, p := range st.Contracts.Board {
		save.Board = append(save.Board, PostedV1{
			ID: p.ID, DraftID: p.DraftID, Title: p.Title, Difficulty: p.Difficulty,
			Fee: p.Fee, Deposit: p.Deposit, Escrowed: p.Escrowed,
			Salvage: string(p.Salvage), Status: string(p.Status), PostedDay: p.PostedDay,
		})
	}
	for _, a := range st.Contracts.Active {
		save.Active = append(save.Active, ActiveV1{
			ID: a.ID, PostedID: a.PostedID, HeroID: a.HeroID,
			Status: string(a.Status), WorkDaysLeft: a.WorkDaysLeft, StartedDay: a.StartedDay,
		})
	}
	for _, r := range st.Contracts.Returns {
		save.Returns = append(save.Returns, ReturnV1{
			ID: r.ID, ActiveID: r.ActiveID, PostedID: r.PostedID, HeroID: r.HeroID,
			Outcome: string(r.Outcome), Trophies: r.Trophies, Quality: string(r.Quality),
			TheftSuspected: r.TheftSuspected, ManualClose: r.ManualClose,
			PartialApplied: r.PartialApplied, SettledFee: r.SettledFee, CreatedDay: r.CreatedDay,
		})
	}
	for _, a := range st.Contracts.Archive {
		save.Archive = append(save.Archive, ArchivedV1{
			ID: a.ID, PostedID: a.PostedID, Title: a.Title, Fee: a.Fee,
			Status: string(a.Status), Outcome: string(a.Outcome), ClosedDay: a.ClosedDay,
		})
	}
	for _, hr := range st.Heroes.Roster {
		save.Heroes = append(save.Heroes, HeroV1{
			ID: hr.ID, Name: hr.Name, Status: string(hr.Status), ArrivedDay: hr.ArrivedDay,
		})
	}
	return save
}

// State rebuilds a world state from the save. Arrivals come back empty.
func (save SaveV1) State() (world.State, error) {
	if save.Header.Version != FormatVersion {
		return world.State{}, fmt.Errorf("unsupported save version %d (want %d)", save.Header.Version, FormatVersion)
	}
	st := world.State{
		Meta: world.Meta{
			Version:  save.Header.Version,
			Seed:     save.Header.Seed,
			Day:      save.Header.Day,
			Revision: save.Revision,
			Counters: world.Counters{
				NextDraft:  save.Counters.NextDraft,
				NextPosted: save.Counters.NextPosted,
				NextActive: save.Counters.NextActive,
				NextReturn: save.Counters.NextReturn,
				NextHero:   save.Counters.NextHero,
			},
		},
		Guild: world.Guild{
			Rank:        save.Guild.Rank,
			Reputation:  save.Guild.Reputation,
			Completed:   save.Guild.Completed,
			ToNextRank:  save.Guild.ToNextRank,
			ProofPolicy: world.ProofPolicy(save.Guild.ProofPolicy),
		},
		Region:  world.Region{Stability: save.Region.Stability},
		Economy: world.Economy{Funds: save.Economy.Funds, Escrow: save.Economy.Escrow, Stock: save.Economy.Stock},
	}
	for _, d := range save.Drafts {
		st.Contracts.Drafts = append(st.Contracts.Drafts, world.Draft{
			ID: d.ID, Title: d.Title, Difficulty: d.Difficulty,
			Payout: d.Payout, Deposit: d.Deposit, Fee: d.Fee,
			Salvage: world.SalvagePolicy(d.Salvage), CreatedDay: d.CreatedDay, ResolveByDay: d.ResolveByDay,
		})
	}
	for _, p := range save.Board {
		st.Contracts.Board = append(st.Contracts.Board, world.Posted{
			ID: p.ID, DraftID: p.DraftID, Title: p.Title, Difficulty: p.Difficulty,
			Fee: p.Fee, Deposit: p.Deposit, Escrowed: p.Escrowed,
			Salvage: world.SalvagePolicy(p.Salvage), Status: world.PostedStatus(p.Status), PostedDay: p.PostedDay,
		})
	}
	for _, a := range save.Active {
		st.Contracts.Active = append(st.Contracts.Active, world.Active{
			ID: a.ID, PostedID: a.PostedID, HeroID: a.HeroID,
			Status: world.ActiveStatus(a.Status), WorkDaysLeft: a.WorkDaysLeft, StartedDay: a.StartedDay,
		})
	}
	for _, r := range save.Returns {
		st.Contracts.Returns = append(st.Contracts.Returns, world.Return{
			ID: r.ID, ActiveID: r.ActiveID, PostedID: r.PostedID, HeroID: r.HeroID,
			Outcome: world.Outcome(r.Outcome), Trophies: r.Trophies, Quality: world.Quality(r.Quality),
			TheftSuspected: r.TheftSuspected, ManualClose: r.ManualClose,
			PartialApplied: r.PartialApplied, SettledFee: r.SettledFee, CreatedDay: r.CreatedDay,
		})
	}
	for _, a := range save.Archive {
		st.Contracts.Archive = append(st.Contracts.Archive, world.Archived{
			ID: a.ID, PostedID: a.PostedID, Title: a.Title, Fee: a.Fee,
			Status: world.PostedStatus(a.Status), Outcome: world.Outcome(a.Outcome), ClosedDay: a.ClosedDay,
		})
	}
	for _, hr := range save.Heroes {
		st.Heroes.Roster = append(st.Heroes.Roster, world.Hero{
			ID: hr.ID, Name: hr.Name, Status: world.HeroStatus(hr.Status), ArrivedDay: hr.ArrivedDay,
		})
	}
	return st, nil
}

// Write stores the save at path: header line, then the compact body, both
// inside one zstd stream.
func Write(path string, save SaveV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, _ := json.Marshal(save.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	body, err := json.Marshal(save)
	if err != nil {
		return err
	}
	if _, err := bw.Write(body); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

// ReadBody returns the decompressed body bytes after checking the header
// version, without decoding the body. Callers use it for schema validation.
func ReadBody(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	headerLine, err := br.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read save header: %w", err)
	}
	var h Header
	if err := json.Unmarshal(bytes.TrimSpace(headerLine), &h); err != nil {
		return nil, fmt.Errorf("decode save header: %w", err)
	}
	if h.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported save version %d (want %d)", h.Version, FormatVersion)
	}

	var body bytes.Buffer
	if _, err := body.ReadFrom(br); err != nil {
		return nil, err
	}
	return body.Bytes(), nil
}

// Read loads and strictly decodes the save at path.
func Read(path string) (SaveV1, error) {
	var save SaveV1
	body, err := ReadBody(path)
	if err != nil {
		return save, err
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&save); err != nil {
		return save, fmt.Errorf("decode save body: %w", err)
	}
	if save.Header.Version != FormatVersion {
		return save, fmt.Errorf("unsupported save version %d (want %d)", save.Header.Version, FormatVersion)
	}
	return save, nil
}
