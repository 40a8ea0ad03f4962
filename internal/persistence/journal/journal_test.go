package journal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"guildsim.ai/internal/protocol"
)

func sampleEntries() []Entry {
	return []Entry{
		{
			Day:      1,
			Revision: 1,
			Command:  protocol.Command{Type: protocol.CmdAdvanceDay, CommandID: "c-1"},
			Events: []protocol.Event{
				{Type: protocol.EvDayStarted, Day: 1, Revision: 1, CommandID: "c-1", Seq: 1},
				{Type: protocol.EvDayEnded, Day: 1, Revision: 1, CommandID: "c-1", Seq: 2},
			},
			EventsDigest: "aaaa",
			StateDigest:  "bbbb",
		},
		{
			Day:      1,
			Revision: 2,
			Command:  protocol.Command{Type: protocol.CmdPostContract, CommandID: "c-2", DraftID: "D000001"},
			Events: []protocol.Event{
				{Type: protocol.EvContractPosted, Day: 1, Revision: 2, CommandID: "c-2", Seq: 1, ContractID: "P000001"},
			},
			EventsDigest: "cccc",
			StateDigest:  "dddd",
		},
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl.zst")

	w, err := Create(path, Header{Seed: 42, SeqSeed: 7})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, e := range sampleEntries() {
		if err := w.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	h, entries, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if h.Version != FormatVersion || h.Seed != 42 || h.SeqSeed != 7 {
		t.Fatalf("bad header: %+v", h)
	}
	want := sampleEntries()
	if len(entries) != len(want) {
		t.Fatalf("entries: got %d want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i].Revision != want[i].Revision ||
			entries[i].Command.Type != want[i].Command.Type ||
			entries[i].StateDigest != want[i].StateDigest ||
			len(entries[i].Events) != len(want[i].Events) {
			t.Fatalf("entry %d mismatch: %+v", i, entries[i])
		}
	}
}

func TestReadCallbackError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl.zst")
	w, err := Create(path, Header{Seed: 1, SeqSeed: 1})
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range sampleEntries() {
		if err := w.Append(e); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("stop here")
	seen := 0
	_, err = Read(path, func(Entry) error {
		seen++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want callback error, got %v", err)
	}
	if seen != 1 {
		t.Fatalf("callback ran %d times after erroring", seen)
	}
}

func TestReadEmptyAndMalformed(t *testing.T) {
	if _, _, err := ReadAll(filepath.Join(t.TempDir(), "absent.zst")); err == nil {
		t.Fatal("want error for missing file")
	}

	path := filepath.Join(t.TempDir(), "garbage.zst")
	if err := os.WriteFile(path, []byte("definitely not zstd"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ReadAll(path); err == nil {
		t.Fatal("want error for garbage input")
	}
}

func TestHeaderVersionPinned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl.zst")
	// Create stamps the version itself; a caller-supplied one is ignored.
	w, err := Create(path, Header{Version: 99, Seed: 1, SeqSeed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	h, entries, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if h.Version != FormatVersion {
		t.Fatalf("version: got %d want %d", h.Version, FormatVersion)
	}
	if len(entries) != 0 {
		t.Fatalf("empty journal has %d entries", len(entries))
	}
}
