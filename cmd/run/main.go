// Command run drives a guild simulation for a number of days and records
// the full artifact set: the command journal, the final save, and the
// sqlite step index. The built-in pilot posts every draft it can afford and
// accepts every return, which is enough to exercise the whole contract
// lifecycle from a single seed.
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/google/uuid"

	"guildsim.ai/internal/persistence/indexdb"
	"guildsim.ai/internal/persistence/journal"
	"guildsim.ai/internal/persistence/snapshot"
	"guildsim.ai/internal/protocol"
	"guildsim.ai/internal/sim/catalogs"
	"guildsim.ai/internal/sim/seq"
	"guildsim.ai/internal/sim/tuning"
	"guildsim.ai/internal/sim/world"
)

func main() {
	var (
		seed     = flag.Int64("seed", 1, "world seed")
		seqSeed  = flag.Int64("seq-seed", 0, "sequence source seed (defaults to the world seed)")
		days     = flag.Int("days", 30, "number of days to simulate")
		outDir   = flag.String("out", "run-out", "output directory for journal, save and index")
		tunPath  = flag.String("tuning", "configs/tuning.yaml", "tuning file (optional)")
		catsDir  = flag.String("catalogs", "configs", "catalog directory")
		strict   = flag.Bool("strict", false, "start with the STRICT proof policy")
		noClose  = flag.Bool("no-autoclose", false, "leave returns open instead of accepting them")
		noPost   = flag.Bool("no-autopost", false, "leave drafts unposted")
		sellEach = flag.Int("sell-every", 7, "sell all stock every N days (0 disables)")
	)
	flag.Parse()

	if *seqSeed == 0 {
		*seqSeed = *seed
	}

	tun, err := tuning.Load(*tunPath)
	if err != nil {
		log.Fatalf("load tuning: %v", err)
	}
	cats, err := catalogs.Load(*catsDir)
	if err != nil {
		log.Fatalf("load catalogs: %v", err)
	}
	log.Printf("catalogs digest=%s", cats.Digest)

	sim := world.New(tun, cats)
	st := sim.NewState(*seed)
	src := seq.New(*seqSeed)

	jw, err := journal.Create(filepath.Join(*outDir, "journal.jsonl.zst"), journal.Header{Seed: *seed, SeqSeed: *seqSeed})
	if err != nil {
		log.Fatalf("create journal: %v", err)
	}
	defer jw.Close()

	idx, err := indexdb.Open(filepath.Join(*outDir, "index.sqlite"))
	if err != nil {
		log.Fatalf("open index: %v", err)
	}
	defer idx.Close()

	apply := func(cmd protocol.Command) world.State {
		cmd.CommandID = uuid.NewString()
		next, events := sim.Step(st, cmd, src)
		entry := journal.Entry{
			Day:          next.Meta.Day,
			Revision:     next.Meta.Revision,
			Command:      cmd,
			Events:       events,
			EventsDigest: world.HashEvents(events),
			StateDigest:  world.HashState(next),
		}
		if err := jw.Append(entry); err != nil {
			log.Fatalf("append journal: %v", err)
		}
		if err := idx.RecordStep(indexdb.StepRow{
			Revision:    next.Meta.Revision,
			Day:         next.Meta.Day,
			CommandID:   cmd.CommandID,
			CommandType: cmd.Type,
			StateDigest: entry.StateDigest,
		}); err != nil {
			log.Fatalf("index step: %v", err)
		}
		for _, ev := range events {
			switch ev.Type {
			case protocol.EvCommandRejected:
				log.Printf("day %d: %s rejected: %s (%s)", st.Meta.Day, cmd.Type, ev.Reason, ev.Detail)
			case protocol.EvContractArchived:
				if err := idx.RecordArchive(indexdb.ArchiveRow{
					ContractID: ev.ContractID,
					Title:      ev.Title,
					Fee:        archiveFee(next, ev.ContractID),
					Outcome:    ev.Outcome,
					ClosedDay:  ev.Day,
				}); err != nil {
					log.Fatalf("index archive: %v", err)
				}
			case protocol.EvInvariantViolated:
				log.Printf("day %d: invariant %s violated: %s", next.Meta.Day, ev.ViolationID, ev.Detail)
			}
		}
		st = next
		return next
	}

	if *strict {
		apply(protocol.Command{Type: protocol.CmdSetProofPolicy, Policy: string(world.PolicyStrict)})
	}

	for day := 0; day < *days; day++ {
		apply(protocol.Command{Type: protocol.CmdAdvanceDay})

		if !*noPost {
			for _, d := range st.Contracts.Drafts {
				if d.Fee > st.Economy.Funds-st.Economy.Escrow {
					continue
				}
				apply(protocol.Command{Type: protocol.CmdPostContract, DraftID: d.ID})
			}
		}
		if !*noClose {
			for _, r := range st.Contracts.Returns {
				apply(protocol.Command{
					Type:     protocol.CmdCloseReturn,
					ActiveID: r.ActiveID,
					Decision: world.DecisionAccept,
				})
			}
		}
		if *sellEach > 0 && st.Meta.Day%*sellEach == 0 && st.Economy.Stock > 0 {
			apply(protocol.Command{Type: protocol.CmdSellTrophies})
		}
	}

	savePath := filepath.Join(*outDir, "save.zst")
	if err := snapshot.Write(savePath, snapshot.Export(st)); err != nil {
		log.Fatalf("write save: %v", err)
	}

	fmt.Printf("days=%d revision=%d draws=%d\n", st.Meta.Day, st.Meta.Revision, src.Draws())
	fmt.Printf("funds=%d escrow=%d stock=%d rank=%d reputation=%d stability=%d\n",
		st.Economy.Funds, st.Economy.Escrow, st.Economy.Stock,
		st.Guild.Rank, st.Guild.Reputation, st.Region.Stability)
	fmt.Printf("archived=%d roster=%d\n", len(st.Contracts.Archive), len(st.Heroes.Roster))
	fmt.Printf("state-digest=%s\n", world.HashState(st))
}

func archiveFee(st world.State, contractID string) int64 {
	for _, a := range st.Contracts.Archive {
		if a.PostedID == contractID {
			return a.Fee
		}
	}
	return 0
}
