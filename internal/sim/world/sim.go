package world

import (
	"guildsim.ai/internal/sim/catalogs"
	"guildsim.ai/internal/sim/tuning"
)

// Sim binds the immutable configuration (tuning knobs, name pools) the
// reducer needs. It carries no mutable state: independent simulations may
// share one Sim across goroutines as long as each holds a private State and
// sequence source.
type Sim struct {
	tun  tuning.Tuning
	cats *catalogs.Catalogs
}

func New(tun tuning.Tuning, cats *catalogs.Catalogs) *Sim {
	return &Sim{tun: tun, cats: cats}
}

// NewState returns a fresh day-zero world for the given seed.
func (s *Sim) NewState(seed int64) State {
	return State{
		Meta: Meta{
			Version: FormatVersion,
			Seed:    seed,
			Day:     0,
			Counters: Counters{
				NextDraft:  1,
				NextPosted: 1,
				NextActive: 1,
				NextReturn: 1,
				NextHero:   1,
			},
		},
		Guild: Guild{
			Rank:        1,
			Reputation:  clampPercent(s.tun.StartingReputation),
			ToNextRank:  s.tun.RankThreshold,
			ProofPolicy: PolicyLenient,
		},
		Region: Region{
			Stability: clampPercent(s.tun.StartingStability),
		},
		Economy: Economy{
			Funds: int64(s.tun.StartingFunds),
		},
	}
}
