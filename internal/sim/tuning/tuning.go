// Package tuning holds the numeric knobs of the simulation. Values are
// loaded from configs/tuning.yaml; missing keys keep their defaults so a
// partial file is valid.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	// Day advance.
	DraftsPerDay      int `yaml:"drafts_per_day"`
	HeroesPerDay      int `yaml:"heroes_per_day"`
	DraftDeadlineDays int `yaml:"draft_deadline_days"`

	// Draft generation ranges.
	DifficultyMin int `yaml:"difficulty_min"`
	DifficultyMax int `yaml:"difficulty_max"`
	PayoutMin     int `yaml:"payout_min"`
	PayoutMax     int `yaml:"payout_max"`
	DepositMin    int `yaml:"deposit_min"`
	DepositMax    int `yaml:"deposit_max"`

	// Auto-resolution buckets (relative weights) and the stability penalty
	// applied on a BAD resolution.
	ResolveGoodWeight    int `yaml:"resolve_good_weight"`
	ResolveNeutralWeight int `yaml:"resolve_neutral_weight"`
	ResolveBadWeight     int `yaml:"resolve_bad_weight"`
	BadStabilityPenalty  int `yaml:"bad_stability_penalty"`

	// Active work.
	WorkDaysMin int `yaml:"work_days_min"`
	WorkDaysMax int `yaml:"work_days_max"`

	// Outcome buckets (relative weights, order SUCCESS/PARTIAL/FAIL/DEATH/MISSING).
	SuccessWeight int `yaml:"success_weight"`
	PartialWeight int `yaml:"partial_weight"`
	FailWeight    int `yaml:"fail_weight"`
	DeathWeight   int `yaml:"death_weight"`
	MissingWeight int `yaml:"missing_weight"`

	// Trophy yield.
	TrophyMin      int `yaml:"trophy_min"`
	TrophyMax      int `yaml:"trophy_max"`
	DegradedPerMil int `yaml:"degraded_per_mil"`
	TheftPerMil    int `yaml:"theft_per_mil"`

	// Guild progression and reputation deltas.
	RankThreshold int `yaml:"rank_threshold"`
	RepSuccess    int `yaml:"rep_success"`
	RepFail       int `yaml:"rep_fail"`
	RepLoss       int `yaml:"rep_loss"`

	// Fresh-world values.
	StartingFunds      int `yaml:"starting_funds"`
	StartingStability  int `yaml:"starting_stability"`
	StartingReputation int `yaml:"starting_reputation"`

	// pay-tax stability bonus.
	StabilityTaxBonus int `yaml:"stability_tax_bonus"`
}

// Default returns the tuning the tests pin. configs/tuning.yaml mirrors it.
func Default() Tuning {
	return Tuning{
		DraftsPerDay:      2,
		HeroesPerDay:      2,
		DraftDeadlineDays: 7,

		DifficultyMin: 1,
		DifficultyMax: 5,
		PayoutMin:     40,
		PayoutMax:     160,
		DepositMin:    5,
		DepositMax:    30,

		ResolveGoodWeight:    300,
		ResolveNeutralWeight: 500,
		ResolveBadWeight:     200,
		BadStabilityPenalty:  3,

		WorkDaysMin: 1,
		WorkDaysMax: 2,

		SuccessWeight: 550,
		PartialWeight: 200,
		FailWeight:    150,
		DeathWeight:   50,
		MissingWeight: 50,

		TrophyMin:      1,
		TrophyMax:      4,
		DegradedPerMil: 250,
		TheftPerMil:    100,

		RankThreshold: 5,
		RepSuccess:    2,
		RepFail:       1,
		RepLoss:       2,

		StartingFunds:      250,
		StartingStability:  70,
		StartingReputation: 50,

		StabilityTaxBonus: 1,
	}
}

func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
