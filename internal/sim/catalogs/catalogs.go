// Package catalogs loads the fixed name pools used for cosmetic content.
// Pools are external data: the simulation draws indexes into them but their
// contents never affect lifecycle or economy rules. Each pool carries a
// content digest so mismatched data is detectable across runs.
package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Catalogs struct {
	HeroNames      []string
	ContractTitles []string

	// Digest covers both pools in file order.
	Digest string
}

type namesFile struct {
	HeroNames      []string `json:"hero_names"`
	ContractTitles []string `json:"contract_titles"`
}

func Load(dir string) (*Catalogs, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "names.json"))
	if err != nil {
		return nil, err
	}
	var nf namesFile
	if err := json.Unmarshal(raw, &nf); err != nil {
		return nil, fmt.Errorf("names.json: %w", err)
	}
	if len(nf.HeroNames) == 0 {
		return nil, fmt.Errorf("names.json: empty hero_names pool")
	}
	if len(nf.ContractTitles) == 0 {
		return nil, fmt.Errorf("names.json: empty contract_titles pool")
	}

	canonical, err := json.Marshal(nf)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(canonical)

	return &Catalogs{
		HeroNames:      nf.HeroNames,
		ContractTitles: nf.ContractTitles,
		Digest:         hex.EncodeToString(sum[:]),
	}, nil
}
