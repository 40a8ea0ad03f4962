package catalogs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeNames(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "names.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeNames(t, dir, `{"hero_names":["Aldric","Brenna"],"contract_titles":["Cull the Fen Wolves"]}`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.HeroNames) != 2 || len(c.ContractTitles) != 1 {
		t.Fatalf("pool sizes: %d/%d", len(c.HeroNames), len(c.ContractTitles))
	}
	if len(c.Digest) != 64 {
		t.Fatalf("digest %q is not a sha256 hex string", c.Digest)
	}
}

func TestLoadDigestTracksContent(t *testing.T) {
	a := t.TempDir()
	writeNames(t, a, `{"hero_names":["Aldric"],"contract_titles":["Cull the Fen Wolves"]}`)
	b := t.TempDir()
	writeNames(t, b, `{"hero_names":["Brenna"],"contract_titles":["Cull the Fen Wolves"]}`)

	ca, err := Load(a)
	if err != nil {
		t.Fatal(err)
	}
	cb, err := Load(b)
	if err != nil {
		t.Fatal(err)
	}
	if ca.Digest == cb.Digest {
		t.Fatal("different pools share a digest")
	}

	// Same content, same digest, regardless of source formatting.
	c := t.TempDir()
	writeNames(t, c, "{\n  \"hero_names\": [\"Aldric\"],\n  \"contract_titles\": [\"Cull the Fen Wolves\"]\n}")
	cc, err := Load(c)
	if err != nil {
		t.Fatal(err)
	}
	if cc.Digest != ca.Digest {
		t.Fatal("formatting changed the digest")
	}
}

func TestLoadRejectsEmptyPools(t *testing.T) {
	dir := t.TempDir()
	writeNames(t, dir, `{"hero_names":[],"contract_titles":["x"]}`)
	if _, err := Load(dir); err == nil {
		t.Fatal("want error for empty hero pool")
	}

	writeNames(t, dir, `{"hero_names":["x"],"contract_titles":[]}`)
	if _, err := Load(dir); err == nil {
		t.Fatal("want error for empty title pool")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("want error for missing names.json")
	}
}
