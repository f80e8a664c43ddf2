package catalogs

import "testing"

func TestLoadBlocks(t *testing.T) {
	cats, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	for _, id := range []string{"GRASS", "DIRT", "STONE", "SAND", "LEAF", "LOG", "WATER", "CLOUD"} {
		if _, err := cats.Blocks.Resolve(id); err != nil {
			t.Fatalf("resolve %s: %v", id, err)
		}
	}
	if _, err := cats.Blocks.Resolve("BEDROCK"); err == nil {
		t.Fatalf("resolving unknown block should fail")
	}

	solid := cats.Blocks.SolidSet()
	water, _ := cats.Blocks.Resolve("WATER")
	cloud, _ := cats.Blocks.Resolve("CLOUD")
	stone, _ := cats.Blocks.Resolve("STONE")
	if solid[water] || solid[cloud] {
		t.Fatalf("water/cloud must not be solid")
	}
	if !solid[stone] {
		t.Fatalf("stone must be solid")
	}
}

func TestPaletteDigestStable(t *testing.T) {
	a, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	b, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if a.Blocks.PaletteDigest == "" || a.Blocks.PaletteDigest != b.Blocks.PaletteDigest {
		t.Fatalf("palette digest unstable: %q vs %q", a.Blocks.PaletteDigest, b.Blocks.PaletteDigest)
	}
}

func TestLoadMissingDir(t *testing.T) {
	if _, err := Load("./does-not-exist"); err == nil {
		t.Fatalf("expected error for missing config dir")
	}
}

func TestMaterialFor(t *testing.T) {
	cats, err := Load("../../../configs")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	grass, _ := cats.Blocks.Resolve("GRASS")
	if m := cats.Blocks.MaterialFor(grass); m != "mat/grass" {
		t.Fatalf("material for GRASS = %q", m)
	}
	if m := cats.Blocks.MaterialFor(999); m != "" {
		t.Fatalf("out-of-range palette id should map to empty handle, got %q", m)
	}
}
