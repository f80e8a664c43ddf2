// Package catalogs loads the block palette. Blocks carry a solidity flag used
// by the collision index and an opaque material handle passed through to
// renderers; the simulation never looks inside the handle.
package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Catalogs struct {
	Blocks BlockCatalog
}

type BlockCatalog struct {
	Palette       []string
	Index         map[string]uint16
	Defs          map[string]BlockDef
	PaletteDigest string
}

type BlockDef struct {
	ID       string `json:"id"`
	Solid    bool   `json:"solid"`
	Material string `json:"material"`
}

func Load(configDir string) (*Catalogs, error) {
	blocks, err := loadBlocks(filepath.Join(configDir, "blocks", "blocks.json"))
	if err != nil {
		return nil, err
	}
	return &Catalogs{Blocks: blocks}, nil
}

func loadBlocks(path string) (BlockCatalog, error) {
	var c BlockCatalog
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return c, fmt.Errorf("blocks.json: %w", err)
	}
	if len(defs) == 0 {
		return c, fmt.Errorf("blocks.json: empty palette")
	}

	c.Defs = make(map[string]BlockDef, len(defs))
	for _, d := range defs {
		if d.ID == "" {
			return c, fmt.Errorf("blocks.json: block with empty id")
		}
		if _, dup := c.Defs[d.ID]; dup {
			return c, fmt.Errorf("blocks.json: duplicate block id %q", d.ID)
		}
		c.Defs[d.ID] = d
		c.Palette = append(c.Palette, d.ID)
	}
	sort.Strings(c.Palette)

	c.Index = make(map[string]uint16, len(c.Palette))
	for i, id := range c.Palette {
		c.Index[id] = uint16(i)
	}
	c.PaletteDigest = digestPalette(c.Palette, c.Defs)
	return c, nil
}

// digestPalette hashes the sorted palette with solidity so any change to the
// generation-relevant part of the catalog is visible to clients.
func digestPalette(palette []string, defs map[string]BlockDef) string {
	h := sha256.New()
	for _, id := range palette {
		h.Write([]byte(id))
		if defs[id].Solid {
			h.Write([]byte{1})
		} else {
			h.Write([]byte{0})
		}
		h.Write([]byte{0xFF})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Resolve returns the palette id for a block id, or an error naming the
// missing entry so a bad config fails loudly at startup.
func (c *BlockCatalog) Resolve(id string) (uint16, error) {
	v, ok := c.Index[id]
	if !ok {
		return 0, fmt.Errorf("missing block id in palette: %s", id)
	}
	return v, nil
}

// SolidSet returns the palette ids whose blocks obstruct movement.
func (c *BlockCatalog) SolidSet() map[uint16]bool {
	out := make(map[uint16]bool, len(c.Palette))
	for id, v := range c.Index {
		out[v] = c.Defs[id].Solid
	}
	return out
}

// MaterialFor returns the opaque renderable-material handle for a palette id.
func (c *BlockCatalog) MaterialFor(b uint16) string {
	if int(b) >= len(c.Palette) {
		return ""
	}
	return c.Defs[c.Palette[b]].Material
}
