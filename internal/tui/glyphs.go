package tui

import (
	"os"
	"strings"
	"sync"
)

// Some fonts render box-drawing and arrow glyphs poorly; an ASCII set is
// selectable from config or RERA_TUI_GLYPHS.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference applies the configured set; the environment wins.
// Unknown names are ignored.
func applyGlyphPreference(configured string) {
	v := strings.TrimSpace(os.Getenv("RERA_TUI_GLYPHS"))
	if v == "" {
		v = configured
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphPointer() string { return pick("▸", ">") }
func glyphLock() string    { return pick("⊘", "x") }
func glyphBullet() string  { return pick("•", "*") }
func glyphHRule() string   { return pick("─", "-") }
func glyphSep() string     { return pick("·", "|") }
