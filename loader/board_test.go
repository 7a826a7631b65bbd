package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/alleycats/engine/state"
	"github.com/nathoo/alleycats/types"
)

func TestParseMap(t *testing.T) {
	src := "\nK\t\tS\n.\tC\n\tB\tL\tZ\n"
	b, err := ParseMap(strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("ParseMap failed: %v", err)
	}
	if b.Rows != 3 || b.Cols != 4 {
		t.Fatalf("size = %dx%d, want 3x4", b.Rows, b.Cols)
	}

	tests := []struct {
		row, col int
		kind     types.CellKind
		owner    string
	}{
		{0, 0, types.CellKiosk, ""},
		{0, 1, types.CellPlain, ""},
		{0, 2, types.CellOwner, types.OwnerStudent},
		{0, 3, types.CellPlain, ""}, // padded
		{1, 0, types.CellWall, ""},
		{1, 1, types.CellOwner, types.OwnerCook},
		{2, 1, types.CellBasement, ""},
		{2, 2, types.CellOwner, types.OwnerLibrarian},
		{2, 3, types.CellPlain, ""}, // unknown symbol
	}
	for _, tt := range tests {
		cell, ok := b.At(state.Position{Row: tt.row, Col: tt.col})
		if !ok {
			t.Errorf("(%d,%d) out of bounds", tt.row, tt.col)
			continue
		}
		if cell.Kind != tt.kind || cell.Owner != tt.owner {
			t.Errorf("(%d,%d) = kind %v owner %q, want %v %q", tt.row, tt.col, cell.Kind, cell.Owner, tt.kind, tt.owner)
		}
	}
}

func TestParseMap_Empty(t *testing.T) {
	_, err := ParseMap(strings.NewReader("\n"), nil)
	if !errors.Is(err, ErrEmptyMap) {
		t.Errorf("error = %v, want ErrEmptyMap", err)
	}
}

func TestLoadMap_Bundled(t *testing.T) {
	b, err := LoadMap("../content/map.txt", nil)
	if err != nil {
		t.Fatalf("LoadMap failed: %v", err)
	}
	locs := b.OwnerLocations(nil)
	for _, owner := range state.Owners {
		if len(locs[owner]) == 0 {
			t.Errorf("bundled map has no %s cell", owner)
		}
	}
	if len(b.OpenCells()) < 4 {
		t.Errorf("bundled map has only %d open cells", len(b.OpenCells()))
	}
}

func TestLoadMap_Missing(t *testing.T) {
	if _, err := LoadMap("testdata/missing.txt", nil); err == nil {
		t.Error("expected an error for a missing map")
	}
}
