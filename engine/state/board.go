package state

import (
	"go.uber.org/zap"

	"github.com/nathoo/alleycats/types"
)

// Owners lists every owner, in the order used for tie-breaks and display.
var Owners = []string{types.OwnerStudent, types.OwnerCook, types.OwnerLibrarian}

// Position is a board coordinate.
type Position struct {
	Row int
	Col int
}

// Cell is one square of the board.
type Cell struct {
	Pos    Position
	Symbol string
	Kind   types.CellKind
	Owner  string // set only for owner cells
}

// Location names the cell for action logs: the owner for owner cells,
// otherwise the kind.
func (c *Cell) Location() string {
	switch c.Kind {
	case types.CellOwner:
		return c.Owner
	case types.CellKiosk:
		return "Kiosk"
	case types.CellBasement:
		return "Basement"
	case types.CellWall:
		return "Wall"
	}
	return "Plain"
}

// Board is a rectangular grid of cells, indexed [row][col].
type Board struct {
	Rows  int
	Cols  int
	Cells [][]Cell
}

// ClassifySymbol maps a map symbol to its cell kind and owner. Unknown
// symbols are reported with ok=false and treated as plain.
func ClassifySymbol(sym string) (kind types.CellKind, owner string, ok bool) {
	switch sym {
	case "", " ":
		return types.CellPlain, "", true
	case ".":
		return types.CellWall, "", true
	case "K":
		return types.CellKiosk, "", true
	case "B":
		return types.CellBasement, "", true
	case "S":
		return types.CellOwner, types.OwnerStudent, true
	case "C":
		return types.CellOwner, types.OwnerCook, true
	case "L":
		return types.CellOwner, types.OwnerLibrarian, true
	}
	return types.CellPlain, "", false
}

// NewBoard builds a board from rows of symbols. Short rows are padded with
// plain cells up to the widest row.
func NewBoard(rows [][]string, log *zap.Logger) *Board {
	if log == nil {
		log = zap.NewNop()
	}
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	b := &Board{Rows: len(rows), Cols: width, Cells: make([][]Cell, len(rows))}
	for i, r := range rows {
		b.Cells[i] = make([]Cell, width)
		for j := 0; j < width; j++ {
			sym := ""
			if j < len(r) {
				sym = r[j]
			}
			kind, owner, ok := ClassifySymbol(sym)
			if !ok {
				log.Warn("unknown map symbol treated as plain",
					zap.String("symbol", sym), zap.Int("row", i), zap.Int("col", j))
			}
			b.Cells[i][j] = Cell{Pos: Position{i, j}, Symbol: sym, Kind: kind, Owner: owner}
		}
	}
	return b
}

// InBounds reports whether pos lies on the board.
func (b *Board) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.Rows && pos.Col >= 0 && pos.Col < b.Cols
}

// At returns the cell at pos.
func (b *Board) At(pos Position) (*Cell, bool) {
	if !b.InBounds(pos) {
		return nil, false
	}
	return &b.Cells[pos.Row][pos.Col], true
}

// OpenCells returns every non-wall position in row-major order.
func (b *Board) OpenCells() []Position {
	var out []Position
	for i := range b.Cells {
		for j := range b.Cells[i] {
			if b.Cells[i][j].Kind != types.CellWall {
				out = append(out, Position{i, j})
			}
		}
	}
	return out
}

// OwnerLocations scans the board for owner cells. Owners missing from the
// map are logged.
func (b *Board) OwnerLocations(log *zap.Logger) map[string][]Position {
	locs := map[string][]Position{}
	for i := range b.Cells {
		for j := range b.Cells[i] {
			if c := b.Cells[i][j]; c.Kind == types.CellOwner {
				locs[c.Owner] = append(locs[c.Owner], c.Pos)
			}
		}
	}
	if log != nil {
		for _, o := range Owners {
			if len(locs[o]) == 0 {
				log.Warn("owner has no cell on the map", zap.String("owner", o))
			}
		}
	}
	return locs
}

// Distance is the Manhattan distance between two positions.
func Distance(a, b Position) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
