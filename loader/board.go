package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/alleycats/engine/state"
)

// ErrEmptyMap is returned for a map file with no rows.
var ErrEmptyMap = errors.New("map has no rows")

// LoadMap reads a tab-separated map file.
func LoadMap(path string, log *zap.Logger) (*state.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening map %s: %w", path, err)
	}
	defer f.Close()

	b, err := ParseMap(f, log)
	if err != nil {
		return nil, fmt.Errorf("parsing map %s: %w", path, err)
	}
	return b, nil
}

// ParseMap reads one row per line, cells separated by tabs. Empty fields
// are plain cells; a leading empty line is ignored.
func ParseMap(r io.Reader, log *zap.Logger) (*state.Board, error) {
	var rows [][]string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" && len(rows) == 0 {
			continue
		}
		fields := strings.Split(line, "\t")
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}
		rows = append(rows, fields)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyMap
	}
	return state.NewBoard(rows, log), nil
}
