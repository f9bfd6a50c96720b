package game

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/freeeve/battleship/pkg/battleship"
)

var (
	ErrMalformedSave = errors.New("malformed save file")
	ErrNoSave        = errors.New("no saved match")
)

// saveLines is the number of lines in an encoded save: id, level, turn,
// both shot counters and both boards.
const saveLines = 7

// EncodeSave writes m as one field per line. Boards use the
// battleship.EncodeBoard single-line form.
func EncodeSave(m *Match) string {
	var sb strings.Builder
	fmt.Fprintln(&sb, m.ID)
	fmt.Fprintln(&sb, m.Level)
	fmt.Fprintln(&sb, m.Turn)
	fmt.Fprintln(&sb, m.Shots[Player])
	fmt.Fprintln(&sb, m.Shots[Villain])
	fmt.Fprintln(&sb, battleship.EncodeBoard(m.Boards[Player]))
	fmt.Fprintln(&sb, battleship.EncodeBoard(m.Boards[Villain]))
	return sb.String()
}

// DecodeSave parses the EncodeSave form. Nothing is returned unless every
// field parses.
func DecodeSave(s string) (*Match, error) {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != saveLines {
		return nil, fmt.Errorf("%w: expected %d lines, got %d", ErrMalformedSave, saveLines, len(lines))
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	id, err := uuid.Parse(lines[0])
	if err != nil {
		return nil, fmt.Errorf("%w: id: %v", ErrMalformedSave, err)
	}
	level, err := strconv.Atoi(lines[1])
	if err != nil {
		return nil, fmt.Errorf("%w: level: %v", ErrMalformedSave, err)
	}
	turn, err := ParseSide(lines[2])
	if err != nil {
		return nil, fmt.Errorf("%w: turn: %v", ErrMalformedSave, err)
	}
	var shots [2]int
	for i := range shots {
		n, err := strconv.Atoi(lines[3+i])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: shot count %q", ErrMalformedSave, lines[3+i])
		}
		shots[i] = n
	}
	var boards [2]*battleship.Board
	for i := range boards {
		b, err := battleship.ParseBoard(lines[5+i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s board: %w", ErrMalformedSave, Side(i), err)
		}
		boards[i] = b
	}

	return &Match{
		ID:     id.String(),
		Level:  level,
		Boards: boards,
		Shots:  shots,
		Turn:   turn,
	}, nil
}

// FileStore keeps a single saved match in a file.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Save overwrites the save file with m.
func (fs *FileStore) Save(m *Match) error {
	if err := os.WriteFile(fs.Path, []byte(EncodeSave(m)), 0644); err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	return nil
}

// Load reads the saved match. It returns ErrNoSave if there is none.
func (fs *FileStore) Load() (*Match, error) {
	data, err := os.ReadFile(fs.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("load match: %w", err)
	}
	return DecodeSave(string(data))
}

// Exists reports whether a save file is present.
func (fs *FileStore) Exists() bool {
	_, err := os.Stat(fs.Path)
	return err == nil
}

// Remove deletes the save file. A missing file is not an error.
func (fs *FileStore) Remove() error {
	if err := os.Remove(fs.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove save: %w", err)
	}
	return nil
}
