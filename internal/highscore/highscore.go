// Package highscore keeps the ranked list of fewest-shot wins.
package highscore

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// MaxEntries is the length of the list.
const MaxEntries = 10

var ErrMalformedScore = errors.New("malformed score line")

// Score is one winning game: who won and how many shots it took.
type Score struct {
	Name  string `json:"name"`
	Shots int    `json:"shots"`
}

func (s Score) String() string {
	return fmt.Sprintf("%s;%d", s.Name, s.Shots)
}

// List is ordered best (fewest shots) first.
type List struct {
	entries []Score
}

// NewList builds a list from already-ranked scores, keeping the first
// MaxEntries.
func NewList(scores []Score) *List {
	l := &List{}
	for _, s := range scores {
		if len(l.entries) == MaxEntries {
			break
		}
		l.entries = append(l.entries, s)
	}
	return l
}

// Add inserts s ahead of the first entry with at least as many shots.
// It reports whether s made the list.
func (l *List) Add(s Score) bool {
	for i, e := range l.entries {
		if e.Shots >= s.Shots {
			l.entries = append(l.entries[:i], append([]Score{s}, l.entries[i:]...)...)
			if len(l.entries) > MaxEntries {
				l.entries = l.entries[:MaxEntries]
			}
			return true
		}
	}
	if len(l.entries) < MaxEntries {
		l.entries = append(l.entries, s)
		return true
	}
	return false
}

// Entries returns a copy of the ranked scores.
func (l *List) Entries() []Score {
	out := make([]Score, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *List) Len() int { return len(l.entries) }

// Render formats the list as a table for the terminal.
func (l *List) Render() string {
	var sb strings.Builder
	sb.WriteString("High Scores:\n")
	sb.WriteString("Place    Shots    Name\n")
	for i, s := range l.entries {
		fmt.Fprintf(&sb, "%-8d %-8d %s\n", i+1, s.Shots, s.Name)
	}
	return sb.String()
}

// Encode writes one "name;shots" line per entry.
func Encode(l *List) string {
	var sb strings.Builder
	for _, s := range l.entries {
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Decode parses the Encode form. Blank lines are skipped. The name may
// itself contain ';'; the shot count follows the last one.
func Decode(s string) (*List, error) {
	var scores []Score
	sc := bufio.NewScanner(strings.NewReader(s))
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		i := strings.LastIndexByte(line, ';')
		if i < 0 {
			return nil, fmt.Errorf("%w: line %d: missing ';'", ErrMalformedScore, n)
		}
		shots, err := strconv.Atoi(line[i+1:])
		if err != nil || shots < 0 {
			return nil, fmt.Errorf("%w: line %d: shots %q", ErrMalformedScore, n, line[i+1:])
		}
		scores = append(scores, Score{Name: line[:i], Shots: shots})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return NewList(scores), nil
}

// FileStore persists a List in a text file.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the list. A missing file is an empty list.
func (fs *FileStore) Load() (*List, error) {
	data, err := os.ReadFile(fs.Path)
	if errors.Is(err, os.ErrNotExist) {
		return NewList(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	return Decode(string(data))
}

// Save overwrites the file with l.
func (fs *FileStore) Save(l *List) error {
	if err := os.WriteFile(fs.Path, []byte(Encode(l)), 0644); err != nil {
		return fmt.Errorf("save scores: %w", err)
	}
	return nil
}
