package dedup

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"
)

// FormatVersion is the snapshot layout this build writes. Newer layouts are
// read best-effort and keep their version on rewrite.
const FormatVersion = 1

const maxRecordSize = 1 << 20

// Mark records when a key was first observed. Raw holds the record exactly as
// it was loaded so fields written by other versions survive a rewrite.
type Mark struct {
	Key       string
	FirstSeen time.Time
	Raw       []byte
}

// SeenSet is an immutable-by-convention snapshot of every key observed so far.
// Methods that change it return a new value.
type SeenSet struct {
	Version int

	marks   map[string]Mark
	unknown [][]byte
}

// NewSeenSet returns an empty snapshot at the current format version.
func NewSeenSet() SeenSet {
	return SeenSet{Version: FormatVersion, marks: make(map[string]Mark)}
}

// FromMarks builds a snapshot from stored marks.
func FromMarks(marks []Mark) SeenSet {
	s := NewSeenSet()
	for _, m := range marks {
		s.put(m)
	}
	return s
}

// Len reports how many keys are recorded.
func (s SeenSet) Len() int { return len(s.marks) }

// Has reports whether key was already seen.
func (s SeenSet) Has(key string) bool {
	_, ok := s.marks[key]
	return ok
}

// FirstSeen returns the time key was first recorded.
func (s SeenSet) FirstSeen(key string) (time.Time, bool) {
	m, ok := s.marks[key]
	return m.FirstSeen, ok
}

// Marks returns every mark ordered by key.
func (s SeenSet) Marks() []Mark {
	out := make([]Mark, 0, len(s.marks))
	for _, m := range s.marks {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b Mark) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		}
		return 0
	})
	return out
}

// Missing returns the marks of s whose keys are absent from other.
func (s SeenSet) Missing(other SeenSet) []Mark {
	var out []Mark
	for _, m := range s.Marks() {
		if !other.Has(m.Key) {
			out = append(out, m)
		}
	}
	return out
}

// Union merges two snapshots. A key present in both keeps the earlier
// first-seen time. Keys are never dropped.
func (s SeenSet) Union(other SeenSet) SeenSet {
	out := s.clone()
	out.Version = max(s.Version, other.Version)
	for _, m := range other.marks {
		if cur, ok := out.marks[m.Key]; ok && !m.FirstSeen.Before(cur.FirstSeen) {
			continue
		}
		out.marks[m.Key] = m
	}
	for _, raw := range other.unknown {
		if !slices.ContainsFunc(out.unknown, func(b []byte) bool { return bytes.Equal(b, raw) }) {
			out.unknown = append(out.unknown, raw)
		}
	}
	return out
}

func (s SeenSet) clone() SeenSet {
	out := SeenSet{Version: s.Version, marks: make(map[string]Mark, len(s.marks)+8)}
	if out.Version == 0 {
		out.Version = FormatVersion
	}
	for k, m := range s.marks {
		out.marks[k] = m
	}
	out.unknown = slices.Clone(s.unknown)
	return out
}

func (s *SeenSet) put(m Mark) {
	if s.marks == nil {
		s.marks = make(map[string]Mark)
	}
	s.marks[m.Key] = m
}

type header struct {
	Version int `json:"version"`
}

type record struct {
	Key       string    `json:"key"`
	FirstSeen time.Time `json:"first_seen"`
}

// line is the union of the header and record shapes. FirstSeen stays raw so a
// record whose timestamp this build cannot read is kept verbatim.
type line struct {
	Version   int             `json:"version"`
	Key       string          `json:"key"`
	FirstSeen json.RawMessage `json:"first_seen"`
}

// Decode reads the JSON Lines layout: an optional header line carrying the
// version followed by one record per line. Snapshots written by newer
// versions load best-effort: keyed records are read and every other line is
// kept verbatim, so nothing is lost on rewrite.
func Decode(r io.Reader) (SeenSet, error) {
	s := NewSeenSet()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	first := true
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		raw := bytes.Clone(text)

		var l line
		if err := json.Unmarshal(raw, &l); err != nil {
			return SeenSet{}, fmt.Errorf("seen set line %d: %w", lineNo, err)
		}

		if first {
			first = false
			if l.Key == "" && l.Version > 0 {
				s.Version = l.Version
				continue
			}
		}

		if l.Key == "" {
			s.unknown = append(s.unknown, raw)
			continue
		}
		var seen time.Time
		if err := json.Unmarshal(l.FirstSeen, &seen); err != nil {
			s.unknown = append(s.unknown, raw)
			continue
		}
		if cur, ok := s.marks[l.Key]; ok && !seen.Before(cur.FirstSeen) {
			continue
		}
		s.put(Mark{Key: l.Key, FirstSeen: seen, Raw: raw})
	}
	if err := scanner.Err(); err != nil {
		return SeenSet{}, fmt.Errorf("read seen set: %w", err)
	}
	return s, nil
}

// Encode writes the snapshot in the layout Decode reads. Output is ordered by
// key so equal snapshots encode to equal bytes.
func (s SeenSet) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)

	version := s.Version
	if version == 0 {
		version = FormatVersion
	}
	if err := writeLine(bw, header{Version: version}); err != nil {
		return err
	}
	for _, raw := range s.unknown {
		if err := writeRaw(bw, raw); err != nil {
			return err
		}
	}
	for _, m := range s.Marks() {
		if m.Raw != nil {
			if err := writeRaw(bw, m.Raw); err != nil {
				return err
			}
			continue
		}
		if err := writeLine(bw, record{Key: m.Key, FirstSeen: m.FirstSeen.UTC()}); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// EncodeRecord renders one mark as a stored record.
func EncodeRecord(m Mark) ([]byte, error) {
	if m.Raw != nil {
		return m.Raw, nil
	}
	return json.Marshal(record{Key: m.Key, FirstSeen: m.FirstSeen.UTC()})
}

func writeLine(w *bufio.Writer, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode seen set: %w", err)
	}
	return writeRaw(w, raw)
}

func writeRaw(w *bufio.Writer, raw []byte) error {
	if _, err := w.Write(raw); err != nil {
		return err
	}
	return w.WriteByte('\n')
}
