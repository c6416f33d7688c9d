// Package ris parses and serializes line-tagged RIS citation files.
package ris

import (
	"bufio"
	"io"
	"strings"

	"github.com/refscreen/refscreen/internal/record"
)

// maxLineCapacity bounds a single RIS line (1MB, matching abstracts
// that some exporters emit on one line).
const maxLineCapacity = 1024 * 1024

// Parse reads an RIS stream and returns the records it contains, in
// file order. Malformed content never fails: unknown tags are kept as
// raw tags, untagged lines are treated as continuations of the last
// tag, and a final record without an ER terminator is still returned.
func Parse(r io.Reader) ([]record.Record, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, maxLineCapacity)
	scanner.Buffer(buf, maxLineCapacity)

	var records []record.Record
	current := newBuilder()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "ER  -") {
			if rec, ok := current.finish(); ok {
				records = append(records, rec)
			}
			current = newBuilder()
			continue
		}

		if tag, value, ok := splitTagLine(line); ok {
			current.addTag(tag, value)
		} else {
			current.appendContinuation(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return records, err
	}

	if rec, ok := current.finish(); ok {
		records = append(records, rec)
	}
	return records, nil
}

// splitTagLine recognizes the standard RIS tag layout "XX  - value":
// a two-character tag, two spaces, a hyphen, a space.
func splitTagLine(line string) (tag, value string, ok bool) {
	if len(line) < 6 || line[2] != ' ' || line[3] != ' ' || line[4] != '-' || line[5] != ' ' {
		return "", "", false
	}
	return line[:2], strings.TrimSpace(line[6:]), true
}

// builder accumulates one record's tags in input order.
type builder struct {
	rec     record.Record
	lastTag string
	seen    bool
}

func newBuilder() *builder {
	return &builder{rec: record.Record{Tags: make(map[string][]string)}}
}

func (b *builder) addTag(tag, value string) {
	key := strings.ToLower(tag)
	b.rec.Tags[key] = append(b.rec.Tags[key], value)
	b.lastTag = key
	b.seen = true

	switch tag {
	case "TI", "T1":
		b.rec.Title = value
	case "PY", "Y1":
		b.rec.Year = value
	case "AU", "A1":
		b.rec.Authors = append(b.rec.Authors, value)
	case "JO", "T2":
		b.rec.Journal = value
	case "DO":
		b.rec.DOI = value
	case "AB", "N2":
		b.rec.Abstract = value
	case "KW":
		b.rec.Keywords = append(b.rec.Keywords, value)
	}
}

// appendContinuation joins an untagged line onto the last tag's value.
func (b *builder) appendContinuation(line string) {
	if b.lastTag == "" || !b.seen {
		return
	}
	values := b.rec.Tags[b.lastTag]
	if len(values) == 0 {
		return
	}
	joined := values[len(values)-1] + " " + line
	values[len(values)-1] = joined

	// Keep the mapped canonical field in sync with its raw tag.
	switch b.lastTag {
	case "ti", "t1":
		b.rec.Title = joined
	case "py", "y1":
		b.rec.Year = joined
	case "jo", "t2":
		b.rec.Journal = joined
	case "do":
		b.rec.DOI = joined
	case "ab", "n2":
		b.rec.Abstract = joined
	case "au", "a1":
		if n := len(b.rec.Authors); n > 0 {
			b.rec.Authors[n-1] = joined
		}
	case "kw":
		if n := len(b.rec.Keywords); n > 0 {
			b.rec.Keywords[n-1] = joined
		}
	}
}

func (b *builder) finish() (record.Record, bool) {
	if !b.seen {
		return record.Record{}, false
	}
	return b.rec, true
}
