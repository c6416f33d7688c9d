package ris

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/refscreen/refscreen/internal/record"
)

// preferredTagOrder lists the tags written first, in this order, so
// output files open with the fields people scan for. Remaining tags
// follow alphabetically.
var preferredTagOrder = []string{"ty", "ti", "t1", "au", "a1", "py", "y1", "jo", "t2", "do", "ab", "n2", "kw"}

// Write serializes records to RIS, one ER-terminated entry per record.
// Raw tags are written verbatim, so a parse/write round trip preserves
// everything a source emitted.
func Write(w io.Writer, records []record.Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if err := writeRecord(bw, rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, rec record.Record) error {
	written := make(map[string]bool, len(rec.Tags))

	emit := func(tag string) error {
		for _, value := range rec.Tags[tag] {
			if _, err := fmt.Fprintf(w, "%s  - %s\n", strings.ToUpper(tag), value); err != nil {
				return err
			}
		}
		written[tag] = true
		return nil
	}

	for _, tag := range preferredTagOrder {
		if _, ok := rec.Tags[tag]; ok {
			if err := emit(tag); err != nil {
				return err
			}
		}
	}

	var rest []string
	for tag := range rec.Tags {
		if !written[tag] {
			rest = append(rest, tag)
		}
	}
	sort.Strings(rest)
	for _, tag := range rest {
		if err := emit(tag); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "ER  - ")
	return err
}
