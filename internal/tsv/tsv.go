// internal/tsv/tsv.go

// Package tsv writes entity output records as tab-separated rows:
//
//	paragraph_number \t entity_text \t entity_label \t start_offset \t end_offset
//
// There is no header row. Fields are quoted only when they contain a tab,
// a double quote or a line break.
package tsv

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Record is one output row.
type Record struct {
	Paragraph int
	Text      string
	Label     string
	Start     int
	End       int
}

// Fields returns the record as ordered string fields.
func (r Record) Fields() []string {
	return []string{
		strconv.Itoa(r.Paragraph),
		r.Text,
		r.Label,
		strconv.Itoa(r.Start),
		strconv.Itoa(r.End),
	}
}

// Writer buffers records and writes them to an underlying io.Writer.
type Writer struct {
	w    *csv.Writer
	rows int
}

// NewWriter returns a Writer that emits LF-terminated rows to w.
func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return &Writer{w: cw}
}

// Write buffers one record.
func (w *Writer) Write(r Record) error {
	if err := w.w.Write(r.Fields()); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Flush writes any buffered rows and reports the first write error.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// Rows returns the number of records written so far.
func (w *Writer) Rows() int { return w.rows }

// ReadAll parses rows written by Writer back into records.
func ReadAll(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = 5
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		var rec Record
		if rec.Paragraph, err = strconv.Atoi(row[0]); err != nil {
			return nil, err
		}
		rec.Text, rec.Label = row[1], row[2]
		if rec.Start, err = strconv.Atoi(row[3]); err != nil {
			return nil, err
		}
		if rec.End, err = strconv.Atoi(row[4]); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
