// pkg/reader/reader.go
package reader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options describes the physical layout of one source's files
type Options struct {
	// PreambleLines is the number of non-data lines before the header row
	PreambleLines int
	// HeaderGuard names a column whose value equals its own label on rows that
	// repeat the header mid-file. Such rows are dropped.
	HeaderGuard string
	// Comma is the field delimiter; zero means ','
	Comma rune
}

// ReadError reports a file that cannot be opened or parsed as delimited text
type ReadError struct {
	Path string
	Line int
	Err  error
}

func (e *ReadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("read %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Reader yields the data rows of one file in file order. Open the path again
// to restart the sequence.
type Reader struct {
	path     string
	name     string
	opts     Options
	file     *os.File
	csv      *csv.Reader
	preamble []string
	header   []string
	index    map[string]int

	rows            int
	repeatedHeaders int
}

// Open opens path, consumes the preamble lines and the header row
func Open(path string, opts Options) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	r := &Reader{
		path: path,
		name: filepath.Base(path),
		opts: opts,
		file: f,
	}

	if err := r.init(); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) init() error {
	buf := bufio.NewReader(r.file)
	if head, err := buf.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = buf.Discard(len(utf8BOM))
	}

	for i := 0; i < r.opts.PreambleLines; i++ {
		line, err := buf.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return &ReadError{Path: r.path, Line: i + 1, Err: fmt.Errorf("missing preamble line: %w", err)}
		}
		r.preamble = append(r.preamble, strings.TrimSpace(line))
	}

	r.csv = csv.NewReader(buf)
	r.csv.LazyQuotes = true
	r.csv.FieldsPerRecord = -1
	if r.opts.Comma != 0 {
		r.csv.Comma = r.opts.Comma
	}

	header, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("no header row")
		}
		return &ReadError{Path: r.path, Line: r.opts.PreambleLines + 1, Err: err}
	}

	r.header = make([]string, len(header))
	r.index = make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		r.header[i] = h
		if _, dup := r.index[h]; !dup {
			r.index[h] = i
		}
	}
	return nil
}

// Next returns the next data row. It returns io.EOF after the last row and a
// *ReadError when the remaining text cannot be parsed.
func (r *Reader) Next() (model.SourceRecord, error) {
	for {
		values, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return model.SourceRecord{}, io.EOF
			}
			line := 0
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				line = perr.Line + r.opts.PreambleLines
			}
			return model.SourceRecord{}, &ReadError{Path: r.path, Line: line, Err: err}
		}

		line, _ := r.csv.FieldPos(0)
		rec := model.NewSourceRecord(r.name, line+r.opts.PreambleLines, r.header, r.index, values)

		if r.isRepeatedHeader(rec) {
			r.repeatedHeaders++
			continue
		}

		r.rows++
		return rec, nil
	}
}

func (r *Reader) isRepeatedHeader(rec model.SourceRecord) bool {
	if r.opts.HeaderGuard == "" {
		return false
	}
	v, ok := rec.Get(r.opts.HeaderGuard)
	return ok && strings.TrimSpace(v) == r.opts.HeaderGuard
}

// Preamble returns the trimmed lines that preceded the header
func (r *Reader) Preamble() []string { return r.preamble }

// Header returns the column names in file order
func (r *Reader) Header() []string { return r.header }

// Rows returns the number of data rows returned so far
func (r *Reader) Rows() int { return r.rows }

// RepeatedHeaders returns the number of mid-file header rows dropped so far
func (r *Reader) RepeatedHeaders() int { return r.repeatedHeaders }

// Close releases the file handle
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// CountRows reads the whole file and returns the number of data rows, without
// preamble or repeated header lines
func CountRows(path string, opts Options) (int, error) {
	r, err := Open(path, opts)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	for {
		if _, err := r.Next(); err != nil {
			if errors.Is(err, io.EOF) {
				return r.Rows(), nil
			}
			return r.Rows(), err
		}
	}
}
