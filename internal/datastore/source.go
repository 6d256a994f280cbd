package datastore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mamadbah2/salesreport/pkg/clients/remotecsv"
)

// Source is a location a dataset can be read from.
type Source interface {
	// Key identifies the source for caching.
	Key() string
	// Marker changes whenever the source content changes. An empty marker
	// means the source cannot tell, and cached data stays valid until invalidated.
	Marker(ctx context.Context) (string, error)
	// Rows returns the header row followed by the data rows.
	Rows(ctx context.Context) ([][]string, error)
}

// FileSource reads a CSV file from local disk.
type FileSource struct {
	Path string
}

// NewFileSource returns a source for the CSV file at path.
func NewFileSource(path string) FileSource {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return FileSource{Path: path}
}

func (s FileSource) Key() string {
	return "file:" + s.Path
}

func (s FileSource) Marker(_ context.Context) (string, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return "", fileError(s.Path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory: %w", s.Path, ErrSourceUnreadable)
	}
	return fmt.Sprintf("%d-%d", info.ModTime().UnixNano(), info.Size()), nil
}

func (s FileSource) Rows(_ context.Context) ([][]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fileError(s.Path, err)
	}
	defer f.Close()

	return readAll(csv.NewReader(f))
}

func fileError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", path, ErrSourceNotFound)
	}
	return fmt.Errorf("%s: %v: %w", path, err, ErrSourceUnreadable)
}

// HTTPSource reads a CSV document published at a URL.
type HTTPSource struct {
	URL    string
	Client remotecsv.Client
}

// NewHTTPSource returns a source for the CSV document at url.
func NewHTTPSource(url string, client remotecsv.Client) HTTPSource {
	return HTTPSource{URL: url, Client: client}
}

func (s HTTPSource) Key() string {
	return "http:" + s.URL
}

func (s HTTPSource) Marker(ctx context.Context) (string, error) {
	rev, err := s.Client.Revision(ctx, s.URL)
	if err != nil {
		return "", remoteError(err)
	}
	return rev, nil
}

func (s HTTPSource) Rows(ctx context.Context) ([][]string, error) {
	body, err := s.Client.Fetch(ctx, s.URL)
	if err != nil {
		return nil, remoteError(err)
	}
	return readAll(csv.NewReader(bytes.NewReader(body)))
}

func remoteError(err error) error {
	if errors.Is(err, remotecsv.ErrNotFound) {
		return fmt.Errorf("%v: %w", err, ErrSourceNotFound)
	}
	return fmt.Errorf("%v: %w", err, ErrSourceUnreadable)
}

// RangeReader reads a rectangular range of cells, as the Google Sheets repository does.
type RangeReader interface {
	ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error)
}

// SheetSource reads the dataset from a spreadsheet range whose first row is the header.
type SheetSource struct {
	SpreadsheetID string
	Range         string
	Reader        RangeReader
}

// NewSheetSource returns a source for the given range.
func NewSheetSource(spreadsheetID, sheetRange string, reader RangeReader) SheetSource {
	return SheetSource{SpreadsheetID: spreadsheetID, Range: sheetRange, Reader: reader}
}

func (s SheetSource) Key() string {
	return "sheets:" + s.SpreadsheetID + "/" + s.Range
}

// Marker is always empty: the values API exposes no revision for a range.
func (s SheetSource) Marker(_ context.Context) (string, error) {
	return "", nil
}

func (s SheetSource) Rows(ctx context.Context) ([][]string, error) {
	values, err := s.Reader.ReadRange(ctx, s.Range)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrSourceUnreadable)
	}

	rows := make([][]string, 0, len(values))
	for _, v := range values {
		row := make([]string, len(v))
		for i, cell := range v {
			if cell != nil {
				row[i] = fmt.Sprint(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readAll(r *csv.Reader) ([][]string, error) {
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %v: %w", err, ErrSourceUnreadable)
	}
	return rows, nil
}
