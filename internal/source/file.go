// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gluectl/gluectl/internal/sales"
)

// FileSource reads order rows from a .csv (header row required) or .json
// (array of objects) file. Countries and product lines are derived from the
// rows.
type FileSource struct {
	Path string

	once   sync.Once
	orders []sales.Order
	err    error
}

func (s *FileSource) Orders(_ context.Context) ([]sales.Order, error) {
	s.once.Do(func() { s.orders, s.err = s.load() })
	return s.orders, s.err
}

func (s *FileSource) Countries(ctx context.Context) ([]string, error) {
	orders, err := s.Orders(ctx)
	if err != nil {
		return nil, err
	}
	return sales.CountriesOf(orders), nil
}

func (s *FileSource) ProductLines(ctx context.Context) ([]string, error) {
	orders, err := s.Orders(ctx)
	if err != nil {
		return nil, err
	}
	return sales.ProductLinesOf(orders), nil
}

func (s *FileSource) load() ([]sales.Order, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open orders file: %w", err)
	}
	defer f.Close()

	var recs []map[string]string
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".csv":
		recs, err = readCSV(f)
	case ".json":
		recs, err = readJSON(f)
	default:
		return nil, fmt.Errorf("unsupported orders file %s, want .csv or .json", s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	return decodeRows(recs)
}

func readCSV(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var recs []map[string]string
	for n := 1; ; n++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}
		rec := make(map[string]string, len(header))
		for i, h := range header {
			rec[h] = fields[i]
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func readJSON(r io.Reader) ([]map[string]string, error) {
	var raw []map[string]any
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	recs := make([]map[string]string, 0, len(raw))
	for _, obj := range raw {
		rec := make(map[string]string, len(obj))
		for k, v := range obj {
			switch t := v.(type) {
			case nil:
				rec[k] = ""
			case string:
				rec[k] = t
			case json.Number:
				rec[k] = t.String()
			default:
				rec[k] = fmt.Sprint(t)
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
