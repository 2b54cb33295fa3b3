// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

// Igram date pair. Early is the earlier acquisition, Late the later one.
type Pair struct {
	Early time.Time
	Late  time.Time
}

func (p Pair) String() string {
	return p.Early.Format(DayLayout) + "_" + p.Late.Format(DayLayout)
}

// Days spanned by the igram
func (p Pair) Days() int {
	return DaysBetween(p.Early, p.Late)
}

// Read non-empty lines with their 1-based line numbers
func readLines(r io.Reader) (lines []string, nums []int, err error) {
	s := bufio.NewScanner(r)
	n := 0
	for s.Scan() {
		n++
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
		nums = append(nums, n)
	}
	if err := s.Err(); err != nil {
		return nil, nil, err
	}
	return lines, nums, nil
}

// Read the acquisition list (geolist).
// Each line names one acquisition; parse extracts its date from the base name.
// The result is de-duplicated and sorted in ascending order.
func ReadDates(r io.Reader, parse DateParser) ([]time.Time, error) {
	return readDates(r, "", parse)
}

func ReadDatesFile(fn string, parse DateParser) ([]time.Time, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readDates(f, fn, parse)
}

func readDates(r io.Reader, src string, parse DateParser) ([]time.Time, error) {
	if parse == nil {
		parse = SentinelDate
	}
	lines, nums, err := readLines(r)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, 0, len(lines))
	for i, line := range lines {
		d, err := parse(filepath.Base(line))
		if err != nil {
			return nil, &ParseError{Source: src, Line: nums[i], Value: line, Err: err}
		}
		dates = append(dates, TruncDate(d))
	}
	slices.SortFunc(dates, func(a, b time.Time) int {
		return a.Compare(b)
	})
	dates = slices.CompactFunc(dates, func(a, b time.Time) bool {
		return a.Equal(b)
	})
	return dates, nil
}

// Parse an igram name such as "20180420_20180502.int" into its date pair
func ParsePair(name string) (Pair, error) {
	base := filepath.Base(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	f := strings.Split(stem, "_")
	if len(f) != 2 || len(f[0]) != 8 || len(f[1]) != 8 {
		return Pair{}, fmt.Errorf("igram name must be YYYYMMDD_YYYYMMDD, got %q", stem)
	}
	early, err := ParseCompactDate(f[0])
	if err != nil {
		return Pair{}, err
	}
	late, err := ParseCompactDate(f[1])
	if err != nil {
		return Pair{}, err
	}
	if !early.Before(late) {
		return Pair{}, fmt.Errorf("early date %s is not before late date %s", f[0], f[1])
	}
	return Pair{Early: early, Late: late}, nil
}

// Read the igram list (intlist) as date pairs, in file order
func ReadPairs(r io.Reader) ([]Pair, error) {
	return readPairs(r, "")
}

func ReadPairsFile(fn string) ([]Pair, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readPairs(f, fn)
}

func readPairs(r io.Reader, src string) ([]Pair, error) {
	lines, nums, err := readLines(r)
	if err != nil {
		return nil, err
	}
	pairs := make([]Pair, 0, len(lines))
	for i, line := range lines {
		p, err := ParsePair(line)
		if err != nil {
			return nil, &ParseError{Source: src, Line: nums[i], Value: line, Err: err}
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

// Read the igram list (intlist) as file paths joined with the list's directory.
// Names are returned unchanged otherwise, in file order.
func ReadIgramPaths(fn string) ([]string, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lines, _, err := readLines(f)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(fn)
	paths := make([]string, len(lines))
	for i, line := range lines {
		paths[i] = filepath.Join(dir, line)
	}
	return paths, nil
}

// Path of the unwrapped phase file that belongs to an igram file
func UnwPath(igramPath, unwExt string) string {
	return strings.TrimSuffix(igramPath, filepath.Ext(igramPath)) + unwExt
}
