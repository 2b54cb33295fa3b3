// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateParser extracts the acquisition date from one manifest entry.
// The inversion itself never looks at product names; only this hook does.
type DateParser func(name string) (time.Time, error)

//-------------------------------------------------------------------
// Sentinel-1
//-------------------------------------------------------------------

// Sentinel-1 product naming
// https://sentinel.esa.int/web/sentinel/user-guides/sentinel-1-sar/naming-conventions
//
//	MMM_BB_TTTR_LFPP_YYYYMMDDTHHMMSS_YYYYMMDDTHHMMSS_OOOOOO_DDDDDD_CCCC.EEEE
var sentinelRe = regexp.MustCompile(`(S1A|S1B)_([\w\d]{2})_([\w_]{3})([FHM_])_(\d)([SA])([SDHV]{2})_([T\d]{15})_([T\d]{15})_(\d{6})_([\d\w]{6})_([\d\w]{4})`)

const sentinelTimeLayout = "20060102T150405"

// Fields of a Sentinel-1 product name
type Sentinel struct {
	Name          string    // Name as given
	Mission       string    // S1A or S1B
	Beam          string    // Mode/beam identifier (IW, EW, WV, S1-S6)
	ProductType   string    // RAW, SLC, GRD, OCN
	Resolution    string    // F, H, M or _
	Level         int       // Processing level 0, 1, 2
	Class         string    // S (standard) or A (annotation)
	Polarization  string    // SH, SV, DH, DV
	Start         time.Time // Start of acquisition
	Stop          time.Time // Stop of acquisition
	AbsoluteOrbit int       // 1-999999
	DataTake      string    // Mission data-take identifier
	ProductID     string    // CRC-16 of the manifest
}

// Parse a Sentinel-1 product name (directory parts and extension are ignored)
func ParseSentinel(name string) (*Sentinel, error) {
	ms := sentinelRe.FindStringSubmatch(filepath.Base(name))
	if ms == nil {
		return nil, fmt.Errorf("invalid Sentinel filename: %s", name)
	}
	level, err := strconv.Atoi(ms[5])
	if err != nil {
		return nil, fmt.Errorf("invalid product level %q: %w", ms[5], err)
	}
	start, err := time.Parse(sentinelTimeLayout, ms[8])
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", ms[8], err)
	}
	stop, err := time.Parse(sentinelTimeLayout, ms[9])
	if err != nil {
		return nil, fmt.Errorf("invalid stop time %q: %w", ms[9], err)
	}
	orbit, err := strconv.Atoi(ms[10])
	if err != nil {
		return nil, fmt.Errorf("invalid orbit number %q: %w", ms[10], err)
	}
	return &Sentinel{
		Name:          name,
		Mission:       ms[1],
		Beam:          ms[2],
		ProductType:   strings.TrimRight(ms[3], "_"),
		Resolution:    ms[4],
		Level:         level,
		Class:         ms[6],
		Polarization:  ms[7],
		Start:         start,
		Stop:          stop,
		AbsoluteOrbit: orbit,
		DataTake:      ms[11],
		ProductID:     ms[12],
	}, nil
}

// Relative orbit (path) number derived from the absolute orbit
// https://forum.step.esa.int/t/sentinel-1-relative-orbit-from-filename/7042
func (s *Sentinel) RelativeOrbit() int {
	switch s.Mission {
	case "S1A":
		return ((s.AbsoluteOrbit - 73) % 175) + 1
	case "S1B":
		return ((s.AbsoluteOrbit - 27) % 175) + 1
	default:
		return 0
	}
}

// Acquisition date of a Sentinel-1 product name (date of the start time)
func SentinelDate(name string) (time.Time, error) {
	s, err := ParseSentinel(name)
	if err != nil {
		return time.Time{}, err
	}
	return TruncDate(s.Start), nil
}

//-------------------------------------------------------------------
// UAVSAR
//-------------------------------------------------------------------

// UAVSAR naming, e.g. Dthvly_34501_08038_006_080731_L090HH_XX_01.slc
// https://uavsar.jpl.nasa.gov/science/documents/polsar-format.html
var uavsarRe = regexp.MustCompile(`([\w\d]{6})_(\d{3})(\w+)_(\d{2})(\d{3})_(\d{3})_(\d{6})_(\w)(\d{3})(\w{0,4})_(XX|CX)_(\w{2})(_ML\dX\d)?`)

type Uavsar struct {
	Name         string
	Site         string    // Target site name
	Heading      int       // Flight heading [deg]
	Date         time.Time // Date of the flight
	Band         string    // Frequency band (L, P, ...)
	Polarization string    // "" for products without one
	Downsampling string    // "3X3", "5X5" or "" for full resolution
}

func ParseUavsar(name string) (*Uavsar, error) {
	ms := uavsarRe.FindStringSubmatch(filepath.Base(name))
	if ms == nil {
		return nil, fmt.Errorf("invalid Uavsar filename: %s", name)
	}
	heading, err := strconv.Atoi(ms[2])
	if err != nil {
		return nil, fmt.Errorf("invalid heading %q: %w", ms[2], err)
	}
	date, err := time.Parse("060102", ms[7])
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", ms[7], err)
	}
	return &Uavsar{
		Name:         name,
		Site:         ms[1],
		Heading:      heading,
		Date:         date,
		Band:         ms[8],
		Polarization: ms[10],
		Downsampling: strings.TrimPrefix(ms[13], "_ML"),
	}, nil
}

func UavsarDate(name string) (time.Time, error) {
	u, err := ParseUavsar(name)
	if err != nil {
		return time.Time{}, err
	}
	return u.Date, nil
}
