// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

import (
	"fmt"
	"strconv"
	"strings"
)

// Pixel location (row, col) in image coordinates
type RefPixel struct {
	Row int
	Col int
}

// Read from string like "483 493" or "483,493"
func (p *RefPixel) Set(s string) error {
	f := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(f) != 2 {
		return fmt.Errorf("pixel must be given as \"row col\", got %q", s)
	}
	var err error
	p.Row, err = strconv.Atoi(f[0])
	if err != nil {
		return err
	}
	p.Col, err = strconv.Atoi(f[1])
	if err != nil {
		return err
	}
	return nil
}

// Convert to string
func (p *RefPixel) String() string {
	return fmt.Sprintf("%d %d", p.Row, p.Col)
}

// Check that the pixel lies inside a rows x cols image
func (p *RefPixel) Within(rows, cols int) bool {
	return 0 <= p.Row && p.Row < rows && 0 <= p.Col && p.Col < cols
}

// Error describing the pixel as a reference outside a rows x cols image
func (p *RefPixel) outOfBounds(rows, cols int) error {
	return &RefOutOfBoundsError{Row: p.Row, Col: p.Col, Rows: rows, Cols: cols}
}
