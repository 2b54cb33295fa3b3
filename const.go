// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

package gosbas

const (
	PI         = 3.1415926535897932       // Pi
	C          = 2.99792458e8             // Speed of light [m/s]
	S1Freq     = 5.405e9                  // Sentinel-1 C-band center frequency [Hz]
	Wavelength = 5.5465763                // Sentinel-1 radar wavelength [cm]
	PhaseToCm  = Wavelength / (-4.0 * PI) // Unwrapped phase [rad] to line-of-sight deformation [cm]
	DayLayout  = "20060102"               // Date token layout in igram names (YYYYMMDD)
)

// Default file names inside an igram directory
const (
	GeolistName = "geolist"
	IntlistName = "intlist"
	RscName     = "dem.rsc"
	IntExt      = ".int"
	UnwExt      = ".unw"
)
