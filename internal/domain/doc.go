// Package domain models NOAA Space Weather Prediction Center (SWPC) telemetry
// and the alerting rules applied to it.
//
// # Data Sources
//
// Four public SWPC JSON feeds are polled, each reduced to its most recent
// usable value:
//
//	geomagnetic  planetary_k_index_1m.json                Kp index, 0-9
//	xray_flare   goes/primary/xrays-1-day.json            GOES X-ray flux, W/m^2, 0.1-0.8 nm band
//	proton_flux  goes/primary/integral-protons-1-day.json GOES integral protons, pfu, >=10 MeV
//	solar_wind   products/solar-wind/plasma-1-day.json    DSCOVR plasma, bulk speed km/s
//
// The GOES feeds interleave several energy bands in one array, so rows are
// filtered by their "energy" field before the latest row is taken. The
// plasma product is a table: the first row names the columns and the
// remaining rows hold string cells, some of which are null during data gaps.
//
// Time tags are UTC and appear both as "2024-01-15T12:00:00Z" and as
// "2024-01-15 12:00:00.000" depending on the product.
//
// # Severity Scales
//
// Labels follow the NOAA space weather scales where one exists:
//
//	Geomagnetic (G-scale by Kp):  Kp 5 Minor | 6 Moderate | 7 Strong | 8 Severe | 9 Extreme
//	X-ray flares (flare class):   >=1e-5 M | >=1e-4 X
//	Proton flux (S-scale, pfu):   >=10 S1 | >=100 S2 | >=1e3 S3 | >=1e4 S4 | >=1e5 S5
//	Solar wind:                   >=600 km/s Fast
//
// Solar wind has no NOAA scale; 600 km/s is the operational "high speed
// stream" threshold.
//
// # Alert Deduplication
//
// Each category carries an [AlertState] holding the last announced severity.
// A notification is due only when the newly classified severity differs from
// it, which covers escalation, de-escalation and the drop back to no severity.
// Identical severities across polls are never announced twice.
package domain
