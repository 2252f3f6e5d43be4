// Package domain models volunteer-submitted methane leak observations.
//
// # Data Source
//
// Observations originate from a Google Form backed by a Google Sheet. Each
// form response is one row with free-text fields filled in by a volunteer in
// the field: coordinates copied from a phone's map app, a Google Drive photo
// share-link, a methane reading off a handheld detector, the volunteer's
// initials, and the form's submission timestamp.
//
// # Field Conventions
//
// Coordinate format:
//
//	"<lat>, <lon>" with optional enclosing parentheses, degree marks, and
//	hemisphere letters, e.g. "(44.5° N, 70.2° W)" or "44.31,-69.78".
//	A hemisphere letter is authoritative: 'S' forces latitude negative and
//	'W' forces longitude negative regardless of any numeric sign. Without a
//	letter, the numeric sign stands. Strings outside this grammar leave the
//	row without geolocation; the row is never dropped for it.
//
// Methane readings:
//
//	Handheld detectors report percent of the Lower Explosive Limit (LEL).
//	100% LEL for methane is 50,000 ppm, so readings are stored as
//	ppm = lel * 500. A converted level above zero classifies the row as a
//	leak; the leak flag is never set independently of the level.
//
// Timestamp format:
//
//	MM/DD/YYYY HH:MM:SS as emitted by the form, canonicalized to
//	YYYY-MM-DD HH:MM:SS. The timestamp is the natural idempotency key: two
//	submissions cannot share one. Unparseable timestamps are stored as NULL.
//
// Photo share-links:
//
//	Google Drive links of the form "...?id=<token>". The token after the
//	first '=' is the stable photo identifier, so the same link always
//	resolves to the same identifier and a photo is downloaded at most once.
package domain
