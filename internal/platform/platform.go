// Package platform identifies sequencing platforms from Illumina run
// directory names. Run directories follow the convention
// <YYMMDD>_<instrument>_<run-number>_<flowcell>, where the instrument token
// encodes the sequencer model.
package platform

import (
	"regexp"
	"strings"
)

// Platform is a sequencer platform identifier.
type Platform string

// Known platforms.
const (
	Unknown Platform = ""
	GA2x    Platform = "illumina-ga2x"
	HiSeq   Platform = "hiseq"
	MiSeq   Platform = "miseq"
	NextSeq Platform = "nextseq"
)

// runNamePattern matches canonical run directory names, e.g.
// 120919_SN7001250_0035_BC133VACXX. The flowcell field is optional on
// older GA2x runs.
var runNamePattern = regexp.MustCompile(`^\d{6}_([A-Za-z0-9-]+)_\d+(_[A-Za-z0-9-]+)?$`)

// LooksLikeRun reports whether name follows the run directory naming
// convention. Only the base name should be passed, not a full path.
func LooksLikeRun(name string) bool {
	return runNamePattern.MatchString(name)
}

// Identify returns the platform encoded in a run directory name, or Unknown
// if the name does not parse or the instrument token is unrecognized.
func Identify(name string) Platform {
	m := runNamePattern.FindStringSubmatch(name)
	if m == nil {
		return Unknown
	}
	instrument := m[1]

	switch {
	case strings.HasPrefix(instrument, "M"):
		return MiSeq
	case strings.HasPrefix(instrument, "NS"), strings.HasPrefix(instrument, "NB"):
		return NextSeq
	case strings.HasPrefix(instrument, "SN"),
		strings.HasPrefix(instrument, "D"),
		strings.HasPrefix(instrument, "K"):
		return HiSeq
	case strings.HasPrefix(instrument, "HWI"), allDigits(instrument):
		return GA2x
	default:
		return Unknown
	}
}

// DefaultDescription returns a description for a run directory name, e.g.
// "miseq run", or empty when the platform cannot be determined.
func DefaultDescription(name string) string {
	p := Identify(name)
	if p == Unknown {
		return ""
	}
	return string(p) + " run"
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
