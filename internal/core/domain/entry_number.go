package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	entryNumberPrefix    = "JE"
	entryNumberSeqDigits = 6
	maxEntryNumberSeq    = 999999
)

// ErrEntryNumberSequenceExhausted is returned once a year's six-digit sequence is used up.
var ErrEntryNumberSequenceExhausted = errors.New("entry number sequence exhausted")

// EntryNumberPrefix returns the prefix shared by every entry number of the given year, e.g. "JE2026".
func EntryNumberPrefix(year int) string {
	return fmt.Sprintf("%s%04d", entryNumberPrefix, year)
}

// FormatEntryNumber renders JE<year><6-digit seq>.
func FormatEntryNumber(year int, seq int) string {
	return fmt.Sprintf("%s%0*d", EntryNumberPrefix(year), entryNumberSeqDigits, seq)
}

// ParseEntryNumber splits an entry number back into its year and sequence.
func ParseEntryNumber(number string) (year int, seq int, err error) {
	if !strings.HasPrefix(number, entryNumberPrefix) || len(number) != len(entryNumberPrefix)+4+entryNumberSeqDigits {
		return 0, 0, fmt.Errorf("invalid entry number %q", number)
	}
	body := strings.TrimPrefix(number, entryNumberPrefix)
	year, err = strconv.Atoi(body[:4])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid entry number year in %q: %w", number, err)
	}
	seq, err = strconv.Atoi(body[4:])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid entry number sequence in %q: %w", number, err)
	}
	return year, seq, nil
}

// NextEntryNumber returns the number following last within year. An empty last starts the sequence at 1.
func NextEntryNumber(year int, last string) (string, error) {
	if last == "" {
		return FormatEntryNumber(year, 1), nil
	}
	lastYear, seq, err := ParseEntryNumber(last)
	if err != nil {
		return "", err
	}
	if lastYear != year {
		return FormatEntryNumber(year, 1), nil
	}
	if seq >= maxEntryNumberSeq {
		return "", fmt.Errorf("%w for %s", ErrEntryNumberSequenceExhausted, EntryNumberPrefix(year))
	}
	return FormatEntryNumber(year, seq+1), nil
}
