package core

import "time"

// Demographic brackets used by the members report. Ages below 6 fall into no
// bracket and are counted only in the active total.
const (
	Bracket6to9   = "6-9"
	Bracket10to12 = "10-12"
	Bracket13to15 = "13-15"
	Bracket16up   = "16+"
)

// ComputeAge returns the whole calendar years elapsed between birth and
// today, one less if the birthday has not yet occurred this year.
func ComputeAge(birth, today time.Time) int {
	age := today.Year() - birth.Year()
	if (int(today.Month()) < int(birth.Month())) ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	return age
}

// AgeBracket maps an age to its demographic bracket. The second return is
// false for ages outside every bracket (under 6).
func AgeBracket(age int) (string, bool) {
	switch {
	case age >= 16:
		return Bracket16up, true
	case age >= 13:
		return Bracket13to15, true
	case age >= 10:
		return Bracket10to12, true
	case age >= 6:
		return Bracket6to9, true
	}
	return "", false
}
