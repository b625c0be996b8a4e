// Package eligibility implements the age-based admission check that runs
// before any biometric capture is started.
package eligibility

import "time"

// VotingAge is the minimum age in completed years.
const VotingAge = 18

// DateLayout is the accepted birthdate format.
const DateLayout = "2006-01-02"

// IsEligible reports whether a person born on birthdate (YYYY-MM-DD) is old
// enough to vote as of the given date. An unparseable birthdate fails closed.
func IsEligible(birthdate string, asOf time.Time) bool {
	born, err := time.Parse(DateLayout, birthdate)
	if err != nil {
		return false
	}
	return Age(born, asOf) >= VotingAge
}

// Age returns completed years between born and asOf: the year difference,
// minus one if the birthday has not yet occurred in the asOf year.
func Age(born, asOf time.Time) int {
	age := asOf.Year() - born.Year()
	if asOf.Month() < born.Month() ||
		(asOf.Month() == born.Month() && asOf.Day() < born.Day()) {
		age--
	}
	return age
}
