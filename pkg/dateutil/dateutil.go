package dateutil

import (
	"time"
)

// ChildDeductionAgeLimit is the age from which a child counts as 7 and over.
const ChildDeductionAgeLimit = 7

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// TaxReferenceDate is the date personal circumstances are assessed at: 31 December of the tax year.
func TaxReferenceDate(taxYear int) time.Time {
	return time.Date(taxYear, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// ChildAgeCounts partitions children into under 7 and 7-and-over at the given date.
// Children born after atDate are not counted.
func ChildAgeCounts(birthDates []time.Time, atDate time.Time) (under7, sevenAndOver int) {
	for _, b := range birthDates {
		if b.After(atDate) {
			continue
		}
		if Age(b, atDate) < ChildDeductionAgeLimit {
			under7++
		} else {
			sevenAndOver++
		}
	}
	return under7, sevenAndOver
}
