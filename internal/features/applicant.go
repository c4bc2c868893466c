package features

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// leadProviders is the fixed reference list of lead-generation partners
// whose names are searched for inside campaign strings. Order matters: the
// first match wins.
var leadProviders = []string{
	"MarketBullet",
	"StopNGo",
	"Nimbus",
	"EPCVIP",
	"PingBid",
	"LeapThry",
	"Acquir",
	"RoundSky",
	"Zero",
	"LeadPie",
	"ITMedia",
	"LeadsMarket",
	"freedom",
}

// LeadProvider extracts the lead-generation partner from a campaign string
// via case-insensitive substring match, returning the canonical casing from
// the reference list. Empty when no provider matches.
func LeadProvider(campaign string) string {
	c := strings.ToLower(campaign)
	for _, p := range leadProviders {
		if strings.Contains(c, strings.ToLower(p)) {
			// Historical data spells this one both ways.
			if strings.EqualFold(p, "Roundsky") {
				return "RoundSky"
			}
			return p
		}
	}
	return ""
}

// AgeYears is the applicant's age at origination, computed as the number of
// calendar year-ends (Dec 31) between date of birth and the origination
// date, inclusive. This is not the anniversary count: an applicant whose
// origination falls before their birthday still gets origination year minus
// birth year. The scoring models were trained on this definition, so it is
// preserved as-is.
func AgeYears(origination, dob civil.Date) int {
	if origination.Before(dob) {
		return 0
	}
	age := origination.Year - dob.Year
	if origination.Month == time.December && origination.Day == 31 {
		age++
	}
	return age
}
