package features

import (
	"testing"

	"cloud.google.com/go/civil"
)

func TestLeadProvider(t *testing.T) {
	tests := []struct {
		campaign string
		want     string
	}{
		{"Q3-EPCVIP-email-blast", "EPCVIP"},
		{"roundsky_display_17", "RoundSky"},
		{"Freedom-organic", "freedom"},
		{"direct traffic", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := LeadProvider(tc.campaign); got != tc.want {
			t.Errorf("LeadProvider(%q) = %q, want %q", tc.campaign, got, tc.want)
		}
	}
}

func TestAgeYears(t *testing.T) {
	tests := []struct {
		name        string
		dob         civil.Date
		origination civil.Date
		want        int
	}{
		// Year-end counting: origination before the birthday does not
		// lower the age.
		{"before birthday", civil.Date{Year: 1990, Month: 6, Day: 15}, civil.Date{Year: 2020, Month: 6, Day: 14}, 30},
		{"on birthday", civil.Date{Year: 1990, Month: 6, Day: 15}, civil.Date{Year: 2020, Month: 6, Day: 15}, 30},
		{"after birthday", civil.Date{Year: 1990, Month: 6, Day: 15}, civil.Date{Year: 2020, Month: 6, Day: 16}, 30},
		{"early-year origination", civil.Date{Year: 1985, Month: 6, Day: 15}, civil.Date{Year: 2021, Month: 1, Day: 10}, 36},
		{"same year", civil.Date{Year: 1990, Month: 6, Day: 15}, civil.Date{Year: 1990, Month: 7, Day: 1}, 0},
		{"origination before dob", civil.Date{Year: 1990, Month: 6, Day: 15}, civil.Date{Year: 1989, Month: 1, Day: 1}, 0},
		// An origination on Dec 31 includes that year-end in the count.
		{"year-end origination", civil.Date{Year: 1990, Month: 6, Day: 15}, civil.Date{Year: 2020, Month: 12, Day: 31}, 31},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AgeYears(tc.origination, tc.dob); got != tc.want {
				t.Errorf("AgeYears(%v, %v) = %d, want %d", tc.origination, tc.dob, got, tc.want)
			}
		})
	}
}
