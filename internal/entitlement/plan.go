// AngelaMos | 2026
// plan.go

package entitlement

import (
	"fmt"
	"strings"
)

type Plan string

const (
	PlanFree          Plan = "free"
	PlanArtist        Plan = "artist"
	PlanArtistManager Plan = "artist_manager"
	PlanLabel         Plan = "label"
)

// DisplayName title-cases the plan tag for user-facing messages
// ("artist_manager" -> "Artist Manager").
func (p Plan) DisplayName() string {
	words := strings.Split(string(p), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanArtist, PlanArtistManager, PlanLabel:
		return true
	}
	return false
}

// Period is the reset window a plan's release/track ceilings are
// expressed in. No rollover accounting exists: usage is a live aggregate,
// so the period only affects how denials are worded.
type Period string

const (
	PeriodMonthly Period = "per month"
	PeriodYearly  Period = "per year"
)

type PlanDetails struct {
	Name                 string
	MaxArtists           Limit
	MaxReleasesPerPeriod Limit
	MaxTracksPerPeriod   Limit
	Period               Period
	MaxFileSize          int64
	MaxReleasesPending   Limit
	YearlyPriceINR       int
	Features             []string
}

const (
	megabyte = 1024 * 1024
	gigabyte = 1024 * megabyte
)

var planCatalog = map[Plan]PlanDetails{
	PlanFree: {
		Name:                 "Free Trial",
		MaxArtists:           1,
		MaxReleasesPerPeriod: 1,
		MaxTracksPerPeriod:   1,
		Period:               PeriodMonthly,
		MaxFileSize:          50 * megabyte,
		MaxReleasesPending:   1,
		YearlyPriceINR:       0,
		Features: []string{
			"1 primary artist",
			"1 release and 1 track per month",
			"Basic analytics",
			"7-day trial",
		},
	},
	PlanArtist: {
		Name:                 "Artist Plan",
		MaxArtists:           1,
		MaxReleasesPerPeriod: Unlimited,
		MaxTracksPerPeriod:   Unlimited,
		Period:               PeriodYearly,
		MaxFileSize:          200 * megabyte,
		MaxReleasesPending:   5,
		YearlyPriceINR:       999,
		Features: []string{
			"1 primary artist",
			"Unlimited releases and tracks per year",
			"Basic analytics",
			"Distribution management",
		},
	},
	PlanArtistManager: {
		Name:                 "Artist Manager Plan",
		MaxArtists:           10,
		MaxReleasesPerPeriod: Unlimited,
		MaxTracksPerPeriod:   Unlimited,
		Period:               PeriodYearly,
		MaxFileSize:          500 * megabyte,
		MaxReleasesPending:   20,
		YearlyPriceINR:       2499,
		Features: []string{
			"Up to 10 primary artists",
			"Unlimited releases and tracks per year",
			"Artist management",
			"Content approval",
			"Analytics access",
		},
	},
	PlanLabel: {
		Name:                 "Label Plan",
		MaxArtists:           Unlimited,
		MaxReleasesPerPeriod: Unlimited,
		MaxTracksPerPeriod:   Unlimited,
		Period:               PeriodYearly,
		MaxFileSize:          2 * gigabyte,
		MaxReleasesPending:   Unlimited,
		YearlyPriceINR:       6000,
		Features: []string{
			"Unlimited primary artists",
			"Unlimited releases and tracks per year",
			"Manage sub-labels",
			"Team management",
			"Advanced royalty splits",
			"Priority support",
		},
	},
}

// PlanFor returns the catalog entry for a plan. Unrecognized plans fall
// back to the free tier.
func PlanFor(plan Plan) PlanDetails {
	if details, ok := planCatalog[plan]; ok {
		return details
	}
	return planCatalog[PlanFree]
}

// Plans returns the catalog in ascending tier order.
func Plans() []Plan {
	return []Plan{PlanFree, PlanArtist, PlanArtistManager, PlanLabel}
}

type Feature string

const (
	FeatureArtists  Feature = "artists"
	FeatureReleases Feature = "releases"
	FeatureTracks   Feature = "tracks"
	FeatureFileSize Feature = "fileSize"
)

type UpgradeOption struct {
	Plan   string `json:"plan"`
	Price  int    `json:"price"`
	Limit  any    `json:"limit"`
	Period string `json:"period"`
}

// tierRank orders roles on the upgrade ladder. Roles not on the ladder
// (admin, team_member) rank below everything so they see every plan.
var tierRank = map[Role]int{
	RoleArtist:        1,
	RoleArtistManager: 2,
	RoleLabel:         3,
}

// UpgradeOptions lists the paid plans strictly above the subject's
// current tier, with the ceiling relevant to the feature that was denied.
// A label sees no options; an artist_manager sees only the label plan.
func UpgradeOptions(role Role, feature Feature) []UpgradeOption {
	currentRank := tierRank[role]

	options := make([]UpgradeOption, 0, 3)
	for _, plan := range []Plan{PlanArtist, PlanArtistManager, PlanLabel} {
		if tierRank[Role(plan)] <= currentRank {
			continue
		}

		details := planCatalog[plan]
		options = append(options, UpgradeOption{
			Plan:   details.Name,
			Price:  details.YearlyPriceINR,
			Limit:  featureLimitDisplay(details, feature),
			Period: string(PeriodYearly),
		})
	}

	return options
}

func featureLimitDisplay(details PlanDetails, feature Feature) any {
	switch feature {
	case FeatureArtists:
		return details.MaxArtists
	case FeatureReleases:
		return details.MaxReleasesPerPeriod
	case FeatureTracks:
		return details.MaxTracksPerPeriod
	case FeatureFileSize:
		return FormatFileSize(details.MaxFileSize)
	}
	return Unlimited
}

// FormatFileSize renders a byte ceiling the way plan marketing copy does.
func FormatFileSize(bytes int64) string {
	if bytes >= gigabyte {
		return fmt.Sprintf("%dGB", bytes/gigabyte)
	}
	return fmt.Sprintf("%dMB", bytes/megabyte)
}
