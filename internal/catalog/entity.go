// AngelaMos | 2026
// entity.go

package catalog

import "time"

// Release lifecycle. Drafts are editable; submission moves a release
// into the distribution pipeline.
const (
	ReleaseDraft         = "draft"
	ReleasePendingReview = "pending_review"
	ReleaseApproved      = "approved"
	ReleaseDistributed   = "distributed"
	ReleaseRejected      = "rejected"
)

// validTransitions maps each status to the statuses it may move to.
var validTransitions = map[string][]string{
	ReleaseDraft:         {ReleasePendingReview},
	ReleasePendingReview: {ReleaseApproved, ReleaseRejected, ReleaseDraft},
	ReleaseApproved:      {ReleaseDistributed, ReleaseRejected},
	ReleaseRejected:      {ReleaseDraft},
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type Release struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	ArtistID    string     `db:"artist_id"`
	Title       string     `db:"title"`
	Genre       string     `db:"genre"`
	Status      string     `db:"status"`
	ReleaseDate *time.Time `db:"release_date"`
	CoverURL    *string    `db:"cover_url"`
	UPC         *string    `db:"upc"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

func (r *Release) IsEditable() bool {
	return r.Status == ReleaseDraft || r.Status == ReleaseRejected
}

type Track struct {
	ID              string     `db:"id"`
	ReleaseID       string     `db:"release_id"`
	Title           string     `db:"title"`
	Position        int        `db:"position"`
	DurationSeconds int        `db:"duration_seconds"`
	ISRC            *string    `db:"isrc"`
	FileURL         *string    `db:"file_url"`
	FileSize        int64      `db:"file_size"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}
