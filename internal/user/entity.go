// AngelaMos | 2026
// entity.go

package user

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carterperez-dev/soundline/internal/entitlement"
)

// PermissionMap stores the per-user permission overrides as JSONB.
type PermissionMap map[string]bool

func (p PermissionMap) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal permissions: %w", err)
	}
	return string(data), nil
}

func (p *PermissionMap) Scan(src any) error {
	if src == nil {
		*p = PermissionMap{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan permissions: unexpected type %T", src)
	}

	return json.Unmarshal(data, p)
}

type User struct {
	ID           string        `db:"id"`
	Email        string        `db:"email"`
	PasswordHash string        `db:"password_hash"`
	Name         string        `db:"name"`
	Role         string        `db:"role"`
	Status       string        `db:"status"`
	ParentID     *string       `db:"parent_id"`
	Permissions  PermissionMap `db:"permissions"`

	SubscriptionPlan      string     `db:"subscription_plan"`
	SubscriptionStatus    string     `db:"subscription_status"`
	SubscriptionStartDate *time.Time `db:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `db:"subscription_end_date"`

	// Negotiated overrides; NULL means the plan default applies.
	MaxArtistsOverride  *int64 `db:"max_artists_override"`
	MaxFileSizeOverride *int64 `db:"max_file_size_override"`
	MaxPendingOverride  *int64 `db:"max_pending_override"`

	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsAdmin() bool {
	return u.Role == string(entitlement.RoleAdmin)
}

// ToSubject reduces the row to the fields access decisions read.
func (u *User) ToSubject() *entitlement.Subject {
	return &entitlement.Subject{
		ID:          u.ID,
		Role:        entitlement.Role(u.Role),
		Status:      entitlement.Status(u.Status),
		ParentID:    u.ParentID,
		Permissions: u.Permissions,
		Subscription: entitlement.SubscriptionState{
			Plan:               entitlement.Plan(u.SubscriptionPlan),
			Status:             u.SubscriptionStatus,
			StartDate:          u.SubscriptionStartDate,
			EndDate:            u.SubscriptionEndDate,
			MaxArtists:         u.MaxArtistsOverride,
			MaxFileSize:        u.MaxFileSizeOverride,
			MaxReleasesPending: u.MaxPendingOverride,
		},
	}
}

// Artist is a primary artist profile managed by an account. The count of
// these rows is what the artist quota is checked against.
type Artist struct {
	ID         string     `db:"id"`
	UserID     string     `db:"user_id"`
	Name       string     `db:"name"`
	LegalName  string     `db:"legal_name"`
	SpotifyID  *string    `db:"spotify_id"`
	AppleMusic *string    `db:"apple_music_id"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at"`
}
