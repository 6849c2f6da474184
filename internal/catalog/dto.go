// AngelaMos | 2026
// dto.go

package catalog

import "time"

type ListReleasesParams struct {
	Page     int
	PageSize int
	UserID   string
	ArtistID string
	Status   string
}

func (p *ListReleasesParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListReleasesParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type CreateTrackRequest struct {
	Title           string  `json:"title" validate:"required,min=1,max=200"`
	Position        int     `json:"position" validate:"min=0"`
	DurationSeconds int     `json:"durationSeconds" validate:"min=0"`
	ISRC            *string `json:"isrc"`
	FileURL         *string `json:"fileUrl"`
	FileSize        int64   `json:"fileSize" validate:"min=0"`
}

type CreateReleaseRequest struct {
	ArtistID    string               `json:"artistId" validate:"required,uuid"`
	Title       string               `json:"title" validate:"required,min=1,max=200"`
	Genre       string               `json:"genre" validate:"required,min=1,max=100"`
	ReleaseDate *time.Time           `json:"releaseDate"`
	CoverURL    *string              `json:"coverUrl"`
	UPC         *string              `json:"upc"`
	Tracks      []CreateTrackRequest `json:"tracks" validate:"dive"`
}

type UpdateReleaseRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Genre       string     `json:"genre" validate:"required,min=1,max=100"`
	ReleaseDate *time.Time `json:"releaseDate"`
	CoverURL    *string    `json:"coverUrl"`
}

type TrackResponse struct {
	ID              string  `json:"id"`
	ReleaseID       string  `json:"releaseId"`
	Title           string  `json:"title"`
	Position        int     `json:"position"`
	DurationSeconds int     `json:"durationSeconds"`
	ISRC            *string `json:"isrc,omitempty"`
	FileURL         *string `json:"fileUrl,omitempty"`
	FileSize        int64   `json:"fileSize"`
}

func toTrackResponse(t *Track) TrackResponse {
	return TrackResponse{
		ID:              t.ID,
		ReleaseID:       t.ReleaseID,
		Title:           t.Title,
		Position:        t.Position,
		DurationSeconds: t.DurationSeconds,
		ISRC:            t.ISRC,
		FileURL:         t.FileURL,
		FileSize:        t.FileSize,
	}
}

type ReleaseResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	ArtistID    string          `json:"artistId"`
	Title       string          `json:"title"`
	Genre       string          `json:"genre"`
	Status      string          `json:"status"`
	ReleaseDate *time.Time      `json:"releaseDate,omitempty"`
	CoverURL    *string         `json:"coverUrl,omitempty"`
	UPC         *string         `json:"upc,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	Tracks      []TrackResponse `json:"tracks,omitempty"`
}

func toReleaseResponse(r *Release) ReleaseResponse {
	return ReleaseResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		ArtistID:    r.ArtistID,
		Title:       r.Title,
		Genre:       r.Genre,
		Status:      r.Status,
		ReleaseDate: r.ReleaseDate,
		CoverURL:    r.CoverURL,
		UPC:         r.UPC,
		CreatedAt:   r.CreatedAt,
	}
}
