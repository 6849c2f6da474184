// AngelaMos | 2026
// entity_test.go

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionAllowed(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"draft submits for review", ReleaseDraft, ReleasePendingReview, true},
		{"draft cannot skip to distributed", ReleaseDraft, ReleaseDistributed, false},
		{"pending review approved", ReleasePendingReview, ReleaseApproved, true},
		{"pending review rejected", ReleasePendingReview, ReleaseRejected, true},
		{"pending review withdrawn", ReleasePendingReview, ReleaseDraft, true},
		{"approved distributed", ReleaseApproved, ReleaseDistributed, true},
		{"approved back to draft", ReleaseApproved, ReleaseDraft, false},
		{"rejected returns to draft", ReleaseRejected, ReleaseDraft, true},
		{"distributed is terminal", ReleaseDistributed, ReleaseDraft, false},
		{"unknown status goes nowhere", "bogus", ReleaseDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, transitionAllowed(tt.from, tt.to))
		})
	}
}

func TestReleaseIsEditable(t *testing.T) {
	assert.True(t, (&Release{Status: ReleaseDraft}).IsEditable())
	assert.True(t, (&Release{Status: ReleaseRejected}).IsEditable())
	assert.False(t, (&Release{Status: ReleasePendingReview}).IsEditable())
	assert.False(t, (&Release{Status: ReleaseApproved}).IsEditable())
	assert.False(t, (&Release{Status: ReleaseDistributed}).IsEditable())
}
