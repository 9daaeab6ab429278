package handlers

import (
	"testing"

	"github.com/Emmanuel1255/tok-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestFormatActivity(t *testing.T) {
	cases := []struct {
		name     string
		activity models.Activity
		want     string
	}{
		{
			name: "post created",
			activity: models.Activity{
				Type:     models.ActivityPostCreated,
				Metadata: models.ActivityMetadata{Title: "My First Post"},
			},
			want: `You created a new post "My First Post"`,
		},
		{
			name: "post updated",
			activity: models.Activity{
				Type:     models.ActivityPostUpdated,
				Metadata: models.ActivityMetadata{Title: "My First Post"},
			},
			want: `You updated your post "My First Post"`,
		},
		{
			name: "post deleted",
			activity: models.Activity{
				Type:     models.ActivityPostDeleted,
				Metadata: models.ActivityMetadata{Title: "Old Post"},
			},
			want: `You deleted post "Old Post"`,
		},
		{
			name: "comment added",
			activity: models.Activity{
				Type:     models.ActivityCommentAdded,
				Metadata: models.ActivityMetadata{PostTitle: "Hello World"},
			},
			want: `You commented on "Hello World"`,
		},
		{
			name: "comment received",
			activity: models.Activity{
				Type:     models.ActivityCommentReceived,
				Metadata: models.ActivityMetadata{PostTitle: "Hello World"},
			},
			want: `Someone commented on your post "Hello World"`,
		},
		{
			name: "like given",
			activity: models.Activity{
				Type:     models.ActivityLikeGiven,
				Metadata: models.ActivityMetadata{PostTitle: "Hello World"},
			},
			want: `You liked "Hello World"`,
		},
		{
			name: "like received",
			activity: models.Activity{
				Type:     models.ActivityLikeReceived,
				Metadata: models.ActivityMetadata{PostTitle: "Hello World"},
			},
			want: `Someone liked your post "Hello World"`,
		},
		{
			name:     "profile updated",
			activity: models.Activity{Type: models.ActivityProfileUpdated},
			want:     "You updated your profile",
		},
		{
			name:     "unknown kind falls back",
			activity: models.Activity{Type: "something_new"},
			want:     "Unknown activity",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatActivity(&tc.activity))
		})
	}
}
