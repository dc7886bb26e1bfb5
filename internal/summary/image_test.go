package summary

import (
	"testing"
	"time"

	"smartcity/internal/store"

	"github.com/stretchr/testify/assert"
)

func TestFromComplaints(t *testing.T) {
	created := time.Date(2025, 8, 14, 10, 0, 0, 0, time.UTC)
	entries := FromComplaints([]store.EnrichedComplaint{
		{
			Complaint: store.Complaint{
				ID:        "c1",
				Title:     "Streetlight out",
				Status:    store.StatusAssigned,
				CreatedOn: &created,
			},
			WorkerID: "w2",
			UserName: "Sam",
		},
		{
			Complaint: store.Complaint{ID: "c2", Title: "Garbage pileup", Status: store.StatusNotAssigned},
			UserName:  "Unknown User",
		},
	})

	assert.Len(t, entries, 2)
	assert.Equal(t, "14 Aug 2025", entries[0].Created)
	assert.Equal(t, "w2", entries[0].Worker)
	assert.Equal(t, "Sam", entries[0].Citizen)
	assert.Empty(t, entries[1].Created)
	assert.Empty(t, entries[1].Worker)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))
	assert.Equal(t, "one two", truncate("one\ntwo", 40))

	long := "This is a very long complaint title that keeps going and going well past the cap"
	got := truncate(long, 40)
	assert.Equal(t, 41, len([]rune(got)))
	assert.Equal(t, "…", string([]rune(got)[40]))
}

func TestRenderDigestRejectsEmpty(t *testing.T) {
	_, err := RenderDigest(nil)
	assert.Error(t, err)
}
