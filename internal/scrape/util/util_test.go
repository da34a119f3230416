package util

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Staff Engineer", CleanText("  Staff\n\tEngineer  "))
	assert.Equal(t, "a b", CleanText("a b"))
	assert.Equal(t, "", CleanText("   "))
}

func TestStripQuery(t *testing.T) {
	assert.Equal(t, "https://example.com/jobs/view/1",
		StripQuery("https://example.com/jobs/view/1?refId=abc&trk=guest"))
	assert.Equal(t, "https://example.com/jobs/view/1",
		StripQuery("https://example.com/jobs/view/1#apply"))
	assert.Equal(t, "https://example.com/jobs/view/1",
		StripQuery(" https://example.com/jobs/view/1 "))
}

func TestJobIDFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com/jobs/view/staff-engineer-at-example-co-4012345670?refId=x", "4012345670"},
		{"https://example.com/jobs/view/4012345671", "4012345671"},
		{"https://example.com/jobs/view/4012345672/", "4012345672"},
		{"https://example.com/jobs/view/not-a-number-abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JobIDFromURL(tt.in), "url=%s", tt.in)
	}
}

func TestPacerSpacesCalls(t *testing.T) {
	p := NewPacer(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Wait(ctx))
	}
	// first call is immediate, the next two wait one interval each
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestPacerZeroDelayDoesNotBlock(t *testing.T) {
	p := NewPacer(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, p.Wait(ctx))
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestPacerHonorsContext(t *testing.T) {
	p := NewPacer(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.NoError(t, p.Wait(ctx)) // first token is available immediately
	require.Error(t, p.Wait(ctx))
}
