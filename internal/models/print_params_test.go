package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPaperSizeDimensions(t *testing.T) {
	cases := []struct {
		size   PaperSize
		width  int
		height int
	}{
		{PaperSizeA4, 210, 297},
		{PaperSizeA5, 148, 210},
		{PaperSizeLetter, 216, 279},
		{PaperSizeLegal, 216, 356},
	}
	for _, tc := range cases {
		w, h := tc.size.Dimensions()
		assert.Equal(t, tc.width, w, "%s width", tc.size)
		assert.Equal(t, tc.height, h, "%s height", tc.size)
	}
}

func TestPageDimensionsTransposeForLandscape(t *testing.T) {
	w, h := PaperSizeA4.PageDimensions(OrientationPortrait)
	assert.Equal(t, 210, w)
	assert.Equal(t, 297, h)

	w, h = PaperSizeA4.PageDimensions(OrientationLandscape)
	assert.Equal(t, 297, w)
	assert.Equal(t, 210, h)
}

func TestEnumValidity(t *testing.T) {
	for _, size := range AllPaperSizes() {
		assert.True(t, size.IsValid())
	}
	assert.False(t, PaperSize("A7").IsValid())
	assert.True(t, ColorModeColor.IsValid())
	assert.True(t, ColorModeMonochrome.IsValid())
	assert.False(t, ColorMode("SEPIA").IsValid())
	assert.True(t, OrientationPortrait.IsValid())
	assert.False(t, Orientation("DIAGONAL").IsValid())
}

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobStatusPending.Terminal())
	assert.True(t, JobStatusPrinted.Terminal())
	assert.True(t, JobStatusExpired.Terminal())
	assert.True(t, JobStatusLocked.Terminal())
}

func TestAttemptsRemainingNeverNegative(t *testing.T) {
	job := &PrintJob{Attempts: 5, MaxAttempts: 3}
	assert.Equal(t, 0, job.AttemptsRemaining())
}

func TestExpiredAt(t *testing.T) {
	now := time.Now().UTC()
	job := &PrintJob{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, job.ExpiredAt(now))
	assert.True(t, job.ExpiredAt(now.Add(2*time.Minute)))
}
