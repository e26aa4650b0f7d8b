package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayKeyUsesUTCDate(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	// 02:00 local on the 2nd is still the 1st in UTC
	ts := time.Date(2025, 3, 2, 2, 0, 0, 0, loc)

	assert.Equal(t, "2025-03-01-10.0.0.1", DayKey("10.0.0.1", ts))
}

func TestDayKeyChangesAtMidnight(t *testing.T) {
	before := time.Date(2025, 3, 1, 23, 59, 59, 0, time.UTC)
	after := before.Add(2 * time.Second)

	assert.NotEqual(t, DayKey("fp", before), DayKey("fp", after))
}

func TestParseSource(t *testing.T) {
	assert.Equal(t, SourceMobile, ParseSource("Mobile"))
	assert.Equal(t, SourceAPI, ParseSource(" api "))
	assert.Equal(t, SourceWebsite, ParseSource(""))
	assert.Equal(t, SourceWebsite, ParseSource("smart-fridge"))
}
