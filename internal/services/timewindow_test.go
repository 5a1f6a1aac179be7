package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// Friday 15 March 2024, 10:00.
var friday = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func day(d, h, m, s, ms int) time.Time {
	return time.Date(2024, 3, d, h, m, s, ms*int(time.Millisecond), time.UTC)
}

func TestResolveTimeWindow(t *testing.T) {
	tests := []struct {
		token TimeToken
		start time.Time
		end   time.Time
	}{
		{TimeToday, day(15, 0, 0, 0, 0), day(15, 23, 59, 59, 999)},
		{TimeTomorrow, day(16, 0, 0, 0, 0), day(16, 23, 59, 59, 999)},
		{TimeThisWeek, day(11, 0, 0, 0, 0), day(17, 23, 59, 59, 999)},
		{TimeNextWeek, day(18, 0, 0, 0, 0), day(24, 23, 59, 59, 999)},
	}
	for _, tt := range tests {
		t.Run(string(tt.token), func(t *testing.T) {
			w := ResolveTimeWindow(tt.token, friday)
			assert.Equal(t, tt.start, w.Start)
			assert.Equal(t, tt.end, w.End)
		})
	}
}

func TestResolveTimeWindow_SundayBelongsToPreviousWeek(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 22, 0, 0, 0, time.UTC)

	w := ResolveTimeWindow(TimeThisWeek, sunday)

	assert.Equal(t, day(11, 0, 0, 0, 0), w.Start)
	assert.Equal(t, day(17, 23, 59, 59, 999), w.End)
	assert.True(t, w.Contains(sunday))
}

func TestResolveTimeWindow_UsesCallerLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2024, 3, 15, 1, 0, 0, 0, loc)

	w := ResolveTimeWindow(TimeToday, now)

	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, loc), w.Start)
	assert.Equal(t, loc, w.Start.Location())
}

func TestResolveTimeWindows_SkipsUnknownAndDuplicates(t *testing.T) {
	windows := ResolveTimeWindows([]string{"today", "someday", "Today", " tomorrow "}, friday)

	require.Len(t, windows, 2)
	assert.Equal(t, TimeToday, windows[0].Token)
	assert.Equal(t, TimeTomorrow, windows[1].Token)

	assert.Empty(t, ResolveTimeWindows([]string{"yesterday"}, friday))
}

func TestBuildEventFilter_Empty(t *testing.T) {
	f, err := BuildEventFilter("", "", friday)
	require.NoError(t, err)
	assert.Equal(t, bson.M{}, f)
}

func TestBuildEventFilter_CategoriesOnly(t *testing.T) {
	f, err := BuildEventFilter("Football,tennis", "", friday)

	require.NoError(t, err)
	assert.Equal(t, bson.M{"category": bson.M{"$in": []string{"Football", "Tennis"}}}, f)
	assert.NotContains(t, f, "date")
}

func TestBuildEventFilter_TimesOnly(t *testing.T) {
	f, err := BuildEventFilter("", "today,tomorrow", friday)

	require.NoError(t, err)
	assert.Equal(t, bson.M{"$or": []bson.M{
		{"date": bson.M{"$gte": day(15, 0, 0, 0, 0), "$lte": day(15, 23, 59, 59, 999)}},
		{"date": bson.M{"$gte": day(16, 0, 0, 0, 0), "$lte": day(16, 23, 59, 59, 999)}},
	}}, f)
}

func TestBuildEventFilter_BothFacets(t *testing.T) {
	f, err := BuildEventFilter("Padel", "thisWeek", friday)

	require.NoError(t, err)
	facets, ok := f["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, facets, 2)
	assert.Equal(t, bson.M{"category": bson.M{"$in": []string{"Padel"}}}, facets[0])
	assert.Contains(t, facets[1], "$or")
}

func TestBuildEventFilter_OnlyUnknownTimesPlacesNoTimeRestriction(t *testing.T) {
	f, err := BuildEventFilter("", "someday", friday)
	require.NoError(t, err)
	assert.Equal(t, bson.M{}, f)
}

func TestBuildEventFilter_UnknownCategory(t *testing.T) {
	_, err := BuildEventFilter("Football,Curling", "", friday)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Curling")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b,"))
	assert.Nil(t, SplitList(""))
}
