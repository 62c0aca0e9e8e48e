package schedule

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	for _, in := range []string{"Monday", "monday", " MONDAY "} {
		d, err := ParseWeekday(in)
		require.NoError(t, err, in)
		assert.Equal(t, Monday, d)
	}

	_, err := ParseWeekday("Mon")
	assert.True(t, errors.Is(err, ErrInvalidWeekday))
	_, err = ParseWeekday("")
	assert.Error(t, err)
}

func TestWeekdayOrderAndJSON(t *testing.T) {
	assert.True(t, Monday < Tuesday && Saturday < Sunday)
	assert.False(t, Weekday(0).Valid())

	b, err := json.Marshal(struct {
		Day Weekday `json:"day"`
	}{Wednesday})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"Wednesday"}`, string(b))

	var out struct {
		Day Weekday `json:"day"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"day":"sunday"}`), &out))
	assert.Equal(t, Sunday, out.Day)
	assert.Error(t, json.Unmarshal([]byte(`{"day":"Someday"}`), &out))
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"09:00", MustClock(9, 0), false},
		{"9:00", MustClock(9, 0), false},
		{"23:59", MustClock(23, 59), false},
		{"00:00", 0, false},
		{"10:30:00", MustClock(10, 30), false},
		{"10:30:15", 0, true},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"1200", 0, true},
		{"9:5", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidClock))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockCanonicalForm(t *testing.T) {
	c, err := ParseClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", c.String())

	// zero padding keeps lexical and numeric order in agreement
	a, b := MustClock(9, 0), MustClock(10, 0)
	assert.Equal(t, a < b, a.String() < b.String())
}

func TestNewInterval(t *testing.T) {
	_, err := NewInterval(MustClock(10, 0), MustClock(10, 0))
	assert.True(t, errors.Is(err, ErrEmptyInterval))

	_, err = NewInterval(MustClock(11, 0), MustClock(10, 0))
	assert.True(t, errors.Is(err, ErrEmptyInterval))

	iv, err := NewInterval(MustClock(9, 0), MustClock(10, 30))
	require.NoError(t, err)
	assert.Equal(t, 90, iv.Duration())
	assert.Equal(t, "09:00-10:30", iv.String())
}

func TestIntervalOverlaps(t *testing.T) {
	iv := func(h1, m1, h2, m2 int) Interval {
		return Interval{Start: MustClock(h1, m1), End: MustClock(h2, m2)}
	}
	base := iv(9, 0, 10, 0)

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", iv(9, 0, 10, 0), true},
		{"overlaps end", iv(9, 30, 10, 30), true},
		{"overlaps start", iv(8, 30, 9, 30), true},
		{"contained", iv(9, 15, 9, 45), true},
		{"containing", iv(8, 0, 11, 0), true},
		{"back to back after", iv(10, 0, 11, 0), false},
		{"back to back before", iv(8, 0, 9, 0), false},
		{"disjoint", iv(13, 0, 14, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.Overlaps(tt.other))
			assert.Equal(t, tt.want, tt.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestFindConflict(t *testing.T) {
	slot := func(id, teacher int64, day Weekday, h1, h2 int) Slot {
		return Slot{ID: id, TeacherID: teacher, Day: day, Interval: Interval{Start: MustClock(h1, 0), End: MustClock(h2, 0)}}
	}
	existing := []Slot{
		slot(1, 7, Monday, 9, 10),
		slot(2, 8, Monday, 9, 10),
		slot(3, 7, Tuesday, 9, 10),
	}

	t.Run("same teacher same day overlapping", func(t *testing.T) {
		candidate := Slot{TeacherID: 7, Day: Monday, Interval: Interval{Start: MustClock(9, 30), End: MustClock(10, 30)}}
		got, ok := FindConflict(candidate, existing)
		require.True(t, ok)
		assert.Equal(t, int64(1), got.ID)
	})

	t.Run("adjacent slot is free", func(t *testing.T) {
		_, ok := FindConflict(slot(0, 7, Monday, 10, 11), existing)
		assert.False(t, ok)
	})

	t.Run("other teacher same time is free", func(t *testing.T) {
		_, ok := FindConflict(slot(0, 9, Monday, 9, 10), existing)
		assert.False(t, ok)
	})

	t.Run("entry never conflicts with itself", func(t *testing.T) {
		_, ok := FindConflict(slot(1, 7, Monday, 9, 10), existing)
		assert.False(t, ok)
	})

	t.Run("moving onto another entry conflicts", func(t *testing.T) {
		got, ok := FindConflict(slot(1, 7, Tuesday, 9, 10), existing)
		require.True(t, ok)
		assert.Equal(t, int64(3), got.ID)
	})
}

func TestSort(t *testing.T) {
	slots := []Slot{
		{ID: 4, Day: Sunday, Interval: Interval{Start: MustClock(8, 0), End: MustClock(9, 0)}},
		{ID: 3, Day: Monday, Interval: Interval{Start: MustClock(13, 0), End: MustClock(14, 0)}},
		{ID: 2, Day: Monday, Interval: Interval{Start: MustClock(9, 0), End: MustClock(10, 0)}},
		{ID: 1, Day: Wednesday, Interval: Interval{Start: MustClock(7, 0), End: MustClock(8, 0)}},
	}

	Sort(slots)

	var ids []int64
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int64{2, 3, 1, 4}, ids)
}
