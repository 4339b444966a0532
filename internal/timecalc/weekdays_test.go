package timecalc_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/class-attendance/internal/timecalc"
)

func TestWeekdaysPolish(t *testing.T) {
	days := timecalc.NewWeekdays("pl_PL.UTF-8")

	tests := []struct {
		in   string
		want time.Weekday
	}{
		{"poniedziałek", time.Monday},
		{"Środa", time.Wednesday},
		{" NIEDZIELA ", time.Sunday},
		{"Friday", time.Friday},
		{"sat", time.Saturday},
	}
	for _, tt := range tests {
		got, err := days.Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	assert.Equal(t, "poniedziałek", days.Name(time.Monday))
	_, err := days.Parse("Montag")
	assert.Error(t, err)
}

func TestWeekdaysFallBackToEnglish(t *testing.T) {
	for _, locale := range []string{"", "C", "POSIX", "xx_YY", "en_US.UTF-8"} {
		days := timecalc.NewWeekdays(locale)
		assert.Equal(t, "Monday", days.Name(time.Monday), locale)
		wd, err := days.Parse("Tue")
		require.NoError(t, err, locale)
		assert.Equal(t, time.Tuesday, wd, locale)
	}
}

func TestWeekdaysNilIsEnglish(t *testing.T) {
	var days *timecalc.Weekdays
	assert.Equal(t, "Sunday", days.Name(time.Sunday))
	wd, err := days.Parse("thursday")
	require.NoError(t, err)
	assert.Equal(t, time.Thursday, wd)
}

func TestWeekdaysGerman(t *testing.T) {
	days := timecalc.NewWeekdays("de-AT")
	wd, err := days.Parse("Montag")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, wd)
	assert.Equal(t, "Montag", days.Name(time.Monday))
}
