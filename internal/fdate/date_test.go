package fdate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddDaysMatchesScenario8(t *testing.T) {
	d, err := New(2000, 1, 1)
	require.NoError(t, err)
	got := d.AddDays(10000)
	require.Equal(t, "2027-05-19", got.String())
	rendered, err := got.Format()
	require.NoError(t, err)
	require.Equal(t, "Wednesday, 19 May 2027", rendered)
}

func TestDiffDaysIsInverseOfAddDays(t *testing.T) {
	d, err := New(1999, 12, 31)
	require.NoError(t, err)
	later := d.AddDays(42)
	require.Equal(t, int64(42), later.DiffDays(d))
	require.Equal(t, int64(-42), d.DiffDays(later))
}

func TestWeekdayOfEpoch(t *testing.T) {
	d, err := New(1970, 1, 1)
	require.NoError(t, err)
	require.Equal(t, "Thursday", d.WeekdayName())
}

func TestFebruaryLeapDayValidation(t *testing.T) {
	_, err := New(2001, 2, 29)
	require.Error(t, err)
	_, err = New(2000, 2, 29)
	require.NoError(t, err)
}

func TestAddMonthsClampsShorterMonth(t *testing.T) {
	d, err := New(2024, 1, 31)
	require.NoError(t, err)
	got := d.AddMonths(1)
	require.Equal(t, "2024-02-29", got.String())
}

func TestAddYearsClampsFeb29(t *testing.T) {
	d, err := New(2024, 2, 29)
	require.NoError(t, err)
	got := d.AddYears(1)
	require.Equal(t, "2025-02-28", got.String())
}

func TestParseRoundTrips(t *testing.T) {
	d, err := Parse("2026-08-03")
	require.NoError(t, err)
	require.Equal(t, "2026-08-03", d.String())
}

func TestParseRejectsMalformed(t *testing.T) {
	_, err := Parse("not-a-date")
	require.Error(t, err)
}
