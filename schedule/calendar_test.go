package schedule_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/contract-engine/schedule"
)

func testAdjuster() *schedule.Adjuster {
	return schedule.NewAdjuster(schedule.DefaultCalendars())
}

// =============================================================================
// CONVENTION PARSING
// =============================================================================

func TestParseConvention_KnownNames(t *testing.T) {
	cases := map[string]schedule.BusinessDayConvention{
		"":                   schedule.ConventionNone,
		"NONE":               schedule.ConventionNone,
		"following":          schedule.ConventionFollowing,
		"PRECEDING":          schedule.ConventionPreceding,
		"MODIFIED_FOLLOWING": schedule.ConventionModifiedFollowing,
		"ModifiedFollowing":  schedule.ConventionModifiedFollowing,
	}
	for name, want := range cases {
		got, err := schedule.ParseConvention(name)
		if err != nil {
			t.Fatalf("ParseConvention(%q): unexpected error %v", name, err)
		}
		if got != want {
			t.Errorf("ParseConvention(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestParseConvention_UnknownNameFails(t *testing.T) {
	_, err := schedule.ParseConvention("HALF_MONTH_WRAP")
	if !errors.Is(err, schedule.ErrUnsupportedConvention) {
		t.Errorf("got %v, want ErrUnsupportedConvention", err)
	}
}

// =============================================================================
// ADJUSTMENT
// =============================================================================

func TestAdjust_NoneIsIdentity(t *testing.T) {
	a := testAdjuster()
	saturday := schedule.NewTimePoint(2025, time.March, 1)
	if got := a.Adjust(saturday, schedule.ConventionNone, "TARGET"); !got.Equal(saturday) {
		t.Errorf("None adjusted %s to %s", saturday, got)
	}
}

func TestAdjust_FollowingSkipsWeekendAndHoliday(t *testing.T) {
	// GIVEN: 2025-05-01 (Thursday, TARGET holiday)
	// WHEN: adjusting with Following on TARGET
	// THEN: the result is Friday 2025-05-02

	a := testAdjuster()
	mayday := schedule.NewTimePoint(2025, time.May, 1)
	got := a.Adjust(mayday, schedule.ConventionFollowing, "TARGET")
	if got.String() != "2025-05-02" {
		t.Errorf("Following(2025-05-01, TARGET) = %s, want 2025-05-02", got)
	}

	// Saturday rolls through the weekend.
	saturday := schedule.NewTimePoint(2025, time.March, 1)
	got = a.Adjust(saturday, schedule.ConventionFollowing, "TARGET")
	if got.String() != "2025-03-03" {
		t.Errorf("Following(2025-03-01) = %s, want 2025-03-03", got)
	}
}

func TestAdjust_PrecedingStepsBackward(t *testing.T) {
	a := testAdjuster()
	sunday := schedule.NewTimePoint(2025, time.March, 2)
	got := a.Adjust(sunday, schedule.ConventionPreceding, "TARGET")
	if got.String() != "2025-02-28" {
		t.Errorf("Preceding(2025-03-02) = %s, want 2025-02-28", got)
	}
}

func TestAdjust_ModifiedFollowingNeverCrossesMonth(t *testing.T) {
	// GIVEN: 2025-08-31 (Sunday, last day of August)
	// WHEN: adjusting with ModifiedFollowing
	// THEN: Following would land on September 1, so the adjuster falls
	// back to Preceding from the original date and stays in August

	a := testAdjuster()
	monthEnd := schedule.NewTimePoint(2025, time.August, 31)
	got := a.Adjust(monthEnd, schedule.ConventionModifiedFollowing, "TARGET")
	if got.String() != "2025-08-29" {
		t.Errorf("ModifiedFollowing(2025-08-31) = %s, want 2025-08-29", got)
	}
	if got.Month() != monthEnd.Month() {
		t.Errorf("ModifiedFollowing crossed the month boundary: %s", got)
	}

	// Mid-month weekend behaves exactly like Following.
	saturday := schedule.NewTimePoint(2025, time.March, 15)
	got = a.Adjust(saturday, schedule.ConventionModifiedFollowing, "TARGET")
	if got.String() != "2025-03-17" {
		t.Errorf("ModifiedFollowing(2025-03-15) = %s, want 2025-03-17", got)
	}
}

func TestAdjust_UnknownCalendarHasNoHolidays(t *testing.T) {
	// GIVEN: a weekday that is a TARGET holiday
	// WHEN: adjusting against an unknown calendar name
	// THEN: the date is already a business day and stays put

	a := testAdjuster()
	mayday := schedule.NewTimePoint(2025, time.May, 1)
	if got := a.Adjust(mayday, schedule.ConventionFollowing, "MARS"); !got.Equal(mayday) {
		t.Errorf("unknown calendar adjusted %s to %s", mayday, got)
	}
	if got := a.Adjust(mayday, schedule.ConventionFollowing, ""); !got.Equal(mayday) {
		t.Errorf("empty calendar adjusted %s to %s", mayday, got)
	}
}

func TestCalendarSet_LoadCalendarIsStub(t *testing.T) {
	cs := schedule.DefaultCalendars()
	if err := cs.LoadCalendar("holidays.csv"); !errors.Is(err, schedule.ErrCalendarSourceUnsupported) {
		t.Errorf("LoadCalendar: got %v, want ErrCalendarSourceUnsupported", err)
	}
}

func TestCalendarSet_InjectedCalendars(t *testing.T) {
	// GIVEN: a custom calendar set injected at construction
	// THEN: the adjuster honors it independently of the defaults

	cs := schedule.NewCalendarSet(map[string][]schedule.TimePoint{
		"HOUSE": {schedule.NewTimePoint(2025, time.June, 2)}, // a Monday
	})
	a := schedule.NewAdjuster(cs)

	got := a.Adjust(schedule.NewTimePoint(2025, time.June, 2), schedule.ConventionFollowing, "HOUSE")
	if got.String() != "2025-06-03" {
		t.Errorf("custom holiday not honored: got %s, want 2025-06-03", got)
	}
}
