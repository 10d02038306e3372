package attendance

import "testing"

func TestComputeStatsMixed(t *testing.T) {
	records := []StatRecord{
		{Status: "present", StartTime: "09:00", EndTime: "10:30"},
		{Status: "absent", StartTime: "09:00", EndTime: "10:30"},
		{Status: "late", StartTime: "11:00", EndTime: "12:30"},
		{Status: "excused", StartTime: "13:00", EndTime: "14:30"},
	}
	st := ComputeStats(records)

	if st.TotalClasses != 4 {
		t.Fatalf("TotalClasses = %d, want 4", st.TotalClasses)
	}
	if st.PresentCount != 1 || st.AbsentCount != 1 || st.LateCount != 1 || st.ExcusedCount != 1 {
		t.Fatalf("counts = %d/%d/%d/%d, want 1/1/1/1",
			st.PresentCount, st.AbsentCount, st.LateCount, st.ExcusedCount)
	}
	if st.PresentPercentage != 25 {
		t.Errorf("PresentPercentage = %v, want 25", st.PresentPercentage)
	}
	if st.AttendancePercentage != 50 {
		t.Errorf("AttendancePercentage = %v, want 50 (present + excused)", st.AttendancePercentage)
	}
	if st.MissedHours != 3.0 {
		t.Errorf("MissedHours = %v, want 3.0 (2.0 absent + 1.0 late)", st.MissedHours)
	}
	if st.ExcludedCount != 0 {
		t.Errorf("ExcludedCount = %d, want 0", st.ExcludedCount)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	st := ComputeStats(nil)
	if st.TotalClasses != 0 {
		t.Fatalf("TotalClasses = %d, want 0", st.TotalClasses)
	}
	if st.AttendancePercentage != 0 || st.PresentPercentage != 0 || st.MissedHours != 0 {
		t.Errorf("percentages should be zero for empty input, got %+v", st)
	}
}

func TestComputeStatsExcludesMalformed(t *testing.T) {
	records := []StatRecord{
		{Status: "present", StartTime: "09:00", EndTime: "10:30"},
		{Status: "sick", StartTime: "09:00", EndTime: "10:30"},
		{Status: "", StartTime: "09:00", EndTime: "10:30"},
	}
	st := ComputeStats(records)

	if st.TotalClasses != 1 {
		t.Fatalf("TotalClasses = %d, want 1", st.TotalClasses)
	}
	if st.ExcludedCount != 2 {
		t.Errorf("ExcludedCount = %d, want 2", st.ExcludedCount)
	}
	if st.PresentPercentage != 100 {
		t.Errorf("PresentPercentage = %v, want 100", st.PresentPercentage)
	}
}

func TestComputeStatsMissedHoursNeedTimes(t *testing.T) {
	records := []StatRecord{
		{Status: "absent"},                             // no times recorded
		{Status: "late", StartTime: "09:00"},           // end missing
		{Status: "absent", StartTime: "", EndTime: ""}, // both missing
	}
	st := ComputeStats(records)

	if st.MissedHours != 0 {
		t.Errorf("MissedHours = %v, want 0 when class times are missing", st.MissedHours)
	}
	if st.TotalClasses != 3 {
		t.Errorf("TotalClasses = %d, want 3 (missing times still count the class)", st.TotalClasses)
	}
}

func TestComputeStatsDeterministic(t *testing.T) {
	records := []StatRecord{
		{Status: "present", StartTime: "09:00", EndTime: "10:30"},
		{Status: "absent", StartTime: "09:00", EndTime: "10:30"},
	}
	first := ComputeStats(records)
	second := ComputeStats(records)
	if first != second {
		t.Errorf("ComputeStats not deterministic: %+v vs %+v", first, second)
	}
}
