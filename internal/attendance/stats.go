package attendance

// Status of a student for one class.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

// ValidStatus reports whether s names a known status.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// Missed-hours weights per status. Class duration is deliberately not
// used even though the times are available.
const (
	absentHours = 2.0
	lateHours   = 1.0
)

// StatRecord is one attendance record paired with its class times.
// Times are "15:04" strings, empty when the schedule row lacks them.
type StatRecord struct {
	Status    string
	StartTime string
	EndTime   string
}

// Stats are derived attendance statistics for one student. Never
// persisted; recomputed on demand.
type Stats struct {
	TotalClasses         int     `json:"total_classes"`
	PresentCount         int     `json:"present_count"`
	AbsentCount          int     `json:"absent_count"`
	LateCount            int     `json:"late_count"`
	ExcusedCount         int     `json:"excused_count"`
	PresentPercentage    float64 `json:"present_percentage"`
	AbsentPercentage     float64 `json:"absent_percentage"`
	LatePercentage       float64 `json:"late_percentage"`
	ExcusedPercentage    float64 `json:"excused_percentage"`
	AttendancePercentage float64 `json:"attendance_percentage"`
	MissedHours          float64 `json:"missed_hours"`
	ExcludedCount        int     `json:"excluded_count"`
}

// ComputeStats aggregates a student's records into statistics. Records
// whose status does not parse are excluded from the total and every
// counter, and reported in ExcludedCount. Present and excused both count
// toward the attendance percentage. Pure function: identical input yields
// identical output.
func ComputeStats(records []StatRecord) Stats {
	var st Stats
	for _, rec := range records {
		switch Status(rec.Status) {
		case StatusPresent:
			st.PresentCount++
		case StatusAbsent:
			st.AbsentCount++
			if rec.StartTime != "" && rec.EndTime != "" {
				st.MissedHours += absentHours
			}
		case StatusLate:
			st.LateCount++
			if rec.StartTime != "" && rec.EndTime != "" {
				st.MissedHours += lateHours
			}
		case StatusExcused:
			st.ExcusedCount++
		default:
			st.ExcludedCount++
			continue
		}
		st.TotalClasses++
	}

	if st.TotalClasses > 0 {
		total := float64(st.TotalClasses)
		st.PresentPercentage = float64(st.PresentCount) / total * 100
		st.AbsentPercentage = float64(st.AbsentCount) / total * 100
		st.LatePercentage = float64(st.LateCount) / total * 100
		st.ExcusedPercentage = float64(st.ExcusedCount) / total * 100
		st.AttendancePercentage = float64(st.PresentCount+st.ExcusedCount) / total * 100
	}
	return st
}
