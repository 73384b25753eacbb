package sessions

import (
	"math"
	"testing"

	"wallet-behavior-lab/internal/domain"
)

// at builds a timestamp on the given day at hour:minute UTC.
func at(day, hour, minute int) int64 {
	return int64(day*86400 + hour*3600 + minute*60)
}

func TestDetectSessions_Empty(t *testing.T) {
	s := DetectSessions(nil, 2)
	if s.SessionCount != 0 || s.AvgTradesPerSession != 0 {
		t.Errorf("expected zero stats, got %+v", s)
	}
}

func TestDetectSessions_SingleBurst(t *testing.T) {
	timestamps := []int64{at(0, 10, 0), at(0, 10, 10), at(0, 10, 20)}

	s := DetectSessions(timestamps, 2)

	if s.SessionCount != 1 {
		t.Fatalf("sessions = %d, want 1", s.SessionCount)
	}
	if s.AvgTradesPerSession != 3 {
		t.Errorf("avg trades = %v, want 3", s.AvgTradesPerSession)
	}
	if s.AverageSessionDurationMinutes != 20 {
		t.Errorf("avg duration = %v min, want 20", s.AverageSessionDurationMinutes)
	}
	if math.Abs(s.AverageSessionStartHour-10) > 1e-9 {
		t.Errorf("start hour = %v, want 10", s.AverageSessionStartHour)
	}
}

func TestDetectSessions_GapSplits(t *testing.T) {
	// 2h01m between the bursts exceeds the 2h gap threshold.
	timestamps := []int64{
		at(0, 9, 0), at(0, 9, 30),
		at(0, 11, 31), at(0, 11, 45),
	}

	s := DetectSessions(timestamps, 2)

	if s.SessionCount != 2 {
		t.Fatalf("sessions = %d, want 2", s.SessionCount)
	}
	if s.AvgTradesPerSession != 2 {
		t.Errorf("avg trades = %v, want 2", s.AvgTradesPerSession)
	}
	// Sessions of 30 and 14 minutes.
	if math.Abs(s.AverageSessionDurationMinutes-22) > 1e-9 {
		t.Errorf("avg duration = %v min, want 22", s.AverageSessionDurationMinutes)
	}
}

func TestDetectSessions_UnsortedInput(t *testing.T) {
	timestamps := []int64{at(0, 11, 31), at(0, 9, 0), at(0, 11, 45), at(0, 9, 30)}

	if s := DetectSessions(timestamps, 2); s.SessionCount != 2 {
		t.Errorf("sessions = %d, want 2", s.SessionCount)
	}
}

func TestDetectSessions_CircularStartHour(t *testing.T) {
	// Sessions starting at 23:00 and 01:00 average to midnight, not noon.
	timestamps := []int64{at(0, 23, 0), at(2, 1, 0)}

	s := DetectSessions(timestamps, 2)

	if s.SessionCount != 2 {
		t.Fatalf("sessions = %d, want 2", s.SessionCount)
	}
	hour := s.AverageSessionStartHour
	if hour > 12 {
		hour -= 24
	}
	if math.Abs(hour) > 1e-6 {
		t.Errorf("circular mean start hour = %v, want ~0", s.AverageSessionStartHour)
	}
}

func TestDetectWindows_Empty(t *testing.T) {
	p := DetectWindows(nil)
	if len(p.IdentifiedWindows) != 0 || p.ActivityFocusScore != 0 {
		t.Errorf("expected empty periods, got %+v", p)
	}
}

func TestDetectWindows_ConcentratedActivity(t *testing.T) {
	// 5 days of trading at hours 9-11, one stray trade at hour 20.
	var timestamps []int64
	for day := 0; day < 5; day++ {
		timestamps = append(timestamps, at(day, 9, 0), at(day, 10, 0), at(day, 11, 0))
	}
	timestamps = append(timestamps, at(0, 20, 0))

	p := DetectWindows(timestamps)

	if p.HourlyTradeCounts[9] != 5 || p.HourlyTradeCounts[20] != 1 {
		t.Fatalf("histogram wrong: %v", p.HourlyTradeCounts)
	}
	if len(p.IdentifiedWindows) != 1 {
		t.Fatalf("windows = %+v, want exactly 1", p.IdentifiedWindows)
	}

	w := p.IdentifiedWindows[0]
	if w.StartHourUTC != 9 || w.EndHourUTC != 11 || w.DurationHours != 3 {
		t.Errorf("window span = %+v, want 9-11", w)
	}
	if w.TradeCountInWindow != 15 {
		t.Errorf("window trades = %d, want 15", w.TradeCountInWindow)
	}
	if math.Abs(w.AvgTradesPerHourInWindow-5) > 1e-9 {
		t.Errorf("avg trades/hour = %v, want 5", w.AvgTradesPerHourInWindow)
	}
	if math.Abs(p.ActivityFocusScore-15.0/16) > 1e-9 {
		t.Errorf("focus = %v, want 15/16", p.ActivityFocusScore)
	}
}

func TestDetectWindows_MidnightWrap(t *testing.T) {
	var timestamps []int64
	for day := 0; day < 5; day++ {
		timestamps = append(timestamps, at(day, 23, 0), at(day, 0, 30))
	}

	p := DetectWindows(timestamps)

	if len(p.IdentifiedWindows) != 1 {
		t.Fatalf("windows = %+v, want 1 wrapped window", p.IdentifiedWindows)
	}
	w := p.IdentifiedWindows[0]
	if w.StartHourUTC != 23 || w.EndHourUTC != 0 || w.DurationHours != 2 {
		t.Errorf("wrapped window = %+v, want 23-0", w)
	}
	if w.TradeCountInWindow != 10 {
		t.Errorf("window trades = %d, want 10", w.TradeCountInWindow)
	}
}

func TestDetectWindows_PrunesShortLowShareWindows(t *testing.T) {
	// Hour counts: 3 at h2, 6 at h3, 3 at h4; 4 each at h10-12; 76 at h20.
	// The smoothed threshold lands at 4, making h3, h11 and h19-21 active.
	// The 1-hour h11 window carries only 4% of trades and is pruned; the
	// 1-hour h3 window carries 6% and survives.
	var timestamps []int64
	add := func(hour, n int) {
		for i := 0; i < n; i++ {
			timestamps = append(timestamps, at(i, hour, 0))
		}
	}
	add(2, 3)
	add(3, 6)
	add(4, 3)
	add(10, 4)
	add(11, 4)
	add(12, 4)
	add(20, 76)

	p := DetectWindows(timestamps)

	if len(p.IdentifiedWindows) != 2 {
		t.Fatalf("windows = %+v, want 2", p.IdentifiedWindows)
	}
	if p.IdentifiedWindows[0].StartHourUTC != 3 || p.IdentifiedWindows[0].EndHourUTC != 3 {
		t.Errorf("first window = %+v, want 3-3", p.IdentifiedWindows[0])
	}
	if p.IdentifiedWindows[1].StartHourUTC != 19 || p.IdentifiedWindows[1].EndHourUTC != 21 {
		t.Errorf("second window = %+v, want 19-21", p.IdentifiedWindows[1])
	}
	if math.Abs(p.ActivityFocusScore-0.82) > 1e-9 {
		t.Errorf("focus = %v, want 0.82", p.ActivityFocusScore)
	}
}

func TestBridge_MergesAcrossQuietHour(t *testing.T) {
	windows := []domain.IdentifiedTradingWindow{
		{StartHourUTC: 9, EndHourUTC: 10, DurationHours: 2},
		{StartHourUTC: 12, EndHourUTC: 13, DurationHours: 2},
	}
	var smoothed [24]float64
	smoothed[11] = 5 // half of threshold 8 is 4

	merged := bridge(windows, smoothed, 8)
	if len(merged) != 1 {
		t.Fatalf("expected merge, got %+v", merged)
	}
	if merged[0].StartHourUTC != 9 || merged[0].EndHourUTC != 13 || merged[0].DurationHours != 5 {
		t.Errorf("merged = %+v, want 9-13", merged[0])
	}
}

func TestBridge_KeepsSeparateWhenGapTooQuiet(t *testing.T) {
	windows := []domain.IdentifiedTradingWindow{
		{StartHourUTC: 9, EndHourUTC: 10, DurationHours: 2},
		{StartHourUTC: 12, EndHourUTC: 13, DurationHours: 2},
	}
	var smoothed [24]float64
	smoothed[11] = 3 // below half of threshold 8

	if merged := bridge(windows, smoothed, 8); len(merged) != 2 {
		t.Errorf("expected no merge, got %+v", merged)
	}
}

func TestBridge_AdjacentAcrossMidnight(t *testing.T) {
	windows := []domain.IdentifiedTradingWindow{
		{StartHourUTC: 0, EndHourUTC: 1, DurationHours: 2},
		{StartHourUTC: 22, EndHourUTC: 23, DurationHours: 2},
	}
	var smoothed [24]float64

	merged := bridge(windows, smoothed, 8)
	if len(merged) != 1 {
		t.Fatalf("expected wrap merge, got %+v", merged)
	}
	if merged[0].StartHourUTC != 22 || merged[0].EndHourUTC != 1 || merged[0].DurationHours != 4 {
		t.Errorf("merged = %+v, want 22-1", merged[0])
	}
}
