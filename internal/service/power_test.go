package service

import (
	"math"
	"testing"
	"time"

	"homewatt/internal/domain"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSummarize_SingleDaySingleBreaker(t *testing.T) {
	// Three samples on one day with powers 1000, 2000, 3000 arrive grouped.
	rows := []domain.DailyUsage{{
		Date:       "2025-06-01",
		BreakerID:  1,
		AvgPower:   2000,
		TotalPower: 6000,
		AvgVoltage: 230,
		AvgCurrent: 8.7,
	}}

	out := summarize(rows, 0.12)

	if len(out.Data) != 1 {
		t.Fatalf("expected 1 grouped row, got %d", len(out.Data))
	}
	row := out.Data[0]
	if row.TotalPower != 6000 || row.AvgPower != 2000 {
		t.Errorf("grouped row mangled: %+v", row)
	}
	if !almost(row.KWh, 6.0) {
		t.Errorf("kwh = %v, want 6.0", row.KWh)
	}
	if !almost(out.Summary.TotalKWh, 6.0) {
		t.Errorf("total_kwh = %v, want 6.0", out.Summary.TotalKWh)
	}
	if !almost(out.Summary.TotalCost, 6.0*0.12) {
		t.Errorf("total_cost = %v, want %v", out.Summary.TotalCost, 6.0*0.12)
	}
}

func TestSummarize_AveragesAndProjections(t *testing.T) {
	// Two days, one breaker: 2 kWh and 4 kWh.
	rows := []domain.DailyUsage{
		{Date: "2025-06-01", BreakerID: 1, TotalPower: 2000},
		{Date: "2025-06-02", BreakerID: 1, TotalPower: 4000},
	}

	out := summarize(rows, 0.10)

	if !almost(out.Summary.AvgDailyKWh, 3.0) {
		t.Errorf("avg_daily_kwh = %v, want 3.0", out.Summary.AvgDailyKWh)
	}
	if !almost(out.Summary.ProjectedMonthlyKWh, 90.0) {
		t.Errorf("projected_monthly_kwh = %v, want 90", out.Summary.ProjectedMonthlyKWh)
	}
	if !almost(out.Summary.ProjectedYearlyKWh, 3.0*365) {
		t.Errorf("projected_yearly_kwh = %v, want %v", out.Summary.ProjectedYearlyKWh, 3.0*365)
	}
	if !almost(out.Summary.ProjectedYearlyCost, 3.0*365*0.10) {
		t.Errorf("projected_yearly_cost = %v", out.Summary.ProjectedYearlyCost)
	}
}

func TestSummarize_DistinctDaysNotRowCount(t *testing.T) {
	// Two breakers on the same day must count as one day in the averages.
	rows := []domain.DailyUsage{
		{Date: "2025-06-01", BreakerID: 1, TotalPower: 1000},
		{Date: "2025-06-01", BreakerID: 2, TotalPower: 3000},
	}

	out := summarize(rows, 0.12)

	if !almost(out.Summary.AvgDailyKWh, 4.0) {
		t.Errorf("avg_daily_kwh = %v, want 4.0 (one distinct day)", out.Summary.AvgDailyKWh)
	}
	day := out.DailyAverages["2025-06-01"]
	if day.Count != 2 || !almost(day.KWh, 4.0) {
		t.Errorf("daily average = %+v, want count 2, kwh 4.0", day)
	}
}

func TestSummarize_EmptyIsAllZero(t *testing.T) {
	out := summarize(nil, 0.12)

	if out.Data == nil || len(out.Data) != 0 {
		t.Error("data must be an empty array, not nil/populated")
	}
	s := out.Summary
	if s.TotalKWh != 0 || s.TotalCost != 0 || s.AvgDailyKWh != 0 || s.AvgDailyCost != 0 ||
		s.ProjectedMonthlyKWh != 0 || s.ProjectedMonthlyCost != 0 ||
		s.ProjectedYearlyKWh != 0 || s.ProjectedYearlyCost != 0 {
		t.Errorf("summary must be all zeros, got %+v", s)
	}
	if s.KWhRate != 0.12 {
		t.Errorf("kwh_rate must survive an empty range, got %v", s.KWhRate)
	}
}

func TestProjectUsage_MonthArithmetic(t *testing.T) {
	// June 10th: 30-day month, 20 days remaining.
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	days := []domain.DailyTotal{
		{Date: "2025-06-08", TotalPower: 500},
		{Date: "2025-06-09", TotalPower: 1500},
	}

	out := projectUsage(days, 0.12, now)

	// Per-day energy is total/1000*24: 12 and 36 kWh, average 24.
	if !almost(out.Averages.DailyKWh, 24.0) {
		t.Fatalf("daily_kwh = %v, want 24", out.Averages.DailyKWh)
	}
	if !almost(out.CurrentMonth.ProjectedKWh, 24.0*30) {
		t.Errorf("projected_kwh = %v, want %v", out.CurrentMonth.ProjectedKWh, 24.0*30)
	}
	if !almost(out.CurrentMonth.RemainingKWh, 24.0*20) {
		t.Errorf("remaining_kwh = %v, want %v", out.CurrentMonth.RemainingKWh, 24.0*20)
	}
	if !almost(out.Yearly.ProjectedKWh, 24.0*365) {
		t.Errorf("yearly projected_kwh = %v", out.Yearly.ProjectedKWh)
	}
	if !almost(out.DailyConsumption[0].KWh, 12.0) {
		t.Errorf("first day kwh = %v, want 12", out.DailyConsumption[0].KWh)
	}
}

func TestProjectUsage_NotReconcilableWithSummarize(t *testing.T) {
	// The same grouped day yields different energy figures by design.
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	agg := summarize([]domain.DailyUsage{{Date: "2025-06-09", BreakerID: 1, TotalPower: 6000}}, 0.12)
	proj := projectUsage([]domain.DailyTotal{{Date: "2025-06-09", TotalPower: 6000}}, 0.12, now)

	if almost(agg.Summary.TotalKWh, proj.Averages.DailyKWh) {
		t.Errorf("the two endpoints should disagree: %v vs %v",
			agg.Summary.TotalKWh, proj.Averages.DailyKWh)
	}
	if !almost(proj.Averages.DailyKWh, 6000.0/1000*24) {
		t.Errorf("projection conversion drifted: %v", proj.Averages.DailyKWh)
	}
}

func TestProjectUsage_EmptyIsAllZero(t *testing.T) {
	out := projectUsage(nil, 0.12, time.Now())

	if out.DailyConsumption == nil || len(out.DailyConsumption) != 0 {
		t.Error("daily_consumption must be an empty array")
	}
	if out.CurrentMonth.ProjectedKWh != 0 || out.Yearly.ProjectedKWh != 0 ||
		out.Averages.DailyKWh != 0 {
		t.Errorf("projections must be all zeros when no data: %+v", out)
	}
	if out.KWhRate != 0.12 {
		t.Errorf("kwh_rate must be reported even with no data, got %v", out.KWhRate)
	}
}

func TestWarningThreshold(t *testing.T) {
	cases := []struct{ max, want float64 }{
		{1000, 900},
		{1500, 1350},
		{0, 0},
	}
	for _, tc := range cases {
		if got := WarningThreshold(tc.max); !almost(got, tc.want) {
			t.Errorf("WarningThreshold(%v) = %v, want %v", tc.max, got, tc.want)
		}
	}
}

func TestDaysIn(t *testing.T) {
	cases := []struct {
		t    time.Time
		want int
	}{
		{time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 28},
		{time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 29},
		{time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), 31},
	}
	for _, tc := range cases {
		if got := daysIn(tc.t); got != tc.want {
			t.Errorf("daysIn(%v) = %d, want %d", tc.t, got, tc.want)
		}
	}
}
