package service

import (
	"context"
	"fmt"
	"time"

	"homewatt/internal/domain"
	"homewatt/internal/repository"
)

type PowerService struct {
	repos *repository.Repos
}

func (s *PowerService) StoreSample(ctx context.Context, sample domain.PowerSample) error {
	if err := s.repos.InsertSample(ctx, sample); err != nil {
		return fmt.Errorf("store sample: %w", err)
	}
	return nil
}

// GetPowerData aggregates samples per calendar day and breaker over the date
// range (default: trailing 7 days) and derives totals, daily averages and
// fixed 30/365-day projections.
func (s *PowerService) GetPowerData(ctx context.Context, userID int64, breakerID *int64, startDate, endDate string) (domain.PowerDataResponse, error) {
	if startDate == "" {
		startDate = time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	}
	if endDate == "" {
		endDate = time.Now().Format("2006-01-02")
	}

	rate, err := s.repos.KWhRate(ctx, userID)
	if err != nil {
		return domain.PowerDataResponse{}, fmt.Errorf("power data: %w", err)
	}

	rows, err := s.repos.DailyUsage(ctx, userID, breakerID, startDate, endDate)
	if err != nil {
		return domain.PowerDataResponse{}, fmt.Errorf("power data: %w", err)
	}

	return summarize(rows, rate), nil
}

// GetProjections derives current-month and yearly cost projections from the
// trailing week. This is intentionally a separate computation from
// GetPowerData: the two endpoints use different energy conversions and are
// not numerically reconcilable.
func (s *PowerService) GetProjections(ctx context.Context, userID int64) (domain.Projections, error) {
	rate, err := s.repos.KWhRate(ctx, userID)
	if err != nil {
		return domain.Projections{}, fmt.Errorf("projections: %w", err)
	}

	days, err := s.repos.DailyTotals(ctx, userID)
	if err != nil {
		return domain.Projections{}, fmt.Errorf("projections: %w", err)
	}

	return projectUsage(days, rate, time.Now()), nil
}

// summarize treats each grouped daily sum as one hour-equivalent of energy:
// kwh = total_power / 1000, with no interval-duration correction. A
// documented simplification, not numeric integration.
func summarize(rows []domain.DailyUsage, rate float64) domain.PowerDataResponse {
	out := domain.PowerDataResponse{
		Data:          []domain.DailyUsage{},
		Summary:       domain.PowerSummary{KWhRate: rate},
		DailyAverages: map[string]domain.DailyAverage{},
	}
	if len(rows) == 0 {
		return out
	}

	totalKWh := 0.0
	totalCost := 0.0
	for _, row := range rows {
		row.KWh = row.TotalPower / 1000
		totalKWh += row.KWh
		totalCost += row.KWh * rate

		day := out.DailyAverages[row.Date]
		day.KWh += row.KWh
		day.Cost += row.KWh * rate
		day.Count++
		out.DailyAverages[row.Date] = day

		out.Data = append(out.Data, row)
	}

	days := float64(len(out.DailyAverages))
	avgDailyKWh := totalKWh / days
	avgDailyCost := totalCost / days

	out.Summary = domain.PowerSummary{
		TotalKWh:             totalKWh,
		TotalCost:            totalCost,
		AvgDailyKWh:          avgDailyKWh,
		AvgDailyCost:         avgDailyCost,
		ProjectedMonthlyKWh:  avgDailyKWh * 30,
		ProjectedMonthlyCost: avgDailyKWh * 30 * rate,
		ProjectedYearlyKWh:   avgDailyKWh * 365,
		ProjectedYearlyCost:  avgDailyKWh * 365 * rate,
		KWhRate:              rate,
	}
	return out
}

// projectUsage converts each day's summed power to energy as
// total_power / 1000 * 24 and projects against the actual current month
// length and its remaining days.
func projectUsage(days []domain.DailyTotal, rate float64, now time.Time) domain.Projections {
	out := domain.Projections{
		DailyConsumption: []domain.DailyConsumption{},
		KWhRate:          rate,
	}
	if len(days) == 0 {
		return out
	}

	totalKWh := 0.0
	for _, day := range days {
		kwh := day.TotalPower / 1000 * 24
		out.DailyConsumption = append(out.DailyConsumption, domain.DailyConsumption{
			Date: day.Date,
			KWh:  kwh,
			Cost: kwh * rate,
		})
		totalKWh += kwh
	}

	avgDailyKWh := totalKWh / float64(len(days))
	daysInMonth := daysIn(now)
	daysRemaining := daysInMonth - now.Day()

	out.Averages = domain.ProjectionAverages{
		DailyKWh:  avgDailyKWh,
		DailyCost: avgDailyKWh * rate,
	}
	out.CurrentMonth = domain.MonthProjection{
		ProjectedKWh:  avgDailyKWh * float64(daysInMonth),
		ProjectedCost: avgDailyKWh * float64(daysInMonth) * rate,
		RemainingKWh:  avgDailyKWh * float64(daysRemaining),
		RemainingCost: avgDailyKWh * float64(daysRemaining) * rate,
	}
	out.Yearly = domain.YearProjection{
		ProjectedKWh:  avgDailyKWh * 365,
		ProjectedCost: avgDailyKWh * 365 * rate,
	}
	return out
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
