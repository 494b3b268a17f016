package domain

import "time"

type User struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Email    string `db:"email" json:"email"`
	Password string `db:"password" json:"-"`
}

type UserSettings struct {
	UserID      int64   `db:"user_id" json:"user_id"`
	KWhRate     float64 `db:"kwh_rate" json:"kwh_rate"`
	RefreshRate int     `db:"refresh_rate" json:"refresh_rate"`
	Theme       string  `db:"theme" json:"theme"`
}

type CircuitBreaker struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"user_id"`
	Name       string    `db:"name" json:"name"`
	Location   string    `db:"location" json:"location"`
	PowerLimit float64   `db:"power_limit" json:"power_limit"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// BreakerWithLimit is the list-endpoint row: a breaker joined with its
// power-limit record. The limit columns are pointers because the join is a
// LEFT JOIN, matching the source query.
type BreakerWithLimit struct {
	CircuitBreaker
	MaxPower         *float64 `db:"max_power" json:"max_power"`
	WarningThreshold *float64 `db:"warning_threshold" json:"warning_threshold"`
}

type PowerLimit struct {
	ID               int64   `db:"id" json:"id"`
	BreakerID        int64   `db:"breaker_id" json:"breaker_id"`
	MaxPower         float64 `db:"max_power" json:"max_power"`
	WarningThreshold float64 `db:"warning_threshold" json:"warning_threshold"`
}

type PowerSample struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	BreakerID int64     `db:"breaker_id" json:"breaker_id"`
	Voltage   float64   `db:"voltage" json:"voltage"`
	Current   float64   `db:"current" json:"current"`
	Power     float64   `db:"power" json:"power"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

type Alert struct {
	ID         int64      `db:"id" json:"id"`
	UserID     int64      `db:"user_id" json:"user_id"`
	BreakerID  int64      `db:"breaker_id" json:"breaker_id"`
	Type       string     `db:"type" json:"type"`
	Message    string     `db:"message" json:"message"`
	Severity   string     `db:"severity" json:"severity"`
	Status     string     `db:"status" json:"status"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt *time.Time `db:"resolved_at" json:"resolved_at"`
}

// DailyUsage is one aggregation group: samples for a breaker collapsed to a
// calendar day.
type DailyUsage struct {
	Date       string  `db:"date" json:"date"`
	BreakerID  int64   `db:"breaker_id" json:"breaker_id"`
	AvgVoltage float64 `db:"avg_voltage" json:"avg_voltage"`
	AvgCurrent float64 `db:"avg_current" json:"avg_current"`
	AvgPower   float64 `db:"avg_power" json:"avg_power"`
	TotalPower float64 `db:"total_power" json:"total_power"`
	KWh        float64 `db:"-" json:"kwh"`
}

// DailyTotal is the projection-endpoint group: all breakers collapsed per day.
type DailyTotal struct {
	Date       string  `db:"date" json:"date"`
	TotalPower float64 `db:"total_power" json:"total_power"`
	AvgPower   float64 `db:"avg_power" json:"avg_power"`
}

type PowerSummary struct {
	TotalKWh             float64 `json:"total_kwh"`
	TotalCost            float64 `json:"total_cost"`
	AvgDailyKWh          float64 `json:"avg_daily_kwh"`
	AvgDailyCost         float64 `json:"avg_daily_cost"`
	ProjectedMonthlyKWh  float64 `json:"projected_monthly_kwh"`
	ProjectedMonthlyCost float64 `json:"projected_monthly_cost"`
	ProjectedYearlyKWh   float64 `json:"projected_yearly_kwh"`
	ProjectedYearlyCost  float64 `json:"projected_yearly_cost"`
	KWhRate              float64 `json:"kwh_rate"`
}

type DailyAverage struct {
	KWh   float64 `json:"kwh"`
	Cost  float64 `json:"cost"`
	Count int     `json:"count"`
}

type PowerDataResponse struct {
	Data          []DailyUsage            `json:"data"`
	Summary       PowerSummary            `json:"summary"`
	DailyAverages map[string]DailyAverage `json:"daily_averages"`
}

type DailyConsumption struct {
	Date string  `json:"date"`
	KWh  float64 `json:"kwh"`
	Cost float64 `json:"cost"`
}

type MonthProjection struct {
	ProjectedKWh  float64 `json:"projected_kwh"`
	ProjectedCost float64 `json:"projected_cost"`
	RemainingKWh  float64 `json:"remaining_kwh"`
	RemainingCost float64 `json:"remaining_cost"`
}

type YearProjection struct {
	ProjectedKWh  float64 `json:"projected_kwh"`
	ProjectedCost float64 `json:"projected_cost"`
}

type ProjectionAverages struct {
	DailyKWh  float64 `json:"daily_kwh"`
	DailyCost float64 `json:"daily_cost"`
}

type Projections struct {
	DailyConsumption []DailyConsumption `json:"daily_consumption"`
	CurrentMonth     MonthProjection    `json:"current_month"`
	Yearly           YearProjection     `json:"yearly"`
	Averages         ProjectionAverages `json:"averages"`
	KWhRate          float64            `json:"kwh_rate"`
}
