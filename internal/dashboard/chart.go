package dashboard

import (
	"context"
	"time"

	"mealplan-backend/internal/apperr"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/repository"
	"mealplan-backend/internal/tenant"
)

type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

const maxBuckets = 366

var (
	ErrInvalidPeriod = apperr.Validation("INVALID_PERIOD", "period must be daily, weekly or monthly")
	ErrInvalidCount  = apperr.Validation("INVALID_COUNT", "count must be between 1 and 366")
)

// defaultCount is how many buckets a chart shows when the caller gives none.
func (p Period) defaultCount() int {
	switch p {
	case Weekly:
		return 8
	case Monthly:
		return 12
	}
	return 7
}

// start returns the first day of the bucket containing day. Weeks start on Monday.
func (p Period) start(day time.Time) time.Time {
	day = models.DateOnly(day)
	switch p {
	case Weekly:
		return day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
	case Monthly:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return day
}

func (p Period) step(t time.Time, n int) time.Time {
	switch p {
	case Weekly:
		return t.AddDate(0, 0, 7*n)
	case Monthly:
		return t.AddDate(0, n, 0)
	}
	return t.AddDate(0, 0, n)
}

type ChartPoint struct {
	Label     string  `json:"label"`
	Orders    int     `json:"orders"`
	Completed int     `json:"completed"`
	Calories  float64 `json:"calories"`
}

type ChartTotals struct {
	Orders    int     `json:"orders"`
	Completed int     `json:"completed"`
	Calories  float64 `json:"calories"`
}

type ChartResponse struct {
	TenantID    uint         `json:"tenantId"`
	Period      Period       `json:"period"`
	From        string       `json:"from"`
	To          string       `json:"to"`
	Points      []ChartPoint `json:"points"`
	GrandTotals ChartTotals  `json:"grandTotals"`
}

type Service struct {
	store *repository.Store
	loc   *time.Location
	now   func() time.Time
}

func NewService(store *repository.Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, loc: loc, now: time.Now}
}

// OrderChart buckets the tenant's orders by order date over the last count
// periods, the current one included. Empty buckets are reported as zeros.
func (s *Service) OrderChart(ctx context.Context, tc tenant.Context, period Period, count int) (*ChartResponse, error) {
	if err := tc.RequireRole(models.RoleStaff); err != nil {
		return nil, err
	}
	tid, err := tc.RequireTenant()
	if err != nil {
		return nil, err
	}
	switch period {
	case "":
		period = Daily
	case Daily, Weekly, Monthly:
	default:
		return nil, ErrInvalidPeriod
	}
	if count == 0 {
		count = period.defaultCount()
	}
	if count < 0 || count > maxBuckets {
		return nil, ErrInvalidCount
	}

	today := models.DateOnly(s.now().In(s.loc))
	last := period.start(today)
	first := period.step(last, -(count - 1))
	end := period.step(last, 1).AddDate(0, 0, -1)

	orders, err := s.store.Orders().Find(ctx, tc, repository.Query{
		Ranges: []repository.Range{{Column: "order_date", From: first, To: end}},
	})
	if err != nil {
		return nil, err
	}

	points := make([]ChartPoint, count)
	index := make(map[time.Time]int, count)
	for i := 0; i < count; i++ {
		b := period.step(first, i)
		points[i].Label = models.FormatDate(b)
		index[b] = i
	}

	resp := &ChartResponse{
		TenantID: tid,
		Period:   period,
		From:     models.FormatDate(first),
		To:       models.FormatDate(end),
	}
	for _, o := range orders {
		i, ok := index[period.start(o.OrderDate.UTC())]
		if !ok {
			continue
		}
		points[i].Orders++
		points[i].Calories += o.Totals.Calories
		if o.Status == models.OrderCompleted {
			points[i].Completed++
		}
	}
	for _, p := range points {
		resp.GrandTotals.Orders += p.Orders
		resp.GrandTotals.Completed += p.Completed
		resp.GrandTotals.Calories += p.Calories
	}
	resp.Points = points
	return resp, nil
}
