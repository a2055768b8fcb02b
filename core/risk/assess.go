// Package risk scores attrition risk, forecasts it and recommends retention actions.
package risk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/huangsam/insight/internal/contract"
	"github.com/huangsam/insight/schema"
)

// Tables and fields read by the risk model.
const (
	employeesTable   = "employees"
	reviewsTable     = "performance_reviews"
	trainingTable    = "training_records"
	surveysTable     = "survey_responses"
	riskScoresTable  = "risk_scores"
	employeeIDField  = "employee_id"
	departmentField  = "department"
	positionField    = "position"
	salaryField      = "salary"
	hireDateField    = "hire_date"
	promotionField   = "last_promotion_date"
	ratingField      = "rating"
	reviewDateField  = "review_date"
	surveyTypeField  = "survey_type"
	createdAtField   = "created_at"
	completedAtField = "completion_date"
	statusField      = "status"
	scoreField       = "score"
)

// topFactorCount is the number of factors named in the insights.
const topFactorCount = 3

// Service computes risk scores from the tabular store.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	store contract.DataStore
	now   func() time.Time
}

// NewService creates a risk service reading from store.
func NewService(store contract.DataStore) *Service {
	return &Service{store: store, now: time.Now}
}

// CalculateRiskScore returns the risk assessment of an employee.
// Any failure degrades to the neutral assessment: score 50 with every factor at 50.
func (s *Service) CalculateRiskScore(ctx context.Context, employeeID string) schema.RiskAssessment {
	a, err := s.Assess(ctx, employeeID)
	if err != nil {
		contract.LogWarn(fmt.Sprintf("Risk assessment for %s degraded to neutral", employeeID), err)
		return NeutralAssessment(employeeID)
	}
	return a
}

// Assess computes the risk assessment of an employee and returns any failure.
func (s *Service) Assess(ctx context.Context, employeeID string) (schema.RiskAssessment, error) {
	a, _, err := s.assess(ctx, employeeID)
	return a, err
}

// NeutralAssessment is the assessment used when data is unavailable.
func NeutralAssessment(employeeID string) schema.RiskAssessment {
	return schema.RiskAssessment{
		EmployeeID: employeeID,
		Score:      neutralFactorScore,
		Factors:    neutralFactors(),
		Insights:   []string{"Risk could not be assessed from the available data; showing a neutral score."},
	}
}

func (s *Service) assess(ctx context.Context, employeeID string) (schema.RiskAssessment, profile, error) {
	p, err := s.loadProfile(ctx, employeeID)
	if err != nil {
		return schema.RiskAssessment{}, profile{}, err
	}
	factors := scoreFactors(p)
	score := weightedScore(factors)
	return schema.RiskAssessment{
		EmployeeID: employeeID,
		Score:      score,
		Factors:    factors,
		Insights:   assessmentInsights(score, factors),
	}, p, nil
}

// assessmentInsights builds the headline, the top factors and one sentence per high factor.
func assessmentInsights(score int, factors map[schema.RiskFactor]int) []string {
	var insights []string
	for _, band := range headlineBands {
		if score >= band.min {
			insights = append(insights, fmt.Sprintf(band.format, score))
			break
		}
	}

	top := topFactors(factors, topFactorCount)
	names := make([]string, len(top))
	for i, f := range top {
		names[i] = fmt.Sprintf("%s (%d)", f, factors[f])
	}
	insights = append(insights, "Top risk factors: "+strings.Join(names, ", ")+".")

	for _, f := range highFactors(factors) {
		if sentence, ok := factorSentences[f]; ok {
			insights = append(insights, sentence)
		}
	}
	return insights
}

// loadProfile fetches the employee and the related records the factor model reads.
func (s *Service) loadProfile(ctx context.Context, employeeID string) (profile, error) {
	if strings.TrimSpace(employeeID) == "" {
		return profile{}, fmt.Errorf("%w: empty employee id", schema.ErrEmployeeNotFound)
	}
	now := s.now()

	employees, err := s.query(ctx, schema.TableQuery{
		Table:   employeesTable,
		Filters: []schema.Filter{schema.Eq(employeeIDField, employeeID)},
		Limit:   1,
	})
	if err != nil {
		return profile{}, err
	}
	if len(employees) == 0 {
		return profile{}, fmt.Errorf("%w: %s", schema.ErrEmployeeNotFound, employeeID)
	}
	employee := employees[0]

	var reviews, surveys, trainings, peers []schema.Record
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		reviews, err = s.query(egCtx, schema.TableQuery{
			Table:      reviewsTable,
			Filters:    []schema.Filter{schema.Eq(employeeIDField, employeeID)},
			OrderBy:    reviewDateField,
			Descending: true,
			Limit:      1,
		})
		return err
	})
	eg.Go(func() error {
		var err error
		surveys, err = s.query(egCtx, schema.TableQuery{
			Table:      surveysTable,
			Filters:    []schema.Filter{schema.Eq(employeeIDField, employeeID)},
			OrderBy:    createdAtField,
			Descending: true,
		})
		return err
	})
	eg.Go(func() error {
		var err error
		trainings, err = s.query(egCtx, schema.TableQuery{
			Table: trainingTable,
			Filters: []schema.Filter{
				schema.Eq(employeeIDField, employeeID),
				{Field: completedAtField, Op: schema.OpGte, Value: now.AddDate(-1, 0, 0)},
			},
		})
		return err
	})
	if dept := employee.String(departmentField); dept != "" {
		eg.Go(func() error {
			var err error
			peers, err = s.query(egCtx, schema.TableQuery{
				Table:   employeesTable,
				Filters: []schema.Filter{schema.Eq(departmentField, dept)},
			})
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return profile{}, err
	}

	p := profile{trainings: countCompleted(trainings)}
	hired, hasHire := employee.Time(hireDateField)
	if hasHire {
		p.tenureMonths = known(float64(monthsBetween(hired, now)))
	}
	if len(reviews) > 0 {
		if v, ok := reviews[0].Float(ratingField); ok {
			p.reviewRating = known(v)
		}
		if reviewed, ok := reviews[0].Time(reviewDateField); ok {
			p.recentReview = !reviewed.Before(now.AddDate(0, -recentReviewMonths, 0))
		}
	}
	p.satisfaction = latestSurvey(surveys, "satisfaction")
	p.engagement = latestSurvey(surveys, "engagement")
	p.salaryRatio = salaryRatio(employee, peers)
	if promoted, ok := employee.Time(promotionField); ok {
		p.promotionMonths = known(float64(monthsBetween(promoted, now)))
	} else if hasHire {
		p.promotionMonths = p.tenureMonths
	}
	return p, nil
}

// query runs one store query and types the failure as a fetch error.
func (s *Service) query(ctx context.Context, q schema.TableQuery) ([]schema.Record, error) {
	if s.store == nil {
		return nil, schema.NewDataFetchError(q.Table, errors.New("no data store configured"))
	}
	rows, err := s.store.Query(ctx, q)
	if err != nil {
		var fetchErr *schema.DataFetchError
		if errors.As(err, &fetchErr) {
			return nil, err
		}
		return nil, schema.NewDataFetchError(q.Table, err)
	}
	return rows, nil
}

// latestSurvey returns the rating of the newest survey of a type. Rows are newest first.
func latestSurvey(rows []schema.Record, surveyType string) measure {
	for _, r := range rows {
		if !strings.EqualFold(r.String(surveyTypeField), surveyType) {
			continue
		}
		if v, ok := r.Float(ratingField); ok {
			return known(v)
		}
	}
	return measure{}
}

// salaryRatio compares own salary to the average of peers in the same position,
// or the whole department when the position has no other salaried peers.
func salaryRatio(employee schema.Record, peers []schema.Record) measure {
	own, ok := employee.Float(salaryField)
	if !ok || own <= 0 {
		return measure{}
	}
	position := employee.String(positionField)

	var roleSum, deptSum float64
	var roleCount, deptCount int
	for _, peer := range peers {
		v, ok := peer.Float(salaryField)
		if !ok || v <= 0 {
			continue
		}
		deptSum += v
		deptCount++
		if position != "" && peer.String(positionField) == position {
			roleSum += v
			roleCount++
		}
	}
	switch {
	case roleCount > 1:
		return known(own / (roleSum / float64(roleCount)))
	case deptCount > 0:
		return known(own / (deptSum / float64(deptCount)))
	default:
		return measure{}
	}
}

// countCompleted counts training rows that are completed. Rows without a status count as completed.
func countCompleted(rows []schema.Record) int {
	var n int
	for _, r := range rows {
		switch strings.ToLower(r.String(statusField)) {
		case "", "completed", "complete", "done":
			n++
		}
	}
	return n
}

// monthsBetween returns the whole months elapsed from start to end, never negative.
func monthsBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()-start.Month())
	if end.Day() < start.Day() {
		months--
	}
	return max(months, 0)
}
