package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gp_planner/internal/domain"
	"gp_planner/internal/domain/entity"
	"gp_planner/internal/domain/service/goalplan"
	"gp_planner/internal/domain/value"
	"gp_planner/internal/server"
	"gp_planner/pkg/errcodes"
	"gp_planner/pkg/logx"
	"gp_planner/pkg/rest"
	"gp_planner/pkg/tests"
)

type fakePlans struct {
	created    []entity.GoalRequest
	createErr  error
	plans      map[int64]*entity.GoalPlan
	strategies map[int64]entity.Strategy
	profile    entity.RiskProfile
}

func (f *fakePlans) CreatePlan(_ context.Context, req entity.GoalRequest) (goalplan.PlanResult, error) {
	f.created = append(f.created, req)
	if f.createErr != nil {
		return goalplan.PlanResult{}, f.createErr
	}

	plan := entity.NewGoalPlan(req)
	plan.ID = 1
	plan.MarkReady()

	return goalplan.PlanResult{Plan: plan, Strategies: []entity.Strategy{f.strategies[10]}}, nil
}

func (f *fakePlans) GetPlan(_ context.Context, planID int64) (goalplan.PlanResult, error) {
	plan, ok := f.plans[planID]
	if !ok {
		return goalplan.PlanResult{}, domain.NewError(errcodes.GoalPlanNotFound, "goal plan not found")
	}

	return goalplan.PlanResult{Plan: plan}, nil
}

func (f *fakePlans) GetStrategy(_ context.Context, strategyID int64) (entity.Strategy, error) {
	st, ok := f.strategies[strategyID]
	if !ok {
		return entity.Strategy{}, domain.NewError(errcodes.StrategyNotFound, "strategy not found")
	}

	return st, nil
}

func (f *fakePlans) StrategyRisk(ctx context.Context, strategyID int64) (entity.RiskProfile, error) {
	if _, err := f.GetStrategy(ctx, strategyID); err != nil {
		return entity.RiskProfile{}, err
	}

	return f.profile, nil
}

type fakeQueue struct {
	queued []int64
	err    error
}

func (f *fakeQueue) EnqueueRegenerate(_ context.Context, planID int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.queued = append(f.queued, planID)

	return "task-1", nil
}

func newFixture() (*fakePlans, *fakeQueue) {
	limit := int64(5_000)

	strategy := entity.Strategy{
		ID:            10,
		GoalPlanID:    1,
		Name:          value.StrategyMaxProfit.DisplayName(),
		Type:          value.StrategyMaxProfit,
		IsRecommended: true,
		IsActive:      true,
		Items: []entity.StrategyItem{{
			ItemID:               561,
			ItemName:             "Nature rune",
			UnitsToBuy:           150,
			BuyPrice:             2_000,
			TotalCost:            300_000,
			GELimit:              value.NewTradeLimit(limit),
			AllocationPercentage: 100,
		}},
	}

	return &fakePlans{
			plans: map[int64]*entity.GoalPlan{
				1: {ID: 1, CurrentGP: 300_000, GoalGP: 2_000_000, RequiredProfit: 1_700_000, Status: value.PlanStatusReady},
			},
			strategies: map[int64]entity.Strategy{10: strategy},
			profile: entity.RiskProfile{
				StrategyID:       10,
				OverallRiskScore: 0.42,
				RiskLevel:        value.RiskLevelMedium,
				CategoryScores:   map[entity.RiskCategory]float64{entity.RiskConcentration: 1},
				Recommendations:  []string{"Spread capital across more items"},
				AnalyzedAt:       time.Now(),
			},
		},
		&fakeQueue{}
}

func newClient(t *testing.T, plans *fakePlans, queue *fakeQueue) tests.APIClient {
	t.Helper()

	srv := httptest.NewServer(server.NewServer(plans, queue).Router(server.RouterOptions{
		Masker:         logx.NewNopSensitiveDataMasker(),
		LogFieldMaxLen: 1024,
		AllowedOrigins: []string{"https://planner.example"},
	}))
	t.Cleanup(srv.Close)

	return tests.NewAPIClient(srv.URL, srv.Client())
}

func TestPostGoalPlan(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	plans, queue := newFixture()
	client := newClient(t, plans, queue)

	days := 7

	var res rest.GoalPlanResponse

	resp, err := client.Post(ctx, "/v1/goal-plans/", rest.CreateGoalPlanRequest{
		CurrentGP:              300_000,
		GoalGP:                 2_000_000,
		RiskTolerance:          "Moderate",
		PreferredTimeframeDays: &days,
	}, &res, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.NotEmpty(resp.Header.Get("X-Trace-Id"))

	rq.Len(plans.created, 1)
	rq.Equal(value.RiskToleranceModerate, plans.created[0].RiskTolerance)
	rq.Equal(7, *plans.created[0].PreferredTimeframeDays)

	rq.Equal("ready", res.Plan.Status)
	rq.Equal(int64(1_700_000), res.Plan.RequiredProfit)
	rq.Len(res.Strategies, 1)
	rq.True(res.Strategies[0].IsRecommended)
	rq.Equal("max_profit", res.Strategies[0].StrategyType)
	rq.Equal(int64(5_000), *res.Strategies[0].Items[0].GELimit)
}

func TestPostGoalPlan_Rejected(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		wantCode rest.ErrorCode
	}{
		{name: "broken json", body: `{"current_gp":`, wantCode: rest.ErrorCode(errcodes.ValidationError)},
		{name: "unknown field", body: `{"current_gp":1,"goal_gp":2,"risk_tolerance":"moderate","x":1}`, wantCode: rest.ErrorCode(errcodes.ValidationError)},
		{name: "negative current", body: `{"current_gp":-1,"goal_gp":2,"risk_tolerance":"moderate"}`, wantCode: rest.ErrorCode(errcodes.ValidationError)},
		{name: "zero timeframe", body: `{"current_gp":1,"goal_gp":2,"risk_tolerance":"moderate","preferred_timeframe_days":0}`, wantCode: rest.ErrorCode(errcodes.ValidationError)},
		{name: "unknown tolerance", body: `{"current_gp":1,"goal_gp":2,"risk_tolerance":"yolo"}`, wantCode: rest.ErrorCode(errcodes.InvalidRiskTolerance)},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			plans, queue := newFixture()
			client := newClient(t, plans, queue)

			var errRes rest.Error

			resp, err := client.PostJSON(context.Background(), "/v1/goal-plans/", tt.body, nil, &errRes)
			rq.NoError(err)
			rq.Equal(http.StatusBadRequest, resp.StatusCode)
			rq.Equal(tt.wantCode, errRes.Code)
			rq.Equal(resp.Header.Get("X-Trace-Id"), errRes.SupportID)
			rq.Empty(plans.created)
		})
	}
}

func TestPostGoalPlan_MarketUnavailable(t *testing.T) {
	rq := require.New(t)

	plans, queue := newFixture()
	plans.createErr = domain.WrapError(errors.New("dial tcp: refused"), errcodes.MarketDataUnavailable, "failed to load market data")
	client := newClient(t, plans, queue)

	var errRes rest.Error

	resp, err := client.Post(context.Background(), "/v1/goal-plans/", rest.CreateGoalPlanRequest{
		CurrentGP: 1_000, GoalGP: 2_000, RiskTolerance: "aggressive",
	}, nil, &errRes)
	rq.NoError(err)
	rq.Equal(http.StatusServiceUnavailable, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.MarketDataUnavailable), errRes.Code)
	rq.Equal("failed to load market data", errRes.Message)
}

func TestGetGoalPlan(t *testing.T) {
	testCases := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   rest.ErrorCode
	}{
		{name: "found", path: "/v1/goal-plans/1", wantStatus: http.StatusOK},
		{name: "not found", path: "/v1/goal-plans/2", wantStatus: http.StatusNotFound, wantCode: rest.ErrorCode(errcodes.GoalPlanNotFound)},
		{name: "bad id", path: "/v1/goal-plans/abc", wantStatus: http.StatusBadRequest, wantCode: rest.ErrorCode(errcodes.InvalidGoalPlanID)},
		{name: "zero id", path: "/v1/goal-plans/0", wantStatus: http.StatusBadRequest, wantCode: rest.ErrorCode(errcodes.InvalidGoalPlanID)},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			plans, queue := newFixture()
			client := newClient(t, plans, queue)

			var (
				res    rest.GoalPlanResponse
				errRes rest.Error
			)

			resp, err := client.Get(context.Background(), tt.path, &res, &errRes)
			rq.NoError(err)
			rq.Equal(tt.wantStatus, resp.StatusCode)
			rq.Equal(tt.wantCode, errRes.Code)

			if tt.wantStatus == http.StatusOK {
				rq.Equal(int64(1), res.Plan.ID)
				rq.NotNil(res.Strategies)
			}
		})
	}
}

func TestRegenerateGoalPlan(t *testing.T) {
	testCases := []struct {
		name       string
		path       string
		queueErr   error
		wantStatus int
		wantQueued []int64
	}{
		{name: "queued", path: "/v1/goal-plans/1/regenerate", wantStatus: http.StatusAccepted, wantQueued: []int64{1}},
		{name: "unknown plan", path: "/v1/goal-plans/9/regenerate", wantStatus: http.StatusNotFound},
		{
			name:       "already queued",
			path:       "/v1/goal-plans/1/regenerate",
			queueErr:   domain.NewError(errcodes.PlanComputationInProgress, "regeneration already queued"),
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			plans, queue := newFixture()
			queue.err = tt.queueErr
			client := newClient(t, plans, queue)

			var res rest.RegenerateResponse

			resp, err := client.PostJSON(context.Background(), tt.path, `{}`, &res, nil)
			rq.NoError(err)
			rq.Equal(tt.wantStatus, resp.StatusCode)
			rq.Equal(tt.wantQueued, queue.queued)

			if tt.wantStatus == http.StatusAccepted {
				rq.Equal(rest.RegenerateResponse{PlanID: 1, TaskID: "task-1"}, res)
			}
		})
	}
}

func TestGetStrategyAndRisk(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	plans, queue := newFixture()
	client := newClient(t, plans, queue)

	var st rest.Strategy

	resp, err := client.Get(ctx, "/v1/strategies/10", &st, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("Maximum Profit", st.Name)
	rq.Len(st.Items, 1)
	rq.InDelta(100, st.Items[0].AllocationPercentage, 1e-9)

	var profile rest.RiskProfile

	resp, err = client.Get(ctx, "/v1/strategies/10/risk", &profile, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("medium", profile.RiskLevel)
	rq.InDelta(1.0, profile.CategoryScores["concentration"], 1e-9)
	rq.Equal([]string{"Spread capital across more items"}, profile.Recommendations)

	var errRes rest.Error

	resp, err = client.Get(ctx, "/v1/strategies/11/risk", nil, &errRes)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.StrategyNotFound), errRes.Code)
}

func TestCORSPreflight(t *testing.T) {
	rq := require.New(t)

	plans, queue := newFixture()
	handler := server.NewServer(plans, queue).Router(server.RouterOptions{
		Masker:         logx.NewNopSensitiveDataMasker(),
		LogFieldMaxLen: 1024,
		AllowedOrigins: []string{"https://planner.example"},
	})

	r := httptest.NewRequest(http.MethodOptions, "/v1/goal-plans/1", http.NoBody)
	r.Header.Set("Origin", "https://planner.example")
	r.Header.Set("Access-Control-Request-Method", http.MethodGet)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	rq.Equal("https://planner.example", w.Header().Get("Access-Control-Allow-Origin"))
}
