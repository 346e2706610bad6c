package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"gp_planner/internal/domain"
	"gp_planner/internal/domain/entity"
	"gp_planner/pkg/errcodes"
)

const (
	goalPlanColumns = `id, current_gp, goal_gp, required_profit, risk_tolerance, preferred_timeframe_days,
		status, failure_reason, is_active, is_achievable, created_at, updated_at`

	strategyColumns = `id, goal_plan_id, name, strategy_type, total_investment, total_profit, estimated_days,
		risk_score, feasibility_score, is_recommended, is_active, created_at`

	strategyItemColumns = `id, strategy_id, position, item_id, item_name, units_to_buy, buy_price,
		profit_per_item, total_cost, total_profit, ge_limit, estimated_hours, allocation_percentage,
		daily_volume, price_volatility, risk_score, data_updated_at`
)

type GoalPlanRepository struct {
	db *sqlx.DB
}

func NewGoalPlanRepository(db *sqlx.DB) *GoalPlanRepository {
	return &GoalPlanRepository{db: db}
}

type insertedRow struct {
	ID        int64        `db:"id"`
	CreatedAt sql.NullTime `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
}

// namedGet binds arg into a named query and scans the single result row.
func namedGet(ctx context.Context, q sqlx.ExtContext, dest any, query string, arg any) error {
	bound, args, err := sqlx.Named(query, arg)
	if err != nil {
		return err
	}

	return sqlx.GetContext(ctx, q, dest, q.Rebind(bound), args...)
}

// CreatePlan inserts the plan and fills its id and timestamps.
func (r *GoalPlanRepository) CreatePlan(ctx context.Context, plan *entity.GoalPlan) error {
	plan.RecomputeRequiredProfit()

	query := `
		INSERT INTO goal_plans (
			current_gp, goal_gp, required_profit, risk_tolerance, preferred_timeframe_days,
			status, failure_reason, is_active, is_achievable
		) VALUES (
			:current_gp, :goal_gp, :required_profit, :risk_tolerance, :preferred_timeframe_days,
			:status, :failure_reason, :is_active, :is_achievable
		)
		RETURNING id, created_at, updated_at`

	var row insertedRow
	if err := namedGet(ctx, r.db, &row, query, fromGoalPlan(plan)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to create goal plan")
	}

	plan.ID = row.ID
	plan.CreatedAt = row.CreatedAt.Time
	plan.UpdatedAt = row.UpdatedAt.Time

	return nil
}

func (r *GoalPlanRepository) UpdatePlan(ctx context.Context, plan *entity.GoalPlan) error {
	return updatePlan(ctx, r.db, plan)
}

func updatePlan(ctx context.Context, q sqlx.ExtContext, plan *entity.GoalPlan) error {
	plan.RecomputeRequiredProfit()

	query := `
		UPDATE goal_plans SET
			current_gp = :current_gp,
			goal_gp = :goal_gp,
			required_profit = :required_profit,
			risk_tolerance = :risk_tolerance,
			preferred_timeframe_days = :preferred_timeframe_days,
			status = :status,
			failure_reason = :failure_reason,
			is_active = :is_active,
			is_achievable = :is_achievable,
			updated_at = NOW()
		WHERE id = :id
		RETURNING id, created_at, updated_at`

	var row insertedRow
	if err := namedGet(ctx, q, &row, query, fromGoalPlan(plan)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewError(errcodes.GoalPlanNotFound, "goal plan not found")
		}
		return domain.WrapError(err, errcodes.InternalServerError, "failed to update goal plan")
	}

	plan.UpdatedAt = row.UpdatedAt.Time

	return nil
}

func (r *GoalPlanRepository) GetPlan(ctx context.Context, id int64) (*entity.GoalPlan, error) {
	query := `SELECT ` + goalPlanColumns + ` FROM goal_plans WHERE id = $1`

	var schema goalPlanSchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.GoalPlanNotFound, "goal plan not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get goal plan")
	}

	return schema.toDomain(), nil
}

// SaveStrategies replaces the active strategy set of a plan and stores the plan
// status in one transaction.
func (r *GoalPlanRepository) SaveStrategies(
	ctx context.Context,
	plan *entity.GoalPlan,
	strategies []entity.Strategy,
) ([]entity.Strategy, error) {
	saved := make([]entity.Strategy, 0, len(strategies))

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		saved = saved[:0]

		if err := deactivateStrategiesTx(ctx, tx, plan.ID); err != nil {
			return err
		}

		for _, s := range strategies {
			s.GoalPlanID = plan.ID

			if err := saveStrategyTx(ctx, tx, &s); err != nil {
				return err
			}
			if err := saveStrategyItemsTx(ctx, tx, &s); err != nil {
				return err
			}

			saved = append(saved, s)
		}

		return updatePlan(ctx, tx, plan)
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// FailPlan stores a failed plan and deactivates its strategies in one transaction.
func (r *GoalPlanRepository) FailPlan(ctx context.Context, plan *entity.GoalPlan) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := deactivateStrategiesTx(ctx, tx, plan.ID); err != nil {
			return err
		}

		return updatePlan(ctx, tx, plan)
	})
}

func deactivateStrategiesTx(ctx context.Context, tx *sqlx.Tx, planID int64) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE strategies SET is_active = FALSE WHERE goal_plan_id = $1 AND is_active`,
		planID,
	); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to deactivate strategies")
	}

	return nil
}

func saveStrategyTx(ctx context.Context, tx *sqlx.Tx, s *entity.Strategy) error {
	query := `
		INSERT INTO strategies (
			goal_plan_id, name, strategy_type, total_investment, total_profit, estimated_days,
			risk_score, feasibility_score, is_recommended, is_active
		) VALUES (
			:goal_plan_id, :name, :strategy_type, :total_investment, :total_profit, :estimated_days,
			:risk_score, :feasibility_score, :is_recommended, :is_active
		)
		RETURNING id, created_at`

	var row insertedRow
	if err := namedGet(ctx, tx, &row, query, fromStrategy(s)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to save strategy")
	}

	s.ID = row.ID
	s.CreatedAt = row.CreatedAt.Time

	return nil
}

func saveStrategyItemsTx(ctx context.Context, tx *sqlx.Tx, s *entity.Strategy) error {
	query := `
		INSERT INTO strategy_items (
			strategy_id, position, item_id, item_name, units_to_buy, buy_price, profit_per_item,
			total_cost, total_profit, ge_limit, estimated_hours, allocation_percentage,
			daily_volume, price_volatility, risk_score, data_updated_at
		) VALUES (
			:strategy_id, :position, :item_id, :item_name, :units_to_buy, :buy_price, :profit_per_item,
			:total_cost, :total_profit, :ge_limit, :estimated_hours, :allocation_percentage,
			:daily_volume, :price_volatility, :risk_score, :data_updated_at
		)
		RETURNING id`

	items := make([]entity.StrategyItem, len(s.Items))
	copy(items, s.Items)

	for i := range items {
		items[i].StrategyID = s.ID

		var row insertedRow
		if err := namedGet(ctx, tx, &row, query, fromStrategyItem(s.ID, &items[i])); err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to save strategy item")
		}

		items[i].ID = row.ID
	}

	s.Items = items

	return nil
}

// ListStrategies returns the active strategies of a plan with their items.
func (r *GoalPlanRepository) ListStrategies(ctx context.Context, planID int64) ([]entity.Strategy, error) {
	query := `SELECT ` + strategyColumns + ` FROM strategies WHERE goal_plan_id = $1 AND is_active ORDER BY id`

	var schemas []strategySchema
	if err := r.db.SelectContext(ctx, &schemas, query, planID); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list strategies")
	}

	if len(schemas) == 0 {
		return []entity.Strategy{}, nil
	}

	ids := lo.Map(schemas, func(s strategySchema, _ int) int64 { return s.ID })

	items, err := r.listItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]entity.Strategy, 0, len(schemas))
	for _, s := range schemas {
		st := s.toDomain()
		st.Items = items[st.ID]
		result = append(result, st)
	}

	return result, nil
}

func (r *GoalPlanRepository) GetStrategy(ctx context.Context, id int64) (entity.Strategy, error) {
	query := `SELECT ` + strategyColumns + ` FROM strategies WHERE id = $1`

	var schema strategySchema
	if err := r.db.GetContext(ctx, &schema, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Strategy{}, domain.NewError(errcodes.StrategyNotFound, "strategy not found")
		}
		return entity.Strategy{}, domain.WrapError(err, errcodes.InternalServerError, "failed to get strategy")
	}

	items, err := r.listItems(ctx, []int64{id})
	if err != nil {
		return entity.Strategy{}, err
	}

	st := schema.toDomain()
	st.Items = items[id]

	return st, nil
}

func (r *GoalPlanRepository) listItems(ctx context.Context, strategyIDs []int64) (map[int64][]entity.StrategyItem, error) {
	query, args, err := sqlx.In(
		`SELECT `+strategyItemColumns+` FROM strategy_items WHERE strategy_id IN (?) ORDER BY strategy_id, position`,
		strategyIDs,
	)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to build strategy items query")
	}

	var schemas []strategyItemSchema
	if err := r.db.SelectContext(ctx, &schemas, r.db.Rebind(query), args...); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list strategy items")
	}

	grouped := lo.GroupBy(schemas, func(s strategyItemSchema) int64 { return s.StrategyID })

	result := make(map[int64][]entity.StrategyItem, len(grouped))
	for id, rows := range grouped {
		result[id] = lo.Map(rows, func(s strategyItemSchema, _ int) entity.StrategyItem { return s.toDomain() })
	}

	return result, nil
}
