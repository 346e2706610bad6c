package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"
	InvalidPaging       failure.ErrorCode = "InvalidPaging"

	// Goal planning.
	InvalidGoal               failure.ErrorCode = "InvalidGoal"               // goal_gp <= current_gp and friends
	InvalidGoalPlanID         failure.ErrorCode = "InvalidGoalPlanID"         // path id is not a positive integer
	InvalidStrategyID         failure.ErrorCode = "InvalidStrategyID"         // path id is not a positive integer
	InvalidRiskTolerance      failure.ErrorCode = "InvalidRiskTolerance"      // unknown tolerance value
	GoalPlanNotFound          failure.ErrorCode = "GoalPlanNotFound"          // no plan with this id
	StrategyNotFound          failure.ErrorCode = "StrategyNotFound"          // no strategy with this id
	PlanComputationInProgress failure.ErrorCode = "PlanComputationInProgress" // lock for the plan is held
	MarketDataUnavailable     failure.ErrorCode = "MarketDataUnavailable"     // market snapshot query failed
)
