package observability

// Metric name prefixes
const (
	MetricPrefix = "clover"
)

// Metric names
const (
	BalanceTransactionsTotal = MetricPrefix + ".balance.transactions_total"
	BalanceVolumeTotal       = MetricPrefix + ".balance.volume_total"

	WagersSettledTotal = MetricPrefix + ".wagers.settled_total"
	WagerBetsTotal     = MetricPrefix + ".wagers.bets_total"
	WagerPayoutsTotal  = MetricPrefix + ".wagers.payouts_total"

	AccountsCreatedTotal = MetricPrefix + ".accounts.created_total"
	AccountsRemovedTotal = MetricPrefix + ".accounts.removed_total"

	LeaderboardRefreshesTotal = MetricPrefix + ".leaderboard.refreshes_total"
	LeaderboardFallbacksTotal = MetricPrefix + ".leaderboard.fallbacks_total"
)

// Label keys
const (
	LabelType    = "type"
	LabelGame    = "game"
	LabelOutcome = "outcome"
	LabelSource  = "source"
	LabelMetric  = "metric"
)
