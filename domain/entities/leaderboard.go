package entities

import "time"

// LeaderboardMetric is a ranked account statistic
type LeaderboardMetric string

const (
	LeaderboardMetricMessages LeaderboardMetric = "messages"
	LeaderboardMetricVoice    LeaderboardMetric = "voice"
	LeaderboardMetricCash     LeaderboardMetric = "cash"
	LeaderboardMetricXP       LeaderboardMetric = "xp"
)

// AllLeaderboardMetrics in refresh order
var AllLeaderboardMetrics = []LeaderboardMetric{
	LeaderboardMetricMessages,
	LeaderboardMetricVoice,
	LeaderboardMetricCash,
	LeaderboardMetricXP,
}

// Windowed reports whether the metric has an activity timestamp to window on
func (m LeaderboardMetric) Windowed() bool {
	return m == LeaderboardMetricMessages || m == LeaderboardMetricVoice
}

// LeaderboardEntry is one ranked row. Rank starts at 1.
type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	AccountID int64   `json:"account_id"`
	Value     float64 `json:"value"`
}

// LeaderboardRanking is the ordered result for one metric. AllTime is set
// when the windowed query was empty and the ranking fell back.
type LeaderboardRanking struct {
	Metric  LeaderboardMetric  `json:"metric"`
	Entries []LeaderboardEntry `json:"entries"`
	AllTime bool               `json:"all_time"`
}

// LeaderboardSnapshot is rebuilt wholesale on every refresh and never
// mutated afterwards.
type LeaderboardSnapshot struct {
	GeneratedAt time.Time                                 `json:"generated_at"`
	Window      time.Duration                             `json:"window"`
	Rankings    map[LeaderboardMetric]*LeaderboardRanking `json:"rankings"`
}

// Ranking returns the ranking for a metric, or nil if it was not computed
func (s *LeaderboardSnapshot) Ranking(metric LeaderboardMetric) *LeaderboardRanking {
	if s == nil {
		return nil
	}
	return s.Rankings[metric]
}

// LeaderboardBoard identifies a rendered leaderboard destination
type LeaderboardBoard string

const (
	LeaderboardBoardChat  LeaderboardBoard = "chat"
	LeaderboardBoardVoice LeaderboardBoard = "voice"
)

// Metric returns the ranking a board displays
func (b LeaderboardBoard) Metric() LeaderboardMetric {
	if b == LeaderboardBoardVoice {
		return LeaderboardMetricVoice
	}
	return LeaderboardMetricMessages
}

// RenderTarget is where a board was posted so later refreshes can edit it
type RenderTarget struct {
	Board     LeaderboardBoard `db:"board" json:"board"`
	ChannelID int64            `db:"channel_id" json:"channel_id"`
	MessageID int64            `db:"message_id" json:"message_id"`
	UpdatedAt time.Time        `db:"updated_at" json:"updated_at"`
}
