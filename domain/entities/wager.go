package entities

// DefaultSlotsWinProbability is the chance a spin is decided as a win
const DefaultSlotsWinProbability = 0.35

// SlotsPayoutMultiplier is applied to the bet on a winning spin
const SlotsPayoutMultiplier int64 = 2

// SlotSymbols are the reel faces
var SlotSymbols = []string{"🍒", "🍋", "🔔", "🍉", "⭐", "7️⃣"}

// GameKind names a game of chance
type GameKind string

const (
	GameKindSlots     GameKind = "slots"
	GameKindRoulette  GameKind = "roulette"
	GameKindBlackjack GameKind = "blackjack"
)

// BetTransactionType returns the history type used when the bet is debited
func (g GameKind) BetTransactionType() TransactionType {
	switch g {
	case GameKindRoulette:
		return TransactionTypeRouletteBet
	case GameKindBlackjack:
		return TransactionTypeBlackjackBet
	default:
		return TransactionTypeSlotsBet
	}
}

// SpinResult is the outcome of a single slots or roulette spin.
// Reels is set for slots, Pocket and Target for roulette.
type SpinResult struct {
	Game    GameKind
	Bet     int64
	Won     bool
	Payout  int64
	Balance int64
	Reels   []string
	Pocket  *RoulettePocket
	Target  *RouletteTarget
}

// Net returns the balance change caused by the spin
func (r *SpinResult) Net() int64 {
	return r.Payout - r.Bet
}
