package infrastructure

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"clover/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const leaderboardEmbedColor = 0x2ecc71

// MessageEditor is the part of a discordgo session used to update posted boards
type MessageEditor interface {
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordLeaderboardPublisher edits the persisted leaderboard messages after
// every refresh. It only talks to the REST API; no gateway connection is opened.
type DiscordLeaderboardPublisher struct {
	editor MessageEditor
}

// NewDiscordSession creates a REST-only discordgo session for a bot token
func NewDiscordSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return session, nil
}

func NewDiscordLeaderboardPublisher(editor MessageEditor) *DiscordLeaderboardPublisher {
	return &DiscordLeaderboardPublisher{editor: editor}
}

// OnRefresh matches interfaces.RefreshListener. A target that fails to update
// is logged and skipped.
func (p *DiscordLeaderboardPublisher) OnRefresh(ctx context.Context, snapshot *entities.LeaderboardSnapshot, targets []*entities.RenderTarget) {
	for _, target := range targets {
		if err := p.Publish(ctx, snapshot, target); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"board":     target.Board,
				"channelID": target.ChannelID,
				"messageID": target.MessageID,
			}).Error("Failed to update leaderboard message")
		}
	}
}

// Publish rewrites one board's message with the matching ranking
func (p *DiscordLeaderboardPublisher) Publish(ctx context.Context, snapshot *entities.LeaderboardSnapshot, target *entities.RenderTarget) error {
	ranking := snapshot.Ranking(target.Board.Metric())
	if ranking == nil {
		return fmt.Errorf("snapshot has no %s ranking", target.Board.Metric())
	}

	embed := buildLeaderboardEmbed(target.Board, ranking, snapshot)
	_, err := p.editor.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: strconv.FormatInt(target.ChannelID, 10),
		ID:      strconv.FormatInt(target.MessageID, 10),
		Embeds:  &[]*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to edit leaderboard message: %w", err)
	}

	log.WithFields(log.Fields{
		"board":   target.Board,
		"entries": len(ranking.Entries),
	}).Debug("Leaderboard message updated")
	return nil
}

func buildLeaderboardEmbed(board entities.LeaderboardBoard, ranking *entities.LeaderboardRanking, snapshot *entities.LeaderboardSnapshot) *discordgo.MessageEmbed {
	title := "Chat Leaderboard"
	if board == entities.LeaderboardBoardVoice {
		title = "Voice Leaderboard"
	}

	var b strings.Builder
	if len(ranking.Entries) == 0 {
		b.WriteString("No activity yet.")
	}
	for _, entry := range ranking.Entries {
		fmt.Fprintf(&b, "**%d.** <@%d> · %s\n", entry.Rank, entry.AccountID, formatMetricValue(ranking.Metric, entry.Value))
	}

	footer := fmt.Sprintf("Last %d days", int(snapshot.Window/(24*time.Hour)))
	if ranking.AllTime {
		footer = "All time"
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: b.String(),
		Color:       leaderboardEmbedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: footer},
		Timestamp:   snapshot.GeneratedAt.Format(time.RFC3339),
	}
}

func formatMetricValue(metric entities.LeaderboardMetric, value float64) string {
	switch metric {
	case entities.LeaderboardMetricVoice:
		return fmt.Sprintf("%.1f min", value)
	case entities.LeaderboardMetricMessages:
		return fmt.Sprintf("%.0f messages", value)
	default:
		return strconv.FormatFloat(value, 'f', 0, 64)
	}
}
