package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/omarshaarawi/fmvboard/internal/creds"
	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/service"
)

const commandTimeout = 30 * time.Second

type Handler struct {
	board  *service.BoardService
	digest service.DigestConfig
	creds  creds.Credentials
}

func NewHandler(board *service.BoardService, digest service.DigestConfig, c creds.Credentials) *Handler {
	return &Handler{board: board, digest: digest, creds: c}
}

func (h *Handler) HandleCommand(update tgbotapi.Update) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, "")
	command := strings.ToLower(update.Message.Command())
	args := update.Message.CommandArguments()
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to the FMV board bot! Use /help to see available commands."
	case "help":
		msg.Text = "Available commands:\n/waivers - Top free agents by fair market value\n/whohas <player> - Check which team has a player"
	case "waivers":
		h.handleWaivers(&msg)
	case "whohas":
		h.handleWhoHas(&msg, args)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) handleWaivers(msg *tgbotapi.MessageConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	text, err := h.board.DigestText(ctx, h.digest, h.creds)
	if err != nil {
		msg.Text = fmt.Sprintf("Error building waiver report: %v", err)
		return
	}
	msg.Text = text
}

func (h *Handler) handleWhoHas(msg *tgbotapi.MessageConfig, args string) {
	if args == "" {
		msg.Text = "Please provide a player name. Usage: /whohas <player name>"
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	resp, err := h.board.WhoHas(ctx, service.WhoHasRequest{
		LeagueID: h.digest.LeagueID,
		Season:   h.digest.Season,
		Query:    args,
		Creds:    h.creds,
	})
	if err != nil {
		msg.Text = fmt.Sprintf("Error checking who has player: %v", err)
		return
	}
	msg.Text = formatWhoHas(resp)
}

func formatWhoHas(resp *models.WhoHasResponse) string {
	if !resp.Found || resp.Best == nil {
		return fmt.Sprintf("Nobody has %q. Probably a free agent or not in this league.", resp.Query)
	}

	b := resp.Best
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* (%s", b.PlayerName, b.Position))
	if b.ProTeam != "" {
		sb.WriteString(" - " + b.ProTeam)
	}
	sb.WriteString(fmt.Sprintf(") is on *%s*", b.TeamName))
	if b.LineupSlot != "" && b.LineupSlot != "Unknown" {
		sb.WriteString(fmt.Sprintf(" [%s]", b.LineupSlot))
	}

	if len(resp.Candidates) > 0 {
		sb.WriteString("\n\nClose matches:\n")
		for _, c := range resp.Candidates {
			sb.WriteString(fmt.Sprintf("- %s (%s) on %s\n", c.PlayerName, c.Position, c.TeamName))
		}
	}
	return sb.String()
}
