// Package bot serves analysis commands over the Telegram Bot API using
// long polling.
package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"rugshield/internal/analysis"
	"rugshield/internal/contract"
	"rugshield/internal/report"
	"rugshield/internal/service"
	"rugshield/internal/storage"
	"rugshield/internal/wallet"
)

// AnalysisService is the orchestration surface the bot dispatches to.
type AnalysisService interface {
	Analyze(ctx context.Context, address string) (service.Result, error)
	Social(ctx context.Context, address string) (analysis.TokenSnapshot, analysis.SocialSnapshot, error)
}

// ContractInspector inspects contract bytecode.
type ContractInspector interface {
	Inspect(ctx context.Context, address string) (contract.Inspection, error)
}

// WalletAnalyzer builds wallet overviews.
type WalletAnalyzer interface {
	Analyze(ctx context.Context, address string) (wallet.Overview, error)
}

// Options configure the bot transport.
type Options struct {
	Token   string
	BaseURL string
	// PollTimeout is the long-poll wait passed to getUpdates, in seconds.
	PollTimeout int
	// CommandTimeout bounds the handling of one command.
	CommandTimeout time.Duration
}

// Bot long-polls getUpdates and answers analysis commands.
type Bot struct {
	opts      Options
	analyzer  AnalysisService
	inspector ContractInspector
	wallets   WalletAnalyzer
	scamStore storage.ScamReportStore
	client    *http.Client
	logger    zerolog.Logger

	offset int64
}

// New constructs the bot. inspector, wallets, and scamStore may be nil;
// the matching commands then report the feature as unavailable.
func New(opts Options, analyzer AnalysisService, inspector ContractInspector, wallets WalletAnalyzer, scamStore storage.ScamReportStore, logger zerolog.Logger) *Bot {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.telegram.org"
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 30
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = 90 * time.Second
	}

	return &Bot{
		opts:      opts,
		analyzer:  analyzer,
		inspector: inspector,
		wallets:   wallets,
		scamStore: scamStore,
		client:    &http.Client{Timeout: time.Duration(opts.PollTimeout+10) * time.Second},
		logger:    logger.With().Str("component", "bot").Logger(),
	}
}

type chat struct {
	ID int64 `json:"id"`
}

type message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      chat   `json:"chat"`
}

type update struct {
	UpdateID int64    `json:"update_id"`
	Message  *message `json:"message"`
}

type updatesResponse struct {
	OK     bool     `json:"ok"`
	Result []update `json:"result"`
}

// Run polls for updates until the context is cancelled. Polling errors are
// logged and retried after a short backoff.
func (b *Bot) Run(ctx context.Context) error {
	if b.opts.Token == "" {
		return errors.New("bot token not configured")
	}

	b.logger.Info().Msg("bot started")
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		updates, err := b.getUpdates(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Error().Err(err).Msg("getUpdates failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= b.offset {
				b.offset = upd.UpdateID + 1
			}
			if upd.Message == nil || upd.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, *upd.Message)
		}
	}
}

func (b *Bot) getUpdates(ctx context.Context) ([]update, error) {
	query := url.Values{}
	query.Set("offset", strconv.FormatInt(b.offset, 10))
	query.Set("timeout", strconv.Itoa(b.opts.PollTimeout))

	endpoint := fmt.Sprintf("%s/bot%s/getUpdates?%s", b.opts.BaseURL, b.opts.Token, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create getUpdates request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send getUpdates request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("getUpdates status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed updatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode getUpdates response: %w", err)
	}
	if !parsed.OK {
		return nil, errors.New("getUpdates returned ok=false")
	}
	return parsed.Result, nil
}

func (b *Bot) handleMessage(ctx context.Context, msg message) {
	command, arg := parseCommand(msg.Text)
	if command == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, b.opts.CommandTimeout)
	defer cancel()

	reply := b.respond(ctx, command, arg)
	if reply == "" {
		return
	}
	if err := b.sendMessage(ctx, msg.Chat.ID, reply); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Str("command", command).
			Msg("failed to send reply")
	}
}

// parseCommand splits "/cmd@BotName arg..." into the bare command and its
// first argument.
func parseCommand(text string) (command, arg string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", ""
	}
	command = strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}
	if len(fields) > 1 {
		arg = fields[1]
	}
	return strings.ToLower(command), arg
}

func (b *Bot) respond(ctx context.Context, command, arg string) string {
	switch command {
	case "start":
		return report.Welcome()
	case "help":
		return report.Help()
	case "analyze", "metrics", "risk", "social", "contract", "wallet", "scam_check":
		if arg == "" {
			return fmt.Sprintf("Please provide a token address\\.\nExample: `/%s 0x123\\.\\.\\.abc`", command)
		}
	default:
		return ""
	}

	switch command {
	case "analyze":
		result, err := b.analyzer.Analyze(ctx, arg)
		if err != nil {
			return report.Errorf("analyzing token", err)
		}
		if result.ScamReport != nil {
			return report.ScamAlert(*result.ScamReport) + "\n" + report.Analysis(result.Snapshot, result.Risk, result.Commentary)
		}
		return report.Analysis(result.Snapshot, result.Risk, result.Commentary)
	case "metrics":
		result, err := b.analyzer.Analyze(ctx, arg)
		if err != nil {
			return report.Errorf("fetching metrics", err)
		}
		return report.Metrics(arg, result.Snapshot, result.Metrics)
	case "risk":
		result, err := b.analyzer.Analyze(ctx, arg)
		if err != nil {
			return report.Errorf("analyzing risk", err)
		}
		return report.Risk(arg, result.Risk)
	case "social":
		snap, social, err := b.analyzer.Social(ctx, arg)
		if err != nil {
			return report.Errorf("analyzing social media", err)
		}
		return report.Social(snap.Name, snap.Symbol, social)
	case "contract":
		if b.inspector == nil {
			return report.Errorf("analyzing contract", errors.New("contract inspection not configured"))
		}
		inspection, err := b.inspector.Inspect(ctx, arg)
		if err != nil {
			return report.Errorf("analyzing contract", err)
		}
		return report.Contract(inspection)
	case "wallet":
		if b.wallets == nil {
			return report.Errorf("analyzing wallet", errors.New("wallet analysis not configured"))
		}
		overview, err := b.wallets.Analyze(ctx, arg)
		if err != nil {
			return report.Errorf("analyzing wallet", err)
		}
		return report.Wallet(overview)
	case "scam_check":
		if b.scamStore == nil {
			return report.Errorf("checking scam database", errors.New("scam database not configured"))
		}
		rep, err := b.scamStore.GetScamReport(ctx, arg)
		if errors.Is(err, storage.ErrReportNotFound) {
			return report.ScamClean()
		}
		if err != nil {
			return report.Errorf("checking scam database", err)
		}
		return report.ScamAlert(rep)
	}
	return ""
}

func (b *Bot) sendMessage(ctx context.Context, chatID int64, text string) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "MarkdownV2",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sendMessage payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", b.opts.BaseURL, b.opts.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sendMessage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendMessage status %d", resp.StatusCode)
	}
	return nil
}
