package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"rugshield/internal/ai"
	"rugshield/internal/alerting"
	"rugshield/internal/bot"
	"rugshield/internal/config"
	"rugshield/internal/contract"
	"rugshield/internal/provider"
	"rugshield/internal/service"
	"rugshield/internal/storage"
	"rugshield/internal/wallet"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newAdapter() *provider.Adapter {
	p := a.Config.Providers

	market := provider.NewCoinGecko(provider.CoinGeckoOptions{
		BaseURL:   p.CoinGecko.BaseURL,
		Timeout:   p.CoinGecko.RequestTimeout,
		UserAgent: p.CoinGecko.UserAgent,
	}, a.Logger)

	explorer := provider.NewEtherscan(provider.EtherscanOptions{
		BaseURL: p.Etherscan.BaseURL,
		APIKey:  p.Etherscan.APIKey,
		Timeout: p.Etherscan.RequestTimeout,
	}, a.Logger)

	holders := []provider.HolderSource{explorer}
	if p.Ethereum.RPCURL != "" {
		holders = append(holders, provider.NewHolderEstimator(provider.HolderEstimatorOptions{
			RPCURL:      p.Ethereum.RPCURL,
			BlockWindow: p.Ethereum.BlockWindow,
			MaxEvents:   p.Ethereum.MaxEvents,
			Timeout:     p.Ethereum.RequestTimeout,
		}, a.Logger))
	}

	var social provider.SocialProvider
	if p.Twitter.BearerToken != "" {
		social = provider.NewTwitter(provider.TwitterOptions{
			BaseURL:     p.Twitter.BaseURL,
			BearerToken: p.Twitter.BearerToken,
			MaxResults:  p.Twitter.MaxResults,
			Timeout:     p.Twitter.RequestTimeout,
		}, a.Logger)
	}

	return provider.NewAdapter(market, explorer, holders, social,
		provider.Options{RequestTimeout: p.RequestTimeout}, a.Logger)
}

func (a *App) newInspector() *contract.Inspector {
	if a.Config.Providers.Ethereum.RPCURL == "" {
		return nil
	}
	return contract.NewInspector(contract.Options{
		RPCURL:  a.Config.Providers.Ethereum.RPCURL,
		Timeout: a.Config.Providers.Ethereum.RequestTimeout,
	}, a.Logger)
}

func (a *App) newWallets() *wallet.Analyzer {
	if a.Config.Providers.Ethereum.RPCURL == "" {
		return nil
	}
	return wallet.NewAnalyzer(wallet.Options{
		RPCURL:        a.Config.Providers.Ethereum.RPCURL,
		KnownScammers: a.Config.Providers.Ethereum.KnownScammers,
		Timeout:       a.Config.Providers.Ethereum.RequestTimeout,
	}, a.Logger)
}

func (a *App) newCommentator() ai.Commentator {
	if a.Config.AI.APIKey == "" {
		return ai.Disabled{}
	}
	return ai.NewOpenAI(a.Config.AI.APIKey, a.Config.AI.Model)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Watch.Telegram.Enabled {
		cfg := a.Config.Watch.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

// stores resolves the persistence layer. Without a DSN everything runs on
// the in-memory store.
type stores struct {
	scam    storage.ScamReportStore
	history storage.AnalysisStore
	locker  storage.AdvisoryLocker
	close   func()
}

func (a *App) openStores(ctx context.Context) (stores, error) {
	if a.Config.Database.DSN == "" {
		a.Logger.Warn().Msg("database.dsn not configured; using in-memory store")
		mem := storage.NewMemoryStore()
		return stores{scam: mem, history: mem}, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return stores{}, err
	}

	store := storage.NewStore(pool)
	return stores{
		scam:    store,
		history: store,
		locker:  store,
		close:   store.Close,
	}, nil
}

func (a *App) newAnalyzer(st stores) *service.Analyzer {
	return service.NewAnalyzer(a.newAdapter(), st.scam, st.history, a.newCommentator(),
		service.Options{RequestDeadline: a.Config.Providers.RequestTimeout * 2}, a.Logger)
}

// Run starts the Telegram bot.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := a.openStores(ctx)
	if err != nil {
		return err
	}
	if st.close != nil {
		defer st.close()
	}

	// Assign through locals so a nil *Inspector does not become a non-nil
	// interface.
	var inspector bot.ContractInspector
	if i := a.newInspector(); i != nil {
		inspector = i
	}
	var wallets bot.WalletAnalyzer
	if w := a.newWallets(); w != nil {
		wallets = w
	}

	b := bot.New(bot.Options{
		Token:          a.Config.Bot.Token,
		BaseURL:        a.Config.Bot.APIBase,
		PollTimeout:    a.Config.Bot.PollTimeout,
		CommandTimeout: a.Config.Bot.CommandTimeout,
	}, a.newAnalyzer(st), inspector, wallets, st.scam, a.Logger)

	a.Logger.Info().Msg("starting bot")
	err = b.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("bot terminated with error")
		return err
	}

	a.Logger.Info().Msg("bot stopped")
	return nil
}

// ExportOptions hold parameters for exporting analysis history.
type ExportOptions struct {
	Address   string
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// ScamReportOptions configure the report-scam command.
type ScamReportOptions struct {
	Address         string
	Type            string
	Severity        string
	Description     string
	WarningSigns    []string
	Recommendations []string
	Source          string
}
