package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/memybot/internal/config"
	"github.com/sandevgo/memybot/internal/core"
	"github.com/sandevgo/memybot/internal/observability"
	"github.com/sandevgo/memybot/internal/providers/llm"
	"github.com/sandevgo/memybot/internal/providers/notify"
	"github.com/sandevgo/memybot/internal/service/agent"
	"github.com/sandevgo/memybot/internal/service/command"
	"github.com/sandevgo/memybot/internal/service/persona"
	"github.com/sandevgo/memybot/internal/service/tools"
	"github.com/sandevgo/memybot/internal/storage/sqlite"
	"github.com/sandevgo/memybot/internal/transport/telegram"
	"github.com/sandevgo/memybot/internal/transport/web"
	"github.com/sandevgo/memybot/pkg/log"
	"github.com/sandevgo/memybot/pkg/srv"
)

// deps is everything the recording tools need. The MCP server stops here.
type deps struct {
	appCfg   *config.AppConfig
	metrics  *observability.Metrics
	db       *sql.DB
	messages core.MessagesRepository
	records  core.RecordsRepository
	registry *tools.Registry
	cleanups []srv.Service
}

// chatDeps adds the persona and the model on top of deps.
type chatDeps struct {
	*deps
	providerCfg *config.ProviderConfig
	persona     *persona.Persona
	provider    llm.Provider
	agent       *agent.Agent
}

func (d *deps) close(ctx context.Context) {
	for i := len(d.cleanups) - 1; i >= 0; i-- {
		if err := d.cleanups[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msg("cleanup failed")
		}
	}
}

func newDeps(ctx context.Context) *deps {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	d := &deps{
		appCfg:  config.NewAppConfig(ctx),
		metrics: observability.NewMetrics(observability.Namespace),
	}
	pushoverCfg := config.NewPushoverConfig(ctx)

	// 2. Storage
	if d.appCfg.EnableStore {
		db, err := sqlite.NewDB(ctx, d.appCfg.GetDatabasePath())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize storage")
		}
		d.db = db
		d.messages = sqlite.NewMessagesRepo(db)
		d.records = sqlite.NewRecordsRepo(db)
		d.cleanups = append(d.cleanups, srv.NewCleanup(db.Close))
	}

	// 3. Notifier & Tools
	notifier := notify.New(pushoverCfg)
	if !pushoverCfg.Enabled() {
		logger.Warn().Msg("pushover credentials missing, notifications will only be logged")
	}

	d.registry = tools.NewRegistry()
	if err := tools.NewRecorder(notifier, d.records, d.metrics).Register(d.registry); err != nil {
		logger.Fatal().Err(err).Msg("failed to register tools")
	}

	return d
}

func newChatDeps(ctx context.Context) *chatDeps {
	logger := log.FromCtx(ctx)
	d := &chatDeps{deps: newDeps(ctx)}

	// 4. Persona
	personaCfg := config.NewPersonaConfig(ctx)
	p, err := persona.Load(ctx, personaCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load persona documents")
	}
	d.persona = p

	// 5. AI Provider
	d.providerCfg = config.NewProviderConfig(ctx)
	d.provider, err = llm.NewProvider(ctx, d.providerCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 6. Agent Service
	d.agent = agent.NewAgent(d.appCfg, d.provider, d.registry, d.persona, d.metrics)

	return d
}

func (d *chatDeps) commandDeps(reset command.SessionResetter) command.Deps {
	return command.Deps{
		PersonaName: d.persona.Name,
		Provider:    d.providerCfg.Provider,
		Model:       d.provider,
		Tools:       d.registry,
		Reset:       reset,
	}
}

func NewServices(ctx context.Context) ([]srv.Service, *config.WebConfig) {
	logger := log.FromCtx(ctx)
	d := newChatDeps(ctx)

	services := append([]srv.Service{}, d.cleanups...)

	// 7. Transports
	transports, webCfg, err := initTransports(ctx, d)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	if len(transports) == 0 {
		logger.Fatal().Msg("no transport enabled, set ENABLE_WEB or ENABLE_TELEGRAM")
	}
	services = append(services, transports...)

	return services, webCfg
}

func initTransports(ctx context.Context, d *chatDeps) ([]srv.Service, *config.WebConfig, error) {
	var services []srv.Service
	webCfg := config.NewWebConfig(ctx)

	// Web UI
	if d.appCfg.EnableWeb {
		server, err := web.New(webCfg, d.agent, web.Branding{Name: d.persona.Name, Blurb: d.persona.Blurb}, d.metrics)
		if err != nil {
			return nil, nil, err
		}
		services = append(services, server)
	}

	// Telegram Bot
	if d.appCfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)

		var reset command.SessionResetter
		if d.messages != nil {
			reset = d.messages
		}
		router := command.NewRouter(d.commandDeps(reset))

		bot, err := telegram.NewBot(ctx, tgCfg, d.appCfg, d.agent, d.messages, router, d.metrics)
		if err != nil {
			return nil, nil, err
		}
		services = append(services, bot)
	}

	return services, webCfg, nil
}

// initEnv loads ./.env and then <runtime>/.env. Variables already set in
// the environment, or by the earlier file, win.
func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)

	for _, envFile := range []string{".env", filepath.Join(runtimePath, ".env")} {
		if _, err := os.Stat(envFile); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}

		if err := godotenv.Load(envFile); err != nil {
			logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
			return err
		}

		logger.Debug().Str("path", envFile).Msg("loaded .env file")
	}
	return nil
}
