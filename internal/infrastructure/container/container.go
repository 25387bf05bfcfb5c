// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JhonatanAndres2004/TasteAI/internal/application/account"
	"github.com/JhonatanAndres2004/TasteAI/internal/application/planner"
	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/config"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/http/server"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/llm"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/llm/anthropic"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/llm/gemini"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/llm/openai"
	gormRepo "github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/persistence/gorm"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/persistence/postgres"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/persistence/sqlite"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/prompt"
	"github.com/JhonatanAndres2004/TasteAI/internal/infrastructure/recall"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/inbound"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/outbound"
	"github.com/JhonatanAndres2004/TasteAI/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	RepositoryModule,
	ProviderModule,
	RecallModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the database connection for the configured driver
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		switch cfg.Database.Driver {
		case "sqlite":
			db, err := sqlite.SetupDatabase(cfg.Database.Database, logLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
			}
			log.Info("Connected to SQLite database", zap.String("path", cfg.Database.Database))
			return db, nil
		case "postgres":
			db, err := postgres.SetupDatabase(cfg.Database, logLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to setup PostgreSQL database: %w", err)
			}
			log.Info("Connected to PostgreSQL database",
				zap.String("host", cfg.Database.Host),
				zap.String("database", cfg.Database.Database),
			)
			return db, nil
		default:
			return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
		}
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormRepo.NewProfileRepository,
	gormRepo.NewMenuRepository,
	gormRepo.NewChatHistoryRepository,
)

// ProviderModule builds the fail-over chain in the configured order and the
// gateway on top of it
var ProviderModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) ([]outbound.LLMProvider, error) {
		providers := make([]outbound.LLMProvider, 0, len(cfg.AI.ProviderOrder))
		for _, name := range cfg.AI.ProviderOrder {
			switch name {
			case "openai":
				providers = append(providers, openai.NewClient(openai.Config{
					APIKey:      cfg.AI.OpenAIKey,
					Model:       cfg.AI.OpenAIModel,
					Temperature: cfg.AI.Temperature,
				}, log))
			case "anthropic":
				providers = append(providers, anthropic.NewClient(anthropic.Config{
					APIKey:      cfg.AI.AnthropicKey,
					Model:       cfg.AI.AnthropicModel,
					Temperature: cfg.AI.Temperature,
					MaxTokens:   cfg.AI.AnthropicMaxTokens,
				}, log))
			case "gemini":
				client, err := gemini.NewClient(context.Background(), gemini.Config{
					APIKey:      cfg.AI.GeminiKey,
					Model:       cfg.AI.GeminiModel,
					Temperature: cfg.AI.Temperature,
				}, log)
				if err != nil {
					return nil, fmt.Errorf("failed to build gemini provider: %w", err)
				}
				providers = append(providers, client)
			default:
				return nil, fmt.Errorf("unknown provider %q in provider_order", name)
			}
		}
		return providers, nil
	},
	func(providers []outbound.LLMProvider, cfg *config.Config, log *zap.Logger) planner.Completer {
		return llm.NewGateway(providers, cfg.AI.AttemptTimeout, log)
	},
)

// RecallModule provides semantic chat recall when it is enabled. A nil port
// means revisions run with relational history only.
var RecallModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.ConversationRecall, error) {
		if !cfg.Recall.Enabled {
			log.Info("Semantic chat recall disabled")
			return nil, nil
		}

		embedder, err := recall.NewEmbedder(context.Background(), cfg.AI.GeminiKey, cfg.Recall.EmbeddingModel, log)
		if err != nil {
			return nil, fmt.Errorf("failed to build embedder: %w", err)
		}
		index, err := recall.NewPineconeIndex(cfg.Recall.PineconeHost, cfg.Recall.PineconeAPIKey, log)
		if err != nil {
			return nil, fmt.Errorf("failed to build vector index: %w", err)
		}
		return recall.NewService(embedder, index, log), nil
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(profiles outbound.ProfileRepository, cfg *config.Config, log *zap.Logger) *account.Service {
		return account.NewService(
			profiles,
			cfg.Auth.JWTSecret,
			cfg.Auth.JWTExpiration,
			cfg.Auth.BCryptCost,
			log,
		)
	},

	func(
		profiles outbound.ProfileRepository,
		menus outbound.MenuRepository,
		chats outbound.ChatHistoryRepository,
		completer planner.Completer,
		conversationRecall outbound.ConversationRecall,
		cfg *config.Config,
		log *zap.Logger,
	) (inbound.PlannerService, error) {
		prompts, err := prompt.NewEngine()
		if err != nil {
			return nil, err
		}
		return planner.NewService(
			profiles,
			menus,
			chats,
			completer,
			prompts,
			conversationRecall,
			nutrition.Tolerance{
				Calories:      cfg.Tolerance.Calories,
				Protein:       cfg.Tolerance.Protein,
				Fats:          cfg.Tolerance.Fats,
				Carbohydrates: cfg.Tolerance.Carbohydrates,
			},
			log,
		), nil
	},
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(
	server.NewServer,
)

// LifecycleModule registers start and stop hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting application",
				zap.String("name", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down application")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
