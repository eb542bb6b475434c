// Package app wires configuration, data, store and agent together for the
// server and the CLI.
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"path/filepath"

	"hermes/hermes/agents/actions"
	"hermes/hermes/agents/configs"
	"hermes/hermes/agents/core"
	"hermes/hermes/agents/getters"
	"hermes/hermes/config"
	"hermes/hermes/controllers"
	"hermes/hermes/routes"
	"hermes/hermes/services/llm"
	"hermes/hermes/sources/dataset"
	"hermes/hermes/sources/sqlstore"
	"hermes/hermes/sources/sqlstore/dao"
	"hermes/hermes/sources/storage"
	"hermes/hermes/utils/logging"
	"hermes/hermes/utils/metrics"

	"go.uber.org/zap"
)

type App struct {
	Config  config.Config
	Dataset *dataset.Dataset
	Actions *actions.DataActions
	Getters *getters.DataGetters
	DB      *sqlstore.Database
	Store   *dao.ChatInteractionDAO
	Agent   *core.HermesAgent
}

// Open loads the dataset and opens the interaction store. The agent is not
// started; analytics-only callers never need an LLM credential.
func Open(ctx context.Context, cfg config.Config) (*App, error) {
	ds := LoadDataset(ctx, cfg)
	metrics.DatasetRows.Set(float64(ds.Len()))

	db, err := sqlstore.NewDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &App{
		Config:  cfg,
		Dataset: ds,
		Actions: actions.NewDataActions(ds),
		Getters: getters.NewDataGetters(ds),
		DB:      db,
		Store:   dao.NewChatInteractionDAO(db.DB),
	}, nil
}

// StartAgent validates the configuration and builds the agent.
func (a *App) StartAgent() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	agentCfg, err := configs.LoadConfig(a.Config.AgentConfigPath)
	if err != nil {
		return err
	}
	client, err := llm.NewClient(a.Config)
	if err != nil {
		return err
	}
	a.Agent = core.NewHermesAgent(client, a.Config.LLMModel, agentCfg, a.Actions)
	return nil
}

func (a *App) ChatController() *controllers.ChatController {
	return controllers.NewChatController(a.Agent, a.Store, a.Config.AgentTimeout)
}

// Controllers builds every HTTP controller. StartAgent must have run.
func (a *App) Controllers() routes.Controllers {
	return routes.Controllers{
		Auth:      controllers.NewAuthController(a.SessionSecret()),
		Chat:      a.ChatController(),
		Analytics: controllers.NewAnalyticsController(a.Actions, a.Getters),
		Health:    controllers.NewHealthController(a.Dataset.Len(), a.DB),
	}
}

// SessionSecret returns JWT_SECRET, generating a process-lifetime secret
// when it is unset.
func (a *App) SessionSecret() string {
	if a.Config.JWTSecret != "" {
		return a.Config.JWTSecret
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	a.Config.JWTSecret = hex.EncodeToString(buf)
	logging.AppLogger.Warn("JWT_SECRET not set, session tokens will not survive a restart")
	return a.Config.JWTSecret
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// LoadDataset reads shipments from the MinIO bucket when DATASET_BUCKET is
// set, falling back to DATASET_PATH on the local disk.
func LoadDataset(ctx context.Context, cfg config.Config) *dataset.Dataset {
	if cfg.DatasetBucket != "" {
		client, err := storage.NewMinIOClient(ctx, cfg)
		if err == nil {
			return dataset.LoadObject(ctx, client, storage.DatasetKey(filepath.Base(cfg.DatasetPath)))
		}
		logging.AppLogger.Warn("dataset bucket unavailable, reading local file",
			zap.String("bucket", cfg.DatasetBucket), zap.Error(err))
	}
	return dataset.Load(cfg.DatasetPath)
}
