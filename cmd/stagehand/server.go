package main

import (
	"context"
	"database/sql"
	"net/http"

	"stagehand/internal/app/planning"
	"stagehand/internal/app/rosters"
	"stagehand/internal/app/talent"
	"stagehand/internal/app/tours"
	"stagehand/internal/app/venues"
	"stagehand/internal/config"
	"stagehand/internal/http/middleware"
	"stagehand/internal/httpapi"
	"stagehand/internal/kv"
	"stagehand/internal/logging"
	"stagehand/internal/reference"
	"stagehand/internal/session"
	"stagehand/internal/store"
	"stagehand/internal/talentsource"
	"stagehand/internal/venuematch"
)

// dependencies are the storage backends chosen by configuration.
type dependencies struct {
	db      *sql.DB
	tables  reference.Tables
	kv      kv.Store
	venues  venues.Store
	talent  talent.Store
	cleanup context.CancelFunc
}

func newDependencies(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*dependencies, error) {
	tables, err := referenceTables(cfg.ReferenceDataDir)
	if err != nil {
		return nil, err
	}

	if cfg.MemoryMode() {
		logger.Zerolog().Warn().Msg("DATABASE_URL not set, keeping all state in memory")
		memory := kv.NewMemory()
		return &dependencies{
			tables:  tables,
			kv:      memory,
			venues:  venues.NewMemoryStore(tables.Venues),
			talent:  talent.NewMemoryStore(tables.Talent),
			cleanup: startPurge(memory, logger),
		}, nil
	}

	db, err := openDatabase(ctx, cfg.DatabaseURL, logger.With("database"))
	if err != nil {
		return nil, err
	}

	dataStore := store.New(db)
	if err := bootstrapReferenceData(ctx, db, dataStore, tables); err != nil {
		_ = db.Close()
		return nil, err
	}
	loaded, err := dataStore.LoadReference(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &dependencies{
		db:      db,
		tables:  loaded,
		kv:      dataStore.KV(),
		venues:  dataStore,
		talent:  dataStore,
		cleanup: startPurge(dataStore.KV(), logger),
	}, nil
}

// startPurge runs the hourly expiry sweep in the background until cancelled.
func startPurge(purger kv.Purger, logger *logging.Logger) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go purgeExpired(ctx, purger, purgeInterval, logger.With("kv"))
	return cancel
}

func (d *dependencies) Close() {
	if d.cleanup != nil {
		d.cleanup()
	}
	if d.db != nil {
		_ = d.db.Close()
	}
}

func newHTTPHandler(cfg *config.Config, deps *dependencies, logger *logging.Logger) http.Handler {
	sessions, err := session.NewManager(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		// Config validation requires a secret, so this only fires on misuse.
		panic(err)
	}

	// Base services
	planningSvc := planning.New()
	venueSvc := venues.New(deps.venues, venuematch.DefaultRules())
	rosterSvc := rosters.New(deps.kv, cfg.Session.TTL)

	// Derived services
	tourOpts := tours.DefaultOptions()
	tourOpts.LeaderPct = cfg.Planning.LeaderPct
	tourSvc := tours.New(venueSvc, rosterSvc, deps.tables, tourOpts)
	talentSvc := talent.New(deps.talent, newTalentSources(cfg, deps, logger), cfg.Planning.StrictCeiling)

	api := httpapi.New(sessions, planningSvc, venueSvc, rosterSvc, tourSvc, talentSvc)

	return middleware.Chain(api.Routes(),
		middleware.Recovery(logger),
		middleware.RequestLogging(logger),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)
}

func newTalentSources(cfg *config.Config, deps *dependencies, logger *logging.Logger) talent.Lookup {
	if cfg.TalentSource.URL == "" {
		logger.Info("TALENT_SOURCE_URL not set, external talent lookup disabled")
		return nil
	}

	mb := talentsource.NewMusicBrainzClient(cfg.TalentSource.URL, cfg.TalentSource.UserAgent)
	logger.Zerolog().Info().Str("source", mb.Name()).Str("url", cfg.TalentSource.URL).Msg("external talent lookup enabled")
	return talentsource.NewAggregator(deps.kv, *logger.With("talentsource").Zerolog(), mb)
}
