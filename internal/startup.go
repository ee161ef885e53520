package internal

import (
	"context"
	"time"

	"github.com/zapshots/shots-console-api/internal/drafts"
	"github.com/zapshots/shots-console-api/pkg/env"
	"github.com/zapshots/shots-console-api/pkg/log"
	"github.com/zapshots/shots-console-api/pkg/upstream"
)

func Startup() {
	log.Print(nil).Info("Running Startup Tasks")

	// Required configuration is asserted up front so a misconfigured
	// deployment dies at boot instead of on the first request.
	env.MustGetEnvString("JWT_SECRET_KEY")
	upstream.Default.SetBaseURL(env.MustGetEnvString("UPSTREAM_BASE_URL"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Probe the messaging backend. The console still starts when it is
	// down; campaigns will fail with a bad gateway until it returns.
	if err := upstream.Default.Ping(ctx); err != nil {
		log.Print(nil).WithError(err).Warn("Messaging backend is not reachable")
	} else {
		log.Print(nil).Info("Messaging backend is reachable")
	}

	// Draft storage is optional. Without DATABASE_URL the draft routes
	// report storage as not configured.
	dsn := env.GetEnvStringOrDefault("DATABASE_URL", "")
	if dsn == "" {
		log.Print(nil).Info("DATABASE_URL not set, draft storage disabled")
		return
	}

	db, err := drafts.Open(dsn)
	if err != nil {
		log.Print(nil).WithError(err).Error("Failed to open draft storage")
		return
	}
	if err := db.PingContext(ctx); err != nil {
		log.Print(nil).WithError(err).Error("Failed to reach draft storage")
		return
	}

	store := drafts.NewStore(db)
	if err := store.InitSchema(ctx); err != nil {
		log.Print(nil).WithError(err).Error("Failed to prepare draft storage schema")
		return
	}

	drafts.DefaultStore = store
	log.Print(nil).Info("Draft storage ready")
}
