package internal

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zapshots/shots-console-api/pkg/env"
	"github.com/zapshots/shots-console-api/pkg/log"
	"github.com/zapshots/shots-console-api/pkg/upstream"
)

func Routines(c *cron.Cron) {
	log.Print(nil).Info("Running Routine Tasks")

	// Periodic backend reachability probe.
	_, err := c.AddFunc("0 */5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := upstream.Default.Ping(ctx); err != nil {
			log.Print(nil).WithError(err).Warn("Backend unreachable")
			return
		}
		log.Print(nil).Debug("Backend reachable")
	})
	if err != nil {
		log.Print(nil).WithField("error", err.Error()).Error("Failed to add backend probe cron job")
	}

	// Connection status snapshot. Needs a service credential since the
	// backend scopes connections per account.
	serviceKey := env.GetEnvStringOrDefault("UPSTREAM_SERVICE_KEY", "")
	if serviceKey == "" {
		log.Print(nil).Info("UPSTREAM_SERVICE_KEY not set, connection status cron disabled")
	} else {
		spec := env.GetEnvStringOrDefault("CONNECTION_STATUS_CRON_SPEC", "0 * * * * *")
		_, err := c.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			conns, err := upstream.Default.ListConnections(ctx, serviceKey, "all")
			if err != nil {
				log.Print(nil).WithError(err).Warn("Connection status snapshot failed")
				return
			}

			var open, heating int
			for _, conn := range conns {
				if conn.Status == "open" {
					open++
				}
				if conn.Heater {
					heating++
				}
			}
			log.Print(nil).
				WithField("total", len(conns)).
				WithField("open", open).
				WithField("heating", heating).
				Info("Connection status snapshot")
		})
		if err != nil {
			log.Print(nil).WithField("error", err.Error()).Error("Failed to add connection status cron job")
		}
	}

	c.Start()
}
