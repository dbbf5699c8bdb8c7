package controllers

import (
	"context"
	"log/slog"
	"time"

	"github.com/hrdesk/leave_service/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

type Controllers struct {
	EmployeeController *EmployeeController
	LeaveController    *LeaveController
	StatsController    *StatsController
}

type Dependens struct {
	DB interface {
		Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
		QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
		Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	}
	Redis interface {
		Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
		Get(ctx context.Context, key string) *redis.StringCmd
		Del(ctx context.Context, keys ...string) *redis.IntCmd
	}
	Logger *slog.Logger
	Config *config.Config

	// Now is the injected clock used for every "today" comparison, so the
	// date rules stay deterministic under test. Defaults to time.Now.
	Now func() time.Time
}

func NewControllers(deps *Dependens) *Controllers {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Controllers{
		EmployeeController: NewEmployeeController(deps),
		LeaveController:    NewLeaveController(deps),
		StatsController:    NewStatsController(deps),
	}
}
