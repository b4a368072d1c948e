package health

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"carbon-ledger/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DBPinger abstracts the database ping for health checks.
type DBPinger interface {
	Ping() error
}

type Traffic struct {
	TotalRequests   int64       `json:"totalRequests"`
	SuccessCount    int64       `json:"successCount"`
	FailedCount     int64       `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime int64       `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type Dependency struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

type CollectResult struct {
	Status       string                `json:"status"`
	Traffic      Traffic               `json:"traffic"`
	Dependencies map[string]Dependency `json:"dependencies"`
}

// CollectHealth reads the request-marker counters from Redis and pings the
// dependencies.
func CollectHealth(ctx context.Context, rdb *redis.Client, db DBPinger) CollectResult {
	var t Traffic
	if rdb != nil {
		t.TotalRequests, _ = rdb.Get(ctx, middleware.KeyReqTotal).Int64()
		t.FailedCount, _ = rdb.Get(ctx, middleware.KeyReqErrors).Int64()
		t.SuccessCount = t.TotalRequests - t.FailedCount
		resTime, _ := rdb.Get(ctx, middleware.KeyResTime).Float64()
		resCount, _ := rdb.Get(ctx, middleware.KeyResCount).Int64()
		if resCount > 0 {
			t.AvgResponseTime = int64(resTime) / resCount
		}
		if b, err := rdb.Get(ctx, middleware.KeyLastReq).Bytes(); err == nil {
			var m map[string]interface{}
			if json.Unmarshal(b, &m) == nil {
				t.LastRequest = m
			}
		}
	}
	if t.TotalRequests > 0 {
		t.SuccessRate = strconv.FormatFloat(float64(t.SuccessCount)/float64(t.TotalRequests)*100, 'f', 1, 64)
	} else {
		t.SuccessRate = "100.0"
	}

	deps := map[string]Dependency{
		"redis":    pingDep(func() error { return rdb.Ping(ctx).Err() }),
		"database": pingDep(func() error { return db.Ping() }),
	}

	status := "ok"
	for _, d := range deps {
		if d.Status != "connected" {
			status = "degraded"
		}
	}
	return CollectResult{Status: status, Traffic: t, Dependencies: deps}
}

func pingDep(ping func() error) Dependency {
	start := time.Now()
	if err := safePing(ping); err != nil {
		return Dependency{Status: "disconnected"}
	}
	ms := time.Since(start).Milliseconds()
	return Dependency{Status: "connected", PingMs: &ms}
}

func safePing(ping func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ping panic: %v", r)
		}
	}()
	return ping()
}
