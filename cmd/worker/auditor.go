package worker

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amberhq/campaign-gateway/internal/config"
	"github.com/amberhq/campaign-gateway/internal/db"
	"github.com/amberhq/campaign-gateway/internal/kafka"
	"github.com/amberhq/campaign-gateway/internal/logger"
	"github.com/amberhq/campaign-gateway/internal/metrics"
	"github.com/amberhq/campaign-gateway/internal/repository"
	"github.com/amberhq/campaign-gateway/internal/service/dispatch"
	"github.com/amberhq/campaign-gateway/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var auditorCmd = &cobra.Command{
	Use:   "auditor",
	Short: "Run the dispatch audit worker (Kafka to ClickHouse)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAuditor(cmd)
	},
}

func runAuditor(cmd *cobra.Command) error {
	// 1) load config
	cfgPath, _ := cmd.Root().PersistentFlags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Encoding)
	metrics.MustRegister(prometheus.DefaultRegisterer)

	// 2) DB connection (ClickHouse)
	chDB, err := db.NewClickHouseConnection(cfg.ClickHouse.DSN, db.Opts{
		MaxOpenConns:    cfg.ClickHouse.MaxOpenConns,
		MaxIdleConns:    cfg.ClickHouse.MaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouse.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ClickHouse.ConnMaxIdleTime,
		PingTimeout:     cfg.ClickHouse.PingTimeout,
	})
	if err != nil {
		return fmt.Errorf("clickhouse connect: %w", err)
	}
	defer func() { _ = chDB.Close() }()

	dispatchLogRepo := repository.NewDispatchLogRepository(chDB)

	// 3) kafka consumer
	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = "campgw-auditor"
	}

	consumer := kafka.NewConsumer(kafka.Config{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          dispatch.DispatchEventsKafkaTopic,
		GroupID:        groupID,
		MinBytes:       cfg.Kafka.MinBytes,
		MaxBytes:       cfg.Kafka.MaxBytes,
		CommitInterval: time.Duration(cfg.Kafka.CommitInterval) * time.Millisecond,
	})
	defer consumer.Close()

	a := worker.NewAuditor(consumer, dispatchLogRepo)

	// tune knobs
	if cfg.Auditor.WorkerCount > 0 {
		a.Workers = cfg.Auditor.WorkerCount
	}
	if cfg.Auditor.BatchSize > 0 {
		a.BatchSize = cfg.Auditor.BatchSize
	}
	if cfg.Auditor.BatchWait > 0 {
		a.BatchWait = cfg.Auditor.BatchWait
	}

	// 4) graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf(">> auditor started topic=%s group=%s workers=%d batchSize=%d batchWait=%s",
		dispatch.DispatchEventsKafkaTopic, groupID, a.Workers, a.BatchSize, a.BatchWait)

	return a.Run(ctx)
}
