package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/amberhq/campaign-gateway/internal/config"
	"github.com/amberhq/campaign-gateway/internal/db"
	"github.com/amberhq/campaign-gateway/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo WhatsApp templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1) load config
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// 2) connect MySQL
		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.Opts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo WhatsApp templates...")

		if err := seedTemplates(sqlDB); err != nil {
			return err
		}

		log.Println(">> Seed completed ✅")
		return nil
	},
}

// seedTemplates inserts deterministic demo templates (idempotent).
func seedTemplates(dbx *sqlx.DB) error {
	templates := []model.Template{
		{
			ID:        "msme-status-whatsapp",
			Name:      "MSME Status WhatsApp",
			Content:   "Hi {vendor_name}, please update your MSME status via our portal. Thank you!",
			Variables: model.VariableList{"vendor_name"},
		},
		{
			ID:        "compliance-survey-whatsapp",
			Name:      "Compliance Survey",
			Content:   "Hello {vendor_name}, please respond.",
			Variables: model.VariableList{"vendor_name"},
		},
		{
			ID:        "payment-reminder-whatsapp",
			Name:      "Payment Reminder",
			Content:   "Dear {vendor_name}, invoice {invoice_number} is pending. Please respond at your earliest convenience.",
			Variables: model.VariableList{"vendor_name", "invoice_number"},
		},
	}

	// idempotent upsert based on id (PRIMARY KEY)
	const q = `
INSERT INTO whatsapp_templates
    (id, name, content, variables, created_at, updated_at)
VALUES
    (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    name       = VALUES(name),
    content    = VALUES(content),
    variables  = VALUES(variables),
    updated_at = VALUES(updated_at)
`
	tx, err := dbx.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	for _, t := range templates {
		if _, err := tx.Exec(q, t.ID, t.Name, t.Content, t.Variables, now, now); err != nil {
			return fmt.Errorf("insert template %q: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit templates: %w", err)
	}
	return nil
}
