package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  first_name TEXT        NOT NULL,
  last_name  TEXT        NOT NULL,
  email      TEXT        NOT NULL UNIQUE,
  phone      TEXT,
  role       TEXT        NOT NULL DEFAULT 'USER',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_products",
		SQL: `CREATE TABLE IF NOT EXISTS products (
  id             UUID           PRIMARY KEY DEFAULT uuid_generate_v4(),
  name           TEXT           NOT NULL,
  description    TEXT           NOT NULL DEFAULT '',
  category       TEXT           NOT NULL DEFAULT '',
  base_price     NUMERIC(12,2)  NOT NULL CHECK (base_price >= 0),
  default_format TEXT,
  large_format   BOOLEAN        NOT NULL DEFAULT FALSE,
  image_path     TEXT           NOT NULL DEFAULT '',
  created_at     TIMESTAMPTZ    NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_print_configurations",
		SQL: `CREATE TABLE IF NOT EXISTS print_configurations (
  id           UUID          PRIMARY KEY,
  format_type  TEXT          NOT NULL,
  small_format TEXT,
  width_cm     NUMERIC(6,2),
  height_cm    NUMERIC(6,2),
  paper_type   TEXT,
  finish       TEXT,
  duplex       TEXT,
  binding      TEXT,
  cover_paper  TEXT,
  quantity     INTEGER       NOT NULL CHECK (quantity > 0),
  is_book      BOOLEAN       NOT NULL DEFAULT FALSE,
  book_pages   INTEGER       NOT NULL DEFAULT 0,
  options      TEXT          NOT NULL DEFAULT '',
  product_id   UUID          REFERENCES products (id) ON DELETE SET NULL,
  created_at   TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_orders",
		SQL: `CREATE TABLE IF NOT EXISTS orders (
  id               UUID          PRIMARY KEY,
  user_id          UUID          NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  configuration_id UUID          NOT NULL UNIQUE REFERENCES print_configurations (id),
  status           TEXT          NOT NULL DEFAULT 'PENDING',
  total_amount     NUMERIC(12,2) NOT NULL CHECK (total_amount >= 0),
  payment_method   TEXT          NOT NULL DEFAULT '',
  deleted          BOOLEAN       NOT NULL DEFAULT FALSE,
  created_at       TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
  id             UUID        PRIMARY KEY,
  order_id       UUID        NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
  name           TEXT        NOT NULL,
  format         TEXT        NOT NULL DEFAULT '',
  size           BIGINT      NOT NULL CHECK (size >= 0),
  resolution_dpi INTEGER     NOT NULL,
  color_profile  TEXT        NOT NULL,
  storage_path   TEXT        NOT NULL UNIQUE,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_payments",
		SQL: `CREATE TABLE IF NOT EXISTS payments (
  id              UUID          PRIMARY KEY,
  order_id        UUID          NOT NULL UNIQUE REFERENCES orders (id) ON DELETE CASCADE,
  phone           TEXT          NOT NULL,
  amount          NUMERIC(12,2) NOT NULL CHECK (amount >= 0),
  transaction_ref TEXT          NOT NULL DEFAULT '',
  status          TEXT          NOT NULL DEFAULT 'pending',
  created_at      TIMESTAMPTZ   NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_notifications",
		SQL: `CREATE TABLE IF NOT EXISTS notifications (
  id           UUID        PRIMARY KEY,
  sender_id    UUID        REFERENCES users (id) ON DELETE SET NULL,
  recipient_id UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  message      TEXT        NOT NULL,
  read         BOOLEAN     NOT NULL DEFAULT FALSE,
  deleted      BOOLEAN     NOT NULL DEFAULT FALSE,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_scheduled_jobs",
		SQL: `CREATE TABLE IF NOT EXISTS scheduled_jobs (
  id         UUID        PRIMARY KEY,
  kind       TEXT        NOT NULL,
  payload    JSONB       NOT NULL DEFAULT '{}',
  due_at     TIMESTAMPTZ NOT NULL,
  status     TEXT        NOT NULL DEFAULT 'pending',
  attempts   INTEGER     NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_orders_user_created",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC);`,
	},
	{
		Name: "create_index_orders_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_orders_status ON orders (status);`,
	},
	{
		Name: "create_index_notifications_recipient",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications (recipient_id, created_at DESC);`,
	},
	{
		Name: "create_index_notifications_unread",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications (recipient_id) WHERE read = FALSE AND deleted = FALSE;`,
	},
	{
		Name: "create_index_scheduled_jobs_due",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_scheduled_jobs_due ON scheduled_jobs (due_at) WHERE status = 'pending';`,
	},
}

// EnsureMigrated checks whether the orders table exists and runs the full
// migration if it does not.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.orders') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
