package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	statex "github.com/tmaharjan/voxcore/agent/state"
)

// PostgresConfig configures the SQL-backed lead sink. The sink is optional;
// deployments that share a leads collection across processes use it instead
// of the file sink, since per-row inserts do not have the file sink's
// read-modify-write race across processes.
type PostgresConfig struct {
	DSN     string        `envconfig:"DSN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type leadRow struct {
	bun.BaseModel `bun:"table:leads"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name"`
	Company   string    `bun:"company"`
	Email     string    `bun:"email"`
	Role      string    `bun:"role"`
	UseCase   string    `bun:"use_case"`
	TeamSize  string    `bun:"team_size"`
	Timeline  string    `bun:"timeline"`
	Timestamp string    `bun:"committed_at"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// BunLeadSink appends lead records to a Postgres table through bun.
type BunLeadSink struct {
	db *bun.DB
}

func NewBunLeadSink(ctx context.Context, cfg PostgresConfig) (*BunLeadSink, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	if _, err := db.NewCreateTable().
		Model((*leadRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("create leads table: %w", err)
	}

	return &BunLeadSink{db: db}, nil
}

func (s *BunLeadSink) Commit(ctx context.Context, rec statex.LeadRecord) error {
	row := &leadRow{
		Name:      rec.Name,
		Company:   rec.Company,
		Email:     rec.Email,
		Role:      rec.Role,
		UseCase:   rec.UseCase,
		TeamSize:  rec.TeamSize,
		Timeline:  rec.Timeline,
		Timestamp: rec.Timestamp,
	}

	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (s *BunLeadSink) Close() error {
	return s.db.Close()
}
