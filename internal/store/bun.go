package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"order-ticketing/internal/models"
)

// ticketRow stores one record as a JSON document. The autoincrement pos
// column preserves insertion order across load/save cycles.
type ticketRow struct {
	bun.BaseModel `bun:"table:tickets"`

	Pos int64  `bun:"pos,pk,autoincrement"`
	ID  string `bun:"id,unique,notnull"`
	Doc []byte `bun:"doc,notnull"`
}

// BunBackend persists the collection in a sqlite database through bun.
// Save still rewrites the whole collection, matching the file backend's
// observable behavior.
type BunBackend struct {
	db *bun.DB
}

// OpenBunBackend opens (or creates) the sqlite database at path and
// ensures the schema exists. Use ":memory:" for an ephemeral store.
func OpenBunBackend(path string) (*BunBackend, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*ticketRow)(nil)).
		IfNotExists().
		Exec(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tickets table: %w", err)
	}
	return &BunBackend{db: db}, nil
}

// NewBunBackend wraps an already-open bun DB; the caller owns the schema.
func NewBunBackend(db *bun.DB) *BunBackend {
	return &BunBackend{db: db}
}

func (b *BunBackend) Load() ([]models.Ticket, error) {
	var rows []ticketRow
	err := b.db.NewSelect().
		Model(&rows).
		Order("pos ASC").
		Scan(context.Background())
	if err != nil {
		return nil, fmt.Errorf("select tickets: %w", err)
	}

	tickets := make([]models.Ticket, 0, len(rows))
	for _, row := range rows {
		var t models.Ticket
		if err := json.Unmarshal(row.Doc, &t); err != nil {
			return nil, fmt.Errorf("parse ticket row %s: %w", row.ID, err)
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func (b *BunBackend) Save(tickets []models.Ticket) error {
	ctx := context.Background()
	return b.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*ticketRow)(nil)).
			Where("1 = 1").
			Exec(ctx); err != nil {
			return fmt.Errorf("clear tickets: %w", err)
		}
		for _, t := range tickets {
			doc, err := json.Marshal(t)
			if err != nil {
				return fmt.Errorf("marshal ticket %s: %w", t.ID, err)
			}
			row := ticketRow{ID: t.ID, Doc: doc}
			if _, err := tx.NewInsert().Model(&row).Exec(ctx); err != nil {
				return fmt.Errorf("insert ticket %s: %w", t.ID, err)
			}
		}
		return nil
	})
}

func (b *BunBackend) Close() error {
	return b.db.Close()
}
