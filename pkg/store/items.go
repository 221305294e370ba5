package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/obaranov/birdfeed/pkg/domain"
)

// UpsertIgnore inserts the item into the table unless a row with the same
// id already exists; duplicates are a silent no-op, never an update. Each
// call is its own transaction so one failed write cannot poison the batch.
// Reports whether a row was actually inserted.
func (s *Store) UpsertIgnore(ctx context.Context, table Table, item domain.Item) (bool, error) {
	if err := validTable(table); err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, feed_url, feed_name, title, content, author, link,
			image_url, published_at, author_avatar, favorite_count, retweet_count
		) VALUES (
			:id, :feed_url, :feed_name, :title, :content, :author, :link,
			:image_url, :published_at, :author_avatar, :favorite_count, :retweet_count
		)
		ON CONFLICT (id) DO NOTHING
	`, table)

	inserted := false
	err := s.InTransaction(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.NamedExecContext(ctx, query, item)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		inserted = rows > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	return inserted, nil
}

// DeleteOlderThan removes all rows whose published_at precedes the cutoff
// and reports the count deleted. Runs in its own transaction; a failure
// rolls back that table's delete only.
func (s *Store) DeleteOlderThan(ctx context.Context, table Table, cutoff time.Time) (int64, error) {
	if err := validTable(table); err != nil {
		return 0, err
	}

	var deleted int64
	err := s.InTransaction(ctx, func(tx *sqlx.Tx) error {
		query := tx.Rebind(fmt.Sprintf("DELETE FROM %s WHERE published_at < ?", table))
		result, err := tx.ExecContext(ctx, query, cutoff)
		if err != nil {
			return fmt.Errorf("delete old items: %w", err)
		}
		deleted, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

// Items retrieves items from a table, newest first
func (s *Store) Items(ctx context.Context, table Table, limit, offset int) ([]domain.Item, error) {
	if err := validTable(table); err != nil {
		return nil, err
	}

	var items []domain.Item
	query := s.conn.Rebind(fmt.Sprintf(`
		SELECT id, feed_url, feed_name, title, content, author, link,
		       image_url, published_at, author_avatar, favorite_count, retweet_count
		FROM %s ORDER BY published_at DESC LIMIT ? OFFSET ?
	`, table))
	if err := s.conn.SelectContext(ctx, &items, query, limit, offset); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return items, nil
}

// ItemsByFeed retrieves items for a single configured feed, newest first
func (s *Store) ItemsByFeed(ctx context.Context, table Table, feedURL string, limit, offset int) ([]domain.Item, error) {
	if err := validTable(table); err != nil {
		return nil, err
	}

	var items []domain.Item
	query := s.conn.Rebind(fmt.Sprintf(`
		SELECT id, feed_url, feed_name, title, content, author, link,
		       image_url, published_at, author_avatar, favorite_count, retweet_count
		FROM %s WHERE feed_url = ? ORDER BY published_at DESC LIMIT ? OFFSET ?
	`, table))
	if err := s.conn.SelectContext(ctx, &items, query, feedURL, limit, offset); err != nil {
		return nil, fmt.Errorf("get items by feed: %w", err)
	}
	return items, nil
}

// Count returns the number of rows in a table
func (s *Store) Count(ctx context.Context, table Table) (int64, error) {
	if err := validTable(table); err != nil {
		return 0, err
	}

	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := s.conn.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return count, nil
}

// Stats describes the contents of one table
type Stats struct {
	Total     int64      `db:"total" json:"total"`
	FeedCount int64      `db:"feed_count" json:"feed_count"`
	Oldest    *time.Time `db:"oldest" json:"oldest,omitempty"`
	Newest    *time.Time `db:"newest" json:"newest,omitempty"`
}

// TableStats aggregates counts and the published range for a table
func (s *Store) TableStats(ctx context.Context, table Table) (*Stats, error) {
	if err := validTable(table); err != nil {
		return nil, err
	}

	var stats Stats
	query := fmt.Sprintf("SELECT COUNT(*) AS total, COUNT(DISTINCT feed_url) AS feed_count FROM %s", table)
	if err := s.conn.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	// published range via declared columns, see LastPublished
	for _, bound := range []struct {
		order string
		dst   **time.Time
	}{{"ASC", &stats.Oldest}, {"DESC", &stats.Newest}} {
		var ts time.Time
		q := fmt.Sprintf("SELECT published_at FROM %s ORDER BY published_at %s LIMIT 1", table, bound.order)
		err := s.conn.GetContext(ctx, &ts, q)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get published range: %w", err)
		}
		t := ts
		*bound.dst = &t
	}

	return &stats, nil
}

// LastPublished returns the newest published_at in a table, optionally
// restricted to one feed. The zero time means the table (or feed) holds
// nothing yet.
func (s *Store) LastPublished(ctx context.Context, table Table, feedURL string) (time.Time, error) {
	if err := validTable(table); err != nil {
		return time.Time{}, err
	}

	// scan a declared column instead of MAX() so both drivers type the
	// value as a timestamp
	query := fmt.Sprintf("SELECT published_at FROM %s", table)
	args := []any{}
	if feedURL != "" {
		query = s.conn.Rebind(query + " WHERE feed_url = ?")
		args = append(args, feedURL)
	}
	query += " ORDER BY published_at DESC LIMIT 1"

	var last time.Time
	err := s.conn.GetContext(ctx, &last, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("get last published: %w", err)
	}
	return last, nil
}
