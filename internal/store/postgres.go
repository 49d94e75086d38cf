package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nuturl/nuturl/internal/account"
	"github.com/nuturl/nuturl/internal/link"
)

const uniqueViolation = "23505"

// PostgresLinkStore is a PostgreSQL implementation of link.Repository.
type PostgresLinkStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLinkStore creates a new PostgreSQL-backed link store.
func NewPostgresLinkStore(pool *pgxpool.Pool) *PostgresLinkStore {
	return &PostgresLinkStore{pool: pool}
}

func (p *PostgresLinkStore) Create(ctx context.Context, l *link.ShortLink) error {
	query := `
		INSERT INTO short_links (id, slug, destination_url, clicks, created_at, expires_at, owner_account_id)
		VALUES ($1, $2, $3, 0, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		l.ID,
		l.Slug,
		l.DestinationURL,
		l.CreatedAt,
		l.ExpiresAt,
		l.OwnerID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return link.ErrSlugTaken
		}

		return err
	}

	return nil
}

const linkColumns = `id, slug, destination_url, clicks, created_at, expires_at, owner_account_id`

func (p *PostgresLinkStore) GetBySlug(ctx context.Context, slug string) (*link.ShortLink, error) {
	query := `SELECT ` + linkColumns + ` FROM short_links WHERE slug = $1`

	var l link.ShortLink

	err := p.pool.QueryRow(ctx, query, slug).Scan(
		&l.ID, &l.Slug, &l.DestinationURL, &l.Clicks, &l.CreatedAt, &l.ExpiresAt, &l.OwnerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	return &l, nil
}

func (p *PostgresLinkStore) ListByOwner(ctx context.Context, ownerID string) ([]*link.ShortLink, error) {
	query := `SELECT ` + linkColumns + ` FROM short_links WHERE owner_account_id = $1 ORDER BY created_at DESC`

	rows, err := p.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*link.ShortLink

	for rows.Next() {
		var l link.ShortLink
		if err := rows.Scan(
			&l.ID, &l.Slug, &l.DestinationURL, &l.Clicks, &l.CreatedAt, &l.ExpiresAt, &l.OwnerID,
		); err != nil {
			return nil, err
		}

		links = append(links, &l)
	}

	return links, rows.Err()
}

func (p *PostgresLinkStore) Delete(ctx context.Context, id, requesterID string) error {
	var ownerID *string

	err := p.pool.QueryRow(ctx,
		`SELECT owner_account_id FROM short_links WHERE id = $1`, id,
	).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return link.ErrNotFound
		}

		return err
	}

	if ownerID == nil || *ownerID != requesterID {
		return link.ErrForbidden
	}

	_, err = p.pool.Exec(ctx, `DELETE FROM short_links WHERE id = $1`, id)

	return err
}

// IncrementClicks bumps the counter in a single UPDATE so concurrent
// visits to the same slug never lose updates.
func (p *PostgresLinkStore) IncrementClicks(ctx context.Context, slug string) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE short_links SET clicks = clicks + 1 WHERE slug = $1`, slug,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

// PostgresAccountStore is a PostgreSQL implementation of account.Repository.
type PostgresAccountStore struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountStore creates a new PostgreSQL-backed account store.
func NewPostgresAccountStore(pool *pgxpool.Pool) *PostgresAccountStore {
	return &PostgresAccountStore{pool: pool}
}

const accountColumns = `id, email, name, password_hash, salt, tier, created_at`

func (p *PostgresAccountStore) Create(ctx context.Context, acct *account.Account) error {
	query := `
		INSERT INTO accounts (id, email, name, password_hash, salt, tier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		acct.ID, acct.Email, acct.Name, acct.PasswordHash, acct.Salt, string(acct.Tier), acct.CreatedAt,
	)

	return err
}

func (p *PostgresAccountStore) GetByID(ctx context.Context, id string) (*account.Account, error) {
	return p.getByField(ctx, "id", id)
}

func (p *PostgresAccountStore) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return p.getByField(ctx, "email", email)
}

func (p *PostgresAccountStore) getByField(ctx context.Context, field, value string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + field + ` = $1`

	var acct account.Account

	var tier string

	err := p.pool.QueryRow(ctx, query, value).Scan(
		&acct.ID, &acct.Email, &acct.Name, &acct.PasswordHash, &acct.Salt, &tier, &acct.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, err
	}

	acct.Tier = account.Tier(tier)

	return &acct, nil
}

// Promote assigns the tier in a single conditional UPDATE. Redelivered
// payment notifications find no row to change and report no transition.
func (p *PostgresAccountStore) Promote(ctx context.Context, id string, tier account.Tier) (bool, error) {
	tag, err := p.pool.Exec(ctx,
		`UPDATE accounts SET tier = $2 WHERE id = $1 AND tier <> $2`, id, string(tier),
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// Totals are the public system counters.
type Totals struct {
	Accounts int64
	Links    int64
	Clicks   int64
}

// PostgresStatsStore aggregates public counters with SQL.
type PostgresStatsStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStatsStore creates a new PostgreSQL-backed stats source.
func NewPostgresStatsStore(pool *pgxpool.Pool) *PostgresStatsStore {
	return &PostgresStatsStore{pool: pool}
}

func (p *PostgresStatsStore) Totals(ctx context.Context) (Totals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM accounts),
			(SELECT COUNT(*) FROM short_links),
			(SELECT COALESCE(SUM(clicks), 0) FROM short_links)
	`

	var t Totals
	if err := p.pool.QueryRow(ctx, query).Scan(&t.Accounts, &t.Links, &t.Clicks); err != nil {
		return Totals{}, err
	}

	return t, nil
}
