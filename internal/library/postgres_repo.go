package library

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const itemColumns = `id, user_id, title, author, cover, description, publisher, published_date,
	page_count, categories, isbn, source, status, current_page, progress, rating, review,
	created_at, updated_at`

func scanItem(row pgx.Row) (Item, error) {
	var it Item
	err := row.Scan(
		&it.ID, &it.UserID, &it.Title, &it.Author, &it.Cover, &it.Description,
		&it.Publisher, &it.PublishedDate, &it.PageCount, &it.Categories, &it.ISBN,
		&it.Source, &it.Status, &it.CurrentPage, &it.Progress, &it.Rating, &it.Review,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	if it.Categories == nil {
		it.Categories = []string{}
	}
	return it, nil
}

func (r *PostgresRepo) Insert(ctx context.Context, item *Item) error {
	const query = `
	INSERT INTO library_items (id, user_id, title, author, cover, description, publisher,
		published_date, page_count, categories, isbn, source, status, current_page, progress, rating, review)
	VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		item.UserID, item.Title, item.Author, item.Cover, item.Description, item.Publisher,
		item.PublishedDate, item.PageCount, item.Categories, item.ISBN, item.Source,
		item.Status, item.CurrentPage, item.Progress, item.Rating, item.Review,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

func (r *PostgresRepo) Get(ctx context.Context, userID, id string) (Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM library_items WHERE user_id = $1 AND id = $2 LIMIT 1`, itemColumns)
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return scanItem(r.db.QueryRow(timeoutCtx, query, userID, id))
}

func (r *PostgresRepo) List(ctx context.Context, userID, status string, limit, offset int) ([]Item, int, error) {
	const countSQL = `
	SELECT COUNT(*) FROM library_items
	WHERE user_id = $1 AND ($2 = '' OR status = $2)
	`
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, userID, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := fmt.Sprintf(`
	SELECT %s FROM library_items
	WHERE user_id = $1 AND ($2 = '' OR status = $2)
	ORDER BY updated_at DESC
	LIMIT $3 OFFSET $4
	`, itemColumns)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, userID, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, item *Item) error {
	const query = `
	UPDATE library_items
	SET status = $3, current_page = $4, progress = $5, rating = $6, review = $7,
		page_count = $8, updated_at = NOW()
	WHERE user_id = $1 AND id = $2
	RETURNING updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		item.UserID, item.ID, item.Status, item.CurrentPage, item.Progress,
		item.Rating, item.Review, item.PageCount,
	).Scan(&item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM library_items WHERE user_id = $1 AND id = $2`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, query, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) GetStats(ctx context.Context, userID string) (Stats, error) {
	const query = `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'UNREAD'),
		COUNT(*) FILTER (WHERE status = 'READING'),
		COUNT(*) FILTER (WHERE status = 'FINISHED'),
		COALESCE(SUM(current_page), 0)
	FROM library_items
	WHERE user_id = $1
	`
	var st Stats
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query, userID).Scan(
		&st.Total, &st.Unread, &st.Reading, &st.Finished, &st.PagesRead,
	)
	return st, err
}
