package store

import (
	"context"
	"errors"
	"time"

	"bookshelf/internal/book"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `id, title, author, genre, publication_year, description, is_favorite, is_read, cover_image_url`

// Postgres is the durable book.Repository backed by a pgx pool.
type Postgres struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgres(db *pgxpool.Pool, timeout time.Duration) *Postgres {
	return &Postgres{db: db, timeout: timeout}
}

func (r *Postgres) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func viewClause(view book.View) string {
	switch view {
	case book.ViewFavorites:
		return "WHERE is_favorite"
	case book.ViewRead:
		return "WHERE is_read"
	case book.ViewToRead:
		return "WHERE NOT is_read"
	default:
		return ""
	}
}

func (r *Postgres) List(ctx context.Context, view book.View) ([]book.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ` + viewClause(view) + ` ORDER BY title COLLATE "C" ASC, id ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []book.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Postgres) GetByID(ctx context.Context, id int64) (book.Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return book.Book{}, book.ErrNotFound
		}
		return book.Book{}, err
	}
	return b, nil
}

func (r *Postgres) Insert(ctx context.Context, b book.Book) (book.Book, bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	if b.ID == 0 {
		const sql = `
			INSERT INTO books (title, author, genre, publication_year, description, is_favorite, is_read, cover_image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`
		err := r.db.QueryRow(timeoutCtx, sql,
			b.Title, b.Author, b.Genre, b.PublicationYear, b.Description, b.IsFavorite, b.IsRead, b.CoverImageURL,
		).Scan(&b.ID)
		if err != nil {
			return book.Book{}, false, err
		}
		return b, true, nil
	}

	inserted := false
	err := pgx.BeginFunc(timeoutCtx, r.db, func(tx pgx.Tx) error {
		const sql = `
			INSERT INTO books (id, title, author, genre, publication_year, description, is_favorite, is_read, cover_image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING`
		tag, err := tx.Exec(timeoutCtx, sql,
			b.ID, b.Title, b.Author, b.Genre, b.PublicationYear, b.Description, b.IsFavorite, b.IsRead, b.CoverImageURL,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		inserted = true

		// Keep generated ids ahead of explicit ones so they are never handed out twice.
		const bump = `SELECT setval(pg_get_serial_sequence('books', 'id'), GREATEST($1::bigint, nextval(pg_get_serial_sequence('books', 'id'))))`
		_, err = tx.Exec(timeoutCtx, bump, b.ID)
		return err
	})
	if err != nil {
		return book.Book{}, false, err
	}
	return b, inserted, nil
}

func (r *Postgres) Update(ctx context.Context, b book.Book) (bool, error) {
	const sql = `
		UPDATE books SET
			title = $2,
			author = $3,
			genre = $4,
			publication_year = $5,
			description = $6,
			is_favorite = $7,
			is_read = $8,
			cover_image_url = $9
		WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, sql,
		b.ID, b.Title, b.Author, b.Genre, b.PublicationYear, b.Description, b.IsFavorite, b.IsRead, b.CoverImageURL,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Postgres) Delete(ctx context.Context, id int64) (bool, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Postgres) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}

func scanBook(row pgx.Row) (book.Book, error) {
	var b book.Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Genre, &b.PublicationYear, &b.Description,
		&b.IsFavorite, &b.IsRead, &b.CoverImageURL,
	)
	return b, err
}
