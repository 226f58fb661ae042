// sqlite предоставляет реализацию storage.Storage на базе встраиваемого SQLite
// (modernc.org/sqlite, без cgo). Используется для локального запуска и тестов.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/go-board/internal/storage"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed schema.sql
var schema string

// dbtx - общее подмножество *sql.DB и *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Storage - хранилище поверх одного соединения SQLite.
// Единственное соединение сериализует транзакции: конкурирующий InTx ждёт коммита предыдущего.
type Storage struct {
	conn *sql.DB
	db   dbtx
	tx   *sql.Tx
}

// New открывает базу по DSN и применяет схему.
// Пример DSN: "file:board.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)".
func New(ctx context.Context, dsn string) (*Storage, error) {
	const op = "storage/sqlite/New"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: pragma: %w", op, err)
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: schema: %w", op, err)
	}

	return &Storage{conn: conn, db: conn}, nil
}

// Close закрывает соединение.
func (s *Storage) Close() {
	_ = s.conn.Close()
}

// Ping проверяет соединение с БД.
func (s *Storage) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// InTx выполняет fn в транзакции; вложенный вызов переиспользует текущую.
func (s *Storage) InTx(ctx context.Context, fn func(tx storage.Storage) error) error {
	const op = "storage/sqlite/InTx"

	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}

	if err := fn(&Storage{conn: s.conn, db: tx, tx: tx}); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// mapError переводит ошибки SQLite в ошибки уровня storage.
func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return storage.ErrConflict
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return storage.ErrForeignKey
		}
	}

	return err
}

// Время хранится в INTEGER как unix-наносекунды: порядок по колонке совпадает с хронологическим.
func toUnix(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func nowUnix() int64 {
	return toUnix(time.Now())
}

// placeholders возвращает "?, ?, ?" для n параметров.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

var _ storage.Storage = (*Storage)(nil)
