package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/clinicbill/internal/db"
	"github.com/xxxsen/clinicbill/internal/pkg/dbutil"
)

const kvTable = "kv_store"

type postgresStore struct {
	db *sqlx.DB
}

func init() {
	Register("postgres", createPostgresStore)
}

func createPostgresStore(args interface{}) (Store, error) {
	config := &db.Config{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	conn, err := db.Open(*config)
	if err != nil {
		return nil, fmt.Errorf("open postgres kv store: %w", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate postgres kv store: %w", err)
	}
	return NewPostgres(conn), nil
}

func NewPostgres(conn *sql.DB) Store {
	return &postgresStore{db: sqlx.NewDb(conn, "postgres")}
}

func (s *postgresStore) Type() string {
	return "postgres"
}

func (s *postgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	sqlStr, args, err := builder.BuildSelect(kvTable, map[string]interface{}{
		"kv_key": key,
	}, []string{"kv_value"})
	if err != nil {
		return "", false, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var value string
	if err := s.db.GetContext(ctx, &value, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set updates in place and falls back to insert. A concurrent insert of the
// same key surfaces as a unique violation, after which the update is retried.
func (s *postgresStore) Set(ctx context.Context, key, value string) error {
	now := time.Now().Unix()
	updated, err := s.update(ctx, key, value, now)
	if err != nil || updated {
		return err
	}
	sqlStr, args, err := builder.BuildInsert(kvTable, []map[string]interface{}{{
		"kv_key":   key,
		"kv_value": value,
		"mtime":    now,
	}})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		if !dbutil.IsConflict(err) {
			return err
		}
		_, err = s.update(ctx, key, value, now)
		return err
	}
	return nil
}

func (s *postgresStore) update(ctx context.Context, key, value string, now int64) (bool, error) {
	sqlStr, args, err := builder.BuildUpdate(kvTable, map[string]interface{}{
		"kv_key": key,
	}, map[string]interface{}{
		"kv_value": value,
		"mtime":    now,
	})
	if err != nil {
		return false, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	result, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *postgresStore) Close() error {
	return s.db.Close()
}
