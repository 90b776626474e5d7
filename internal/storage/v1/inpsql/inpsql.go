// Package inpsql provides PSQL-based account storage functionality.
package inpsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/vzaikin/go-bank-withdraw/internal/config"
	"github.com/vzaikin/go-bank-withdraw/internal/models/modelstorage"
	storageErrors "github.com/vzaikin/go-bank-withdraw/internal/storage/v1/errors"
)

type ctxType string

const (
	txKey ctxType = "tx"
)

type Storage struct {
	Cfg *config.StorageConfig
	DB  *sql.DB
	log *zerolog.Logger
}

func InitStorage(ctx context.Context, cfg *config.StorageConfig, log *zerolog.Logger) (*Storage, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	// initialize a Storage
	st := Storage{
		Cfg: cfg,
		DB:  db,
		log: log,
	}
	err = st.createTables(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("")
	}
	log.Info().Msg("PSQL DB connection was established")
	return &st, nil
}

func getTx(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

func (s *Storage) GetAccount(ctx context.Context, accountID int64) (modelstorage.AccountStorageEntry, error) {
	const query = `SELECT id, balance FROM accounts WHERE id = $1`
	var row *sql.Row
	if tx, ok := getTx(ctx); ok {
		row = tx.QueryRowContext(ctx, query, accountID)
	} else {
		row = s.DB.QueryRowContext(ctx, query, accountID)
	}
	var entry modelstorage.AccountStorageEntry
	err := row.Scan(&entry.ID, &entry.Balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.log.Info().Msg(fmt.Sprintf("account %d was not found", accountID))
			return modelstorage.AccountStorageEntry{}, &storageErrors.NotFoundError{Err: err}
		}
		s.log.Error().Err(err).Msg(fmt.Sprintf("getting account %d failed", accountID))
		return modelstorage.AccountStorageEntry{}, classifyPSQLError(err)
	}
	return entry, nil
}

// WithinTransaction opens a transaction, takes a row lock on the account and
// runs fn with the transaction bound into the context. Commit happens only
// when fn returns nil; any error from fn discards every change made in scope.
func (s *Storage) WithinTransaction(ctx context.Context, accountID int64, fn func(ctx context.Context) error) error {
	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		s.log.Error().Err(err).Msg(fmt.Sprintf("opening transaction failed for account %d", accountID))
		return classifyPSQLError(err)
	}
	var lockedID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM accounts WHERE id = $1 FOR UPDATE`, accountID).Scan(&lockedID)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return &storageErrors.NotFoundError{Err: err}
		}
		s.log.Error().Err(err).Msg(fmt.Sprintf("locking account %d failed", accountID))
		return classifyPSQLError(err)
	}
	if err := fn(context.WithValue(ctx, txKey, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error().Err(rbErr).Msg(fmt.Sprintf("transaction rollback failed for account %d", accountID))
		} else {
			s.log.Info().Msg(fmt.Sprintf("transaction rolled back for account %d", accountID))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		s.log.Error().Err(err).Msg(fmt.Sprintf("transaction commit failed for account %d", accountID))
		return classifyPSQLError(err)
	}
	return nil
}

func (s *Storage) DebitBalance(ctx context.Context, accountID int64, amount decimal.Decimal) error {
	tx, ok := getTx(ctx)
	if !ok {
		return &storageErrors.ExecutionPSQLError{Err: errors.New("debit attempted outside of a transaction scope")}
	}
	result, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = balance - $2 WHERE id = $1`, accountID, amount)
	if err != nil {
		s.log.Error().Err(err).Msg(fmt.Sprintf("debiting account %d failed", accountID))
		return classifyPSQLError(err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &storageErrors.NotFoundError{Err: sql.ErrNoRows}
	}
	return nil
}

func classifyPSQLError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
			return &storageErrors.TransactionPSQLError{Err: err}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &storageErrors.ContextTimeoutExceededError{Err: err}
	}
	return &storageErrors.ExecutionPSQLError{Err: err}
}

func (s *Storage) createTables(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS accounts (
		id      BIGSERIAL      PRIMARY KEY,
		balance NUMERIC(12, 2) NOT NULL DEFAULT 0 CHECK (balance >= 0)
	);`
	_, err := s.DB.ExecContext(ctx, query)
	return err
}
