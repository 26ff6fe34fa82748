package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBeginner struct {
	opts []*sql.TxOptions
}

func (b *recordingBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	b.opts = append(b.opts, opts)
	return nil, errors.New("no database")
}

func TestTransactionManager_IsolationLevels(t *testing.T) {
	db := &recordingBeginner{}
	m := NewTransactionManager(db)
	noop := func(ctx context.Context) error { return nil }

	assert.ErrorIs(t, m.Do(context.Background(), noop), ErrBeginTx)
	assert.ErrorIs(t, m.DoSnapshot(context.Background(), noop), ErrBeginTx)

	require.Len(t, db.opts, 2)
	assert.Equal(t, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, db.opts[0])
	assert.Equal(t, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, db.opts[1])
}

func TestTransactionManager_NestedCallReusesOuterTx(t *testing.T) {
	db := &recordingBeginner{}
	m := NewTransactionManager(db)
	ctx := context.WithValue(context.Background(), txKey{}, (*sql.Tx)(nil))

	called := false
	err := m.DoSnapshot(ctx, func(ctx context.Context) error {
		called = true
		assert.True(t, IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, db.opts)
}
