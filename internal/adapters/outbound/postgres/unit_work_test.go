package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/mirahq/academy-crm/internal/domain"
)

func TestUnitOfWork_Execute(t *testing.T) {
	tests := map[string]struct {
		setExpectations func(mock sqlmock.Sqlmock)
		fn              func(uow domain.UnitOfWork) error
		expectedErr     string
	}{
		"commit-on-success": {
			setExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			fn: func(uow domain.UnitOfWork) error { return nil },
		},
		"rollback-on-error": {
			setExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:          func(uow domain.UnitOfWork) error { return errors.New("boom") },
			expectedErr: "boom",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close() // nolint:errcheck

			tt.setExpectations(mock)

			uow := NewUnitOfWork(db)
			gotErr := uow.Execute(context.Background(), tt.fn)
			if tt.expectedErr != "" {
				assert.EqualError(t, gotErr, tt.expectedErr)
			} else {
				assert.NoError(t, gotErr)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUnitOfWork_RepositoriesShareTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close() // nolint:errcheck

	mock.ExpectBegin()
	mock.ExpectCommit()

	uow := NewUnitOfWork(db)
	err = uow.Execute(context.Background(), func(inner domain.UnitOfWork) error {
		assert.NotNil(t, inner.Student())
		assert.NotNil(t, inner.Employee())
		assert.NotNil(t, inner.Course())
		assert.NotNil(t, inner.Task())
		assert.NotNil(t, inner.Finance())
		assert.NotNil(t, inner.Memory())
		assert.NotNil(t, inner.Knowledge())
		assert.NotNil(t, inner.Conversation())
		assert.NotNil(t, inner.Outbox())
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
