// Package repository selects the storage backend for chats, messages and tool records.
package repository

import (
	"context"
	"fmt"

	"github.com/Rrens/finance-copilot/internal/config"
	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/Rrens/finance-copilot/internal/repository/mongo"
	"github.com/Rrens/finance-copilot/internal/repository/postgres"
	"github.com/Rrens/finance-copilot/internal/repository/sqlstore"
)

// Store bundles the repositories of one backend
type Store struct {
	Chats    domain.ChatRepository
	Messages domain.MessageRepository
	Records  domain.RecordRepository

	ping  func(context.Context) error
	close func() error
}

// Ping verifies backend connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend connection
func (s *Store) Close() error {
	return s.close()
}

// Open connects to the configured backend
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Store{
			Chats:    postgres.NewChatRepository(db.Pool),
			Messages: postgres.NewMessageRepository(db.Pool),
			Records:  postgres.NewRecordRepository(db.Pool),
			ping:     db.Ping,
			close:    func() error { db.Close(); return nil },
		}, nil

	case config.DriverSQLite, config.DriverMySQL:
		db, err := sqlstore.Open(ctx, cfg.Driver, cfg.DSN())
		if err != nil {
			return nil, err
		}
		return &Store{
			Chats:    sqlstore.NewChatRepository(db),
			Messages: sqlstore.NewMessageRepository(db),
			Records:  sqlstore.NewRecordRepository(db),
			ping:     db.Ping,
			close:    db.Close,
		}, nil

	case config.DriverMongo:
		db, err := mongo.Connect(ctx, cfg.DSN(), cfg.Database)
		if err != nil {
			return nil, err
		}
		return &Store{
			Chats:    mongo.NewChatRepository(db),
			Messages: mongo.NewMessageRepository(db),
			Records:  mongo.NewRecordRepository(db),
			ping:     db.Ping,
			close:    db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}
