package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module owns the durable message log. It must be registered before the
// chat module so the database is open by the time the hub accepts events.
type Module struct {
	store  *Store
	db     *gorm.DB
	dbPath string
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the history module. The database path comes from
// CHAT_DB_PATH, defaulting to a local file.
func NewModule() *Module {
	dbPath := os.Getenv("CHAT_DB_PATH")
	if dbPath == "" {
		dbPath = "roomchat.db"
	}
	return &Module{
		store:  NewStore(),
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "history"
}

// Store returns the message store for injection into the chat hub.
func (m *Module) Store() *Store {
	return m.store
}

// Start opens the database and migrates the message table.
func (m *Module) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&MessageRecord{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	m.db = db
	m.store.setDB(db)

	log.Printf("[history] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop closes the database.
func (m *Module) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[history] Module stopped")
	return nil
}

// Health pings the database. Storage loss is the degraded-service signal
// for operators, not a crash.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get database connection: %v", err),
		}
	}
	if err := sqlDB.Ping(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}

// RegisterServices registers the history read service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "room-history", json.Unmarshal, json.Marshal, m.handleRoomHistory,
	); err != nil {
		return fmt.Errorf("failed to register room-history service: %w", err)
	}

	log.Printf("[history] Registered services: room-history")
	return nil
}

func (m *Module) handleRoomHistory(ctx context.Context, req RoomHistoryRequest, _ *mono.Msg) (RoomHistoryResponse, error) {
	messages, err := m.store.History(ctx, req.Room)
	if err != nil {
		return RoomHistoryResponse{}, err
	}
	return RoomHistoryResponse{Room: req.Room, Messages: messages}, nil
}
