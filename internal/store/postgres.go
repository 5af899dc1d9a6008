package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"greetcard/internal/debug"
	"greetcard/internal/domain"
	appErrors "greetcard/internal/errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type messageRow struct {
	ID            string    `gorm:"primaryKey;size:12"`
	Message       string    `gorm:"not null"`
	RecipientName *string   `gorm:"size:255"`
	CreatedAt     time.Time `gorm:"not null"`
}

func (messageRow) TableName() string { return "custom_messages" }

type photoRow struct {
	ID         string    `gorm:"primaryKey;size:36"`
	MessageID  string    `gorm:"size:12;index;not null"`
	URL        string    `gorm:"not null"`
	Caption    *string   `gorm:"size:280"`
	UploadedAt time.Time `gorm:"index;not null"`
}

func (photoRow) TableName() string { return "photos" }

// PostgresStore keeps messages and photos in Postgres through gorm.
type PostgresStore struct {
	db  *gorm.DB
	now func() time.Time
}

// OpenPostgres connects with dsn and auto-migrates the message and photo tables.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, appErrors.New(appErrors.CodeConfigurationError, "postgres dsn is required", nil)
	}
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.New(debug.Logger("gorm: "), logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, storageError("open postgres", err)
	}
	if err := conn.WithContext(ctx).AutoMigrate(&messageRow{}, &photoRow{}); err != nil {
		return nil, storageError("migrate postgres", err)
	}
	debug.Log("store: postgres schema ready")
	return &PostgresStore{db: conn, now: utcNow}, nil
}

// Close releases the pooled connections.
func (s *PostgresStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *PostgresStore) CreateMessage(ctx context.Context, in domain.MessageInput) (domain.Message, error) {
	in, err := prepareMessage(in)
	if err != nil {
		return domain.Message{}, err
	}
	id, err := NewMessageID()
	if err != nil {
		return domain.Message{}, storageError("generate message id", err)
	}
	row := messageRow{
		ID:            id,
		Message:       in.Text,
		RecipientName: optionalString(in.RecipientName),
		CreatedAt:     s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Message{}, storageError("insert message", err)
	}
	return row.toDomain(), nil
}

func (s *PostgresStore) GetMessage(ctx context.Context, id string) (domain.Message, error) {
	id = strings.TrimSpace(id)
	var row messageRow
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Message{}, notFoundError("message", id)
		}
		return domain.Message{}, storageError("query message", err)
	}
	return row.toDomain(), nil
}

func (s *PostgresStore) UpdateMessage(ctx context.Context, id string, in domain.MessageInput) (domain.Message, error) {
	in, err := prepareMessage(in)
	if err != nil {
		return domain.Message{}, err
	}
	id = strings.TrimSpace(id)
	res := s.db.WithContext(ctx).Model(&messageRow{}).Where("id = ?", id).Updates(map[string]any{
		"message":        in.Text,
		"recipient_name": optionalString(in.RecipientName),
	})
	if res.Error != nil {
		return domain.Message{}, storageError("update message", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.Message{}, notFoundError("message", id)
	}
	return s.GetMessage(ctx, id)
}

func (s *PostgresStore) AddPhoto(ctx context.Context, in domain.PhotoInput) (domain.Photo, error) {
	in, err := preparePhoto(in)
	if err != nil {
		return domain.Photo{}, err
	}
	if _, err := s.GetMessage(ctx, in.MessageID); err != nil {
		return domain.Photo{}, err
	}
	row := photoRow{
		ID:         NewPhotoID(),
		MessageID:  in.MessageID,
		URL:        in.URL,
		Caption:    optionalString(in.Caption),
		UploadedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Photo{}, storageError("insert photo", err)
	}
	return row.toDomain(), nil
}

func (s *PostgresStore) ListPhotos(ctx context.Context, messageID string) ([]domain.Photo, error) {
	q := s.db.WithContext(ctx).Model(&photoRow{})
	if trimmed := strings.TrimSpace(messageID); trimmed != "" {
		q = q.Where("message_id = ?", trimmed)
	}
	var rows []photoRow
	if err := q.Order("uploaded_at, id").Find(&rows).Error; err != nil {
		return nil, storageError("query photos", err)
	}
	photos := make([]domain.Photo, 0, len(rows))
	for _, row := range rows {
		photos = append(photos, row.toDomain())
	}
	return photos, nil
}

func (s *PostgresStore) DeletePhoto(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&photoRow{})
	if res.Error != nil {
		return storageError("delete photo", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundError("photo", id)
	}
	return nil
}

func (r messageRow) toDomain() domain.Message {
	msg := domain.Message{
		ID:        r.ID,
		Text:      r.Message,
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.RecipientName != nil {
		msg.RecipientName = *r.RecipientName
	}
	return msg
}

func (r photoRow) toDomain() domain.Photo {
	p := domain.Photo{
		ID:         r.ID,
		MessageID:  r.MessageID,
		URL:        r.URL,
		UploadedAt: r.UploadedAt.UTC(),
	}
	if r.Caption != nil {
		p.Caption = *r.Caption
	}
	return p
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
