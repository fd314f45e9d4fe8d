package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"FixtureSync/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDocumentNotFound 文档库中还没有这份文档
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore 把整份 MatchData 作为一行 jsonb 保存在 PostgreSQL
type DocumentStore struct {
	db  *gorm.DB
	key string
}

// NewDocumentStore key 为文档路径（如 matches/data）
func NewDocumentStore(db *gorm.DB, key string) *DocumentStore {
	return &DocumentStore{db: db, key: key}
}

func (r *DocumentStore) Load(ctx context.Context) (*model.MatchData, error) {
	var doc model.MatchDocument
	if err := r.db.WithContext(ctx).Where("id = ?", r.key).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("查询文档%s失败: %w", r.key, err)
	}

	data := &model.MatchData{LastUpdated: doc.LastUpdated}
	if len(doc.Matches) > 0 {
		matches, err := decodeMatchList(doc.Matches)
		if err != nil {
			return nil, fmt.Errorf("解析文档%s失败: %w", r.key, err)
		}
		data.Matches = matches
	}
	return model.EnsureStructure(data), nil
}

// Save 按文档路径 upsert
func (r *DocumentStore) Save(ctx context.Context, data *model.MatchData) error {
	data = model.EnsureStructure(data)
	raw, err := json.Marshal(data.Matches)
	if err != nil {
		return fmt.Errorf("序列化比赛列表失败: %w", err)
	}
	doc := &model.MatchDocument{
		ID:          r.key,
		LastUpdated: data.LastUpdated,
		Matches:     datatypes.JSON(raw),
		UpdatedAt:   time.Now(),
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_updated", "matches", "updated_at"}),
	}).Create(doc).Error; err != nil {
		return fmt.Errorf("保存文档%s失败: %w", r.key, err)
	}
	return nil
}
