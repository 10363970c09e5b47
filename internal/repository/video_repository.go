package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"vidshare/internal/model"
)

type VideoRepository struct {
	conn DBProvider
}

func NewVideoRepository(conn DBProvider) *VideoRepository {
	return &VideoRepository{conn: conn}
}

func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	if video.ID == "" {
		video.ID = uuid.NewString()
	}
	if err := db.WithContext(ctx).Create(video).Error; err != nil {
		return fmt.Errorf("create video failed: %w", err)
	}
	return nil
}

// ListNewestFirst returns every video ordered by creation time, newest first.
// The result is never nil.
func (r *VideoRepository) ListNewestFirst(ctx context.Context) ([]model.Video, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	videos := make([]model.Video, 0)
	if err := db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("list videos failed: %w", err)
	}
	return videos, nil
}

// DeleteByID reports whether a row was removed.
func (r *VideoRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return false, err
	}
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&model.Video{})
	if result.Error != nil {
		return false, fmt.Errorf("delete video failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *VideoRepository) Count(ctx context.Context) (int64, error) {
	db, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.WithContext(ctx).Model(&model.Video{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count videos failed: %w", err)
	}
	return count, nil
}
