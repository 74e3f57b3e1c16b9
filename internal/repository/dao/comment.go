package dao

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vietanh2810/volunteer-api/internal/domain"
)

var (
	ErrCommentNotFound = domain.ErrCommentNotFound
)

type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	EventID   uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null"`
	User      User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// CommentRow is a comment joined with its author.
type CommentRow struct {
	ID        uint
	EventID   uint
	UserID    uint
	Content   string
	CreatedAt time.Time
	Author    string
	Email     string
}

type CommentDAO struct {
	db *gorm.DB
}

func NewCommentDAO(db *gorm.DB) *CommentDAO {
	return &CommentDAO{
		db: db,
	}
}

func (d *CommentDAO) Insert(ctx context.Context, comment Comment) (Comment, error) {
	if err := d.db.WithContext(ctx).Omit("User").Create(&comment).Error; err != nil {
		return Comment{}, err
	}

	return comment, nil
}

func (d *CommentDAO) ListByEvent(ctx context.Context, eventID uint) ([]CommentRow, error) {
	var rows []CommentRow

	err := d.db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.event_id, comments.user_id, comments.content, comments.created_at, users.name AS author, users.email").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.event_id = ?", eventID).
		Order("comments.created_at ASC").
		Order("comments.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (d *CommentDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}

	return nil
}
