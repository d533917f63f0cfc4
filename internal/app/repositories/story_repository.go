package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// IStoryRepository defines success story persistence
type IStoryRepository interface {
	Create(ctx context.Context, story *models.Story) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Story, error)
	ListByPublished(ctx context.Context, published bool) ([]*models.Story, error)
	ListFeatured(ctx context.Context, limit uint64) ([]*models.Story, error)
	Publish(ctx context.Context, id int64) error
	ToggleFeature(ctx context.Context, id int64) (bool, error)
}

var storyColumns = []string{
	"s.id", "s.user_id", "s.title", "s.content", "s.is_featured", "s.is_published", "s.created_at",
	"u.first_name || ' ' || u.last_name",
}

// StoryRepository handles success story database operations
type StoryRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewStoryRepository creates a new StoryRepository
func NewStoryRepository(database *db.DB) *StoryRepository {
	return &StoryRepository{
		db: database,
		sb: database.Builder(),
	}
}

func scanStory(row rowScanner) (*models.Story, error) {
	s := &models.Story{}
	if err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.Content, &s.IsFeatured, &s.IsPublished, &s.CreatedAt, &s.AuthorName); err != nil {
		return nil, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

func (r *StoryRepository) selectStories() squirrel.SelectBuilder {
	return r.sb.Select(storyColumns...).
		From("stories s").
		Join("users u ON u.id = s.user_id")
}

// Create inserts a story and returns its ID
func (r *StoryRepository) Create(ctx context.Context, story *models.Story) (int64, error) {
	if story.CreatedAt.IsZero() {
		story.CreatedAt = db.Now()
	}

	query, args, err := r.sb.Insert("stories").
		Columns("user_id", "title", "content", "is_featured", "is_published", "created_at").
		Values(story.UserID, story.Title, story.Content, story.IsFeatured, story.IsPublished, story.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create story SQL")
		return 0, fmt.Errorf("failed to build create story query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Int64("userID", story.UserID).Msg("Error executing create story query")
		return 0, fmt.Errorf("error creating story: %w", err)
	}

	story.ID = id
	return id, nil
}

// GetByID retrieves a story with its author name
func (r *StoryRepository) GetByID(ctx context.Context, id int64) (*models.Story, error) {
	query, args, err := r.selectStories().Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get story query: %w", err)
	}

	story, err := scanStory(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrStoryNotFound
		}
		logger.Error().Err(err).Int64("storyID", id).Msg("Error scanning story row")
		return nil, fmt.Errorf("error retrieving story: %w", err)
	}
	return story, nil
}

// ListByPublished returns stories in the given publication state, newest first
func (r *StoryRepository) ListByPublished(ctx context.Context, published bool) ([]*models.Story, error) {
	query, args, err := r.selectStories().
		Where(squirrel.Eq{"s.is_published": published}).
		OrderBy("s.created_at DESC", "s.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list stories query: %w", err)
	}
	return r.queryStories(ctx, query, args)
}

// ListFeatured returns up to limit featured stories that are also published, newest first
func (r *StoryRepository) ListFeatured(ctx context.Context, limit uint64) ([]*models.Story, error) {
	query, args, err := r.selectStories().
		Where(squirrel.Eq{"s.is_featured": true, "s.is_published": true}).
		OrderBy("s.created_at DESC", "s.id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build featured stories query: %w", err)
	}
	return r.queryStories(ctx, query, args)
}

func (r *StoryRepository) queryStories(ctx context.Context, query string, args []interface{}) ([]*models.Story, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing story list query")
		return nil, fmt.Errorf("error querying stories: %w", err)
	}
	defer rows.Close()

	stories := []*models.Story{}
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning story: %w", err)
		}
		stories = append(stories, story)
	}
	return stories, rows.Err()
}

// Publish makes a story visible in public listings
func (r *StoryRepository) Publish(ctx context.Context, id int64) error {
	query, args, err := r.sb.Update("stories").
		Set("is_published", true).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build publish story query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("storyID", id).Msg("Error publishing story")
		return fmt.Errorf("error publishing story: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperrors.ErrStoryNotFound
	}
	return nil
}

// ToggleFeature flips the featured flag and returns the new value
func (r *StoryRepository) ToggleFeature(ctx context.Context, id int64) (bool, error) {
	query, args, err := r.sb.Update("stories").
		Set("is_featured", squirrel.Expr("NOT is_featured")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING is_featured").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build toggle feature query: %w", err)
	}

	var featured bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&featured); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, apperrors.ErrStoryNotFound
		}
		logger.Error().Err(err).Int64("storyID", id).Msg("Error toggling story feature")
		return false, fmt.Errorf("error toggling story feature: %w", err)
	}
	return featured, nil
}
