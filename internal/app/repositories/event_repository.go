package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/db"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/dberrors"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"github.com/yigit/alumnihub/internal/pkg/logger"
)

// IEventRepository defines event and registration persistence
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	ListUpcoming(ctx context.Context, now time.Time, limit uint64) ([]*models.Event, error)
	ListPast(ctx context.Context, now time.Time) ([]*models.Event, error)
	ListAll(ctx context.Context) ([]*models.Event, error)
	SetActive(ctx context.Context, id int64, active bool) error
	Register(ctx context.Context, eventID, userID int64, now time.Time) (*models.EventRegistration, error)
	CancelRegistration(ctx context.Context, eventID, userID int64) error
	Attendees(ctx context.Context, eventID int64) ([]*models.EventRegistration, error)
}

const registeredCountExpr = "(SELECT COUNT(*) FROM event_registrations r WHERE r.event_id = e.id AND r.status <> 'cancelled')"

var eventColumns = []string{
	"e.id", "e.title", "e.description", "e.date", "e.location", "e.max_attendees",
	"e.registration_fee", "e.is_active", "e.created_at", registeredCountExpr,
}

// EventRepository handles event database operations
type EventRepository struct {
	db *db.DB
	sb squirrel.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(database *db.DB) *EventRepository {
	return &EventRepository{
		db: database,
		sb: database.Builder(),
	}
}

func scanEvent(row rowScanner) (*models.Event, error) {
	e := &models.Event{}
	var maxAttendees sql.NullInt64
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &maxAttendees,
		&e.RegistrationFee, &e.IsActive, &e.CreatedAt, &e.RegisteredCount)
	if err != nil {
		return nil, err
	}
	e.MaxAttendees = helpers.IntPtr(maxAttendees)
	e.Date = e.Date.UTC()
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

// Create inserts an event and returns its ID
func (r *EventRepository) Create(ctx context.Context, event *models.Event) (int64, error) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = db.Now()
	}
	event.Date = event.Date.UTC().Truncate(time.Second)

	query, args, err := r.sb.Insert("events").
		Columns("title", "description", "date", "location", "max_attendees", "registration_fee", "is_active", "created_at").
		Values(event.Title, event.Description, event.Date, event.Location, helpers.GetNullInt(event.MaxAttendees),
			event.RegistrationFee, event.IsActive, event.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create event SQL")
		return 0, fmt.Errorf("failed to build create event query: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("title", event.Title).Msg("Error executing create event query")
		return 0, fmt.Errorf("error creating event: %w", err)
	}

	event.ID = id
	return id, nil
}

// GetByID retrieves an event with its registration count
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query, args, err := r.sb.Select(eventColumns...).
		From("events e").
		Where(squirrel.Eq{"e.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get event query: %w", err)
	}

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		logger.Error().Err(err).Int64("eventID", id).Msg("Error scanning event row")
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return event, nil
}

// ListUpcoming returns active events after now, soonest first. A zero limit returns all of them.
func (r *EventRepository) ListUpcoming(ctx context.Context, now time.Time, limit uint64) ([]*models.Event, error) {
	builder := r.sb.Select(eventColumns...).
		From("events e").
		Where(squirrel.Eq{"e.is_active": true}).
		Where(squirrel.Gt{"e.date": now.UTC()}).
		OrderBy("e.date ASC", "e.id ASC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build upcoming events query: %w", err)
	}
	return r.queryEvents(ctx, query, args)
}

// ListPast returns events at or before now, most recent first
func (r *EventRepository) ListPast(ctx context.Context, now time.Time) ([]*models.Event, error) {
	query, args, err := r.sb.Select(eventColumns...).
		From("events e").
		Where(squirrel.LtOrEq{"e.date": now.UTC()}).
		OrderBy("e.date DESC", "e.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build past events query: %w", err)
	}
	return r.queryEvents(ctx, query, args)
}

// ListAll returns every event, latest date first
func (r *EventRepository) ListAll(ctx context.Context) ([]*models.Event, error) {
	query, args, err := r.sb.Select(eventColumns...).
		From("events e").
		OrderBy("e.date DESC", "e.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}
	return r.queryEvents(ctx, query, args)
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args []interface{}) ([]*models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing event list query")
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning event row")
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// SetActive opens or closes an event for registration
func (r *EventRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query, args, err := r.sb.Update("events").
		Set("is_active", active).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set event active query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", id).Msg("Error updating event state")
		return fmt.Errorf("error updating event: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// Register signs a user up for an event. The checks and the write share one
// transaction so the attendee limit holds under concurrent registrations.
func (r *EventRepository) Register(ctx context.Context, eventID, userID int64, now time.Time) (*models.EventRegistration, error) {
	now = now.UTC().Truncate(time.Second)
	reg := &models.EventRegistration{EventID: eventID, UserID: userID}

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		eventQuery := r.sb.Select("is_active", "date", "max_attendees").
			From("events").
			Where(squirrel.Eq{"id": eventID})
		if r.db.Dialect == db.Postgres {
			eventQuery = eventQuery.Suffix("FOR UPDATE")
		}
		query, args, err := eventQuery.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build event lock query: %w", err)
		}

		var (
			active       bool
			date         time.Time
			maxAttendees sql.NullInt64
		)
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&active, &date, &maxAttendees); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.ErrEventNotFound
			}
			return fmt.Errorf("error loading event: %w", err)
		}

		query, args, err = r.sb.Select("id", "status").
			From("event_registrations").
			Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build registration lookup query: %w", err)
		}

		var (
			existingID     int64
			existingStatus string
		)
		err = tx.QueryRowContext(ctx, query, args...).Scan(&existingID, &existingStatus)
		exists := err == nil
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("error loading registration: %w", err)
		}
		if exists && models.RegistrationStatus(existingStatus) != models.RegistrationCancelled {
			return apperrors.ErrAlreadyRegistered
		}

		if !active || !date.After(now) {
			return apperrors.ErrEventClosed
		}

		if maxAttendees.Valid {
			query, args, err = r.sb.Select("COUNT(*)").
				From("event_registrations").
				Where(squirrel.Eq{"event_id": eventID}).
				Where(squirrel.NotEq{"status": string(models.RegistrationCancelled)}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build registration count query: %w", err)
			}
			var count int64
			if err := tx.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
				return fmt.Errorf("error counting registrations: %w", err)
			}
			if count >= maxAttendees.Int64 {
				return apperrors.ErrEventFull
			}
		}

		reg.RegisteredAt = now
		reg.Status = models.RegistrationRegistered

		if exists {
			query, args, err = r.sb.Update("event_registrations").
				Set("status", string(models.RegistrationRegistered)).
				Set("registered_at", now).
				Where(squirrel.Eq{"id": existingID}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build reactivate registration query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("error reactivating registration: %w", err)
			}
			reg.ID = existingID
			return nil
		}

		query, args, err = r.sb.Insert("event_registrations").
			Columns("event_id", "user_id", "registered_at", "status").
			Values(eventID, userID, now, string(models.RegistrationRegistered)).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create registration query: %w", err)
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&reg.ID); err != nil {
			if dberrors.IsUniqueViolation(err, "event_registrations.event_id", "event_id") {
				return apperrors.ErrAlreadyRegistered
			}
			return fmt.Errorf("error creating registration: %w", err)
		}
		return nil
	})
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrEventNotFound, apperrors.ErrAlreadyRegistered, apperrors.ErrEventClosed, apperrors.ErrEventFull) {
			logger.Error().Err(err).Int64("eventID", eventID).Int64("userID", userID).Msg("Error registering for event")
		}
		return nil, err
	}
	return reg, nil
}

// CancelRegistration marks an active registration as cancelled
func (r *EventRepository) CancelRegistration(ctx context.Context, eventID, userID int64) error {
	query, args, err := r.sb.Update("event_registrations").
		Set("status", string(models.RegistrationCancelled)).
		Where(squirrel.Eq{"event_id": eventID, "user_id": userID}).
		Where(squirrel.NotEq{"status": string(models.RegistrationCancelled)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build cancel registration query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", eventID).Int64("userID", userID).Msg("Error cancelling registration")
		return fmt.Errorf("error cancelling registration: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return apperrors.ErrRegistrationAbsent
	}
	return nil
}

// Attendees lists the non-cancelled registrations of an event in registration order
func (r *EventRepository) Attendees(ctx context.Context, eventID int64) ([]*models.EventRegistration, error) {
	query, args, err := r.sb.Select("r.id", "r.event_id", "r.user_id", "r.registered_at", "r.status",
		"u.first_name || ' ' || u.last_name", "u.email").
		From("event_registrations r").
		Join("users u ON u.id = r.user_id").
		Where(squirrel.Eq{"r.event_id": eventID}).
		Where(squirrel.NotEq{"r.status": string(models.RegistrationCancelled)}).
		OrderBy("r.registered_at ASC", "r.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendees query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Int64("eventID", eventID).Msg("Error querying attendees")
		return nil, fmt.Errorf("error querying attendees: %w", err)
	}
	defer rows.Close()

	attendees := []*models.EventRegistration{}
	for rows.Next() {
		reg := &models.EventRegistration{}
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.RegisteredAt, &reg.Status,
			&reg.AttendeeName, &reg.AttendeeEmail); err != nil {
			return nil, fmt.Errorf("error scanning attendee: %w", err)
		}
		reg.RegisteredAt = reg.RegisteredAt.UTC()
		attendees = append(attendees, reg)
	}
	return attendees, rows.Err()
}
