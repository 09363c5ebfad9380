// Package booking validates appointment requests and applies them to the
// store. Every operation returns an Outcome rather than an error so callers
// can tell invalid input, missing records and storage failures apart.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/events"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/model"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/storage"
	"github.com/md-rashed-zaman/apptagent/services/booking-agent/internal/validate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Store is implemented by storage.PostgresRepository and
// storage.SQLiteRepository. Missing rows are reported as storage.ErrNotFound.
type Store interface {
	Insert(ctx context.Context, appt model.Appointment) (int64, error)
	Get(ctx context.Context, id int64) (model.Appointment, error)
	Update(ctx context.Context, id int64, p model.Patch) (model.Appointment, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit int) ([]model.Appointment, error)
}

type InsertRequest struct {
	PhoneNumber     string
	PersonName      string
	Age             *int
	AppointmentDate string
	AppointmentTime string
}

// UpdateRequest fields left nil (or empty strings) are not changed.
type UpdateRequest struct {
	UserID          int64
	PhoneNumber     *string
	PersonName      *string
	Age             *int
	AppointmentDate *string
	AppointmentTime *string
}

type Service struct {
	store     Store
	publisher events.Publisher
	logger    *slog.Logger
	tracer    trace.Tracer
}

func NewService(store Store, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		tracer:    otel.Tracer("booking"),
	}
}

func (s *Service) Insert(ctx context.Context, req InsertRequest) Outcome {
	ctx, span := s.tracer.Start(ctx, "booking.insert")
	defer span.End()

	appt, err := validateInsert(req)
	if err != nil {
		s.rejected("insert", err)
		return s.finish(span, invalid(err))
	}
	id, err := s.store.Insert(ctx, appt)
	if storage.IsConstraintViolation(err) {
		return s.finish(span, invalid(err))
	}
	if err != nil {
		s.logger.Error("insert appointment failed", "err", err)
		return s.finish(span, failed(err))
	}
	appt.ID = id
	appt.EndTime = model.EndTimeFor(appt.StartTime)
	span.SetAttributes(attribute.Int64("appointment.user_id", id))
	s.logger.Info("appointment booked", "user_id", id, "date", appt.Date.Format(model.DateLayout))
	s.publish(ctx, events.AppointmentBooked, appt)
	return s.finish(span, ok(msgInserted(id), id, &appt))
}

func (s *Service) Search(ctx context.Context, userID int64) Outcome {
	ctx, span := s.tracer.Start(ctx, "booking.search", trace.WithAttributes(attribute.Int64("appointment.user_id", userID)))
	defer span.End()

	id, err := validate.Identifier(userID)
	if err != nil {
		return s.finish(span, invalid(err))
	}
	appt, err := s.store.Get(ctx, id)
	if storage.IsNotFound(err) {
		return s.finish(span, notFound(msgSearchNotFound(id), id))
	}
	if err != nil {
		s.logger.Error("search appointment failed", "user_id", id, "err", err)
		return s.finish(span, failed(err))
	}
	return s.finish(span, ok(FormatAppointment(appt), id, &appt))
}

// Update applies the supplied fields only. A request without any field never
// reaches the store.
func (s *Service) Update(ctx context.Context, req UpdateRequest) Outcome {
	ctx, span := s.tracer.Start(ctx, "booking.update", trace.WithAttributes(attribute.Int64("appointment.user_id", req.UserID)))
	defer span.End()

	id, patch, err := validateUpdate(req)
	if err != nil {
		s.rejected("update", err)
		return s.finish(span, invalid(err))
	}
	if patch.Empty() {
		return s.finish(span, Outcome{Kind: KindNoChange, Message: msgNoChange, ID: id})
	}
	appt, err := s.store.Update(ctx, id, patch)
	if storage.IsNotFound(err) {
		return s.finish(span, notFound(msgUpdateNotFound(id), id))
	}
	if storage.IsConstraintViolation(err) {
		return s.finish(span, invalid(err))
	}
	if err != nil {
		s.logger.Error("update appointment failed", "user_id", id, "err", err)
		return s.finish(span, failed(err))
	}
	s.logger.Info("appointment updated", "user_id", id)
	s.publish(ctx, events.AppointmentUpdated, appt)
	return s.finish(span, ok(msgUpdated+"\n"+FormatAppointment(appt), id, &appt))
}

func (s *Service) Delete(ctx context.Context, userID int64) Outcome {
	ctx, span := s.tracer.Start(ctx, "booking.delete", trace.WithAttributes(attribute.Int64("appointment.user_id", userID)))
	defer span.End()

	id, err := validate.Identifier(userID)
	if err != nil {
		return s.finish(span, invalid(err))
	}
	err = s.store.Delete(ctx, id)
	if storage.IsNotFound(err) {
		return s.finish(span, notFound(msgDeleteNotFound(id), id))
	}
	if err != nil {
		s.logger.Error("delete appointment failed", "user_id", id, "err", err)
		return s.finish(span, failed(err))
	}
	s.logger.Info("appointment cancelled", "user_id", id)
	if evt, err := events.ForCancellation(id); err == nil {
		s.send(ctx, evt)
	}
	return s.finish(span, ok(msgDeleted(id), id, nil))
}

func (s *Service) List(ctx context.Context, limit int) ([]model.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "booking.list")
	defer span.End()
	appts, err := s.store.List(ctx, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
	}
	return appts, err
}

func (s *Service) rejected(op string, err error) {
	var errs validate.Errors
	if errors.As(err, &errs) {
		s.logger.Info("appointment request rejected", "op", op, "fields", errs.Fields())
	}
}

func (s *Service) finish(span trace.Span, out Outcome) Outcome {
	span.SetAttributes(attribute.String("booking.outcome", out.Kind.String()))
	if out.Kind == KindFailed {
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, out.Message)
	}
	return out
}

// Events are sent after commit; a publish failure does not undo the write.
func (s *Service) publish(ctx context.Context, eventType string, appt model.Appointment) {
	evt, err := events.ForAppointment(eventType, appt)
	if err != nil {
		s.logger.Warn("build event failed", "event_type", eventType, "err", err)
		return
	}
	s.send(ctx, evt)
}

func (s *Service) send(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("publish event failed", "event_type", evt.EventType, "event_id", evt.ID, "err", err)
	}
}

func validateInsert(req InsertRequest) (model.Appointment, error) {
	var errs validate.Errors
	phone, err := validate.Phone(req.PhoneNumber)
	errs.Add(err)
	name, err := validate.Name(req.PersonName)
	errs.Add(err)
	date, err := validate.Date(req.AppointmentDate)
	errs.Add(err)
	start, err := validate.Time(req.AppointmentTime)
	errs.Add(err)
	var age *int
	if req.Age != nil {
		v, err := validate.Age(*req.Age)
		if !errs.Add(err) {
			age = &v
		}
	}
	if err := errs.Err(); err != nil {
		return model.Appointment{}, err
	}
	return model.Appointment{
		PhoneNumber: phone,
		PersonName:  name,
		Age:         age,
		Date:        date,
		StartTime:   start,
	}, nil
}

func validateUpdate(req UpdateRequest) (int64, model.Patch, error) {
	var errs validate.Errors
	var p model.Patch

	id, err := validate.Identifier(req.UserID)
	errs.Add(err)
	if present(req.PhoneNumber) {
		v, err := validate.Phone(*req.PhoneNumber)
		if !errs.Add(err) {
			p.PhoneNumber = &v
		}
	}
	if present(req.PersonName) {
		v, err := validate.Name(*req.PersonName)
		if !errs.Add(err) {
			p.PersonName = &v
		}
	}
	if req.Age != nil {
		v, err := validate.Age(*req.Age)
		if !errs.Add(err) {
			p.Age = &v
		}
	}
	if present(req.AppointmentDate) {
		v, err := validate.NormalizeDate(*req.AppointmentDate)
		if !errs.Add(err) {
			p.Date = &v
		}
	}
	if present(req.AppointmentTime) {
		v, err := validate.ClockHHMM(*req.AppointmentTime)
		if !errs.Add(err) {
			p.StartTime = &v
		}
	}
	if err := errs.Err(); err != nil {
		return 0, model.Patch{}, err
	}
	return id, p, nil
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
