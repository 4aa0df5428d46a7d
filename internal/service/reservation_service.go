package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"go.uber.org/zap"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	// ErrSessionReset ответ пришёл после выхода или повторного входа и был отброшен
	ErrSessionReset = errors.New("session was reset while the request was in flight")
)

// Draft данные формы бронирования в том виде, как их ввёл оператор
type Draft struct {
	CarID      string
	ClientID   string
	From       string
	To         string
	Status     model.ReservationStatus
	Notes      string
	AmountPaid *model.Money
}

type ReservationService struct {
	policy reservation.Policy
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

func NewReservationService(policy reservation.Policy, loc *time.Location, logger *zap.Logger) *ReservationService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationService{
		policy: policy,
		loc:    loc,
		now:    time.Now,
		logger: logger,
	}
}

// Policy действующая политика переходов статусов
func (s *ReservationService) Policy() reservation.Policy {
	return s.policy
}

// Location часовой пояс агентства
func (s *ReservationService) Location() *time.Location {
	return s.loc
}

// Now текущее время агентства
func (s *ReservationService) Now() time.Time {
	return s.now().In(s.loc)
}

// Today сегодняшняя дата в часовом поясе агентства
func (s *ReservationService) Today() daterange.Date {
	return daterange.FromTime(s.now().In(s.loc))
}

// Refresh перечитывает список бронирований с бэкенда в локальную копию сессии
func (s *ReservationService) Refresh(ctx context.Context, sess *session.Session) ([]model.Reservation, error) {
	if _, err := sess.Require(model.RoleManager); err != nil {
		return nil, err
	}

	view := sess.Reservations()
	generation := view.Generation()

	list, err := sess.API().ListReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh reservations: %w", err)
	}

	if !view.Replace(generation, list) {
		s.logger.Info("Dropped late reservations response", zap.Int64("telegram_id", sess.TelegramID()))
		return nil, ErrSessionReset
	}

	return view.Items(), nil
}

// List локальная копия, при первом обращении загружается
func (s *ReservationService) List(ctx context.Context, sess *session.Session) ([]model.Reservation, error) {
	if _, err := sess.Require(model.RoleManager); err != nil {
		return nil, err
	}

	if sess.Reservations().Loaded() {
		return sess.Reservations().Items(), nil
	}
	return s.Refresh(ctx, sess)
}

// Get бронирование из локальной копии, иначе с бэкенда
func (s *ReservationService) Get(ctx context.Context, sess *session.Session, id string) (*model.Reservation, error) {
	list, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}

	for _, r := range list {
		if r.ID == id {
			return &r, nil
		}
	}

	r, err := sess.API().GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// BlockedPeriods занятые периоды машины; excludeID - редактируемое бронирование
func (s *ReservationService) BlockedPeriods(ctx context.Context, sess *session.Session, carID, excludeID string) ([]daterange.Range, error) {
	list, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	return reservation.BlockedPeriods(carID, excludeID, list), nil
}

// BlockedDays занятые дни машины в месяце (для календаря)
func (s *ReservationService) BlockedDays(ctx context.Context, sess *session.Session, carID, excludeID string, year int, month time.Month) (map[daterange.Date]bool, error) {
	periods, err := s.BlockedPeriods(ctx, sess, carID, excludeID)
	if err != nil {
		return nil, err
	}
	return reservation.BlockedDays(periods, reservation.MonthWindow(year, month)), nil
}

// AvailableCars машины для выбора в форме: только available,
// при редактировании ещё и текущая машина бронирования
func (s *ReservationService) AvailableCars(ctx context.Context, sess *session.Session, currentCarID string) ([]model.Car, error) {
	if _, err := sess.Require(model.RoleManager); err != nil {
		return nil, err
	}

	cars, err := sess.API().ListCars(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]model.Car, 0, len(cars))
	for _, car := range cars {
		if car.Status == model.CarStatusAvailable || (currentCarID != "" && car.ID == currentCarID) {
			available = append(available, car)
		}
	}
	return available, nil
}

// Check проверяет даты черновика по текущей локальной копии.
// editing - исходное бронирование при редактировании, nil при создании.
func (s *ReservationService) Check(ctx context.Context, sess *session.Session, draft Draft, editing *model.Reservation) (daterange.Range, error) {
	excludeID := ""
	var originalFrom *daterange.Date
	if editing != nil {
		excludeID = editing.ID
		start := editing.StartDate
		originalFrom = &start
	}

	blocked, err := s.BlockedPeriods(ctx, sess, draft.CarID, excludeID)
	if err != nil {
		return daterange.Range{}, err
	}

	return reservation.Validate(reservation.Check{
		From:         draft.From,
		To:           draft.To,
		Blocked:      blocked,
		Today:        s.Today(),
		OriginalFrom: originalFrom,
	})
}

// samePeriod черновик оставляет машину и даты бронирования как есть
func samePeriod(draft Draft, r *model.Reservation) (daterange.Range, bool) {
	if draft.CarID != r.CarID {
		return daterange.Range{}, false
	}
	from, errFrom := daterange.Parse(draft.From)
	to, errTo := daterange.Parse(draft.To)
	if errFrom != nil || errTo != nil {
		return daterange.Range{}, false
	}
	if !from.Equal(r.StartDate) || !to.Equal(r.EndDate) {
		return daterange.Range{}, false
	}
	return r.Period(), true
}

// Quote предпросмотр стоимости для машины и периода
func (s *ReservationService) Quote(car model.Car, period daterange.Range) (reservation.Quote, error) {
	return reservation.NewQuote(car, period)
}

// Create проверяет черновик по свежему списку и отправляет на бэкенд.
// Стоимость считает бэкенд, возвращается его версия бронирования.
func (s *ReservationService) Create(ctx context.Context, sess *session.Session, draft Draft) (*model.Reservation, error) {
	if _, err := s.Refresh(ctx, sess); err != nil {
		return nil, err
	}

	period, err := s.Check(ctx, sess, draft, nil)
	if err != nil {
		return nil, err
	}

	input := model.ReservationInput{
		CarID:     draft.CarID,
		ClientID:  draft.ClientID,
		StartDate: period.From,
		EndDate:   period.To,
		Status:    draft.Status,
		Notes:     draft.Notes,
	}

	if draft.AmountPaid != nil {
		if err := s.checkPayment(ctx, sess, draft.CarID, period, *draft.AmountPaid); err != nil {
			return nil, err
		}
		today := s.Today()
		input.PaymentDetails = &model.PaymentInput{AmountPaid: *draft.AmountPaid, TransactionDate: &today}
	}

	created, err := sess.API().CreateReservation(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reservation created",
		zap.String("reservation_id", created.ID),
		zap.String("reservation_number", created.ReservationNumber),
		zap.String("car_id", created.CarID),
		zap.String("period", period.String()),
		zap.Int64("telegram_id", sess.TelegramID()),
	)

	s.refreshQuietly(ctx, sess)
	return created, nil
}

// checkPayment оплата не может превышать предварительную стоимость
func (s *ReservationService) checkPayment(ctx context.Context, sess *session.Session, carID string, period daterange.Range, paid model.Money) error {
	car, err := sess.API().GetCar(ctx, carID)
	if err != nil {
		return err
	}

	estimated, err := reservation.EstimateCost(car.DailyRate, period.From, period.To)
	if err != nil {
		return err
	}

	_, err = reservation.Balance(estimated, paid)
	return err
}

// Update меняет машину, клиента, даты или заметки.
// Изменение сразу видно в локальной копии и откатывается при отказе бэкенда.
func (s *ReservationService) Update(ctx context.Context, sess *session.Session, id string, draft Draft) (*model.Reservation, error) {
	original, err := s.find(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if draft.CarID == "" {
		draft.CarID = original.CarID
	}
	if draft.ClientID == "" {
		draft.ClientID = original.ClientID
	}

	// Машина и даты те же: правка заметок или оплаты не проверяет занятость заново
	period, unchanged := samePeriod(draft, original)
	if !unchanged {
		period, err = s.Check(ctx, sess, draft, original)
		if err != nil {
			return nil, err
		}
	}

	patch := model.ReservationPatch{
		CarID:     &draft.CarID,
		ClientID:  &draft.ClientID,
		StartDate: &period.From,
		EndDate:   &period.To,
		Notes:     &draft.Notes,
	}
	if draft.AmountPaid != nil {
		if err := s.checkPayment(ctx, sess, draft.CarID, period, *draft.AmountPaid); err != nil {
			return nil, err
		}
		patch.PaymentDetails = &model.PaymentInput{AmountPaid: *draft.AmountPaid}
	}

	var updated *model.Reservation
	err = sess.Reservations().Mutate(ctx,
		func(items []model.Reservation) []model.Reservation {
			for i := range items {
				if items[i].ID == id {
					items[i].CarID = draft.CarID
					items[i].ClientID = draft.ClientID
					items[i].StartDate = period.From
					items[i].EndDate = period.To
					items[i].Notes = draft.Notes
				}
			}
			return items
		},
		func(ctx context.Context) error {
			var err error
			updated, err = sess.API().UpdateReservation(ctx, id, patch)
			return err
		},
	)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reservation updated",
		zap.String("reservation_id", id),
		zap.String("period", period.String()),
		zap.Int64("telegram_id", sess.TelegramID()),
	)

	s.refreshQuietly(ctx, sess)
	return updated, nil
}

// ChangeStatus проверяет переход по политике и отправляет смену статуса.
// При отказе бэкенда локальная копия возвращается к исходному состоянию.
func (s *ReservationService) ChangeStatus(ctx context.Context, sess *session.Session, id string, change reservation.StatusChange) (*model.Reservation, error) {
	original, err := s.find(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	update, err := reservation.PlanStatusChange(*original, change, s.policy)
	if err != nil {
		return nil, err
	}

	var updated *model.Reservation
	err = sess.Reservations().Mutate(ctx,
		func(items []model.Reservation) []model.Reservation {
			for i := range items {
				if items[i].ID == id {
					items[i] = reservation.Apply(items[i], update)
				}
			}
			return items
		},
		func(ctx context.Context) error {
			var err error
			updated, err = sess.API().UpdateReservationStatus(ctx, id, update)
			return err
		},
	)
	if err != nil {
		s.logger.Info("Status change rejected",
			zap.String("reservation_id", id),
			zap.String("from", string(original.Status)),
			zap.String("to", string(update.Status)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Reservation status changed",
		zap.String("reservation_id", id),
		zap.String("from", string(original.Status)),
		zap.String("to", string(update.Status)),
		zap.Int64("telegram_id", sess.TelegramID()),
	)

	s.refreshQuietly(ctx, sess)
	return updated, nil
}

// Delete удаляет бронирование: сразу из локальной копии, с откатом при ошибке
func (s *ReservationService) Delete(ctx context.Context, sess *session.Session, id string) error {
	if _, err := s.find(ctx, sess, id); err != nil {
		return err
	}

	err := sess.Reservations().Mutate(ctx,
		func(items []model.Reservation) []model.Reservation {
			kept := items[:0]
			for _, r := range items {
				if r.ID != id {
					kept = append(kept, r)
				}
			}
			return kept
		},
		func(ctx context.Context) error {
			return sess.API().DeleteReservation(ctx, id)
		},
	)
	if err != nil {
		return err
	}

	s.logger.Info("Reservation deleted",
		zap.String("reservation_id", id),
		zap.Int64("telegram_id", sess.TelegramID()),
	)

	s.refreshQuietly(ctx, sess)
	return nil
}

// Digest выдачи (confirmed, начало сегодня) и возвраты (active, конец сегодня)
func (s *ReservationService) Digest(ctx context.Context, sess *session.Session, day daterange.Date) (pickups, returns []model.Reservation, err error) {
	list, err := s.Refresh(ctx, sess)
	if err != nil {
		return nil, nil, err
	}

	for _, r := range list {
		switch {
		case r.Status == model.ReservationStatusConfirmed && r.StartDate.Equal(day):
			pickups = append(pickups, r)
		case r.Status == model.ReservationStatusActive && r.EndDate.Equal(day):
			returns = append(returns, r)
		}
	}
	return pickups, returns, nil
}

// Upcoming бронирования, которые ещё не закончились, по дате начала
func (s *ReservationService) Upcoming(ctx context.Context, sess *session.Session) ([]model.Reservation, error) {
	list, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}

	today := s.Today()
	out := make([]model.Reservation, 0, len(list))
	for _, r := range list {
		if r.EndDate.Before(today) && reservation.IsTerminal(r.Status) {
			continue
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

func (s *ReservationService) find(ctx context.Context, sess *session.Session, id string) (*model.Reservation, error) {
	if _, err := s.List(ctx, sess); err != nil {
		return nil, err
	}

	r, ok := sess.Reservations().Find(func(r model.Reservation) bool { return r.ID == id })
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrReservationNotFound, id)
	}
	return &r, nil
}

// refreshQuietly перечитывает список после изменения; ошибка не отменяет само изменение
func (s *ReservationService) refreshQuietly(ctx context.Context, sess *session.Session) {
	if _, err := s.Refresh(ctx, sess); err != nil {
		s.logger.Warn("Failed to refresh reservations after mutation",
			zap.Int64("telegram_id", sess.TelegramID()),
			zap.Error(err))
	}
}
