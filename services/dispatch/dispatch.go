package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"barberremind/config"
	appointmentRepo "barberremind/database/repository/appointment"
	"barberremind/models"
	"barberremind/utils"

	"go.uber.org/zap"
)

// Dispatch loads the shop's appointments for the date, sends a reminder
// for each one still pending, records the outcome per appointment and
// updates the shop's usage counters. One appointment's failure never
// aborts the rest of the batch.
func (s *DefaultDispatchService) Dispatch(ctx context.Context, req models.DispatchRequest) (*models.DispatchResult, error) {
	if req.ShopID == "" || req.Date == "" {
		return nil, ErrMissingParameters
	}
	logger := utils.GetLogger()

	if s.Lock != nil {
		key := fmt.Sprintf("dispatch:lock:%s:%s", req.ShopID, req.Date)
		ok, err := s.Lock.Acquire(ctx, key)
		switch {
		case err != nil:
			logger.Warn("Batch lock unavailable, proceeding without it", zap.Error(err))
		case !ok:
			return nil, ErrDispatchInProgress
		default:
			defer s.Lock.Release(ctx, key)
		}
	}

	appts, err := s.Appointments.ListByShopDate(ctx, req.ShopID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	if len(appts) == 0 {
		return &models.DispatchResult{Status: "no appointments for this date"}, nil
	}

	info, err := s.Shops.GetInfo(ctx, req.ShopID)
	if err != nil {
		logger.Warn("Failed to load shop info, using fallback name",
			zap.String("shop", req.ShopID), zap.Error(err))
	}
	barber := info.Name

	tmpl := req.Template
	if tmpl == "" {
		tmpl = s.DefaultTemplate
	}
	if tmpl == "" {
		tmpl = config.DefaultReminderTemplate
	}

	ids := make([]string, 0, len(appts))
	for id := range appts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sent, skipped := 0, 0
	for _, id := range ids {
		appt := appts[id]
		if appt.Sent {
			skipped++
			continue
		}
		if strings.TrimSpace(appt.Phone) == "" || strings.TrimSpace(appt.Time) == "" {
			logger.Warn("Skipping appointment with missing phone or time",
				zap.String("shop", req.ShopID), zap.String("appointment", id))
			skipped++
			continue
		}

		phone, err := NormalizePhone(appt.Phone, s.CountryPrefix, s.PhoneFormat)
		if err != nil {
			logger.Warn("Skipping appointment with unusable phone",
				zap.String("appointment", id), zap.Error(err))
			skipped++
			continue
		}
		if phone != appt.Phone {
			// Best-effort cache of the canonical form; failure is harmless.
			if err := s.Appointments.SavePhone(ctx, req.ShopID, req.Date, id, phone); err != nil {
				logger.Warn("Failed to cache canonical phone",
					zap.String("appointment", id), zap.Error(err))
			}
		}

		fields := applyFallbacks(TemplateFields{Name: appt.Name, Time: appt.Time, Barber: barber})
		message := RenderTemplate(tmpl, fields)

		msgID, err := s.Gateway.Send(ctx, phone, message)
		if err != nil {
			// The appointment stays pending and is retried by re-invocation.
			logger.Warn("Gateway send failed",
				zap.String("appointment", id), zap.String("phone", phone), zap.Error(err))
			skipped++
			continue
		}

		if err := s.Appointments.MarkSent(ctx, req.ShopID, req.Date, id, msgID, time.Now()); err != nil {
			if errors.Is(err, appointmentRepo.ErrAlreadySent) {
				logger.Warn("Concurrent batch already recorded this send",
					zap.String("appointment", id))
			} else {
				logger.Error("Failed to record send outcome",
					zap.String("appointment", id), zap.Error(err))
			}
		}
		sent++
		logger.Info("Reminder sent",
			zap.String("shop", req.ShopID), zap.String("appointment", id), zap.String("messageId", msgID))
	}

	if sent > 0 {
		if err := s.Shops.SetUsageForDate(ctx, req.ShopID, req.Date, sent); err != nil {
			logger.Error("Failed to record per-date usage",
				zap.String("shop", req.ShopID), zap.Error(err))
		}
		if err := s.Shops.AddToTotal(ctx, req.ShopID, sent); err != nil {
			logger.Error("Failed to update cumulative usage total",
				zap.String("shop", req.ShopID), zap.Error(err))
		}
	}

	return &models.DispatchResult{
		Attempted: len(appts),
		Sent:      sent,
		Skipped:   skipped,
		Status:    "dispatch complete",
	}, nil
}
