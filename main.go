package main

import (
	"context"
	"fmt"
	"time"

	"smartcity/internal/api"
	"smartcity/internal/config"
	apperrors "smartcity/internal/errors"
	"smartcity/internal/health"
	"smartcity/internal/logger"
	"smartcity/internal/notify"
	"smartcity/internal/session"
	"smartcity/internal/store"
	"smartcity/internal/summary"

	"github.com/sirupsen/logrus"
)

func main() {
	logger.Setup()
	log := logger.Component("main")
	log.Info("🚀 Starting smart-city complaint watcher...")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("❌ Configuration error")
	}

	endpoints := api.Endpoints{
		User:       cfg.UserServiceURL,
		Complaint:  cfg.ComplaintServiceURL,
		Worker:     cfg.WorkerServiceURL,
		Assignment: cfg.AssignmentServiceURL,
	}
	client := api.NewHTTPClient(cfg.HTTPTimeout)
	sess := session.New(cfg.SessionFile)
	telegram := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.DebugMode, logger.Component("telegram"))
	if telegram == nil {
		log.Warn("⚠️  Telegram not configured, notifications disabled")
	}

	// notify.Telegram is nil-safe but a typed-nil interface is not a nil
	// interface, so only hand it over when configured.
	var notifier store.Notifier
	if telegram != nil {
		notifier = telegram
	}
	st := store.New(endpoints, sess, client, notifier, logger.Component("store"))

	monitor := health.NewMonitor()
	health.StartServer(cfg.HealthPort, monitor)

	ctx := context.Background()

	// Prefer the durable session; fall back to credential login.
	user := st.Restore()
	if user == nil {
		log.Info("🔐 No restorable session, logging in...")
		user = loginWithRetry(ctx, st, cfg, log)
		if user == nil {
			log.Fatalf("❌ Login failed after %d attempts", cfg.MaxLoginRetries)
		}
	}
	log.WithField("role", user.Role).Info("✓ Signed in")

	log.Info("📬 Fetching initial complaint view...")
	if err := st.FetchData(ctx, user); err != nil {
		log.WithError(err).Fatal("❌ Initial fetch failed")
	}
	monitor.UpdateFetchStatus(nil)
	known := knownIDs(st.Complaints())
	log.WithField("complaints", len(known)).Info("✅ Initial fetch completed")

	log.WithField("interval", cfg.FetchInterval).Info("⏰ Starting refresh loop")

	ticker := time.NewTicker(cfg.FetchInterval)
	defer ticker.Stop()

	consecutiveFailures := 0
	lastDigestDay := time.Now().Day()

	for range ticker.C {
		log.Info("📬 Refreshing complaint view...")

		err := fetchWithRelogin(ctx, st, cfg, log)
		monitor.UpdateFetchStatus(err)

		if err != nil {
			consecutiveFailures++
			log.WithError(err).WithField("consecutive", consecutiveFailures).
				Warn("⚠️  Fetch cycle failed")
			if consecutiveFailures >= cfg.MaxFetchRetries && telegram != nil {
				if alertErr := telegram.SendCriticalAlert(ctx, "Fetch Failure",
					err.Error(), consecutiveFailures); alertErr != nil {
					log.WithError(alertErr).Warn("failed to send critical alert")
				}
			}
			continue
		}
		consecutiveFailures = 0

		complaints := st.Complaints()
		for _, c := range complaints {
			if known[c.ID] {
				continue
			}
			known[c.ID] = true
			log.WithField("complaint", c.ID).Info("🆕 New complaint")
			if telegram != nil {
				if err := telegram.SendComplaintAlert(ctx, c); err != nil {
					log.WithError(err).Warn("failed to send complaint alert")
				}
			}
		}

		// One digest per calendar day, on the first successful cycle after
		// rollover.
		if day := time.Now().Day(); day != lastDigestDay {
			lastDigestDay = day
			sendDigest(ctx, complaints, telegram, log)
		}
	}
}

// loginWithRetry attempts credential login up to MaxLoginRetries times.
// Rejected credentials are fatal immediately; only transport errors retry.
func loginWithRetry(ctx context.Context, st *store.Store, cfg *config.Config, log *logrus.Entry) *store.User {
	for attempt := 1; attempt <= cfg.MaxLoginRetries; attempt++ {
		log.Infof("   Login attempt %d/%d...", attempt, cfg.MaxLoginRetries)
		env, err := st.Login(ctx, cfg.Email, cfg.Password)
		if err == nil {
			if env.OK() && st.CurrentUser() != nil {
				return st.CurrentUser()
			}
			// The service answered; retrying the same credentials is pointless.
			log.Warnf("   ❌ Login rejected: %s", env.Message)
			return nil
		}
		log.Warnf("   ❌ Login failed: %v", err)
		if attempt < cfg.MaxLoginRetries {
			time.Sleep(cfg.LoginRetryDelay)
		}
	}
	return nil
}

// fetchWithRelogin runs one aggregate fetch; on session expiry it logs in
// again once and retries the fetch.
func fetchWithRelogin(ctx context.Context, st *store.Store, cfg *config.Config, log *logrus.Entry) error {
	user := st.CurrentUser()
	if user != nil {
		err := st.FetchData(ctx, user)
		if err == nil {
			return nil
		}
		if !apperrors.IsSessionExpired(err) && !apperrors.IsNotAuthenticated(err) {
			return err
		}
		log.Info("🔄 Session expired, re-logging in...")
	}

	user = loginWithRetry(ctx, st, cfg, log)
	if user == nil {
		return fmt.Errorf("re-login failed")
	}
	return st.FetchData(ctx, user)
}

// sendDigest renders the daily PNG summary and posts it. Best-effort: a
// render or send failure only logs.
func sendDigest(ctx context.Context, complaints []store.EnrichedComplaint, telegram *notify.Telegram, log *logrus.Entry) {
	if telegram == nil || len(complaints) == 0 {
		return
	}
	log.Infof("🖼️  Rendering daily digest (%d complaints)...", len(complaints))
	png, err := summary.RenderDigest(summary.FromComplaints(complaints))
	if err != nil {
		log.Warnf("⚠️  Failed to render digest: %v", err)
		return
	}
	caption := fmt.Sprintf("📊 Daily complaint digest — %s", time.Now().Format("02 Jan 2006"))
	if err := telegram.SendPhoto(ctx, caption, png); err != nil {
		log.Warnf("⚠️  Failed to send digest: %v", err)
	}
}

func knownIDs(complaints []store.EnrichedComplaint) map[string]bool {
	ids := make(map[string]bool, len(complaints))
	for _, c := range complaints {
		ids[c.ID] = true
	}
	return ids
}
