// Command levi-client runs the booking core against a backend from the terminal: it restores
// or creates a session, then keeps the dashboard summary of the signed-in actor up to date.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"levi/config"
	"levi/models"
	"levi/services/dashboard"
	"levi/services/gateway"
	"levi/services/session"
	"levi/utils"

	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "sign in with this email when no stored session exists")
	password := flag.String("password", "", "password for -email")
	device := flag.String("device", "default", "device id the session is stored under")
	flag.Parse()

	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer utils.SetupTracing(ctx, "levi-client")(context.Background())

	var store session.Store = session.NewMemoryStore()
	redisClient, err := utils.NewSessionCacheClient()
	switch {
	case err != nil:
		logger.Warn("Session cache unavailable, sessions will not survive restarts", zap.Error(err))
	case redisClient != nil:
		defer redisClient.Close()
		store = session.NewRedisStore(redisClient, *device, config.AppConfig.SessionTTL)
	}

	client := gateway.NewClient(gateway.Options{
		BaseURL:  config.AppConfig.APIBaseURL,
		Timeout:  config.AppConfig.RequestTimeout,
		Logger:   logger,
		Store:    store,
		Location: config.Location(),
	})

	sess, err := client.Restore(ctx)
	if err != nil {
		logger.Fatal("Failed to restore session", zap.Error(err))
	}
	if sess == nil && *email != "" {
		if sess, err = client.Login(ctx, *email, *password); err != nil {
			logger.Fatal("Login failed", zap.Error(err))
		}
	}
	if sess.Anonymous() {
		logger.Info("No session, browsing anonymously")
	} else {
		logger.Info("Signed in", zap.String("actorId", sess.ActorID), zap.String("role", string(sess.Role)))
	}

	profile, err := client.GetUserProfile(ctx)
	if err != nil {
		logger.Fatal("Failed to load profile", zap.Error(err))
	}

	poller := &dashboard.Poller{
		Interval: config.AppConfig.PollInterval,
		Source:   dashboard.GatewaySource(client, models.FilterAll),
		Logger:   logger,
		OnUpdate: func(bookings []models.Booking) {
			report(logger, profile, bookings)
		},
	}
	if err := poller.Start(ctx); err != nil {
		logger.Fatal("Failed to start dashboard", zap.Error(err))
	}
	<-ctx.Done()
	poller.Stop()
}

func report(logger *zap.Logger, profile models.UserProfile, bookings []models.Booking) {
	if profile.IsServiceProvider {
		st := dashboard.ComputeProviderStats(profile, bookings, time.Now().In(config.Location()))
		logger.Info("Provider dashboard",
			zap.Int("completed", st.CompletedJobs),
			zap.Int("active", st.ActiveJobs),
			zap.Int("pending", st.PendingBookings),
			zap.String("today", st.TodayEarnings.StringFixed(2)),
			zap.String("week", st.WeekEarnings.StringFixed(2)),
			zap.String("month", st.MonthEarnings.StringFixed(2)),
			zap.Float64("rating", st.Rating),
		)
		return
	}
	for _, b := range dashboard.RecentBookings(bookings, 5) {
		logger.Info("Booking",
			zap.String("id", b.ID),
			zap.String("provider", b.ServiceProviderName),
			zap.String("status", string(b.Status)),
			zap.String("date", b.Date),
			zap.String("time", b.Time),
		)
	}
}
