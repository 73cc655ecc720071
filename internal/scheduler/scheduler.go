package scheduler

import (
	"context"
	"log"
	"time"

	"absensi-backend/internal/repository"
	"absensi-backend/internal/storage"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron *cron.Cron
	log  *log.Logger
}

// Start mendaftarkan job pembersih foto yatim dan token logout yang sudah kadaluwarsa.
func Start(schedule string, reaper *storage.OrphanReaper, tokens repository.TokenRepository, l *log.Logger) (*Scheduler, error) {
	c := newCron(l)

	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if _, err := reaper.Run(ctx); err != nil {
			l.Printf("[REAPER] error: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := tokens.PurgeExpired(ctx, time.Now())
		if err != nil {
			l.Printf("[TOKEN-PURGE] error: %v", err)
			return
		}
		l.Printf("[TOKEN-PURGE] removed=%d", n)
	}); err != nil {
		return nil, err
	}

	c.Start()
	l.Printf("[SCHEDULER] aktif reaper=%q token-purge=@hourly", schedule)
	return &Scheduler{cron: c, log: l}, nil
}

// newCron: log milik cron ikut logger aplikasi, job yang panic tidak mematikan proses.
func newCron(l *log.Logger) *cron.Cron {
	cl := cron.PrintfLogger(l)
	return cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
}

// Stop menunggu job yang sedang berjalan selesai.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
