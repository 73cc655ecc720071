package storage

import (
	"context"
	"log"
	"strings"
	"time"
)

// RefCounter menjawab berapa baris DB yang masih menunjuk ke sebuah foto.
type RefCounter interface {
	CountPhotoRef(ctx context.Context, ref string) (int64, error)
}

// OrphanReaper menghapus foto yang tidak direferensikan baris mana pun,
// misalnya sisa upload yang transaksinya gagal.
type OrphanReaper struct {
	store    PhotoStore
	counters []RefCounter
	grace    time.Duration
	log      *log.Logger
	now      func() time.Time
}

func NewOrphanReaper(store PhotoStore, grace time.Duration, l *log.Logger, counters ...RefCounter) *OrphanReaper {
	return &OrphanReaper{store: store, counters: counters, grace: grace, log: l, now: time.Now}
}

// Run mengembalikan jumlah file yang dihapus. File lebih muda dari grace dilewati
// karena bisa jadi transaksinya masih berjalan.
func (r *OrphanReaper) Run(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-r.grace)
	removed := 0

	err := r.store.Walk(func(ref string, modTime time.Time) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if modTime.After(cutoff) {
			return nil
		}
		// file sementara dari upload yang crash
		if !strings.HasPrefix(baseName(ref), ".upload-") {
			referenced, err := r.referenced(ctx, ref)
			if err != nil {
				return err
			}
			if referenced {
				return nil
			}
		}
		if err := r.store.Remove(ref); err != nil {
			r.log.Printf("[REAPER] gagal hapus %s: %v", ref, err)
			return nil
		}
		removed++
		return nil
	})

	r.log.Printf("[REAPER] selesai removed=%d", removed)
	return removed, err
}

func (r *OrphanReaper) referenced(ctx context.Context, ref string) (bool, error) {
	for _, c := range r.counters {
		n, err := c.CountPhotoRef(ctx, ref)
		if err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

func baseName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
