package services

import (
	"context"
	"log"
	"strings"
	"time"

	"coolcare-api/internal/adapters/persistence/models"
	"coolcare-api/internal/adapters/persistence/repositories"
	"coolcare-api/internal/identity"

	"github.com/robfig/cron/v3"
)

// ReconcileService is the compensating action for the provisioning
// partial-failure policy: create-user tolerates a failed profile insert
// after the identity already exists, so this job periodically rebuilds the
// missing profile rows from identity metadata. It also purges expired
// refresh tokens.
type ReconcileService struct {
	identities       identity.Store
	profileRepo      repositories.ProfileRepository
	roleRepo         repositories.RoleRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cron             *cron.Cron
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(
	identities identity.Store,
	profileRepo repositories.ProfileRepository,
	roleRepo repositories.RoleRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *ReconcileService {
	return &ReconcileService{
		identities:       identities,
		profileRepo:      profileRepo,
		roleRepo:         roleRepo,
		refreshTokenRepo: refreshTokenRepo,
		cron:             cron.New(),
	}
}

// Start schedules the nightly sweep (02:30) and an hourly token purge
func (s *ReconcileService) Start() {
	s.cron.AddFunc("30 2 * * *", func() {
		if n, err := s.ReconcileOrphans(context.Background()); err != nil {
			log.Printf("❌ Orphan reconciliation failed: %v", err)
		} else if n > 0 {
			log.Printf("✅ Reconciled %d orphaned identities", n)
		}
	})

	s.cron.AddFunc("@hourly", func() {
		if n, err := s.refreshTokenRepo.DeleteExpired(context.Background()); err != nil {
			log.Printf("❌ Expired token purge failed: %v", err)
		} else if n > 0 {
			log.Printf("🗑️ Purged %d expired refresh tokens", n)
		}
	})

	s.cron.Start()
	log.Println("🚀 ReconcileService started")
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *ReconcileService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 ReconcileService stopped")
}

// ReconcileOrphans rebuilds profile rows for identities that have none.
// An orphan whose metadata role is no longer in the catalog is left alone
// and logged — inventing a role would bypass the provisioning gate.
func (s *ReconcileService) ReconcileOrphans(ctx context.Context) (int, error) {
	orphans, err := s.identities.ListOrphans(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, id := range orphans {
		valid, err := s.roleRepo.ExistsByName(ctx, id.Role)
		if err != nil {
			return restored, err
		}
		if !valid {
			log.Printf("⚠️ Orphan %s (%s) has unknown role %q, skipping", id.ID, id.Email, id.Role)
			continue
		}

		profile := &models.Profile{
			ID:        id.ID,
			Name:      strings.TrimSpace(id.FirstName + " " + id.LastName),
			FirstName: id.FirstName,
			LastName:  id.LastName,
			Email:     id.Email,
			Phone:     id.Phone,
			Role:      id.Role,
		}
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			log.Printf("⚠️ Could not restore profile for %s: %v", id.ID, err)
			continue
		}

		restored++
		log.Printf("🔧 Restored profile for identity %s (%s), drift age %s", id.ID, id.Email, time.Since(id.CreatedAt).Round(time.Second))
	}

	return restored, nil
}
