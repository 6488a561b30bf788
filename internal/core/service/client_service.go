package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/brightfold/portal-api/internal/core/domain"
	"github.com/brightfold/portal-api/internal/core/ports"
)

// access keys are minted as CLT-XXXX from an alphabet without 0/O or
// 1/I, since clients type them by hand.
const (
	accessKeyPrefix   = "CLT"
	accessKeyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// ClientService implements admin-side client management, including the
// pro-tier toggle.
type ClientService struct {
	repo ports.ClientRepository
	log  zerolog.Logger
}

func NewClientService(repo ports.ClientRepository, log zerolog.Logger) *ClientService {
	return &ClientService{repo: repo, log: log}
}

func (s *ClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.repo.List(ctx)
}

func (s *ClientService) CreateClient(ctx context.Context, input ports.CreateClientInput) (*domain.Client, error) {
	now := time.Now().UTC()
	client := &domain.Client{
		ID:        uuid.NewString(),
		AccessKey: generateAccessKey(),
		Name:      input.Name,
		Email:     input.Email,
		Company:   input.Company,
		IsPro:     input.IsPro,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// The key space is small enough for collisions to happen in a busy
	// install; retry with a fresh key before giving up.
	for attempt := 0; ; attempt++ {
		err := s.repo.Create(ctx, client)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicateKey) && attempt < 3 {
			client.AccessKey = generateAccessKey()
			continue
		}
		return nil, err
	}

	s.log.Info().Str("client_id", client.ID).Bool("is_pro", client.IsPro).Msg("client registered")
	return client, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, id string, patch ports.ClientPatch) (*domain.Client, error) {
	client, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if patch.IsPro != nil {
		s.log.Info().Str("client_id", id).Bool("is_pro", *patch.IsPro).Msg("pro tier toggled")
	}
	return client, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// generateAccessKey returns a fresh key in the form CLT-XXXX.
func generateAccessKey() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: derive from the clock
		return fmt.Sprintf("%s-%04X", accessKeyPrefix, time.Now().UnixNano()&0xFFFF)
	}
	for i := range b {
		b[i] = accessKeyAlphabet[int(b[i])%len(accessKeyAlphabet)]
	}
	return fmt.Sprintf("%s-%s", accessKeyPrefix, string(b))
}
