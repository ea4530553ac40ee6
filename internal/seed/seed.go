package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pixeltrack/api/internal/models"
	"pixeltrack/api/internal/repository"
	"pixeltrack/api/internal/security"
)

type userStore interface {
	FindByAccountName(ctx context.Context, accountName string) (models.User, error)
	Create(ctx context.Context, user models.User) (int, error)
}

type campaignStore interface {
	ActiveNameExists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, campaign models.Campaign) (int, error)
}

type groupStore interface {
	Create(ctx context.Context, group models.Group) (int, error)
}

type contactStore interface {
	GetByUUID(ctx context.Context, uuid string) (models.Contact, error)
	Create(ctx context.Context, contact models.Contact) error
}

type pixelStore interface {
	SequenceExists(ctx context.Context, contactUUID string, sequence int) (bool, error)
	Create(ctx context.Context, p models.Pixel) error
}

type seedPixel struct {
	SequenceNumber int `json:"contact_pixel_number"`
}

type seedContact struct {
	UUID        string      `json:"uuid"`
	ScheduledAt time.Time   `json:"scheduled_datetime"`
	Pixels      []seedPixel `json:"pixels"`
}

type seedGroup struct {
	CampaignGroupID int           `json:"campaign_group_id"`
	Name            string        `json:"group_name"`
	Description     string        `json:"group_description"`
	Contacts        []seedContact `json:"contacts"`
}

type seedCampaign struct {
	Name        string      `json:"campaign_name"`
	Description string      `json:"campaign_description"`
	StartAt     time.Time   `json:"start_datetime"`
	EndAt       time.Time   `json:"end_datetime"`
	Groups      []seedGroup `json:"groups"`
}

type seedUser struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	AccountName string `json:"account_name"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	GrantID     int    `json:"grant_id"`
}

type seedFile struct {
	AdminUsers []seedUser     `json:"ls_admin_users"`
	Campaigns  []seedCampaign `json:"ls_campaigns"`
}

// Seeder inserts bootstrap data from a structured file. Users are keyed
// by account name, so repeated runs only add what is missing.
type Seeder struct {
	path      string
	users     userStore
	campaigns campaignStore
	groups    groupStore
	contacts  contactStore
	pixels    pixelStore
	cipher    *security.Cipher
	log       zerolog.Logger
}

func NewSeeder(
	path string,
	users userStore,
	campaigns campaignStore,
	groups groupStore,
	contacts contactStore,
	pixels pixelStore,
	cipher *security.Cipher,
	log zerolog.Logger,
) *Seeder {
	return &Seeder{
		path:      path,
		users:     users,
		campaigns: campaigns,
		groups:    groups,
		contacts:  contacts,
		pixels:    pixels,
		cipher:    cipher,
		log:       log,
	}
}

func (s *Seeder) Apply(ctx context.Context) error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var file seedFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for _, u := range file.AdminUsers {
		if err := s.applyUser(ctx, u); err != nil {
			return err
		}
	}

	for _, c := range file.Campaigns {
		if err := s.applyCampaign(ctx, c); err != nil {
			return err
		}
	}

	return nil
}

func (s *Seeder) applyUser(ctx context.Context, u seedUser) error {
	if _, err := s.users.FindByAccountName(ctx, u.AccountName); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("seed user %s: %w", u.AccountName, err)
	}

	salt, err := security.GenerateSalt(12)
	if err != nil {
		return err
	}
	passwordHash, err := security.HashPassword(salt, u.Password)
	if err != nil {
		return err
	}

	nameEnc, err := s.cipher.Encrypt(u.Name)
	if err != nil {
		return err
	}
	surnameEnc, err := s.cipher.Encrypt(u.Surname)
	if err != nil {
		return err
	}
	emailEnc, err := s.cipher.Encrypt(u.Email)
	if err != nil {
		return err
	}

	_, err = s.users.Create(ctx, models.User{
		UUID:         uuid.NewString(),
		NameEnc:      nameEnc,
		SurnameEnc:   surnameEnc,
		AccountName:  u.AccountName,
		Salt:         salt,
		PasswordHash: passwordHash,
		EmailEnc:     emailEnc,
		EmailDigest:  security.EmailDigest(u.Email),
		GrantID:      u.GrantID,
		State:        models.ActiveState(),
	})
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("seed user %s: %w", u.AccountName, err)
	}

	s.log.Info().Str("account", u.AccountName).Msg("seeded user")
	return nil
}

func (s *Seeder) applyCampaign(ctx context.Context, c seedCampaign) error {
	exists, err := s.campaigns.ActiveNameExists(ctx, c.Name)
	if err != nil {
		return fmt.Errorf("seed campaign %s: %w", c.Name, err)
	}
	if exists {
		return nil
	}

	campaignID, err := s.campaigns.Create(ctx, models.Campaign{
		Name:        c.Name,
		Description: c.Description,
		StartAt:     c.StartAt,
		EndAt:       c.EndAt,
		State:       models.ActiveState(),
	})
	if err != nil {
		return fmt.Errorf("seed campaign %s: %w", c.Name, err)
	}

	for _, g := range c.Groups {
		groupID, err := s.groups.Create(ctx, models.Group{
			CampaignID:      campaignID,
			CampaignGroupID: g.CampaignGroupID,
			Name:            g.Name,
			Description:     g.Description,
			State:           models.ActiveState(),
		})
		if err != nil {
			return fmt.Errorf("seed group %s: %w", g.Name, err)
		}

		for _, ct := range g.Contacts {
			if err := s.applyContact(ctx, campaignID, groupID, ct); err != nil {
				return err
			}
		}
	}

	s.log.Info().Str("campaign", c.Name).Msg("seeded campaign")
	return nil
}

func (s *Seeder) applyContact(ctx context.Context, campaignID int, groupID int, ct seedContact) error {
	if _, err := s.contacts.GetByUUID(ctx, ct.UUID); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrContactNotFound) {
		return fmt.Errorf("seed contact %s: %w", ct.UUID, err)
	}

	err := s.contacts.Create(ctx, models.Contact{
		UUID:        ct.UUID,
		CampaignID:  campaignID,
		GroupID:     groupID,
		ScheduledAt: ct.ScheduledAt,
	})
	if err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return fmt.Errorf("seed contact %s: %w", ct.UUID, err)
	}

	for _, p := range ct.Pixels {
		exists, err := s.pixels.SequenceExists(ctx, ct.UUID, p.SequenceNumber)
		if err != nil {
			return fmt.Errorf("seed pixel: %w", err)
		}
		if exists {
			continue
		}
		err = s.pixels.Create(ctx, models.Pixel{
			UUID:           uuid.NewString(),
			ContactUUID:    ct.UUID,
			SequenceNumber: p.SequenceNumber,
		})
		if err != nil && !errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("seed pixel: %w", err)
		}
	}

	return nil
}
