package handlers

import (
	"context"
	"sort"
	"time"

	"pixeltrack/api/internal/models"
	"pixeltrack/api/internal/repository"
)

// In-memory stores backing the handler tests. They return the same
// sentinel errors as the pgx repositories.

type memUsers struct {
	seq  int
	byID map[int]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int]models.User{}}
}

func (m *memUsers) Create(_ context.Context, user models.User) (int, error) {
	for _, u := range m.byID {
		if u.AccountName == user.AccountName || u.EmailDigest == user.EmailDigest {
			return 0, repository.ErrDuplicate
		}
	}
	m.seq++
	user.ID = m.seq
	user.CreatedAt = time.Now().UTC()
	m.byID[user.ID] = user
	return user.ID, nil
}

func (m *memUsers) FindByAccountName(_ context.Context, accountName string) (models.User, error) {
	for _, u := range m.byID {
		if u.AccountName == accountName {
			return u, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int) (models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) ExistsByEmailDigest(_ context.Context, digest string) (bool, error) {
	for _, u := range m.byID {
		if u.EmailDigest == digest {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) SoftDelete(_ context.Context, id int, at time.Time) error {
	u, ok := m.byID[id]
	if !ok || !u.State.Active() {
		return repository.ErrUserNotFound
	}
	u.State = models.DeletedState(at)
	m.byID[id] = u
	return nil
}

type memLogins struct {
	events []models.LoginEvent
}

func (m *memLogins) Insert(_ context.Context, event models.LoginEvent) error {
	m.events = append(m.events, event)
	return nil
}

type memCampaigns struct {
	seq  int
	byID map[int]models.Campaign
}

func newMemCampaigns() *memCampaigns {
	return &memCampaigns{byID: map[int]models.Campaign{}}
}

func (m *memCampaigns) Create(_ context.Context, campaign models.Campaign) (int, error) {
	for _, c := range m.byID {
		if c.Name == campaign.Name && c.State.Active() {
			return 0, repository.ErrDuplicate
		}
	}
	m.seq++
	campaign.ID = m.seq
	campaign.CreatedAt = time.Now().UTC()
	m.byID[campaign.ID] = campaign
	return campaign.ID, nil
}

func (m *memCampaigns) GetByID(_ context.Context, id int) (models.Campaign, error) {
	c, ok := m.byID[id]
	if !ok {
		return models.Campaign{}, repository.ErrCampaignNotFound
	}
	return c, nil
}

func (m *memCampaigns) ActiveNameExists(_ context.Context, name string) (bool, error) {
	for _, c := range m.byID {
		if c.Name == name && c.State.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCampaigns) List(_ context.Context) ([]models.Campaign, error) {
	out := make([]models.Campaign, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCampaigns) Update(_ context.Context, campaign models.Campaign) error {
	existing, ok := m.byID[campaign.ID]
	if !ok || !existing.State.Active() {
		return repository.ErrCampaignNotFound
	}
	for _, c := range m.byID {
		if c.ID != campaign.ID && c.Name == campaign.Name && c.State.Active() {
			return repository.ErrDuplicate
		}
	}
	existing.Name = campaign.Name
	existing.Description = campaign.Description
	existing.StartAt = campaign.StartAt
	existing.EndAt = campaign.EndAt
	m.byID[campaign.ID] = existing
	return nil
}

func (m *memCampaigns) SoftDelete(_ context.Context, id int, at time.Time) error {
	c, ok := m.byID[id]
	if !ok || !c.State.Active() {
		return repository.ErrCampaignNotFound
	}
	c.State = models.DeletedState(at)
	m.byID[id] = c
	return nil
}

type memGroups struct {
	seq  int
	byID map[int]models.Group
}

func newMemGroups() *memGroups {
	return &memGroups{byID: map[int]models.Group{}}
}

func (m *memGroups) Create(_ context.Context, group models.Group) (int, error) {
	m.seq++
	group.ID = m.seq
	group.CreatedAt = time.Now().UTC()
	m.byID[group.ID] = group
	return group.ID, nil
}

func (m *memGroups) GetByID(_ context.Context, id int) (models.Group, error) {
	g, ok := m.byID[id]
	if !ok {
		return models.Group{}, repository.ErrGroupNotFound
	}
	return g, nil
}

func (m *memGroups) List(_ context.Context) ([]models.Group, error) {
	out := make([]models.Group, 0, len(m.byID))
	for _, g := range m.byID {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memGroups) Update(_ context.Context, group models.Group) error {
	existing, ok := m.byID[group.ID]
	if !ok || !existing.State.Active() {
		return repository.ErrGroupNotFound
	}
	existing.Name = group.Name
	existing.Description = group.Description
	m.byID[group.ID] = existing
	return nil
}

func (m *memGroups) SoftDelete(_ context.Context, id int, at time.Time) error {
	g, ok := m.byID[id]
	if !ok || !g.State.Active() {
		return repository.ErrGroupNotFound
	}
	g.State = models.DeletedState(at)
	m.byID[id] = g
	return nil
}

type memContacts struct {
	byUUID map[string]models.Contact
}

func newMemContacts() *memContacts {
	return &memContacts{byUUID: map[string]models.Contact{}}
}

func (m *memContacts) Create(_ context.Context, contact models.Contact) error {
	if _, ok := m.byUUID[contact.UUID]; ok {
		return repository.ErrDuplicate
	}
	m.byUUID[contact.UUID] = contact
	return nil
}

func (m *memContacts) GetByUUID(_ context.Context, uuid string) (models.Contact, error) {
	c, ok := m.byUUID[uuid]
	if !ok {
		return models.Contact{}, repository.ErrContactNotFound
	}
	return c, nil
}

func (m *memContacts) List(_ context.Context) ([]models.Contact, error) {
	out := make([]models.Contact, 0, len(m.byUUID))
	for _, c := range m.byUUID {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out, nil
}

func (m *memContacts) ListByGroup(ctx context.Context, groupID int) ([]models.Contact, error) {
	all, _ := m.List(ctx)
	out := make([]models.Contact, 0)
	for _, c := range all {
		if c.GroupID == groupID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memContacts) ListByCampaign(ctx context.Context, campaignID int) ([]models.Contact, error) {
	all, _ := m.List(ctx)
	out := make([]models.Contact, 0)
	for _, c := range all {
		if c.CampaignID == campaignID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memContacts) Delete(_ context.Context, uuid string) error {
	if _, ok := m.byUUID[uuid]; !ok {
		return repository.ErrContactNotFound
	}
	delete(m.byUUID, uuid)
	return nil
}

type memPixels struct {
	byUUID map[string]models.Pixel
}

func newMemPixels() *memPixels {
	return &memPixels{byUUID: map[string]models.Pixel{}}
}

func (m *memPixels) Create(_ context.Context, p models.Pixel) error {
	if _, ok := m.byUUID[p.UUID]; ok {
		return repository.ErrDuplicate
	}
	for _, existing := range m.byUUID {
		if existing.ContactUUID == p.ContactUUID && existing.SequenceNumber == p.SequenceNumber {
			return repository.ErrDuplicate
		}
	}
	m.byUUID[p.UUID] = p
	return nil
}

func (m *memPixels) GetByUUID(_ context.Context, uuid string) (models.Pixel, error) {
	p, ok := m.byUUID[uuid]
	if !ok {
		return models.Pixel{}, repository.ErrPixelNotFound
	}
	return p, nil
}

func (m *memPixels) SequenceExists(_ context.Context, contactUUID string, sequence int) (bool, error) {
	for _, p := range m.byUUID {
		if p.ContactUUID == contactUUID && p.SequenceNumber == sequence {
			return true, nil
		}
	}
	return false, nil
}

func (m *memPixels) List(_ context.Context) ([]models.Pixel, error) {
	out := make([]models.Pixel, 0, len(m.byUUID))
	for _, p := range m.byUUID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UUID < out[j].UUID })
	return out, nil
}

type memViews struct {
	seq    int
	byUUID map[string]models.View
}

func newMemViews() *memViews {
	return &memViews{byUUID: map[string]models.View{}}
}

func (m *memViews) HasView(_ context.Context, pixelUUID string) (bool, error) {
	_, ok := m.byUUID[pixelUUID]
	return ok, nil
}

func (m *memViews) InsertFirst(_ context.Context, pixelUUID string, at time.Time) (bool, error) {
	if _, ok := m.byUUID[pixelUUID]; ok {
		return false, nil
	}
	m.seq++
	m.byUUID[pixelUUID] = models.View{ID: m.seq, PixelUUID: pixelUUID, ViewedAt: at}
	return true, nil
}

func (m *memViews) List(_ context.Context) ([]models.View, error) {
	out := make([]models.View, 0, len(m.byUUID))
	for _, v := range m.byUUID {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memMarkers struct {
	marks map[string]string
}

func newMemMarkers() *memMarkers {
	return &memMarkers{marks: map[string]string{}}
}

func (m *memMarkers) Seen(_ context.Context, key string) (bool, error) {
	_, ok := m.marks[key]
	return ok, nil
}

func (m *memMarkers) Mark(_ context.Context, key string, value string) error {
	m.marks[key] = value
	return nil
}
