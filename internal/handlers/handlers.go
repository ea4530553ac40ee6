package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pixeltrack/api/internal/config"
	"pixeltrack/api/internal/middleware"
	"pixeltrack/api/internal/models"
	"pixeltrack/api/internal/security"
	"pixeltrack/api/internal/seed"
	"pixeltrack/api/internal/service"
)

type UserStore interface {
	Create(ctx context.Context, user models.User) (int, error)
	FindByAccountName(ctx context.Context, accountName string) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
	ExistsByEmailDigest(ctx context.Context, digest string) (bool, error)
	SoftDelete(ctx context.Context, id int, at time.Time) error
}

type CampaignStore interface {
	Create(ctx context.Context, campaign models.Campaign) (int, error)
	GetByID(ctx context.Context, id int) (models.Campaign, error)
	ActiveNameExists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]models.Campaign, error)
	Update(ctx context.Context, campaign models.Campaign) error
	SoftDelete(ctx context.Context, id int, at time.Time) error
}

type GroupStore interface {
	Create(ctx context.Context, group models.Group) (int, error)
	GetByID(ctx context.Context, id int) (models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	Update(ctx context.Context, group models.Group) error
	SoftDelete(ctx context.Context, id int, at time.Time) error
}

type ContactStore interface {
	Create(ctx context.Context, contact models.Contact) error
	GetByUUID(ctx context.Context, uuid string) (models.Contact, error)
	List(ctx context.Context) ([]models.Contact, error)
	ListByGroup(ctx context.Context, groupID int) ([]models.Contact, error)
	ListByCampaign(ctx context.Context, campaignID int) ([]models.Contact, error)
	Delete(ctx context.Context, uuid string) error
}

type PixelStore interface {
	Create(ctx context.Context, p models.Pixel) error
	GetByUUID(ctx context.Context, uuid string) (models.Pixel, error)
	SequenceExists(ctx context.Context, contactUUID string, sequence int) (bool, error)
	List(ctx context.Context) ([]models.Pixel, error)
}

type ViewStore interface {
	List(ctx context.Context) ([]models.View, error)
}

type Stores struct {
	Users     UserStore
	Campaigns CampaignStore
	Groups    GroupStore
	Contacts  ContactStore
	Pixels    PixelStore
	Views     ViewStore
}

type HandlerSet struct {
	log     zerolog.Logger
	cfg     *config.AppConfig
	auth    *service.AuthService
	tracker *service.TrackingService
	cipher  *security.Cipher
	seeder  *seed.Seeder
	stores  Stores
	db      *pgxpool.Pool
	cache   *redis.Client
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	auth *service.AuthService,
	tracker *service.TrackingService,
	cipher *security.Cipher,
	seeder *seed.Seeder,
	stores Stores,
	db *pgxpool.Pool,
	cache *redis.Client,
) HandlerSet {
	return HandlerSet{
		log:     log,
		cfg:     cfg,
		auth:    auth,
		tracker: tracker,
		cipher:  cipher,
		seeder:  seeder,
		stores:  stores,
		db:      db,
		cache:   cache,
	}
}

func (h HandlerSet) Register(engine *gin.Engine) {
	engine.GET("/healthz", h.Health)

	engine.POST("/login", h.Login)
	engine.GET("/init", h.Init)

	// The pixel fetch must work from an email client with no credentials.
	engine.GET("/pixel/:uuid", h.FetchPixel)

	authed := engine.Group("/")
	authed.Use(middleware.Auth(h.cfg.Security, h.stores.Users))
	{
		authed.POST("/user", h.AddUser)
		authed.GET("/user/:id", h.GetUser)
		authed.DELETE("/user/:id", h.DeleteUser)

		authed.POST("/campaign", h.AddCampaign)
		authed.GET("/campaign", h.ListCampaigns)
		authed.GET("/campaign/:id", h.GetCampaign)
		authed.PUT("/campaign/:id", h.UpdateCampaign)
		authed.DELETE("/campaign/:id", h.DeleteCampaign)

		authed.POST("/group", h.AddGroup)
		authed.GET("/group", h.ListGroups)
		authed.GET("/group/:id", h.GetGroup)
		authed.PUT("/group/:id", h.UpdateGroup)
		authed.DELETE("/group/:id", h.DeleteGroup)

		authed.POST("/contact", h.AddContact)
		authed.GET("/contact", h.ListContacts)
		authed.GET("/contact/:uuid", h.GetContact)
		authed.GET("/contact/group/:id", h.ListContactsByGroup)
		authed.GET("/contact/campaign/:id", h.ListContactsByCampaign)
		authed.DELETE("/contact/:uuid", h.DeleteContact)

		authed.POST("/pixel", h.AddPixel)
		authed.GET("/pixel", h.ListPixels)

		authed.GET("/view", h.ListViews)
	}
}

// currentUser returns the caller resolved by the auth middleware.
func currentUser(c *gin.Context) (models.User, bool) {
	val, exists := c.Get(middleware.CurrentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := val.(models.User)
	return user, ok
}

// detail writes the uniform error payload.
func detail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"detail": msg})
}

// serverError logs the underlying failure and answers with a generic
// detail; query-layer messages never reach the caller.
func (h HandlerSet) serverError(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).
		Str("request_id", c.Writer.Header().Get("X-Request-Id")).
		Msg(msg)
	detail(c, http.StatusInternalServerError, "internal server error")
}
