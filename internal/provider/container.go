package provider

import (
	"github.com/mixcampeao/api/internal/cache"
	"github.com/mixcampeao/api/internal/config"
	"github.com/mixcampeao/api/internal/logger"
	"github.com/mixcampeao/api/internal/models"
	"github.com/mixcampeao/api/internal/payment/pix"
	"github.com/mixcampeao/api/internal/queue"
	"github.com/mixcampeao/api/internal/repository"
	"github.com/mixcampeao/api/internal/service"
)

// Container holds every shared dependency, built once at startup.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	PixClient   *pix.Client

	// Repositories
	UserRepo           repository.UserRepository
	SegmentRepo        repository.SegmentRepository
	SectionRepo        repository.SectionRepository
	ProductRepo        repository.ProductRepository
	SegmentProductRepo repository.SegmentProductRepository
	PurchaseRepo       repository.PurchaseRepository
	ImportJobRepo      repository.ImportJobRepository

	// Services
	AuthService    *service.AuthService
	SegmentService *service.SegmentService
	CatalogService *service.CatalogService
	PaymentService *service.PaymentService
	ImportService  *service.ImportService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		PixClient: pix.NewClient(pix.Config{
			WebhookSecret: cfg.Pix.WebhookSecret,
			ExpireMinutes: cfg.Pix.ExpireMinutes,
		}),
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.SegmentRepo = repository.NewSegmentRepository(db)
	c.SectionRepo = repository.NewSectionRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.SegmentProductRepo = repository.NewSegmentProductRepository(db)
	c.PurchaseRepo = repository.NewPurchaseRepository(db)
	c.ImportJobRepo = repository.NewImportJobRepository(db)
}

func (c *Container) initServices() {
	var scheduler service.ExpiryScheduler
	if c.QueueClient != nil {
		scheduler = c.QueueClient
	}

	c.AuthService = service.NewAuthService(c.Config, c.UserRepo)
	c.SegmentService = service.NewSegmentService(c.SegmentRepo, c.SectionRepo, c.SegmentProductRepo, c.PurchaseRepo)
	c.CatalogService = service.NewCatalogService(c.SegmentRepo, c.SectionRepo, c.ProductRepo, c.SegmentProductRepo)
	c.PaymentService = service.NewPaymentService(c.Config, c.PixClient, c.PurchaseRepo, c.SegmentRepo, scheduler)
	c.ImportService = service.NewImportService(c.Config, c.ImportJobRepo, c.SegmentRepo, c.SectionRepo, c.ProductRepo, c.SegmentProductRepo)
}
