package container

import (
	"propt-api-io/api/internal"
	"propt-api-io/api/internal/auth"
	"propt-api-io/api/internal/config"
	"propt-api-io/api/pkg/controllers"
	"propt-api-io/api/pkg/repository"
	"propt-api-io/api/pkg/services"
	"propt-api-io/api/pkg/util"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type ServiceContainer struct {
	Config *config.Config
	Mongo  *mongo.Client
	Redis  *redis.Client
	Tokens *auth.TokenManager

	mailWorkers *services.EmailWorkerPool

	UserService         services.UserService
	PropertyService     services.PropertyService
	AgentService        services.AgentService
	VerificationService services.VerificationService
	PaymentService      services.PaymentService
	MediaService        services.MediaService
	NotificationService services.NotificationService

	UserController         *controllers.UserController
	PropertyController     *controllers.PropertyController
	AgentController        *controllers.AgentController
	VerificationController *controllers.VerificationController
	PaymentController      *controllers.PaymentController
}

// NewServiceContainer builds repositories, services and controllers on top of
// an open mongo client and redis connection.
func NewServiceContainer(cfg *config.Config, client *mongo.Client, rdb *redis.Client) (*ServiceContainer, error) {
	db := client.Database(cfg.MongoDatabase)

	users := repository.NewUserRepository(db)
	properties := repository.NewPropertyRepository(db)
	agents := repository.NewAgentRepository(db)
	requests := repository.NewVerificationRepository(db)
	payments := repository.NewPaymentRepository(db)

	tx := repository.NewMongoTransactor(client)
	locker := util.NewRedisLocker(rdb, cfg.PaymentLockTTL)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn, rdb)

	var mailQueue services.MailQueue
	var mailWorkers *services.EmailWorkerPool
	if mailer := newMailer(cfg); mailer != nil {
		email := services.NewEmailService(mailer, cfg.MailFromEmail, cfg.MailFromName)
		mailWorkers = services.NewEmailWorkerPool(cfg.MailWorkers, users, email)
		mailWorkers.Start()
		mailQueue = mailWorkers
	} else {
		util.LogWarning("no mail transport configured, decision emails are disabled")
	}
	notificationService := services.NewNotificationService(internal.NewRedisPublisher(rdb), mailQueue)

	// must stay an untyped nil when cloudinary is off
	var uploader services.Uploader
	if cfg.CloudinaryEnabled() {
		cld, err := util.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			return nil, err
		}
		uploader = cld
	}
	mediaService := services.NewMediaService(uploader)

	userService := services.NewUserService(users, tokens)
	propertyService := services.NewPropertyService(properties)
	agentService := services.NewAgentService(agents)
	paymentService := services.NewPaymentService(payments, requests, locker, notificationService)
	verificationService := services.NewVerificationService(requests, payments, properties, tx, locker, notificationService)

	controllers.SetRequestTimeout(cfg.RequestTimeout)

	return &ServiceContainer{
		Config: cfg,
		Mongo:  client,
		Redis:  rdb,
		Tokens: tokens,

		mailWorkers: mailWorkers,

		UserService:         userService,
		PropertyService:     propertyService,
		AgentService:        agentService,
		VerificationService: verificationService,
		PaymentService:      paymentService,
		MediaService:        mediaService,
		NotificationService: notificationService,

		UserController:         controllers.InitUserController(userService),
		PropertyController:     controllers.InitPropertyController(propertyService),
		AgentController:        controllers.InitAgentController(agentService),
		VerificationController: controllers.InitVerificationController(verificationService, mediaService),
		PaymentController:      controllers.InitPaymentController(paymentService),
	}, nil
}

// newMailer prefers the HTTP mail API and falls back to SMTP.
func newMailer(cfg *config.Config) services.MailSender {
	switch {
	case cfg.MailAPIURL != "":
		return util.NewHTTPMailer(cfg.MailAPIURL, cfg.MailAPIKey)
	case cfg.SMTPHost != "":
		return util.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	default:
		return nil
	}
}

// Close drains background workers. It does not close the mongo or redis clients.
func (sc *ServiceContainer) Close() {
	if sc.mailWorkers != nil {
		sc.mailWorkers.Stop()
	}
}
