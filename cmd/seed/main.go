package main

import (
	"context"
	"flag"
	"time"

	"propt-api-io/api/internal/config"
	"propt-api-io/api/internal/container"
	"propt-api-io/api/pkg/errs"
	"propt-api-io/api/pkg/models"
	"propt-api-io/api/pkg/util"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		email     = flag.String("email", "admin@propt.io", "Admin email")
		password  = flag.String("password", "", "Admin password (required)")
		firstName = flag.String("first-name", "Site", "Admin first name")
		lastName  = flag.String("last-name", "Admin", "Admin last name")
		samples   = flag.Bool("samples", false, "Also list a few sample properties owned by the admin")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		util.GetLogger().Fatalf("config: %v", err)
	}
	logger := util.ConfigureLogger(cfg.LogLevel)
	if *password == "" {
		logger.Fatal("-password is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := util.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatalf("mongo: %v", err)
	}
	defer client.Disconnect(context.Background())

	rdb, err := util.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	sc, err := container.NewServiceContainer(cfg, client, rdb)
	if err != nil {
		logger.Fatalf("container: %v", err)
	}
	defer sc.Close()

	admin, err := seedAdmin(ctx, sc, models.RegisterUserRequest{
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
	})
	if err != nil {
		logger.Fatalf("seed admin: %v", err)
	}
	logger.WithFields(logrus.Fields{"userId": admin.ID.Hex(), "email": admin.Email}).Info("admin ready")

	if *samples {
		if err := seedProperties(ctx, sc, admin); err != nil {
			logger.Fatalf("seed properties: %v", err)
		}
	}
}

// seedAdmin registers the account, or logs in to an existing one, and grants it the admin role.
func seedAdmin(ctx context.Context, sc *container.ServiceContainer, req models.RegisterUserRequest) (*models.User, error) {
	user, err := sc.UserService.Register(ctx, req)
	if errors.Is(err, errs.ErrConflict) {
		res, loginErr := sc.UserService.Login(ctx, models.LoginRequest{Email: req.Email, Password: req.Password})
		if loginErr != nil {
			return nil, errors.Wrap(loginErr, "account exists with a different password")
		}
		user = &res.User
	} else if err != nil {
		return nil, err
	}

	if user.Role == models.UserRoleAdmin {
		return user, nil
	}
	return sc.UserService.UpdateUserRole(ctx, user.ID, models.UserRoleAdmin)
}

func seedProperties(ctx context.Context, sc *container.ServiceContainer, owner *models.User) error {
	listings := []models.CreatePropertyRequest{
		{
			Title:       "Sunny two bedroom apartment",
			Description: "Top floor apartment close to the park.",
			Location:    "Lagos, Lekki Phase 1",
			Type:        models.PropertyTypeApartment,
			Price:       decimal.NewFromInt(250000),
			Area:        decimal.NewFromInt(95),
			Bedrooms:    2,
			Bathrooms:   2,
			Features:    []string{"balcony", "parking"},
		},
		{
			Title:       "Family house with garden",
			Description: "Detached house on a quiet street.",
			Location:    "Abuja, Maitama",
			Type:        models.PropertyTypeHouse,
			Price:       decimal.NewFromInt(780000),
			Area:        decimal.NewFromInt(310),
			Bedrooms:    4,
			Bathrooms:   3,
			Features:    []string{"garden", "garage"},
		},
	}

	for _, req := range listings {
		p, err := sc.PropertyService.CreateProperty(ctx, owner.ID, req)
		if err != nil {
			return errors.Wrapf(err, "create %q", req.Title)
		}
		util.LogInfo("listed sample property", logrus.Fields{"propertyId": p.ID.Hex(), "slug": p.Slug})
	}
	return nil
}
