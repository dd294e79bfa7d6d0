package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/media"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID string, email string, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envはあれば読む（本番は環境変数だけ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.GoEnv == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Image{},
	); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	imageRepo := infraRepo.NewImageGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	hasher := usecase.NewBcryptPasswordHasher(12)
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}
	refreshTTL := 14 * 24 * time.Hour

	//Usecase生成
	imageUC := usecase.NewImageUsecase(imageRepo)
	categoryUC := usecase.NewCategoryUsecase(categoryRepo, productRepo)
	productUC := usecase.NewProductUsecase(productRepo, categoryRepo, imageUC, txManager)
	authUC := usecase.NewAuthUsecase(userRepo, hasher, issuer, clock, refreshTTL)

	signer := media.NewSigner(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinarySecret)

	//Handler生成
	handlers := server.Handlers{
		Auth:     handler.NewAuthHandler(authUC),
		Product:  handler.NewProductHandler(productUC),
		Category: handler.NewCategoryHandler(categoryUC),
		Image:    handler.NewImageHandler(imageUC, signer),
	}

	e := server.New(logger, validator.New())
	server.RegisterRoutes(e, cfg, handlers)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	logger.Info("starting api", zap.String("addr", addr), zap.String("env", cfg.GoEnv))
	if err := server.Start(e, addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
