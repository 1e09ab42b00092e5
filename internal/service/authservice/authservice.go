package authservice

import (
	"context"
	"errors"
	"time"

	"github.com/GlebRadaev/autosave/internal/domain"
	"github.com/GlebRadaev/autosave/pkg/auth"
	"go.uber.org/zap"
)

type Repo interface {
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type WalletService interface {
	GetWallet(ctx context.Context, userID int) (*domain.SavingsWallet, error)
}

type CodeVerifier interface {
	IsVerified(ctx context.Context, identifier string, purpose domain.OneTimeCodePurpose) (bool, error)
}

var (
	ErrUserExists         = errors.New("username or phone already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPhoneNotVerified   = errors.New("phone number is not verified")
)

type Service struct {
	userRepo      Repo
	walletService WalletService
	codeVerifier  CodeVerifier
	hashService   auth.HashServiceInterface
	jwtService    auth.JWTServiceInterface
}

func New(repo Repo, walletService WalletService, codeVerifier CodeVerifier, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface) *Service {
	return &Service{
		userRepo:      repo,
		walletService: walletService,
		codeVerifier:  codeVerifier,
		hashService:   hashService,
		jwtService:    jwtService,
	}
}

// Register creates a user account. The phone must have completed one-time-code
// verification first; the wallet is created eagerly so the first deposit does
// not race lazy creation.
func (s *Service) Register(ctx context.Context, login, phone, password string) (*domain.User, error) {
	verified, err := s.codeVerifier.IsVerified(ctx, phone, domain.PurposeRegistration)
	if err != nil {
		zap.L().Error("can't check phone verification: ", zap.Error(err))
		return nil, err
	}
	if !verified {
		return nil, ErrPhoneNotVerified
	}

	existingUser, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if existingUser == nil {
		existingUser, err = s.userRepo.FindByPhone(ctx, phone)
		if err != nil {
			zap.L().Error("can't find user: ", zap.Error(err))
			return nil, err
		}
	}
	if existingUser != nil {
		zap.L().Info("user already exists", zap.String("login", login))
		return nil, ErrUserExists
	}

	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}
	user := &domain.User{
		Login:        login,
		Phone:        phone,
		PasswordHash: hashedPassword,
	}
	newUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		zap.L().Error("can't create user: ", zap.Error(err))
		return nil, err
	}

	if _, err := s.walletService.GetWallet(ctx, newUser.ID); err != nil {
		zap.L().Error("can't create wallet: ", zap.Error(err))
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.String("login", login))
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil || user == nil {
		zap.L().Error("invalid credentials", zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if ok := s.hashService.ComparePassword(user.PasswordHash, password); !ok {
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.String("login", login))
	return user, nil
}

// FindByLogin exposes the lookup the login handler needs to feed the lockout
// guard before credentials are checked.
func (s *Service) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	return s.userRepo.FindByLogin(ctx, login)
}

func (s *Service) GenerateToken(userID int) (string, error) {
	expirationTime := time.Now().Add(15 * time.Minute)

	token, err := s.jwtService.GenerateJWT(userID, expirationTime)
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}
