package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"goodsgo/internal/authz"
	"goodsgo/internal/logger"
	"goodsgo/internal/models"
	"goodsgo/internal/repositories"
)

const (
	msgEmailFormat        = "正しい形式のメールアドレスにしてください"
	msgPasswordFormat     = "パスワードは8文字以上の英数字で入力してください"
	msgNameLength         = "氏名は3文字以上60文字以下で入力してください"
	msgPasswordMismatch   = "パスワードが一致しません"
	msgAlreadyRegistered  = "すでにメールアドレスが登録されています"
	msgInvalidCredentials = "メールアドレスまたはパスワードが間違っています"
	msgAuthFailed         = "認証に失敗しました"
)

// two digits, one letter, a lowercase name, then the festival domain
var festivalEmailRe = regexp.MustCompile(`^\d{2}\.[a-z]\.[a-z]+\.nutfes@gmail\.com$`)

func registerAuthRules(v *validator.Validate) {
	if err := v.RegisterValidation("festival_email", func(fl validator.FieldLevel) bool {
		return festivalEmailRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

type AuthService interface {
	// Login returns the signed-in user when the result is OK.
	Login(ctx context.Context, req models.LoginRequest) (models.ActionResult, *models.User)
	// Register creates a member account and returns it when the result is OK.
	Register(ctx context.Context, req models.RegisterRequest) (models.ActionResult, *models.User)
	// ResolveProfile loads the profile behind a session. A missing, deleted
	// or role-less user yields nil without error.
	ResolveProfile(ctx context.Context, userID string) (*models.CurrentUser, error)
}

type authService struct {
	users      repositories.UserRepository
	log        *logger.Logger
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(users repositories.UserRepository, log *logger.Logger) AuthService {
	return &authService{users: users, log: log, bcryptCost: bcrypt.DefaultCost, now: time.Now}
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (models.ActionResult, *models.User) {
	req.Email = strings.TrimSpace(req.Email)
	if fieldErrors := authFieldErrors(validate.Struct(req)); fieldErrors != nil {
		return models.Invalid(fieldErrors), nil
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.log.InfoContext(ctx, "[auth][login] unknown email")
			return models.Failed(msgInvalidCredentials), nil
		}
		s.log.ErrorContext(ctx, "[auth][login] lookup failed", "err", err)
		return models.Failed(msgAuthFailed), nil
	}
	if user.PasswordHash == "" {
		return models.Failed(msgInvalidCredentials), nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.InfoContext(ctx, "[auth][login] password mismatch", "user_id", user.ID)
		return models.Failed(msgInvalidCredentials), nil
	}
	return models.Succeeded(), user
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (models.ActionResult, *models.User) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if fieldErrors := authFieldErrors(validate.Struct(req)); fieldErrors != nil {
		return models.Invalid(fieldErrors), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		s.log.ErrorContext(ctx, "[auth][register] hash failed", "err", err)
		return models.Failed(msgAuthFailed), nil
	}
	now := s.now()
	email := req.Email
	user := &models.User{
		Name:         req.Name,
		Email:        &email,
		Role:         authz.RoleMember,
		PasswordHash: string(hash),
		Created:      now,
		Modified:     now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Failed(msgAlreadyRegistered), nil
		}
		s.log.ErrorContext(ctx, "[auth][register] create failed", "err", err)
		return models.Failed(msgAuthFailed), nil
	}
	s.log.InfoContext(ctx, "[auth][register] user created", "user_id", user.ID)
	return models.Succeeded(), user
}

func (s *authService) ResolveProfile(ctx context.Context, userID string) (*models.CurrentUser, error) {
	if userID == "" {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if user.Deleted != nil || !user.Role.IsValid() {
		return nil, nil
	}
	return &models.CurrentUser{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	}, nil
}

func authFieldErrors(err error) map[string][]string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string][]string{"": {err.Error()}}
	}
	fieldErrors := map[string][]string{}
	for _, fe := range verrs {
		field := fe.Field()
		var msg string
		switch field {
		case "email":
			msg = msgEmailFormat
		case "password":
			msg = msgPasswordFormat
		case "name":
			msg = msgNameLength
		case "confirmPassword":
			msg = msgPasswordMismatch
		default:
			msg = msgAuthFailed
		}
		if len(fieldErrors[field]) == 0 {
			fieldErrors[field] = []string{msg}
		}
	}
	return fieldErrors
}

// IsInvalidCredentials reports whether a login failed on email or password.
func IsInvalidCredentials(r models.ActionResult) bool {
	return !r.OK && r.Message == msgInvalidCredentials
}

func IsAlreadyRegistered(r models.ActionResult) bool {
	return !r.OK && r.Message == msgAlreadyRegistered
}
