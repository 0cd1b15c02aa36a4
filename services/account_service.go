package services

import (
	"context"
	"errors"

	"callbot-management/models"
	"callbot-management/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDuplicateUserID    = errors.New("user id already exists")
	ErrInvalidCredentials = errors.New("invalid user id or password")
	ErrNotApproved        = errors.New("account pending approval")
	ErrAccountNotFound    = errors.New("account not found")
	ErrWrongPassword      = errors.New("current password does not match")
)

const blacklistPrefix = "token:blacklist:"

type AccountService struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewAccountService(db *gorm.DB, rdb *redis.Client) *AccountService {
	return &AccountService{DB: db, RDB: rdb}
}

// Register creates a pending account. Login stays blocked until a root
// admin approves it.
func (s *AccountService) Register(userID, password, email, phoneNumber string) error {
	var count int64
	if err := s.DB.Model(&models.Account{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateUserID
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account := models.Account{
		UserID:      userID,
		Password:    string(hash),
		Email:       email,
		PhoneNumber: phoneNumber,
	}
	if err := s.DB.Create(&account).Error; err != nil {
		return err
	}

	logrus.WithField("userId", userID).Info("account registered, awaiting approval")
	return nil
}

// Authenticate verifies credentials and approval state.
func (s *AccountService) Authenticate(userID, password string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.IsApproved {
		return nil, ErrNotApproved
	}
	return &account, nil
}

func (s *AccountService) GetByUserID(userID string) (*models.Account, error) {
	var account models.Account
	if err := s.DB.Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// UpdateContact changes the mutable contact fields of an account.
func (s *AccountService) UpdateContact(userID, email, phoneNumber string) (*models.Account, error) {
	account, err := s.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	err = s.DB.Model(account).Updates(map[string]any{
		"email":        email,
		"phone_number": phoneNumber,
	}).Error
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) ChangePassword(userID, currentPassword, newPassword string) error {
	account, err := s.GetByUserID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(currentPassword)) != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.DB.Model(account).Update("password", string(hash)).Error
}

// PendingAccounts lists unapproved accounts oldest-first for the approval
// screen.
func (s *AccountService) PendingAccounts() ([]models.PendingAccount, error) {
	var accounts []models.Account
	err := s.DB.Where("is_approved = ?", false).Order("created_at ASC").Find(&accounts).Error
	if err != nil {
		return nil, err
	}

	pending := make([]models.PendingAccount, 0, len(accounts))
	for _, a := range accounts {
		pending = append(pending, models.PendingAccount{
			ID:           a.ID,
			UserID:       a.UserID,
			Email:        a.Email,
			PhoneNumber:  a.PhoneNumber,
			RegisteredAt: a.CreatedAt,
		})
	}
	return pending, nil
}

// ApproveOrReject resolves a pending registration. Rejection deletes the
// account so the user id becomes free again.
func (s *AccountService) ApproveOrReject(userID string, approve bool) error {
	account, err := s.GetByUserID(userID)
	if err != nil {
		return err
	}
	if approve {
		return s.DB.Model(account).Update("is_approved", true).Error
	}
	return s.DB.Delete(account).Error
}

// Logout blacklists the presented access token for its remaining lifetime.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ParseToken(token)
	if err != nil {
		return err
	}
	ttl := utils.TokenRemainingTTL(claims)
	if ttl <= 0 {
		return nil // already expired
	}
	return s.RDB.Set(ctx, blacklistPrefix+token, "1", ttl).Err()
}

// IsBlacklisted reports whether a token was revoked by logout. Redis
// outages fail open: an unreachable blacklist must not lock every admin
// out.
func (s *AccountService) IsBlacklisted(ctx context.Context, token string) bool {
	n, err := s.RDB.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		logrus.WithError(err).Warn("token blacklist lookup failed")
		return false
	}
	return n > 0
}
