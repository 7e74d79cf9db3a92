package services

import (
	"errors"
	"fmt"
	"time"

	"breakfast-backend/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
)

// StaffService handles staff accounts and session tokens. Token issuance is
// deliberately thin; the tracking core only needs a staff id for the
// consumed_by bookkeeping.
type StaffService struct {
	db        *gorm.DB
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewStaffService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration) *StaffService {
	if tokenTTL == 0 {
		tokenTTL = 24 * time.Hour
	}
	return &StaffService{db: db, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FirstName  string `json:"first_name" binding:"required"`
	LastName   string `json:"last_name" binding:"required"`
	PropertyID string `json:"property_id" binding:"required"`
}

func (s *StaffService) Register(req RegisterRequest) (*models.Staff, error) {
	var count int64
	if err := s.db.Model(&models.Staff{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := models.Staff{
		Email:      req.Email,
		Password:   string(hash),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       "staff",
		PropertyID: req.PropertyID,
		IsActive:   true,
	}
	if err := s.db.Create(&staff).Error; err != nil {
		return nil, fmt.Errorf("failed to create staff: %w", err)
	}
	return &staff, nil
}

// Login verifies credentials and returns a signed bearer token.
func (s *StaffService) Login(email, password string) (string, *models.Staff, error) {
	var staff models.Staff
	err := s.db.Where("email = ? AND is_active = ?", email, true).First(&staff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to load staff: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"staff_id":    staff.ID,
		"role":        staff.Role,
		"property_id": staff.PropertyID,
		"iat":         now.Unix(),
		"exp":         now.Add(s.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, &staff, nil
}

func (s *StaffService) GetByID(id uint) (*models.Staff, error) {
	var staff models.Staff
	if err := s.db.First(&staff, id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}
