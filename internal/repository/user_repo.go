package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"weddingplanner/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByWhatsapp(ctx context.Context, phone string) (*entity.User, error)
	FindByVerificationCode(ctx context.Context, codeHash string, email string) (*entity.User, error)
	FindByVerificationToken(ctx context.Context, tokenHash string) (*entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User) error
	UpdatePlan(ctx context.Context, user *entity.User) error
	Activate(ctx context.Context, user *entity.User, verifiedAt time.Time) (bool, error)
	List(ctx context.Context, limit, offset int) ([]entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error)
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepository) FindByWhatsapp(ctx context.Context, phone string) (*entity.User, error) {
	return r.first(ctx, "whatsapp = ?", phone)
}

func (r *userRepository) FindByVerificationCode(ctx context.Context, codeHash string, email string) (*entity.User, error) {
	if strings.TrimSpace(email) != "" {
		return r.first(ctx, "verification_code_hash = ? AND email = ?", codeHash, email)
	}
	return r.first(ctx, "verification_code_hash = ?", codeHash)
}

func (r *userRepository) FindByVerificationToken(ctx context.Context, tokenHash string) (*entity.User, error) {
	return r.first(ctx, "verification_token_hash = ?", tokenHash)
}

// Signup and payment capture touch disjoint columns so neither can overwrite
// what the other wrote from a stale read.
var (
	profileColumns = []string{
		"name", "partner_name", "password_hash", "whatsapp", "wedding_date", "profile_image",
		"verification_code_hash", "verification_token_hash", "verification_expires_at", "email_verified_at",
		"updated_at",
	}
	planColumns = []string{"status", "plan_id", "subscription_start", "subscription_end", "updated_at"}
)

func (r *userRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	return r.updateColumns(ctx, user, profileColumns)
}

func (r *userRepository) UpdatePlan(ctx context.Context, user *entity.User) error {
	return r.updateColumns(ctx, user, planColumns)
}

func (r *userRepository) updateColumns(ctx context.Context, user *entity.User, columns []string) error {
	user.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).
		Model(&entity.User{ID: user.ID}).
		Select(columns).
		Updates(user).Error
	return translateError(err)
}

// Activate flips a PAID user to ACTIVE only while the verification pair it was
// loaded with is still outstanding, so concurrent redemptions activate once.
func (r *userRepository) Activate(ctx context.Context, user *entity.User, verifiedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("id = ? AND status = ?", user.ID, entity.UserStatusPaid).
		Where("verification_code_hash IS NOT DISTINCT FROM ? AND verification_token_hash IS NOT DISTINCT FROM ?",
			user.VerificationCodeHash, user.VerificationTokenHash).
		Updates(map[string]any{
			"status":                  entity.UserStatusActive,
			"email_verified_at":       verifiedAt,
			"verification_code_hash":  nil,
			"verification_token_hash": nil,
			"verification_expires_at": nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]entity.User, error) {
	var users []entity.User
	query := r.db.WithContext(ctx).Preload("Plan").Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) first(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).
		Preload("Plan").
		Where(query, args...).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
