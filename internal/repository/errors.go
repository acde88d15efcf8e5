package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation = "23505"

	idxUsersWhatsapp          = "idx_users_whatsapp"
	idxUsersVerificationCode  = "idx_users_verification_code_hash"
	idxUsersVerificationToken = "idx_users_verification_token_hash"
)

var (
	ErrDuplicateKey          = errors.New("duplicate key")
	ErrPhoneTaken            = fmt.Errorf("%w: whatsapp", ErrDuplicateKey)
	ErrVerificationCollision = fmt.Errorf("%w: verification credential", ErrDuplicateKey)
)

func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case idxUsersWhatsapp:
			return ErrPhoneTaken
		case idxUsersVerificationCode, idxUsersVerificationToken:
			return ErrVerificationCollision
		}
		return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}
