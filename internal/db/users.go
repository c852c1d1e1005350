package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

const userColumns = `id, email, hashed_password, name, created_at, updated_at`

// CreateUser inserts an admin account and returns its id.
func (s *pgStore) CreateUser(email, hashedPassword string, name *string) (int, error) {
	query := `
	INSERT INTO users (email, hashed_password, name, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	RETURNING id;
	`
	var newID int
	if err := s.db.QueryRow(query, email, hashedPassword, name).Scan(&newID); err != nil {
		log.Error().Err(err).Msg("[db] failed to create user")
		return 0, Classify(err)
	}
	return newID, nil
}

// GetUserByEmail returns nil, ErrNotFound when no account matches.
func (s *pgStore) GetUserByEmail(email string) (*model.User, error) {
	var u model.User
	err := s.db.Get(&u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Msg("[db] failed to get user by email")
		}
		return nil, Classify(err)
	}
	return &u, nil
}

func (s *pgStore) GetUserByID(id int) (*model.User, error) {
	var u model.User
	err := s.db.Get(&u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Msg("[db] failed to get user by id")
		}
		return nil, Classify(err)
	}
	return &u, nil
}

// UpdateUserProfile sets email and name and bumps updated_at.
func (s *pgStore) UpdateUserProfile(id int, email string, name *string) error {
	res, err := s.db.Exec(`
	UPDATE users
	SET email = $2,
	name = $3,
	updated_at = now()
	WHERE id = $1;
	`, id, email, name)
	if err != nil {
		log.Error().Err(err).Msg("[db] failed to update user profile")
		return Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return nil
}
