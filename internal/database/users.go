package database

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is an admin dashboard account.
type User struct {
	ID             uuid.UUID
	Email          string
	FullName       string
	HashedPassword string
	Role           string
	CreatedAt      time.Time
}

const getUserByEmail = `SELECT id, email, full_name, hashed_password, role, created_at
FROM users WHERE lower(email) = lower($1)`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByEmail, email).Scan(
		&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.Role, &u.CreatedAt,
	)
	return u, err
}

const getUserByID = `SELECT id, email, full_name, hashed_password, role, created_at
FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByID, id).Scan(
		&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.Role, &u.CreatedAt,
	)
	return u, err
}

type CreateUserParams struct {
	Email          string
	FullName       string
	HashedPassword string
	Role           string
}

const createUser = `INSERT INTO users (email, full_name, hashed_password, role)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name,
	hashed_password = EXCLUDED.hashed_password, role = EXCLUDED.role
RETURNING id, email, full_name, hashed_password, role, created_at`

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, createUser, arg.Email, arg.FullName, arg.HashedPassword, arg.Role).Scan(
		&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.Role, &u.CreatedAt,
	)
	return u, err
}
