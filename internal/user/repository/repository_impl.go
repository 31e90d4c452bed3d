package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/convertfy/backoffice/internal/user/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO users (id, name, email, phone, password, asaas_id, imported_from_asaas, role, status, first_login, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.Phone,
		user.Password,
		user.AsaasID,
		user.ImportedFromAsaas,
		user.Role,
		user.Status,
		user.FirstLogin,
		user.CreatedAt,
		user.UpdatedAt,
	).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Exec(
		`UPDATE users
		 SET name = ?, email = ?, phone = ?, asaas_id = ?, imported_from_asaas = ?, role = ?, status = ?, first_login = ?, updated_at = ?
		 WHERE id = ?`,
		user.Name,
		user.Email,
		user.Phone,
		user.AsaasID,
		user.ImportedFromAsaas,
		user.Role,
		user.Status,
		user.FirstLogin,
		user.UpdatedAt,
		user.ID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email, phone, password, asaas_id, imported_from_asaas, role, status, first_login, created_at, updated_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email, phone, password, asaas_id, imported_from_asaas, role, status, first_login, created_at, updated_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *repo) FindByAsaasID(ctx context.Context, db *gorm.DB, asaasID string) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, email, phone, password, asaas_id, imported_from_asaas, role, status, first_login, created_at, updated_at
		 FROM users WHERE asaas_id = ?`,
		asaasID,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}
