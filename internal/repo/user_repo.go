// Package repo 提供数据访问层实现，负责与数据库交互。
package repo

import (
	"database/sql"
	"fmt"

	"github.com/bhaba/bhaba_market/internal/domain"
)

// UserRepository 定义用户数据访问接口
// 使用接口可以方便单元测试时进行模拟（mock）
type UserRepository interface {
	Create(user *domain.User) error
	GetByID(id int64) (*domain.User, error)
	GetByUsername(username string) (*domain.User, error)
	GetByEmail(email string) (*domain.User, error)
}

// userRepo 是 UserRepository 接口的数据库实现
type userRepo struct {
	db *sql.DB
}

// NewUserRepository 创建用户仓储实例
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepo{db: db}
}

// Create 创建新用户
// 注意：这里不处理密码哈希，密码哈希应该在服务层处理
func (r *userRepo) Create(user *domain.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role, is_active)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		user.Username,
		user.Email,
		user.PasswordHash,
		string(user.Role),
		user.IsActive,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	return nil
}

// GetByID 根据ID查询用户
func (r *userRepo) GetByID(id int64) (*domain.User, error) {
	return r.getOne(`WHERE id = ?`, id)
}

// GetByUsername 根据用户名查询用户
func (r *userRepo) GetByUsername(username string) (*domain.User, error) {
	return r.getOne(`WHERE username = ?`, username)
}

// GetByEmail 根据邮箱查询用户
func (r *userRepo) GetByEmail(email string) (*domain.User, error) {
	return r.getOne(`WHERE email = ?`, email)
}

func (r *userRepo) getOne(where string, arg any) (*domain.User, error) {
	user := &domain.User{}
	query := `
		SELECT id, username, email, password_hash, role, is_active, created_at, updated_at
		FROM users ` + where

	err := r.db.QueryRow(query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // 用户不存在
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}
