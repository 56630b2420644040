// Package repo 实现数据访问层，负责与数据库的交互。
package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bhaba/bhaba_market/internal/domain"
)

// ProductRepository 定义商品数据访问接口
type ProductRepository interface {
	// 查询操作
	// ListAll 返回完整商品快照，顺序确定（上架时间倒序，ID升序兜底）
	ListAll(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// 基本CRUD操作
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error

	// 统计操作
	Count(ctx context.Context) (int64, error)
}

// productRepo 实现ProductRepository接口
type productRepo struct {
	db *sql.DB
}

// NewProductRepository 创建商品仓储实例
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepo{db: db}
}

// productColumns 商品查询的公共列选择
// 分类名、店铺名与联系电话从关联表取，缺失时回退为空串，保证快照字段完整
const productColumns = `
	p.id, p.product_name, COALESCE(p.description, ''), p.price, COALESCE(p.discount, 0),
	p.category_id, COALESCE(c.name, ''), p.vendor_id, COALESCE(v.store_name, ''),
	p.is_available, COALESCE(p.min_order_qty, 1), COALESCE(p.images, '[]'),
	COALESCE(v.mobile_number, ''), p.added_at, p.created_at, p.updated_at
`

const productJoins = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN vendors v ON v.id = p.vendor_id
`

// scanProduct 从行扫描商品，images列为JSON数组文本
func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	product := &domain.Product{}
	var imagesJSON []byte

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Discount,
		&product.CategoryID,
		&product.CategoryName,
		&product.VendorID,
		&product.VendorName,
		&product.IsAvailable,
		&product.MinOrderQty,
		&imagesJSON,
		&product.MobileNumber,
		&product.AddedAt,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(imagesJSON, &product.Images); err != nil {
		return nil, fmt.Errorf("failed to decode product images: %w", err)
	}

	return product, nil
}

// ListAll 返回全部商品快照
func (r *productRepo) ListAll(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT` + productColumns + productJoins + `ORDER BY p.added_at DESC, p.id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// GetByID 根据ID获取商品
func (r *productRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT` + productColumns + productJoins + `WHERE p.id = ?`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product by id: %w", err)
	}

	return product, nil
}

// Create 创建商品
func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	imagesJSON, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to encode product images: %w", err)
	}

	query := `
		INSERT INTO products (id, product_name, description, price, discount, category_id, vendor_id, is_available, min_order_qty, images, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Discount,
		product.CategoryID,
		product.VendorID,
		product.IsAvailable,
		product.MinOrderQty,
		imagesJSON,
		product.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update 更新商品
func (r *productRepo) Update(ctx context.Context, product *domain.Product) error {
	imagesJSON, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to encode product images: %w", err)
	}

	query := `
		UPDATE products
		SET product_name = ?, description = ?, price = ?, discount = ?, category_id = ?,
		    vendor_id = ?, is_available = ?, min_order_qty = ?, images = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Discount,
		product.CategoryID,
		product.VendorID,
		product.IsAvailable,
		product.MinOrderQty,
		imagesJSON,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// Delete 删除商品
func (r *productRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// Count 商品总数
func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
