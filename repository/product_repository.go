package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Lawrence9908/ecommerce-backend-api/logger"
	"github.com/Lawrence9908/ecommerce-backend-api/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IProductRepository defines the contract for product persistence.
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetAllProducts(ctx context.Context) ([]*model.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]*model.Product, error)
	GetFeaturedProducts(ctx context.Context) ([]*model.Product, error)
	GetRandomProducts(ctx context.Context, size int) ([]model.RecommendedProduct, error)
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	UpdateFeatured(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id string) error
}

// ProductRepository implements IProductRepository on Postgres.
type ProductRepository struct {
	DB *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `id, name, description, price, image, category, is_featured, created_at, updated_at`

func prepareProduct(product *model.Product) {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
}

// CreateProduct adds a new product to the database.
func (r *ProductRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	prepareProduct(product)
	log := logger.Log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"category":   product.Category,
	})
	log.Info("Executing query to create a new product")

	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.Image,
		product.Category, product.IsFeatured, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create product query")
		return err
	}
	return nil
}

// GetAllProducts retrieves every product.
func (r *ProductRepository) GetAllProducts(ctx context.Context) ([]*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at`
	return r.queryProducts(ctx, logger.Log.WithField("filter", "all"), query)
}

// GetProductsByCategory retrieves the products of a single category.
func (r *ProductRepository) GetProductsByCategory(ctx context.Context, category string) ([]*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 ORDER BY created_at`
	return r.queryProducts(ctx, logger.Log.WithField("category", category), query, category)
}

// GetFeaturedProducts retrieves the products flagged as featured.
func (r *ProductRepository) GetFeaturedProducts(ctx context.Context) ([]*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_featured = TRUE ORDER BY created_at`
	return r.queryProducts(ctx, logger.Log.WithField("filter", "featured"), query)
}

// GetRandomProducts samples up to size products.
func (r *ProductRepository) GetRandomProducts(ctx context.Context, size int) ([]model.RecommendedProduct, error) {
	log := logger.Log.WithField("size", size)
	log.Info("Executing query to sample products")

	query := `SELECT id, name, description, image, price FROM products ORDER BY random() LIMIT $1`
	rows, err := r.DB.QueryContext(ctx, query, size)
	if err != nil {
		log.WithError(err).Error("Failed to execute sample products query")
		return nil, err
	}
	defer rows.Close()

	products := make([]model.RecommendedProduct, 0, size)
	for rows.Next() {
		var p model.RecommendedProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Image, &p.Price); err != nil {
			log.WithError(err).Error("Failed to scan product row")
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	log := logger.Log.WithField("product_id", id)
	log.Info("Executing query to get product by ID")

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p model.Product
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Info("Product not found")
			return nil, ErrNotFound
		}
		log.WithError(err).Error("Failed to execute get product query")
		return nil, err
	}
	return &p, nil
}

// UpdateFeatured persists product.IsFeatured.
func (r *ProductRepository) UpdateFeatured(ctx context.Context, product *model.Product) error {
	log := logger.Log.WithFields(logrus.Fields{
		"product_id":  product.ID,
		"is_featured": product.IsFeatured,
	})
	log.Info("Executing query to update featured flag")

	product.UpdatedAt = time.Now().UTC()
	query := `UPDATE products SET is_featured = $1, updated_at = $2 WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, product.IsFeatured, product.UpdatedAt, product.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update featured query")
		return err
	}
	return expectAffected(res)
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	log := logger.Log.WithField("product_id", id)
	log.Info("Executing query to delete product")

	res, err := r.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete product query")
		return err
	}
	return expectAffected(res)
}

func (r *ProductRepository) queryProducts(ctx context.Context, log *logrus.Entry, query string, args ...interface{}) ([]*model.Product, error) {
	log.Info("Executing query to list products")

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.WithError(err).Error("Failed to execute list products query")
		return nil, err
	}
	defer rows.Close()

	products := make([]*model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt); err != nil {
			log.WithError(err).Error("Failed to scan product row")
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
