package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Lawrence9908/ecommerce-backend-api/logger"
	"github.com/Lawrence9908/ecommerce-backend-api/model"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoProductRepository implements IProductRepository on a MongoDB "products" collection.
type MongoProductRepository struct {
	coll *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection("products")}
}

// EnsureIndexes creates the indexes backing the category and featured lookups.
func (r *MongoProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "isFeatured", Value: 1}}},
	})
	return err
}

func (r *MongoProductRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	prepareProduct(product)
	log := logger.Log.WithFields(logrus.Fields{
		"product_id": product.ID,
		"category":   product.Category,
	})
	log.Info("Inserting product document")

	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		log.WithError(err).Error("Failed to insert product document")
		return err
	}
	return nil
}

func (r *MongoProductRepository) GetAllProducts(ctx context.Context) ([]*model.Product, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoProductRepository) GetProductsByCategory(ctx context.Context, category string) ([]*model.Product, error) {
	return r.find(ctx, bson.M{"category": category})
}

func (r *MongoProductRepository) GetFeaturedProducts(ctx context.Context) ([]*model.Product, error) {
	return r.find(ctx, bson.M{"isFeatured": true})
}

// GetRandomProducts uses $sample followed by a $project of the recommendation fields.
func (r *MongoProductRepository) GetRandomProducts(ctx context.Context, size int) ([]model.RecommendedProduct, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sample", Value: bson.D{{Key: "size", Value: size}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "name", Value: 1},
			{Key: "description", Value: 1},
			{Key: "image", Value: 1},
			{Key: "price", Value: 1},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to run sample aggregation")
		return nil, err
	}
	defer cur.Close(ctx)

	products := make([]model.RecommendedProduct, 0, size)
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MongoProductRepository) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		logger.Log.WithError(err).WithField("product_id", id).Error("Failed to find product document")
		return nil, err
	}
	return &p, nil
}

func (r *MongoProductRepository) UpdateFeatured(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": product.ID},
		bson.M{"$set": bson.M{"isFeatured": product.IsFeatured, "updatedAt": product.UpdatedAt}},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("product_id", product.ID).Error("Failed to update product document")
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProductRepository) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("product_id", id).Error("Failed to delete product document")
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProductRepository) find(ctx context.Context, filter bson.M) ([]*model.Product, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to query product documents")
		return nil, err
	}
	defer cur.Close(ctx)

	products := make([]*model.Product, 0)
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
