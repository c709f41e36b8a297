package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/edusphere/elearning-api/internal/core/domain"
)

const collectionCourses = "courses"

type CourseRepository struct {
	col *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{col: db.Collection(collectionCourses)}
}

type mongoCourse struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Description string               `bson:"description,omitempty"`
	Thumbnail   string               `bson:"thumbnail,omitempty"`
	Price       float64              `bson:"price"`
	Currency    string               `bson:"currency,omitempty"`
	Category    string               `bson:"category,omitempty"`
	Instructor  string               `bson:"instructor,omitempty"`
	Modules     []primitive.ObjectID `bson:"modules,omitempty"`
	Active      bool                 `bson:"active"`
	CreatedAt   time.Time            `bson:"createdAt"`
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCourseNotFound
	}

	var mc mongoCourse
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, fmt.Errorf("find course: %w", err)
	}

	currency := mc.Currency
	if currency == "" {
		currency = "usd"
	}

	return &domain.Course{
		ID:          mc.ID.Hex(),
		Title:       mc.Title,
		Description: mc.Description,
		Thumbnail:   mc.Thumbnail,
		Price:       mc.Price,
		Currency:    currency,
		Category:    mc.Category,
		Instructor:  mc.Instructor,
		ModuleCount: len(mc.Modules),
		Active:      mc.Active,
		CreatedAt:   mc.CreatedAt,
	}, nil
}
