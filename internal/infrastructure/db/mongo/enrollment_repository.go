package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/edusphere/elearning-api/internal/core/domain"
)

const collectionEnrollments = "enrollments"

type EnrollmentRepository struct {
	col *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{col: db.Collection(collectionEnrollments)}
}

type mongoEnrollment struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          string             `bson:"user_id"`
	CourseID        string             `bson:"course_id"`
	PaymentIntentID string             `bson:"paymentIntentId,omitempty"`
	EnrolledAt      time.Time          `bson:"enrollment_date"`
	Status          string             `bson:"status"`
	Method          string             `bson:"method"`
	CompletedAt     *time.Time         `bson:"completion_date,omitempty"`
}

// Create inserts an enrollment. A duplicate-key error on the (user_id,
// course_id) unique index comes back as domain.ErrAlreadyEnrolled.
func (r *EnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEnrollment{
		UserID:          e.UserID,
		CourseID:        e.CourseID,
		PaymentIntentID: e.PaymentIntentID,
		EnrolledAt:      e.EnrolledAt,
		Status:          e.Status,
		Method:          e.Method,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}

	created := *e
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *EnrollmentRepository) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var me mongoEnrollment
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "course_id": courseID}).Decode(&me)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return me.toDomain(), nil
}

func (r *EnrollmentRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer cur.Close(ctx)

	var enrollments []*domain.Enrollment
	for cur.Next(ctx) {
		var me mongoEnrollment
		if err := cur.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode enrollment: %w", err)
		}
		enrollments = append(enrollments, me.toDomain())
	}
	return enrollments, cur.Err()
}

// EnsureIndexes creates the unique compound index that makes enrollment
// creation race-safe across the client-confirmation and webhook paths.
func (r *EnrollmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "paymentIntentId", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (me *mongoEnrollment) toDomain() *domain.Enrollment {
	return &domain.Enrollment{
		ID:              me.ID.Hex(),
		UserID:          me.UserID,
		CourseID:        me.CourseID,
		PaymentIntentID: me.PaymentIntentID,
		EnrolledAt:      me.EnrolledAt,
		Status:          me.Status,
		Method:          me.Method,
		CompletedAt:     me.CompletedAt,
	}
}
