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
	"github.com/edusphere/elearning-api/internal/core/ports"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	FirstName      string             `bson:"firstName,omitempty"`
	LastName       string             `bson:"lastName,omitempty"`
	LegacyName     string             `bson:"name,omitempty"`
	Email          string             `bson:"email"`
	Password       string             `bson:"password,omitempty"`
	Role           string             `bson:"role,omitempty"`
	Provider       string             `bson:"provider,omitempty"`
	ProfilePicture string             `bson:"profilePicture,omitempty"`
	Phone          string             `bson:"phone,omitempty"`
	Bio            string             `bson:"bio,omitempty"`
	SocialMedia    map[string]string  `bson:"socialMedia,omitempty"`
	HasPassword    bool               `bson:"hasPassword"`
	EmailVerified  *time.Time         `bson:"emailVerified,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Password:       u.PasswordHash,
		Role:           u.Role,
		Provider:       u.Provider,
		ProfilePicture: u.ProfilePicture,
		Phone:          u.Phone,
		Bio:            u.Bio,
		SocialMedia:    u.SocialMedia,
		HasPassword:    u.HasPassword,
		EmailVerified:  u.EmailVerified,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *u
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) UpdateByID(ctx context.Context, id string, upd ports.UserUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.FirstName != nil {
		set["firstName"] = *upd.FirstName
	}
	if upd.LastName != nil {
		set["lastName"] = *upd.LastName
	}
	if upd.PasswordHash != nil {
		set["password"] = *upd.PasswordHash
		set["hasPassword"] = true
	}
	if upd.HasPassword != nil {
		set["hasPassword"] = *upd.HasPassword
	}
	if upd.ProfilePicture != nil {
		set["profilePicture"] = *upd.ProfilePicture
	}
	if upd.Provider != nil {
		set["provider"] = *upd.Provider
	}
	if upd.EmailVerified != nil {
		set["emailVerified"] = *upd.EmailVerified
	}

	update := bson.M{"$set": set}
	if upd.ClearLegacyName {
		update["$unset"] = bson.M{"name": 1, "image": 1}
	}

	res, err := r.col.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// FindLegacyNamed returns pre-migration records: a single name field present,
// no split first name yet.
func (r *UserRepository) FindLegacyNamed(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"name":      bson.M{"$exists": true},
		"firstName": bson.M{"$exists": false},
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find legacy users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode legacy user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	return users, cur.Err()
}

// EnsureIndexes creates the unique email index. This index, not the
// application-level existence check, is the authoritative duplicate guard.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:             mu.ID.Hex(),
		FirstName:      mu.FirstName,
		LastName:       mu.LastName,
		LegacyName:     mu.LegacyName,
		Email:          mu.Email,
		PasswordHash:   mu.Password,
		Role:           mu.Role,
		Provider:       mu.Provider,
		ProfilePicture: mu.ProfilePicture,
		Phone:          mu.Phone,
		Bio:            mu.Bio,
		SocialMedia:    mu.SocialMedia,
		HasPassword:    mu.Password != "",
		EmailVerified:  mu.EmailVerified,
		CreatedAt:      mu.CreatedAt,
		UpdatedAt:      mu.UpdatedAt,
	}
}
