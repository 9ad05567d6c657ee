package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bankabc/backoffice-api/internal/core/domain"
)

const customerCollection = "customers"

// CustomerRepository is the Mongo adapter behind the customer profile port.
type CustomerRepository struct {
	coll *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{coll: db.Collection(customerCollection)}
}

type customerDoc struct {
	CustomerID  int64  `bson:"customer_id"`
	Name        string `bson:"cust_name"`
	Email       string `bson:"email"`
	DateOfBirth int64  `bson:"dob"`
	Phone       string `bson:"phone"`
	Address     string `bson:"address"`
	UpdatedAt   int64  `bson:"updated_at"`
}

func (d customerDoc) toDomain() domain.Customer {
	return domain.Customer{
		ID:          d.CustomerID,
		Name:        d.Name,
		Email:       d.Email,
		DateOfBirth: unixToTime(d.DateOfBirth),
		Phone:       d.Phone,
		Address:     d.Address,
		UpdatedAt:   unixToTime(d.UpdatedAt),
	}
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var doc customerDoc
	if err := r.coll.FindOne(ctx, bson.M{"customer_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("%w: find customer: %v", domain.ErrDirectoryUnavailable, err)
	}
	customer := doc.toDomain()
	return &customer, nil
}

// Update applies the mutable profile fields and returns the updated row.
func (r *CustomerRepository) Update(ctx context.Context, id int64, upd domain.CustomerUpdate) (*domain.Customer, error) {
	set := bson.M{
		"cust_name":  upd.Name,
		"email":      upd.Email,
		"dob":        upd.DateOfBirth.Unix(),
		"phone":      upd.Phone,
		"address":    upd.Address,
		"updated_at": time.Now().UTC().Unix(),
	}

	var doc customerDoc
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"customer_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("%w: update customer: %v", domain.ErrDirectoryUnavailable, err)
	}
	customer := doc.toDomain()
	return &customer, nil
}
