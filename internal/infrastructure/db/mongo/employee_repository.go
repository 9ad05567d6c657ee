package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bankabc/backoffice-api/internal/core/domain"
)

const employeeCollection = "employees"

// EmployeeRepository is the Mongo adapter behind the employee directory port.
type EmployeeRepository struct {
	coll *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{coll: db.Collection(employeeCollection)}
}

type employeeDoc struct {
	EmployeeID int32  `bson:"employee_id"`
	UserID     int64  `bson:"user_id,omitempty"`
	FirstName  string `bson:"first_name"`
	LastName   string `bson:"last_name"`
	Email      string `bson:"email,omitempty"`
	Branch     string `bson:"branch,omitempty"`
	Position   string `bson:"position,omitempty"`
	HiredAt    int64  `bson:"hired_at"`
}

func (d employeeDoc) toDomain() domain.Employee {
	return domain.Employee{
		ID:        d.EmployeeID,
		UserID:    d.UserID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Branch:    d.Branch,
		Position:  d.Position,
		HiredAt:   unixToTime(d.HiredAt),
	}
}

// FindByUserID returns the staff record referencing userID. At most one row
// matches; absence comes back as domain.ErrEmployeeNotFound.
func (r *EmployeeRepository) FindByUserID(ctx context.Context, userID int64) (*domain.Employee, error) {
	var doc employeeDoc
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("%w: find employee: %v", domain.ErrDirectoryUnavailable, err)
	}
	emp := doc.toDomain()
	return &emp, nil
}

// List returns all staff records ordered by employee id.
func (r *EmployeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "employee_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: list employees: %v", domain.ErrDirectoryUnavailable, err)
	}
	defer cursor.Close(ctx)

	var employees []domain.Employee
	for cursor.Next(ctx) {
		var doc employeeDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode employee: %v", domain.ErrDirectoryUnavailable, err)
		}
		employees = append(employees, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate employees: %v", domain.ErrDirectoryUnavailable, err)
	}
	return employees, nil
}
