package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a shipping address owned by exactly one user.
type Address struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userId" json:"user_id"`
	Alamat    string             `bson:"alamat" json:"alamat"`
	Latitude  *float64           `bson:"latitude,omitempty" json:"latitude"`
	Longitude *float64           `bson:"longitude,omitempty" json:"longitude"`
	Accuracy  *Accuracy          `bson:"accuracy,omitempty" json:"accuracy"`
	CreatedAt time.Time          `bson:"createdAt" json:"created_at"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updated_at"`
}

// Accuracy is kept verbatim; deployments disagree on whether it is meters or text.
// Clients may send it as a JSON string or a JSON number. A number keeps its literal text.
type Accuracy string

func (a *Accuracy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Accuracy(s)
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("accuracy must be a string or a number: %w", err)
	}
	*a = Accuracy(n.String())
	return nil
}

// Nullable tells an absent JSON key (Set false) apart from an explicit null
// (Set true, Value nil).
type Nullable[T any] struct {
	Set   bool
	Value *T
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(bytes.TrimSpace(data)) == "null" {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// NullableOf is a present, non-null value.
func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null is a present null, which clears the stored value.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

type AddressUpdate struct {
	Alamat    *string
	Latitude  Nullable[float64]
	Longitude Nullable[float64]
	Accuracy  Nullable[Accuracy]
}
