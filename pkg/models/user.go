package models

import "go.mongodb.org/mongo-driver/v2/bson"

// User is a chat end-user document from the users collection.
type User struct {
	ID       bson.ObjectID `bson:"_id" json:"_id"`
	Name     string        `bson:"name,omitempty" json:"name,omitempty"`
	Username string        `bson:"username,omitempty" json:"username,omitempty"`
	Email    string        `bson:"email,omitempty" json:"email,omitempty"`
}

// UserRef is the author reference stored on User messages: the stringified
// users._id, not an ObjectID. The reference is weak - a ref that resolves to
// no user renders as a null user in responses, never as an error.
type UserRef string

// NewUserRef builds a UserRef from a user document ID.
func NewUserRef(id bson.ObjectID) UserRef {
	return UserRef(id.Hex())
}

// ObjectID parses the ref back into an ObjectID. Returns false for refs that
// are empty or not valid hex.
func (r UserRef) ObjectID() (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(string(r))
	if err != nil {
		return bson.ObjectID{}, false
	}
	return id, true
}

// IsZero reports whether the ref is unset.
func (r UserRef) IsZero() bool {
	return r == ""
}
