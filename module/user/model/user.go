package model

import "time"

// User is the persisted account record. Password holds the bcrypt hash and
// is never serialized back to a client.
type User struct {
	ID         string    `bson:"_id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	Password   string    `bson:"password" json:"-"`
	CreateTime time.Time `bson:"create_time" json:"create_time"`
	UpdateTime time.Time `bson:"update_time" json:"update_time"`
}

func (User) CollectionName() string { return "users" }

// Sanitized returns a copy safe to hand back over HTTP.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
