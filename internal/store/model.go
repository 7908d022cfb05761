package store

import "time"

// Role gates access to the admin surface. Checks are exact-match: admin does
// not implicitly satisfy a reader-required guard.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleReader Role = "reader"
)

// ParseRole maps arbitrary input onto a valid role. Only the literal string
// "admin" elevates; everything else, including padded or cased variants,
// becomes reader.
func ParseRole(value string) Role {
	if value == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleReader
}

// User is a stored account. Exactly one of PasswordHash or LegacyPassword is
// populated; LegacyPassword exists only on records imported before hashing
// and is cleared by the one-way migration in UpdateUserPassword.
type User struct {
	ID             string    `bson:"_id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	PasswordHash   string    `bson:"password_hash,omitempty" json:"-"`
	LegacyPassword string    `bson:"password,omitempty" json:"-"`
	Role           Role      `bson:"role" json:"role"`
	CreatedAt      time.Time `bson:"created_at" json:"-"`
	UpdatedAt      time.Time `bson:"updated_at" json:"-"`
}

// Clone returns an independent copy safe to hand across store boundaries.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}

// Book is a catalog record. Quantity never goes negative: the purchase path
// must fail, not clamp, once stock hits zero.
type Book struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	CoverURL    string    `bson:"cover_url" json:"coverUrl"`
	PublishedAt time.Time `bson:"published_at" json:"publishedAt"`
	Genre       string    `bson:"genre" json:"genre"`
	Author      string    `bson:"author,omitempty" json:"author,omitempty"`
	ISBN        string    `bson:"isbn,omitempty" json:"isbn,omitempty"`
	Quantity    int       `bson:"quantity" json:"quantity"`
	RatingSum   int       `bson:"rating_sum" json:"ratingSum"`
	RatingCount int       `bson:"rating_count" json:"ratingCount"`
	OwnerID     string    `bson:"owner_id,omitempty" json:"owner,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// Clone returns an independent copy safe to hand across store boundaries.
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	copied := *b
	return &copied
}
