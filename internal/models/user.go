package models

// User is a registered account. Password holds the salted hash and is never
// serialized; use Public before writing a user to a response.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
	IsAdmin  bool   `json:"isAdmin"`
}

// NewUser is the insert payload for a user. Password must already be hashed.
type NewUser struct {
	Username string
	Password string
	IsAdmin  bool
}

// PublicUser is a User with the password stripped.
type PublicUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Public strips the password hash.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin}
}

// PublicUsers strips the password hash from every user.
func PublicUsers(users []User) []PublicUser {
	out := make([]PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out
}
