package model

import "time"

// Account roles stored in users.role and carried in the JWT "role" claim.
const (
    RoleAdmin = "admin"
    RoleUser  = "user"
)

// User represents an application account as stored in the `users` table.
// Handlers never serialise it directly.
//
// Fields:
//  ID           – uuid primary key.
//  Email        – unique, lower-cased address.
//  PasswordHash – bcrypt hash.
//  Role         – admin or user.
//  IsActive     – whether the account may log in.
type User struct {
    ID           string    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// Profile is the customer directory entry created at registration. Staff
// bookings are linked to accounts by matching Profile.Email.
type Profile struct {
    ID        string    `json:"id"`
    UserID    string    `json:"user_id"`
    Email     string    `json:"email"`
    FullName  *string   `json:"full_name"`
    Phone     *string   `json:"phone"`
    CreatedAt time.Time `json:"created_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the token value is stored.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    string     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
