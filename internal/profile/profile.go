package profile

import (
	"estante/internal/library"
	"estante/internal/user"
)

// Profile pairs a user with their reading stats.
type Profile struct {
	User  user.User     `json:"user"`
	Stats library.Stats `json:"stats"`
}
