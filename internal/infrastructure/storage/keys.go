package storage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// DocumentKey builds documents/{user_id}/{ulid}.{ext}
func DocumentKey(userID uuid.UUID, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" || ext == "unknown" {
		return fmt.Sprintf("documents/%s/%s", userID, ulid.Make())
	}
	return fmt.Sprintf("documents/%s/%s.%s", userID, ulid.Make(), ext)
}
