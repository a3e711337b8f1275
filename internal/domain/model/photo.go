package model

import (
	"time"

	"github.com/acedreamer/onam-photo-hub/internal/domain/enums"
)

type Photo struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	SRC            string         `json:"src"`
	Caption        string         `json:"caption"`
	Category       enums.Category `json:"category"`
	Likes          int            `json:"likes"`
	MediaID        string         `json:"media_id"`
	AllowDownload  bool           `json:"allow_download"`
	UploaderName   string         `json:"uploader_name"`
	UploaderAvatar string         `json:"uploader_avatar"`
	CreatedAt      time.Time      `json:"created_at"`

	// UserHasLiked is derived for the current viewer from the likes relation.
	// It is never persisted on the photo record.
	UserHasLiked bool `json:"user_has_liked"`
}
