package dto

import "time"

type PhotoResponse struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	SRC            string    `json:"src"`
	Caption        string    `json:"caption"`
	Category       string    `json:"category"`
	Likes          int       `json:"likes"`
	AllowDownload  bool      `json:"allow_download"`
	UploaderName   string    `json:"uploader_name"`
	UploaderAvatar string    `json:"uploader_avatar"`
	CreatedAt      time.Time `json:"created_at"`
	UserHasLiked   bool      `json:"user_has_liked"`
}

type PhotoListResponse struct {
	Items   []PhotoResponse `json:"items"`
	Page    int             `json:"page"`
	HasMore bool            `json:"has_more"`
}
