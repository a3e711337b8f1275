package dto

type LikedIDsResponse struct {
	PhotoIDs []string `json:"photo_ids"`
}

type LikeToggleResponse struct {
	OK bool `json:"ok"`
}
