package files

type uploadResponse struct {
	Success bool   `json:"success"`
	FileURL string `json:"fileUrl"`
}
